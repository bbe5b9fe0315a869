package cli_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/adapters/cli"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useSQLite(t *testing.T, driver string) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ENTRIES_DATABASE_TYPE", "sqlite")
	t.Setenv("ENTRIES_DATABASE_DRIVER", driver)
	t.Setenv("ENTRIES_DATABASE_PATH", filepath.Join(t.TempDir(), "entries.db"))
}

func TestEntryLifecycle(t *testing.T) {
	for _, driver := range []string{"gorm", "sqlx"} {
		t.Run(driver, func(t *testing.T) {
			// Arrange
			useSQLite(t, driver)
			_, err := run(t, "migrate")
			require.NoError(t, err)

			// Act - create
			out, err := run(t, "entry", "create", "--title", "Salary", "--amount", "2500.75", "--date", "2024-05-01")
			require.NoError(t, err, out)
			require.Contains(t, out, "Entry created: ")
			id := strings.TrimSpace(out[strings.Index(out, ": ")+2:])

			// Act - list
			out, err = run(t, "entry", "list", "--json")
			require.NoError(t, err, out)
			var listed []map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &listed))

			// Assert
			require.Len(t, listed, 1)
			assert.Equal(t, id, listed[0]["id"])
			assert.Equal(t, "Salary", listed[0]["title"])

			// Act - update and delete
			out, err = run(t, "entry", "update", id, "--title", "Salary (net)")
			require.NoError(t, err, out)
			assert.Contains(t, out, "1 row(s) affected")

			out, err = run(t, "entry", "list")
			require.NoError(t, err)
			assert.Contains(t, out, "Salary (net)")

			out, err = run(t, "entry", "delete", id)
			require.NoError(t, err, out)
			assert.Contains(t, out, "1 row(s) affected")

			out, err = run(t, "entry", "list")
			require.NoError(t, err)
			assert.Contains(t, out, "No entries found")
		})
	}
}

func TestEntryCreate_ValidationFailure(t *testing.T) {
	useSQLite(t, "gorm")

	_, err := run(t, "entry", "create", "--title", "Refund", "--amount", "-5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "amount must be greater than 0")
}

func TestEntryUpdate_UnknownEntry(t *testing.T) {
	useSQLite(t, "sqlx")

	_, err := run(t, "entry", "update", "0b6f8f6e-4a2f-4b0c-9f7e-0c1d2e3f4a5b", "--title", "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestConfigShow_MasksPassword(t *testing.T) {
	t.Setenv("ENTRIES_DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgresql://ledger:s3cret@db:5432/entries")

	out, err := run(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "postgresql://ledger:****@db:5432/entries")
	assert.NotContains(t, out, "s3cret")
}
