package bdd

import (
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/entries-go/test/bdd/steps"
	"github.com/andrescamacho/entries-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/application", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeMediatorPipelineScenario(sc)
	steps.InitializeEntriesScenario(sc)
}

func TestMain(m *testing.M) {
	if err := helpers.InitializeSharedTestDB(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize shared test database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if err := helpers.CloseSharedTestDB(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close shared test database: %v\n", err)
	}

	os.Exit(code)
}
