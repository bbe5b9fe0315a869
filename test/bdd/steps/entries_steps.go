package steps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/entries-go/internal/adapters/persistence"
	"github.com/andrescamacho/entries-go/internal/application/entry/commands"
	"github.com/andrescamacho/entries-go/internal/application/entry/queries"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/setup"
	"github.com/andrescamacho/entries-go/test/helpers"
)

type entriesContext struct {
	mediator *mediator.Mediator

	result       mediator.Envelope
	listed       []queries.EntryDTO
	rowsAffected int64
	err          error
}

func (ctx *entriesContext) reset() {
	ctx.mediator = nil
	ctx.result = nil
	ctx.listed = nil
	ctx.rowsAffected = 0
	ctx.err = nil
}

// Given steps

func (ctx *entriesContext) theEntriesServiceIsBackedByTheSharedDatabase() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := persistence.NewGormEntryRepository(helpers.SharedTestDB)

	m, err := setup.NewHandlerRegistry(repo, nil, logger).CreateConfiguredMediator(setup.PipelineOptions{})
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	ctx.mediator = m
	return nil
}

func (ctx *entriesContext) theFollowingEntriesExist(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}

		amount, err := decimal.NewFromString(getCellValueFromTable(table, row, "amount"))
		if err != nil {
			return fmt.Errorf("row %d: invalid amount: %w", i, err)
		}
		date, err := time.Parse(time.DateOnly, getCellValueFromTable(table, row, "date"))
		if err != nil {
			return fmt.Errorf("row %d: invalid date: %w", i, err)
		}

		result, err := mediator.Send(context.Background(), ctx.mediator, &commands.CreateEntryCommand{
			Title:  getCellValueFromTable(table, row, "title"),
			Amount: amount,
			Date:   date,
		})
		if err != nil {
			return err
		}
		if !result.IsSuccess() {
			return fmt.Errorf("row %d: failed to seed entry: %v", i, result.Errors())
		}
	}
	return nil
}

// When steps

func (ctx *entriesContext) iCreateAnEntryTitledWithAmount(title, amount string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	result, err := mediator.Send(context.Background(), ctx.mediator, &commands.CreateEntryCommand{
		Title:  title,
		Amount: value,
	})
	ctx.result, ctx.err = result, err
	return nil
}

func (ctx *entriesContext) iListTheEntries() error {
	return ctx.list(&queries.GetEntriesQuery{})
}

func (ctx *entriesContext) iListTheEntriesWithLimitAndOffset(limit, offset int) error {
	return ctx.list(&queries.GetEntriesQuery{Limit: limit, Offset: offset})
}

func (ctx *entriesContext) list(query *queries.GetEntriesQuery) error {
	result, err := mediator.Send(context.Background(), ctx.mediator, query)
	ctx.result, ctx.err = result, err
	if err == nil {
		ctx.listed = result.Data()
	}
	return nil
}

func (ctx *entriesContext) iRenameEntryTo(title, newTitle string) error {
	e, err := ctx.findByTitle(title)
	if err != nil {
		return err
	}
	return ctx.update(e.ID, newTitle)
}

func (ctx *entriesContext) iRenameAnUnknownEntryTo(newTitle string) error {
	return ctx.update(uuid.NewString(), newTitle)
}

func (ctx *entriesContext) update(id, newTitle string) error {
	result, err := mediator.Send(context.Background(), ctx.mediator, &commands.UpdateEntryCommand{
		ID:    id,
		Title: &newTitle,
	})
	ctx.result, ctx.err = result, err
	if err == nil {
		ctx.rowsAffected = result.Data().RowsAffected
	}
	return nil
}

func (ctx *entriesContext) iDeleteEntry(title string) error {
	// Resolved ids are remembered so a repeated delete targets the same entry
	id, err := ctx.idFor(title)
	if err != nil {
		return err
	}

	result, err := mediator.Send(context.Background(), ctx.mediator, &commands.DeleteEntryCommand{ID: id})
	ctx.result, ctx.err = result, err
	if err == nil {
		ctx.rowsAffected = result.Data().RowsAffected
	}
	return nil
}

// Then steps

func (ctx *entriesContext) theEntryRequestShouldSucceedWithStatus(status int) error {
	if err := ctx.received(); err != nil {
		return err
	}
	if !ctx.result.IsSuccess() {
		return fmt.Errorf("expected success but got failure: %v", ctx.result.Errors())
	}
	if ctx.result.StatusCode() != status {
		return fmt.Errorf("expected status %d but got %d", status, ctx.result.StatusCode())
	}
	return nil
}

func (ctx *entriesContext) theEntryRequestShouldFailWithStatus(status int) error {
	if err := ctx.received(); err != nil {
		return err
	}
	if ctx.result.IsSuccess() {
		return fmt.Errorf("expected failure but request succeeded")
	}
	if ctx.result.StatusCode() != status {
		return fmt.Errorf("expected status %d but got %d", status, ctx.result.StatusCode())
	}
	return nil
}

func (ctx *entriesContext) theEntryErrorsShouldInclude(message string) error {
	if err := ctx.received(); err != nil {
		return err
	}
	if !slices.Contains(ctx.result.Errors(), message) {
		return fmt.Errorf("expected error %q in %v", message, ctx.result.Errors())
	}
	return nil
}

func (ctx *entriesContext) theLedgerShouldContainEntries(count int) error {
	var actual int64
	if err := helpers.SharedTestDB.Model(&persistence.EntryModel{}).Count(&actual).Error; err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}
	if actual != int64(count) {
		return fmt.Errorf("expected %d entries but found %d", count, actual)
	}
	return nil
}

func (ctx *entriesContext) theEntriesShouldBeListedAs(expected string) error {
	titles := make([]string, 0, len(ctx.listed))
	for _, e := range ctx.listed {
		titles = append(titles, e.Title)
	}

	want := splitList(expected)
	if !slices.Equal(want, titles) {
		return fmt.Errorf("expected entries %s but got %s", strings.Join(want, ", "), strings.Join(titles, ", "))
	}
	return nil
}

func (ctx *entriesContext) entryShouldHaveAmount(title, amount string) error {
	e, err := ctx.findByTitle(title)
	if err != nil {
		return err
	}
	want := decimal.RequireFromString(amount)
	if !e.Amount.Equal(want) {
		return fmt.Errorf("expected entry %q to have amount %s but got %s", title, want, e.Amount)
	}
	return nil
}

func (ctx *entriesContext) rowsShouldHaveBeenAffected(count int) error {
	if ctx.rowsAffected != int64(count) {
		return fmt.Errorf("expected %d rows affected but got %d", count, ctx.rowsAffected)
	}
	return nil
}

// Helpers

func (ctx *entriesContext) received() error {
	if ctx.err != nil {
		return fmt.Errorf("request failed with error: %w", ctx.err)
	}
	if ctx.result == nil {
		return fmt.Errorf("no result received")
	}
	return nil
}

func (ctx *entriesContext) findByTitle(title string) (queries.EntryDTO, error) {
	result, err := mediator.Send(context.Background(), ctx.mediator, &queries.GetEntriesQuery{})
	if err != nil {
		return queries.EntryDTO{}, err
	}
	for _, e := range result.Data() {
		if e.Title == title {
			return e, nil
		}
	}
	return queries.EntryDTO{}, fmt.Errorf("entry %q not found", title)
}

func (ctx *entriesContext) idFor(title string) (string, error) {
	for _, e := range ctx.listed {
		if e.Title == title {
			return e.ID, nil
		}
	}

	e, err := ctx.findByTitle(title)
	if err != nil {
		return "", err
	}
	ctx.listed = append(ctx.listed, e)
	return e.ID, nil
}

// InitializeEntriesScenario registers the ledger entry steps
func InitializeEntriesScenario(ctx *godog.ScenarioContext) {
	entriesCtx := &entriesContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		entriesCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^the entries service is backed by the shared database$`, entriesCtx.theEntriesServiceIsBackedByTheSharedDatabase)
	ctx.Step(`^the following entries exist:$`, entriesCtx.theFollowingEntriesExist)

	ctx.Step(`^I create an entry titled "([^"]*)" with amount "([^"]*)"$`, entriesCtx.iCreateAnEntryTitledWithAmount)
	ctx.Step(`^I list the entries$`, entriesCtx.iListTheEntries)
	ctx.Step(`^I list the entries with limit (\d+) and offset (\d+)$`, entriesCtx.iListTheEntriesWithLimitAndOffset)
	ctx.Step(`^I rename entry "([^"]*)" to "([^"]*)"$`, entriesCtx.iRenameEntryTo)
	ctx.Step(`^I rename an unknown entry to "([^"]*)"$`, entriesCtx.iRenameAnUnknownEntryTo)
	ctx.Step(`^I delete entry "([^"]*)"$`, entriesCtx.iDeleteEntry)

	ctx.Step(`^the entry request should succeed with status (\d+)$`, entriesCtx.theEntryRequestShouldSucceedWithStatus)
	ctx.Step(`^the entry request should fail with status (\d+)$`, entriesCtx.theEntryRequestShouldFailWithStatus)
	ctx.Step(`^the entry errors should include "([^"]*)"$`, entriesCtx.theEntryErrorsShouldInclude)
	ctx.Step(`^the ledger should contain (\d+) entries$`, entriesCtx.theLedgerShouldContainEntries)
	ctx.Step(`^the entries should be listed as "([^"]*)"$`, entriesCtx.theEntriesShouldBeListedAs)
	ctx.Step(`^entry "([^"]*)" should have amount "([^"]*)"$`, entriesCtx.entryShouldHaveAmount)
	ctx.Step(`^(\d+) rows should have been affected$`, entriesCtx.rowsShouldHaveBeenAffected)
}
