package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/entries-go/internal/application/behaviours"
	"github.com/andrescamacho/entries-go/internal/application/mediator"
	"github.com/andrescamacho/entries-go/internal/application/validation"
)

type pingQuery struct {
	mediator.Query[mediator.Result[string]]
	Message string
}

type recordCommand struct {
	mediator.Command[mediator.Result[int]]
	Name   string `json:"name" validate:"required"`
	Amount int    `json:"amount" validate:"gt=0"`
}

type mediatorPipelineContext struct {
	mu    sync.Mutex
	trace []string

	mediator       *mediator.Mediator
	handlerCalls   int
	handlerFailure string
	handlerPanics  bool

	result      mediator.Envelope
	dispatchErr error
	registerErr error
}

func (ctx *mediatorPipelineContext) reset() {
	ctx.trace = nil
	ctx.mediator = nil
	ctx.handlerCalls = 0
	ctx.handlerFailure = ""
	ctx.handlerPanics = false
	ctx.result = nil
	ctx.dispatchErr = nil
	ctx.registerErr = nil
}

func (ctx *mediatorPipelineContext) record(step string) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.trace = append(ctx.trace, step)
}

func (ctx *mediatorPipelineContext) pingHandler() mediator.HandlerFunc[*pingQuery, mediator.Result[string]] {
	return func(_ context.Context, q *pingQuery) (mediator.Result[string], error) {
		ctx.handlerCalls++
		ctx.record("handler")
		return mediator.Success(http.StatusOK, q.Message), nil
	}
}

func (ctx *mediatorPipelineContext) recordHandler() mediator.HandlerFunc[*recordCommand, mediator.Result[int]] {
	return func(_ context.Context, c *recordCommand) (mediator.Result[int], error) {
		ctx.handlerCalls++
		ctx.record("handler")
		if ctx.handlerPanics {
			panic("record handler exploded")
		}
		if ctx.handlerFailure != "" {
			return mediator.Result[int]{}, errors.New(ctx.handlerFailure)
		}
		return mediator.Success(http.StatusCreated, c.Amount), nil
	}
}

func (ctx *mediatorPipelineContext) tracingBehaviour(name string) mediator.Behaviour {
	return mediator.BehaviourFunc(func(c context.Context, _ mediator.RequestInfo, _ any, next mediator.Next) (any, error) {
		ctx.record(name + ":before")
		result, err := next(c)
		ctx.record(name + ":after")
		return result, err
	})
}

// Given steps

func (ctx *mediatorPipelineContext) anEmptyMediator() error {
	ctx.mediator = mediator.NewMediator()
	return nil
}

func (ctx *mediatorPipelineContext) aMediatorWithAPingHandler() error {
	ctx.mediator = mediator.NewMediator()
	return mediator.Register(ctx.mediator, ctx.pingHandler())
}

func (ctx *mediatorPipelineContext) aMediatorWithARecordHandlerAndTheStandardPipeline() error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	validators := validation.NewSet()
	validation.AddValidator[*recordCommand](validators, validation.NewStructValidator[*recordCommand](validation.NewValidate()))

	ctx.mediator = mediator.NewMediator()
	if err := mediator.Register(ctx.mediator, ctx.recordHandler()); err != nil {
		return err
	}
	if err := ctx.mediator.Use(behaviours.NewLogging(logger)); err != nil {
		return err
	}
	if err := ctx.mediator.Use(behaviours.NewExceptionHandling(logger)); err != nil {
		return err
	}
	return ctx.mediator.Use(behaviours.NewValidation(validators, logger), mediator.CommandsOnly)
}

func (ctx *mediatorPipelineContext) behavioursAreRegisteredInThatOrder(names string) error {
	for _, name := range splitList(names) {
		if err := ctx.mediator.Use(ctx.tracingBehaviour(name)); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *mediatorPipelineContext) aGateBehaviourThatRejectsRequestsWithStatus(status int) error {
	return ctx.mediator.Use(mediator.BehaviourFunc(func(_ context.Context, info mediator.RequestInfo, _ any, _ mediator.Next) (any, error) {
		ctx.record("gate")
		failure, ok := info.Failure(status, "request rejected")
		if !ok {
			return nil, fmt.Errorf("%s has no failure envelope", info.Name)
		}
		return failure, nil
	}))
}

func (ctx *mediatorPipelineContext) aCommandOnlyBehaviour(name string) error {
	return ctx.mediator.Use(ctx.tracingBehaviour(name), mediator.CommandsOnly)
}

func (ctx *mediatorPipelineContext) theRecordHandlerFailsWith(message string) error {
	ctx.handlerFailure = message
	return nil
}

func (ctx *mediatorPipelineContext) theRecordHandlerPanics() error {
	ctx.handlerPanics = true
	return nil
}

// When steps

func (ctx *mediatorPipelineContext) iSendAPingQueryWithMessage(message string) error {
	result, err := mediator.Send(context.Background(), ctx.mediator, &pingQuery{Message: message})
	ctx.dispatchErr = err
	if err == nil {
		ctx.result = result
	}
	return nil
}

func (ctx *mediatorPipelineContext) iSendARecordCommandWithNameAndAmount(name string, amount int) error {
	result, err := mediator.Send(context.Background(), ctx.mediator, &recordCommand{Name: name, Amount: amount})
	ctx.dispatchErr = err
	if err == nil {
		ctx.result = result
	}
	return nil
}

func (ctx *mediatorPipelineContext) iSendARecordCommandWithACancelledContext() error {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, ctx.dispatchErr = mediator.Send(cancelled, ctx.mediator, &recordCommand{Name: "late", Amount: 1})
	return nil
}

func (ctx *mediatorPipelineContext) iRegisterAnotherPingHandler() error {
	ctx.registerErr = mediator.Register(ctx.mediator, ctx.pingHandler())
	return nil
}

// Then steps

func (ctx *mediatorPipelineContext) thePingResultShouldSucceedWithData(data string) error {
	if ctx.dispatchErr != nil {
		return fmt.Errorf("expected success but got error: %v", ctx.dispatchErr)
	}
	result, ok := ctx.result.(mediator.Result[string])
	if !ok {
		return fmt.Errorf("expected a ping result but got %T", ctx.result)
	}
	if !result.IsSuccess() {
		return fmt.Errorf("expected success but got failure: %v", result.Errors())
	}
	if result.Data() != data {
		return fmt.Errorf("expected data %q but got %q", data, result.Data())
	}
	return nil
}

func (ctx *mediatorPipelineContext) thePipelineResultShouldFailWithStatus(status int) error {
	if ctx.dispatchErr != nil {
		return fmt.Errorf("expected a failure result but got error: %v", ctx.dispatchErr)
	}
	if ctx.result == nil {
		return fmt.Errorf("no result received")
	}
	if ctx.result.IsSuccess() {
		return fmt.Errorf("expected failure but result succeeded")
	}
	if ctx.result.StatusCode() != status {
		return fmt.Errorf("expected status %d but got %d", status, ctx.result.StatusCode())
	}
	if len(ctx.result.Errors()) == 0 {
		return fmt.Errorf("failure result carries no error messages")
	}
	return nil
}

func (ctx *mediatorPipelineContext) thePipelineErrorsShouldBe(table *godog.Table) error {
	expected := columnValues(table, "message")
	actual := ctx.result.Errors()

	if len(expected) != len(actual) {
		return fmt.Errorf("expected errors %v but got %v", expected, actual)
	}
	for _, msg := range expected {
		if !slices.Contains(actual, msg) {
			return fmt.Errorf("expected error %q in %v", msg, actual)
		}
	}
	return nil
}

func (ctx *mediatorPipelineContext) theExecutionTraceShouldBe(expected string) error {
	want := splitList(expected)
	if !slices.Equal(want, ctx.trace) {
		return fmt.Errorf("expected trace %v but got %v", want, ctx.trace)
	}
	return nil
}

func (ctx *mediatorPipelineContext) theHandlerShouldNotHaveBeenInvoked() error {
	if ctx.handlerCalls != 0 {
		return fmt.Errorf("expected handler not to run but it ran %d times", ctx.handlerCalls)
	}
	return nil
}

func (ctx *mediatorPipelineContext) theDispatchErrorShouldBe(message string) error {
	if ctx.dispatchErr == nil {
		return fmt.Errorf("expected error %q but dispatch succeeded", message)
	}
	if ctx.dispatchErr.Error() != message {
		return fmt.Errorf("expected error %q but got %q", message, ctx.dispatchErr.Error())
	}
	return nil
}

func (ctx *mediatorPipelineContext) theDispatchErrorShouldContain(fragment string) error {
	if ctx.dispatchErr == nil {
		return fmt.Errorf("expected error containing %q but dispatch succeeded", fragment)
	}
	if !strings.Contains(ctx.dispatchErr.Error(), fragment) {
		return fmt.Errorf("expected error containing %q but got %q", fragment, ctx.dispatchErr.Error())
	}
	return nil
}

func (ctx *mediatorPipelineContext) theRegistrationShouldFailWithADuplicateError() error {
	if !errors.Is(ctx.registerErr, mediator.ErrDuplicateRegistration) {
		return fmt.Errorf("expected duplicate registration error but got %v", ctx.registerErr)
	}
	return nil
}

// InitializeMediatorPipelineScenario registers the mediator dispatch and behaviour steps
func InitializeMediatorPipelineScenario(ctx *godog.ScenarioContext) {
	pipelineCtx := &mediatorPipelineContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pipelineCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty mediator$`, pipelineCtx.anEmptyMediator)
	ctx.Step(`^a mediator with a ping handler$`, pipelineCtx.aMediatorWithAPingHandler)
	ctx.Step(`^a mediator with a record handler and the standard pipeline$`, pipelineCtx.aMediatorWithARecordHandlerAndTheStandardPipeline)
	ctx.Step(`^behaviours "([^"]*)" are registered in that order$`, pipelineCtx.behavioursAreRegisteredInThatOrder)
	ctx.Step(`^a gate behaviour that rejects requests with status (\d+)$`, pipelineCtx.aGateBehaviourThatRejectsRequestsWithStatus)
	ctx.Step(`^a command-only behaviour "([^"]*)"$`, pipelineCtx.aCommandOnlyBehaviour)
	ctx.Step(`^the record handler fails with "([^"]*)"$`, pipelineCtx.theRecordHandlerFailsWith)
	ctx.Step(`^the record handler panics$`, pipelineCtx.theRecordHandlerPanics)

	ctx.Step(`^I send a ping query with message "([^"]*)"$`, pipelineCtx.iSendAPingQueryWithMessage)
	ctx.Step(`^I send a record command with name "([^"]*)" and amount (-?\d+)$`, pipelineCtx.iSendARecordCommandWithNameAndAmount)
	ctx.Step(`^I send a record command with a cancelled context$`, pipelineCtx.iSendARecordCommandWithACancelledContext)
	ctx.Step(`^I register another ping handler$`, pipelineCtx.iRegisterAnotherPingHandler)

	ctx.Step(`^the ping result should succeed with data "([^"]*)"$`, pipelineCtx.thePingResultShouldSucceedWithData)
	ctx.Step(`^the pipeline result should fail with status (\d+)$`, pipelineCtx.thePipelineResultShouldFailWithStatus)
	ctx.Step(`^the pipeline errors should be:$`, pipelineCtx.thePipelineErrorsShouldBe)
	ctx.Step(`^the execution trace should be "([^"]*)"$`, pipelineCtx.theExecutionTraceShouldBe)
	ctx.Step(`^the handler should not have been invoked$`, pipelineCtx.theHandlerShouldNotHaveBeenInvoked)
	ctx.Step(`^the dispatch error should be "([^"]*)"$`, pipelineCtx.theDispatchErrorShouldBe)
	ctx.Step(`^the dispatch error should contain "([^"]*)"$`, pipelineCtx.theDispatchErrorShouldContain)
	ctx.Step(`^the registration should fail with a duplicate error$`, pipelineCtx.theRegistrationShouldFailWithADuplicateError)
}
