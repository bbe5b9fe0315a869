package mediator_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

type recorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *recorder) add(step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

func (r *recorder) behaviour(name string) mediator.Behaviour {
	return mediator.BehaviourFunc(func(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
		r.add(name + ":before")
		result, err := next(ctx)
		r.add(name + ":after")
		return result, err
	})
}

func newRecordingMediator(t *testing.T, rec *recorder) *mediator.Mediator {
	t.Helper()
	m := mediator.NewMediator()
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[*pingQuery, mediator.Result[string]](
		func(ctx context.Context, q *pingQuery) (mediator.Result[string], error) {
			rec.add("handler")
			return mediator.Success(200, q.Message), nil
		})))
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[*renameCommand, mediator.Result[int]](
		func(ctx context.Context, c *renameCommand) (mediator.Result[int], error) {
			rec.add("handler")
			return mediator.Success(200, 1), nil
		})))
	return m
}

func TestPipeline_FirstRegisteredBehaviourIsOutermost(t *testing.T) {
	// Arrange
	rec := &recorder{}
	m := newRecordingMediator(t, rec)
	require.NoError(t, m.Use(rec.behaviour("A")))
	require.NoError(t, m.Use(rec.behaviour("B")))
	require.NoError(t, m.Use(rec.behaviour("C")))

	// Act
	_, err := mediator.Send(context.Background(), m, &pingQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		"A:before", "B:before", "C:before",
		"handler",
		"C:after", "B:after", "A:after",
	}, rec.steps)
}

func TestPipeline_EmptyChainCallsHandlerDirectly(t *testing.T) {
	rec := &recorder{}
	m := newRecordingMediator(t, rec)

	result, err := mediator.Send(context.Background(), m, &pingQuery{Message: "direct"})

	require.NoError(t, err)
	assert.Equal(t, "direct", result.Data())
	assert.Equal(t, []string{"handler"}, rec.steps)
}

func TestPipeline_ShortCircuitSkipsHandler(t *testing.T) {
	// Arrange
	rec := &recorder{}
	m := newRecordingMediator(t, rec)
	require.NoError(t, m.Use(rec.behaviour("outer")))
	require.NoError(t, m.Use(mediator.BehaviourFunc(func(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
		rec.add("gate")
		failure, ok := info.Failure(403, "blocked")
		require.True(t, ok)
		return failure, nil
	})))

	// Act
	result, err := mediator.Send(context.Background(), m, &pingQuery{})

	// Assert
	require.NoError(t, err)
	assert.False(t, result.IsSuccess())
	assert.Equal(t, 403, result.StatusCode())
	assert.Equal(t, []string{"blocked"}, result.Errors())
	assert.Equal(t, []string{"outer:before", "gate", "outer:after"}, rec.steps)
}

func TestPipeline_AppliesFiltersByKind(t *testing.T) {
	// Arrange
	rec := &recorder{}
	m := newRecordingMediator(t, rec)
	require.NoError(t, m.Use(rec.behaviour("cmd"), mediator.CommandsOnly))
	require.NoError(t, m.Use(rec.behaviour("qry"), mediator.QueriesOnly))

	// Act
	_, err := mediator.Send(context.Background(), m, &renameCommand{Name: "n"})
	require.NoError(t, err)
	commandSteps := append([]string(nil), rec.steps...)
	rec.steps = nil

	_, err = mediator.Send(context.Background(), m, &pingQuery{})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"cmd:before", "handler", "cmd:after"}, commandSteps)
	assert.Equal(t, []string{"qry:before", "handler", "qry:after"}, rec.steps)
}

func TestPipeline_BehaviourSeesRequestInfo(t *testing.T) {
	// Arrange
	rec := &recorder{}
	m := newRecordingMediator(t, rec)
	var info mediator.RequestInfo
	var seen any
	require.NoError(t, m.Use(mediator.BehaviourFunc(func(ctx context.Context, i mediator.RequestInfo, request any, next mediator.Next) (any, error) {
		info = i
		seen = request
		return next(ctx)
	})))
	cmd := &renameCommand{Name: "x"}

	// Act
	_, err := mediator.Send(context.Background(), m, cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "renameCommand", info.Name)
	assert.Equal(t, mediator.KindCommand, info.Kind)
	assert.Equal(t, "command", info.Kind.String())
	assert.Same(t, cmd, seen)
}

func TestPipeline_BehaviourFactoryCalledPerDispatch(t *testing.T) {
	// Arrange
	rec := &recorder{}
	m := newRecordingMediator(t, rec)
	created := 0
	require.NoError(t, m.AddBehaviour(mediator.BehaviourRegistration{
		Name: "counting",
		New: func() mediator.Behaviour {
			created++
			return rec.behaviour("counting")
		},
	}))

	// Act
	for i := 0; i < 2; i++ {
		_, err := mediator.Send(context.Background(), m, &pingQuery{})
		require.NoError(t, err)
	}

	// Assert
	assert.Equal(t, 2, created)
}

func TestAddBehaviour_RequiresConstructor(t *testing.T) {
	m := mediator.NewMediator()

	err := m.AddBehaviour(mediator.BehaviourRegistration{Name: "empty"})

	assert.Error(t, err)
}

func TestRequestInfo_FailureForNonEnvelopeResult(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[countQuery, int](
		func(ctx context.Context, q countQuery) (int, error) { return 1, nil })))
	var ok bool
	require.NoError(t, m.Use(mediator.BehaviourFunc(func(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
		_, ok = info.Failure(500, "x")
		return next(ctx)
	})))

	// Act
	_, err := mediator.Send(context.Background(), m, countQuery{})

	// Assert
	require.NoError(t, err)
	assert.False(t, ok)
}
