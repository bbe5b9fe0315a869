package mediator_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/entries-go/internal/application/mediator"
)

type pingQuery struct {
	mediator.Query[mediator.Result[string]]
	Message string
}

type renameCommand struct {
	mediator.Command[mediator.Result[int]]
	Name string
}

type countQuery struct {
	mediator.Query[int]
}

type ctxKey struct{}

func pingHandler(calls *int32, seen *any) mediator.HandlerFunc[*pingQuery, mediator.Result[string]] {
	return func(ctx context.Context, q *pingQuery) (mediator.Result[string], error) {
		atomic.AddInt32(calls, 1)
		if seen != nil {
			*seen = q
		}
		return mediator.Success(200, "pong: "+q.Message), nil
	}
}

func TestSend_RoutesToRegisteredHandler(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var calls int32
	var seen any
	require.NoError(t, mediator.Register(m, pingHandler(&calls, &seen)))

	query := &pingQuery{Message: "hello"}

	// Act
	result, err := mediator.Send(context.Background(), m, query)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	assert.Equal(t, 200, result.StatusCode())
	assert.Equal(t, "pong: hello", result.Data())
	assert.Equal(t, int32(1), calls)
	assert.Same(t, query, seen)
}

func TestSend_PassesCallerContextToHandler(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var got any
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[*renameCommand, mediator.Result[int]](
		func(ctx context.Context, c *renameCommand) (mediator.Result[int], error) {
			got = ctx.Value(ctxKey{})
			return mediator.Success(200, len(c.Name)), nil
		})))

	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")

	// Act
	result, err := mediator.Send(ctx, m, &renameCommand{Name: "abc"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.Data())
	assert.Equal(t, "caller", got)
}

func TestDispatch_HandlerNotFound(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()

	// Act
	result, err := m.Dispatch(context.Background(), &pingQuery{})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrHandlerNotFound)
	assert.Contains(t, err.Error(), "pingQuery")
	assert.Nil(t, result)
}

func TestDispatch_NilRequest(t *testing.T) {
	m := mediator.NewMediator()

	_, err := m.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, mediator.ErrNilRequest)

	var typedNil *pingQuery
	_, err = m.Dispatch(context.Background(), typedNil)
	assert.ErrorIs(t, err, mediator.ErrNilRequest)
}

func TestDispatch_CancelledContextSkipsPipeline(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var calls int32
	require.NoError(t, mediator.Register(m, pingHandler(&calls, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := mediator.Send(ctx, m, &pingQuery{Message: "late"})

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls)
}

func TestRegister_RejectsDuplicatesByDefault(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var calls int32
	require.NoError(t, mediator.Register(m, pingHandler(&calls, nil)))

	// Act
	err := mediator.Register(m, pingHandler(&calls, nil))

	// Assert
	assert.ErrorIs(t, err, mediator.ErrDuplicateRegistration)
}

func TestRegister_ReplacePolicyKeepsLastRegistration(t *testing.T) {
	// Arrange
	m := mediator.NewMediator(mediator.WithDuplicatePolicy(mediator.ReplaceDuplicates))
	var first, second int32
	require.NoError(t, mediator.Register(m, pingHandler(&first, nil)))
	require.NoError(t, mediator.Register(m, pingHandler(&second, nil)))

	// Act
	_, err := mediator.Send(context.Background(), m, &pingQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int32(0), first)
	assert.Equal(t, int32(1), second)
}

func TestRegister_NilHandler(t *testing.T) {
	m := mediator.NewMediator()

	err := mediator.Register[*pingQuery, mediator.Result[string]](m, nil)
	assert.ErrorIs(t, err, mediator.ErrNilHandler)

	err = mediator.RegisterFactory[*pingQuery, mediator.Result[string]](m, nil)
	assert.ErrorIs(t, err, mediator.ErrNilHandler)
}

func TestRegister_SealedAfterFirstDispatch(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var calls int32
	require.NoError(t, mediator.Register(m, pingHandler(&calls, nil)))
	_, err := mediator.Send(context.Background(), m, &pingQuery{})
	require.NoError(t, err)

	// Act
	regErr := mediator.Register(m, mediator.HandlerFunc[*renameCommand, mediator.Result[int]](
		func(ctx context.Context, c *renameCommand) (mediator.Result[int], error) {
			return mediator.Success(200, 0), nil
		}))
	useErr := m.Use(mediator.BehaviourFunc(func(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
		return next(ctx)
	}))

	// Assert
	assert.True(t, m.Sealed())
	assert.ErrorIs(t, regErr, mediator.ErrRegistrySealed)
	assert.ErrorIs(t, useErr, mediator.ErrRegistrySealed)
}

func TestRegisterFactory_CreatesHandlerPerDispatch(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var created, calls int32
	require.NoError(t, mediator.RegisterFactory(m, func() mediator.Handler[*pingQuery, mediator.Result[string]] {
		atomic.AddInt32(&created, 1)
		return pingHandler(&calls, nil)
	}))

	// Act
	for i := 0; i < 3; i++ {
		_, err := mediator.Send(context.Background(), m, &pingQuery{})
		require.NoError(t, err)
	}

	// Assert
	assert.Equal(t, int32(3), created)
	assert.Equal(t, int32(3), calls)
}

func TestSend_NonEnvelopeResult(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[countQuery, int](
		func(ctx context.Context, q countQuery) (int, error) {
			return 42, nil
		})))

	// Act
	n, err := mediator.Send(context.Background(), m, countQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestSend_HandlerErrorIsReturned(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	boom := errors.New("boom")
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[countQuery, int](
		func(ctx context.Context, q countQuery) (int, error) {
			return 0, boom
		})))

	// Act
	_, err := mediator.Send(context.Background(), m, countQuery{})

	// Assert
	assert.ErrorIs(t, err, boom)
}

func TestSend_UnexpectedResultType(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var calls int32
	require.NoError(t, mediator.Register(m, pingHandler(&calls, nil)))
	require.NoError(t, m.Use(mediator.BehaviourFunc(func(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
		return "not an envelope", nil
	})))

	// Act
	_, err := mediator.Send(context.Background(), m, &pingQuery{})

	// Assert
	assert.ErrorIs(t, err, mediator.ErrUnexpectedResult)
}

func TestDispatch_ConcurrentCallsShareRegistry(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var calls int32
	require.NoError(t, mediator.Register(m, pingHandler(&calls, nil)))
	require.NoError(t, m.Use(mediator.BehaviourFunc(func(ctx context.Context, info mediator.RequestInfo, request any, next mediator.Next) (any, error) {
		return next(ctx)
	})))

	// Act
	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mediator.Send(context.Background(), m, &pingQuery{Message: "x"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Assert
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(50), calls)
}

func TestRequestNames(t *testing.T) {
	m := mediator.NewMediator()
	var calls int32
	require.NoError(t, mediator.Register(m, pingHandler(&calls, nil)))
	require.NoError(t, mediator.Register(m, mediator.HandlerFunc[countQuery, int](
		func(ctx context.Context, q countQuery) (int, error) { return 0, nil })))

	assert.Equal(t, []string{"countQuery", "pingQuery"}, m.RequestNames())
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    mediator.DuplicatePolicy
		wantErr bool
	}{
		{"", mediator.RejectDuplicates, false},
		{"reject", mediator.RejectDuplicates, false},
		{"REPLACE", mediator.ReplaceDuplicates, false},
		{"first-wins", mediator.RejectDuplicates, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := mediator.ParseDuplicatePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
