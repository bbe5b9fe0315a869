package mediator

import (
	"context"
	"fmt"
	"reflect"
)

// BehaviourRegistration is one entry of the ordered behaviour list.
// New is called once per dispatch; Applies filters which requests the behaviour wraps
// (nil applies to every request).
type BehaviourRegistration struct {
	Name    string
	New     func() Behaviour
	Applies func(info RequestInfo) bool
}

// CommandsOnly applies a behaviour to commands
func CommandsOnly(info RequestInfo) bool {
	return info.Kind == KindCommand
}

// QueriesOnly applies a behaviour to queries
func QueriesOnly(info RequestInfo) bool {
	return info.Kind == KindQuery
}

// AddBehaviour appends a behaviour registration. Registration order is execution order:
// the first registered behaviour is the outermost wrapper.
func (m *Mediator) AddBehaviour(reg BehaviourRegistration) error {
	if reg.New == nil {
		return fmt.Errorf("behaviour %q has no constructor", reg.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sealed.Load() {
		return fmt.Errorf("%w: cannot add behaviour %q", ErrRegistrySealed, reg.Name)
	}

	m.behaviours = append(m.behaviours, reg)
	return nil
}

// Use registers a shared behaviour instance. Every predicate must hold for the
// behaviour to wrap a request.
func (m *Mediator) Use(b Behaviour, applies ...func(RequestInfo) bool) error {
	if b == nil {
		return fmt.Errorf("behaviour cannot be nil")
	}

	reg := BehaviourRegistration{
		Name: reflect.TypeOf(b).String(),
		New:  func() Behaviour { return b },
	}
	if len(applies) > 0 {
		reg.Applies = func(info RequestInfo) bool {
			for _, ok := range applies {
				if ok != nil && !ok(info) {
					return false
				}
			}
			return true
		}
	}

	return m.AddBehaviour(reg)
}

// resolveChain returns the applicable registrations for a request type in registration order.
// The list may be empty. Results are cached; the behaviour list is read-only once sealed.
func (m *Mediator) resolveChain(info RequestInfo) []BehaviourRegistration {
	if cached, ok := m.chains.Load(info.RequestType); ok {
		return cached.([]BehaviourRegistration)
	}

	m.mu.RLock()
	chain := make([]BehaviourRegistration, 0, len(m.behaviours))
	for _, reg := range m.behaviours {
		if reg.Applies == nil || reg.Applies(info) {
			chain = append(chain, reg)
		}
	}
	m.mu.RUnlock()

	actual, _ := m.chains.LoadOrStore(info.RequestType, chain)
	return actual.([]BehaviourRegistration)
}

// compose nests the chain around the handler. It walks the chain in reverse so the
// first registration ends up outermost.
func compose(info RequestInfo, request any, chain []BehaviourRegistration, handler Next) Next {
	next := handler
	for i := len(chain) - 1; i >= 0; i-- {
		behaviour := chain[i].New()
		if behaviour == nil {
			continue
		}
		inner := next
		next = func(ctx context.Context) (any, error) {
			return behaviour.Handle(ctx, info, request, inner)
		}
	}
	return next
}
