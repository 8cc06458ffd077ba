package yellowdi

import (
	"reflect"
	"sync"
)

// Container holds a registration table mapping keys (types or Tokens) to
// zero-argument factories. Registration is expected to happen during a
// single-writer wiring phase; resolution may then run from any number of
// goroutines.
type Container struct {
	mu            sync.RWMutex
	registrations map[any]func() (any, error)
}

// New creates a container with an empty registration table.
func New() *Container {
	return &Container{registrations: make(map[any]func() (any, error))}
}

// Register stores the zero-argument factory for key, overwriting any
// previous registration. The factory is invoked fresh on every resolve;
// nothing is memoized. key is typically a reflect.Type or a Token.
func (c *Container) Register(key any, factory func() any) {
	c.register(key, func() (any, error) { return factory(), nil })
}

// RegisterValue registers a factory that returns value on every resolve.
// The value is captured once; identity is preserved across calls.
func (c *Container) RegisterValue(key any, value any) {
	c.register(key, func() (any, error) { return value, nil })
}

// RegisterAlias registers key to resolve through alias: resolving key
// yields whatever resolving alias yields at that moment. Supports
// polymorphic binding of an abstract key to a concrete type.
func (c *Container) RegisterAlias(key any, alias any) {
	c.register(key, func() (any, error) { return c.Resolve(alias) })
}

// Clear removes every registration from the container.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registrations = make(map[any]func() (any, error))
}

func (c *Container) register(key any, factory func() (any, error)) {
	if key == nil {
		panic("yellowdi: cannot register a nil key")
	}
	if !reflect.TypeOf(key).Comparable() {
		panic("yellowdi: registration key must be comparable")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.registrations[key] = factory
}

// registration looks up the factory for key, if any.
func (c *Container) registration(key any) (func() (any, error), bool) {
	if key == nil || !reflect.TypeOf(key).Comparable() {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	factory, ok := c.registrations[key]
	return factory, ok
}

// Resolve constructs an instance of target, a reflect.Type denoting a
// struct, pointer-to-struct, or interface type. A registered factory for
// target always wins; otherwise the target's constructor signature (its
// exported fields) is bound against the extra arguments and every gap is
// filled by the argument-resolution rules. Struct targets yield values,
// pointer targets yield pointers.
//
// Extra constructor arguments are supplied with Arg (positional) and Named
// (keyword). Every failure is a *ResolveError.
func (c *Container) Resolve(target any, args ...CallArg) (any, error) {
	return c.resolve(target, args, 0)
}

// MustResolve is Resolve panicking on failure.
func (c *Container) MustResolve(target any, args ...CallArg) any {
	value, err := c.Resolve(target, args...)
	if err != nil {
		panic(err)
	}
	return value
}
