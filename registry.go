package yellowdi

import "reflect"

var defaultContainer = New()

// Default returns the process-wide default container.
func Default() *Container {
	return defaultContainer
}

// Register stores a factory for key in the default container.
func Register(key any, factory func() any) {
	defaultContainer.Register(key, factory)
}

// RegisterValue registers a fixed value for key in the default container.
func RegisterValue(key any, value any) {
	defaultContainer.RegisterValue(key, value)
}

// RegisterAlias registers key to resolve through alias in the default
// container.
func RegisterAlias(key any, alias any) {
	defaultContainer.RegisterAlias(key, alias)
}

// Clear removes all registrations from the default container.
func Clear() {
	defaultContainer.Clear()
}

// TypeOf returns the reflect.Type for T, the usual way to name a resolve
// target or a type-keyed registration.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Resolve constructs a T from the given container, or from the default
// container when c is nil. A registration that produces *T where T is
// wanted (or the reverse) is adapted.
func Resolve[T any](c *Container, args ...CallArg) (T, error) {
	if c == nil {
		c = defaultContainer
	}

	var zero T
	value, err := c.Resolve(reflect.TypeOf((*T)(nil)).Elem(), args...)
	if err != nil {
		return zero, err
	}

	if typed, ok := value.(T); ok {
		return typed, nil
	}

	adapted, err := adaptValue(value, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, resolveErrorf("registration for %s produced %T", reflect.TypeOf((*T)(nil)).Elem(), value)
	}
	return adapted.Interface().(T), nil
}

// MustResolve is Resolve panicking on failure.
func MustResolve[T any](c *Container, args ...CallArg) T {
	value, err := Resolve[T](c, args...)
	if err != nil {
		panic(err)
	}
	return value
}
