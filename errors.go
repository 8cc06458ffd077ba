package yellowdi

import (
	"fmt"
	"reflect"
)

// ResolveError is the single failure kind produced by resolution. Every
// failure, from an unusable target to an unsatisfiable constructor
// parameter, carries a message naming the offending parameter and the
// target type.
type ResolveError struct {
	msg string
}

func (e *ResolveError) Error() string { return e.msg }

func resolveErrorf(format string, args ...any) *ResolveError {
	return &ResolveError{msg: fmt.Sprintf(format, args...)}
}

// argumentError reports a failure to compute a value for one constructor
// parameter of target.
func argumentError(target reflect.Type, name, reason string) *ResolveError {
	return resolveErrorf("cannot resolve argument %s for %s: %s", name, typeName(target), reason)
}

func typeName(typ reflect.Type) string {
	if name := typ.Name(); name != "" {
		return name
	}
	return typ.String()
}
