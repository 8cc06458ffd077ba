package yellowdi

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/JoanBelder/yellowdi/internal/logger"
)

// maxResolveDepth bounds dependency-chain recursion. The source design
// would recurse until stack exhaustion on a cyclic graph; failing with a
// ResolveError at this depth is the deliberate policy here.
const maxResolveDepth = 64

func (c *Container) resolve(target any, args []CallArg, depth int) (any, error) {
	if depth > maxResolveDepth {
		return nil, resolveErrorf(
			"dependency chain for %s exceeds %d levels, assuming a cycle",
			describeTarget(target), maxResolveDepth,
		)
	}

	typ, ok := target.(reflect.Type)
	if !ok || !isClassLike(typ) {
		return nil, resolveErrorf("can only resolve classes, got %s", describeTarget(target))
	}

	// Registered factories always win over auto-construction and are
	// invoked fresh on every call.
	if factory, ok := c.registration(typ); ok {
		return factory()
	}

	// Interface types have no reflectively constructible shape; they are
	// satisfiable only through an explicit registration.
	if typ.Kind() == reflect.Interface {
		return nil, resolveErrorf("cannot auto-resolve interface type %s without a registration", typ)
	}

	structType := typ
	wantPointer := false
	if typ.Kind() == reflect.Pointer {
		structType = typ.Elem()
		wantPointer = true
	}

	params, err := signatureOf(structType)
	if err != nil {
		return nil, err
	}

	bound, err := bindPartial(structType, params, args)
	if err != nil {
		return nil, err
	}

	for i := range params {
		p := &params[i]
		if _, ok := bound[p.name]; ok {
			continue
		}
		value, err := c.resolveArgument(structType, p, depth)
		if err != nil {
			return nil, err
		}
		bound[p.name] = value
	}

	instance := reflect.New(structType)
	for i := range params {
		p := &params[i]
		if v, ok := bound[p.name]; ok {
			instance.Elem().Field(p.index).Set(v)
		}
	}

	logger.Debug("auto-constructed instance",
		slog.String("type", structType.String()),
		slog.Int("params", len(params)),
	)

	if wantPointer {
		return instance.Interface(), nil
	}
	return instance.Elem().Interface(), nil
}

// resolveArgument computes the value for a constructor parameter left
// unbound by the extra arguments. The rules apply in strict order; the
// first matching rule wins.
func (c *Container) resolveArgument(target reflect.Type, p *param, depth int) (reflect.Value, error) {
	if p.hasDefault {
		return p.defaultValue(target)
	}
	if p.kind == kindVarPositional {
		return reflect.MakeSlice(p.typ, 0, 0), nil
	}
	if p.kind == kindVarKeyword {
		return reflect.MakeMap(p.typ), nil
	}

	if !p.annotated() {
		return reflect.Value{}, argumentError(target, p.name, "no type annotation")
	}

	// Auxiliary token tags are tried in declaration order before any
	// type-based resolution; the first one with a registration wins.
	for _, token := range p.tokens {
		factory, ok := c.registration(token)
		if !ok {
			continue
		}
		value, err := factory()
		if err != nil {
			return reflect.Value{}, err
		}
		adapted, err := adaptValue(value, p.typ)
		if err != nil {
			return reflect.Value{}, argumentError(target, p.name, err.Error())
		}
		return adapted, nil
	}

	if p.literal {
		return reflect.Value{}, argumentError(target, p.name, "literal")
	}

	if p.ref != "" {
		refType, ok := declaredType(target.PkgPath(), p.ref)
		if !ok {
			return reflect.Value{}, argumentError(target, p.name, "class declaration not available in package")
		}
		value, err := c.resolve(refType, nil, depth+1)
		if err != nil {
			return reflect.Value{}, err
		}
		adapted, err := adaptValue(value, p.typ)
		if err != nil {
			return reflect.Value{}, argumentError(target, p.name, err.Error())
		}
		return adapted, nil
	}

	value, err := c.resolve(p.typ, nil, depth+1)
	if err != nil {
		return reflect.Value{}, err
	}
	adapted, err := adaptValue(value, p.typ)
	if err != nil {
		return reflect.Value{}, argumentError(target, p.name, err.Error())
	}
	return adapted, nil
}

// adaptValue makes value usable where a want-typed value is expected,
// adapting between a type and a pointer to it when needed. Anything else
// is refused rather than converted.
func adaptValue(value any, want reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", want)
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(want) {
		return v, nil
	}

	// Want *T, have T: box into a fresh pointer.
	if want.Kind() == reflect.Pointer && v.Type() == want.Elem() {
		logger.Warn("adapting value to pointer type",
			slog.String("have", v.Type().String()),
			slog.String("want", want.String()),
		)
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		return ptr, nil
	}

	// Want T, have *T: dereference.
	if v.Kind() == reflect.Pointer && v.Type().Elem() == want {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("cannot use nil %s as %s", v.Type(), want)
		}
		logger.Warn("adapting pointer to value type",
			slog.String("have", v.Type().String()),
			slog.String("want", want.String()),
		)
		return v.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use value of type %s as %s", v.Type(), want)
}

// isClassLike reports whether typ can act as a resolve target: a struct, a
// pointer to struct, or an interface. Primitives, funcs, slices, maps and
// channels are not classes.
func isClassLike(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Struct, reflect.Interface:
		return true
	case reflect.Pointer:
		return typ.Elem().Kind() == reflect.Struct
	}
	return false
}

func describeTarget(target any) string {
	if typ, ok := target.(reflect.Type); ok {
		return typ.String()
	}
	if target == nil {
		return "nil"
	}
	return fmt.Sprintf("%T value", target)
}
