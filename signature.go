package yellowdi

import (
	"reflect"
	"strconv"
	"strings"
)

// paramKind mirrors the binding behavior of a constructor parameter.
type paramKind int

const (
	kindPositional paramKind = iota
	kindKeywordOnly
	kindVarPositional
	kindVarKeyword
)

// param describes one constructor parameter of a target type. The
// signature is derived from the exported struct fields on every resolve
// and never cached.
type param struct {
	name        string
	index       int
	kind        paramKind
	typ         reflect.Type
	hasDefault  bool
	defaultTag  string // raw default= text, parsed against typ when used
	zeroDefault bool   // optional: the default is the zero value
	literal     bool
	ref         string  // deferred reference, resolved in the defining package
	tokens      []Token // auxiliary tags, scanned in declaration order
}

// annotated reports whether the parameter carries any resolvable type
// information. An empty-interface field with no ref or token tag tells the
// resolver nothing.
func (p *param) annotated() bool {
	if p.literal || p.ref != "" || len(p.tokens) > 0 {
		return true
	}
	return !(p.typ.Kind() == reflect.Interface && p.typ.NumMethod() == 0)
}

// signatureOf returns the constructor parameters of a struct type in field
// declaration order. Unexported fields and fields tagged di:"-" do not
// participate.
func signatureOf(target reflect.Type) ([]param, error) {
	params := make([]param, 0, target.NumField())

	for i := 0; i < target.NumField(); i++ {
		field := target.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("di")
		if tag == "-" {
			continue
		}

		p := param{
			name:  field.Name,
			index: i,
			kind:  kindPositional,
			typ:   field.Type,
		}

		for _, opt := range strings.Split(tag, ",") {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				continue
			}

			key, value, _ := strings.Cut(opt, "=")
			switch key {
			case "optional":
				p.hasDefault = true
				p.zeroDefault = true
			case "default":
				p.hasDefault = true
				p.defaultTag = value
			case "variadic":
				switch field.Type.Kind() {
				case reflect.Slice:
					p.kind = kindVarPositional
				case reflect.Map:
					if field.Type.Key().Kind() != reflect.String {
						return nil, resolveErrorf(
							"invalid variadic field %s on %s: map key type must be string",
							field.Name, typeName(target),
						)
					}
					p.kind = kindVarKeyword
				default:
					return nil, resolveErrorf(
						"invalid variadic field %s on %s: must be a slice or string-keyed map",
						field.Name, typeName(target),
					)
				}
			case "kwonly":
				p.kind = kindKeywordOnly
			case "literal":
				p.literal = true
			case "ref":
				if value == "" {
					return nil, resolveErrorf(
						"invalid ref tag on field %s of %s: type name required",
						field.Name, typeName(target),
					)
				}
				p.ref = value
			case "token":
				if value == "" {
					return nil, resolveErrorf(
						"invalid token tag on field %s of %s: token name required",
						field.Name, typeName(target),
					)
				}
				p.tokens = append(p.tokens, TokenFor(value))
			default:
				return nil, resolveErrorf(
					"unknown di tag option %q on field %s of %s",
					key, field.Name, typeName(target),
				)
			}
		}

		params = append(params, p)
	}

	return params, nil
}

// defaultValue materializes the declared default for the parameter's type.
func (p *param) defaultValue(target reflect.Type) (reflect.Value, error) {
	if p.zeroDefault || p.defaultTag == "" {
		return reflect.Zero(p.typ), nil
	}

	v := reflect.New(p.typ).Elem()
	switch p.typ.Kind() {
	case reflect.String:
		v.SetString(p.defaultTag)
	case reflect.Bool:
		b, err := strconv.ParseBool(p.defaultTag)
		if err != nil {
			return reflect.Value{}, argumentError(target, p.name, "invalid default "+strconv.Quote(p.defaultTag))
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(p.defaultTag, 10, p.typ.Bits())
		if err != nil {
			return reflect.Value{}, argumentError(target, p.name, "invalid default "+strconv.Quote(p.defaultTag))
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(p.defaultTag, 10, p.typ.Bits())
		if err != nil {
			return reflect.Value{}, argumentError(target, p.name, "invalid default "+strconv.Quote(p.defaultTag))
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(p.defaultTag, p.typ.Bits())
		if err != nil {
			return reflect.Value{}, argumentError(target, p.name, "invalid default "+strconv.Quote(p.defaultTag))
		}
		v.SetFloat(f)
	default:
		return reflect.Value{}, argumentError(target, p.name, "default= not supported for "+p.typ.String()+", use optional")
	}

	return v, nil
}

// CallArg is an extra constructor argument supplied to Resolve. Build
// positional arguments with Arg and keyword arguments with Named.
type CallArg struct {
	name  string
	value any
}

// Arg wraps a positional constructor argument.
func Arg(value any) CallArg { return CallArg{value: value} }

// Named wraps a keyword constructor argument bound to the parameter of the
// given name.
func Named(name string, value any) CallArg { return CallArg{name: name, value: value} }

// bindPartial binds the supplied extra arguments against the target's
// constructor parameters in declaration order: positional arguments fill
// positional parameters and overflow into a variadic slice parameter,
// keyword arguments fill parameters by name and overflow into a variadic
// map parameter. Parameters left unbound are filled later by the
// argument-resolution rules.
func bindPartial(target reflect.Type, params []param, args []CallArg) (map[string]reflect.Value, error) {
	bound := make(map[string]reflect.Value, len(params))

	var positional []any
	named := make(map[string]any)
	for _, a := range args {
		if a.name == "" {
			if len(named) > 0 {
				return nil, resolveErrorf(
					"positional argument follows named argument for %s", typeName(target),
				)
			}
			positional = append(positional, a.value)
			continue
		}
		if _, dup := named[a.name]; dup {
			return nil, resolveErrorf(
				"multiple values for argument %s of %s", a.name, typeName(target),
			)
		}
		named[a.name] = a.value
	}

	rest := positional
	for i := range params {
		if len(rest) == 0 {
			break
		}
		p := &params[i]

		switch p.kind {
		case kindPositional:
			if _, clash := named[p.name]; clash {
				return nil, resolveErrorf(
					"multiple values for argument %s of %s", p.name, typeName(target),
				)
			}
			v, err := adaptValue(rest[0], p.typ)
			if err != nil {
				return nil, argumentError(target, p.name, err.Error())
			}
			bound[p.name] = v
			rest = rest[1:]

		case kindVarPositional:
			slice := reflect.MakeSlice(p.typ, 0, len(rest))
			for _, x := range rest {
				ev, err := adaptValue(x, p.typ.Elem())
				if err != nil {
					return nil, argumentError(target, p.name, err.Error())
				}
				slice = reflect.Append(slice, ev)
			}
			bound[p.name] = slice
			rest = nil

		default:
			// keyword-only territory: positional binding stops here
			return nil, resolveErrorf("too many positional arguments for %s", typeName(target))
		}
	}
	if len(rest) > 0 {
		return nil, resolveErrorf("too many positional arguments for %s", typeName(target))
	}

	byName := make(map[string]*param, len(params))
	var varKeyword *param
	for i := range params {
		p := &params[i]
		switch p.kind {
		case kindPositional, kindKeywordOnly:
			byName[p.name] = p
		case kindVarKeyword:
			varKeyword = p
		}
	}

	var overflow map[string]any
	for name, value := range named {
		if p, ok := byName[name]; ok {
			v, err := adaptValue(value, p.typ)
			if err != nil {
				return nil, argumentError(target, p.name, err.Error())
			}
			bound[p.name] = v
			continue
		}
		if varKeyword == nil {
			return nil, resolveErrorf(
				"unexpected named argument %s for %s", name, typeName(target),
			)
		}
		if overflow == nil {
			overflow = make(map[string]any)
		}
		overflow[name] = value
	}

	if varKeyword != nil && overflow != nil {
		m := reflect.MakeMapWithSize(varKeyword.typ, len(overflow))
		for k, value := range overflow {
			ev, err := adaptValue(value, varKeyword.typ.Elem())
			if err != nil {
				return nil, argumentError(target, varKeyword.name, err.Error())
			}
			m.SetMapIndex(reflect.ValueOf(k), ev)
		}
		bound[varKeyword.name] = m
	}

	return bound, nil
}
