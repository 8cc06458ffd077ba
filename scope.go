package yellowdi

import (
	"reflect"
	"sync"
)

// declaredTypes maps a defining package path to the types declared in it,
// by type name. Deferred references (di:"ref=Name") are looked up here
// against the package of the type under construction, the way a deferred
// annotation is looked up in its defining module.
var declaredTypes = struct {
	sync.RWMutex
	byPackage map[string]map[string]reflect.Type
}{byPackage: make(map[string]map[string]reflect.Type)}

// DeclareType makes T available to deferred references within its defining
// package. Call it from an init function; declaration order relative to
// the referring type does not matter. A type that is never declared is not
// visible to deferred references at all.
//
// Example:
//
//	func init() {
//	    yellowdi.DeclareType[Database]()
//	}
func DeclareType[T any]() {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Name() == "" || typ.PkgPath() == "" {
		panic("yellowdi: DeclareType requires a named type")
	}

	declaredTypes.Lock()
	defer declaredTypes.Unlock()

	pkg := declaredTypes.byPackage[typ.PkgPath()]
	if pkg == nil {
		pkg = make(map[string]reflect.Type)
		declaredTypes.byPackage[typ.PkgPath()] = pkg
	}
	pkg[typ.Name()] = typ
}

// declaredType looks up a deferred reference in the scope of the package
// that defines the target type.
func declaredType(pkgPath, name string) (reflect.Type, bool) {
	declaredTypes.RLock()
	defer declaredTypes.RUnlock()

	typ, ok := declaredTypes.byPackage[pkgPath][name]
	return typ, ok
}
