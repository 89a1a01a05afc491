package registry

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ServiceID identifies the kind of service a registry entry provides.
// Identifiers are Go types; an instance registered under a ServiceID must be
// assignable to that type.
type ServiceID = reflect.Type

// IDOf returns the ServiceID for T.
//
// Example:
//
//	var UndoManagerID = registry.IDOf[UndoManager]()
func IDOf[T any]() ServiceID {
	return reflect.TypeFor[T]()
}

// IDComparer decides when two identifiers name the same service.
// Equal identifiers must produce the same Hash.
type IDComparer interface {
	Equal(a, b ServiceID) bool
	Hash(id ServiceID) uint64
}

// IdentityComparer treats identifiers as equal only when they are the same type.
var IdentityComparer IDComparer = identityComparer{}

// StructuralComparer treats identifiers as equal when they have the same kind,
// package path and name, even if they are distinct type descriptors. This is
// the policy for hosts that load the same package more than once, for example
// through plugins built against separate copies of a shared interface package.
var StructuralComparer IDComparer = structuralComparer{}

type identityComparer struct{}

func (identityComparer) Equal(a, b ServiceID) bool {
	return a == b
}

func (identityComparer) Hash(id ServiceID) uint64 {
	return hashID(id)
}

type structuralComparer struct{}

func (structuralComparer) Equal(a, b ServiceID) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}

	return qualifiedName(a) == qualifiedName(b)
}

func (structuralComparer) Hash(id ServiceID) uint64 {
	return hashID(id)
}

// hashID is shared by both comparers; identical types always share a
// qualified name, so it is valid for identity equality as well.
func hashID(id ServiceID) uint64 {
	if id == nil {
		return 0
	}

	return xxhash.Sum64String(qualifiedName(id))
}

// qualifiedName describes t using package paths rather than package names,
// so same-named packages never collide. Named types stop the recursion.
func qualifiedName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}

		return t.PkgPath() + "." + t.Name()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + qualifiedName(t.Elem())
	case reflect.Map:
		return "map[" + qualifiedName(t.Key()) + "]" + qualifiedName(t.Elem())
	case reflect.Chan:
		return chanPrefix(t.ChanDir()) + qualifiedName(t.Elem())
	case reflect.Func:
		return "func" + signature(t)
	case reflect.Struct:
		fields := make([]string, t.NumField())
		for i := range fields {
			f := t.Field(i)
			fields[i] = f.PkgPath + "." + f.Name + " " + qualifiedName(f.Type) + " " + strconv.Quote(string(f.Tag))
			if f.Anonymous {
				fields[i] = "embedded " + fields[i]
			}
		}

		return "struct{" + strings.Join(fields, "; ") + "}"
	case reflect.Interface:
		methods := make([]string, t.NumMethod())
		for i := range methods {
			m := t.Method(i)
			methods[i] = m.PkgPath + "." + m.Name + signature(m.Type)
		}

		return "interface{" + strings.Join(methods, "; ") + "}"
	default:
		return t.String()
	}
}

func chanPrefix(dir reflect.ChanDir) string {
	switch dir {
	case reflect.RecvDir:
		return "<-chan "
	case reflect.SendDir:
		return "chan<- "
	default:
		return "chan "
	}
}

// signature renders the parameter and result lists of a func type.
func signature(t reflect.Type) string {
	in := make([]string, t.NumIn())
	for i := range in {
		if t.IsVariadic() && i == len(in)-1 {
			in[i] = "..." + qualifiedName(t.In(i).Elem())
		} else {
			in[i] = qualifiedName(t.In(i))
		}
	}

	out := make([]string, t.NumOut())
	for i := range out {
		out[i] = qualifiedName(t.Out(i))
	}

	return "(" + strings.Join(in, ", ") + ") (" + strings.Join(out, ", ") + ")"
}

// Foreign marks objects that come from outside the Go type system (cgo
// handles, objects proxied from another runtime). They are accepted for any
// ServiceID without a type check.
type Foreign interface {
	ForeignObject()
}

// isInstanceOf reports whether v may be stored or served under id.
func isInstanceOf(v any, id ServiceID, cmp IDComparer) bool {
	if _, ok := v.(Foreign); ok {
		return true
	}

	t := reflect.TypeOf(v)
	if t.AssignableTo(id) {
		return true
	}

	return cmp.Equal(t, id)
}

// isNil reports whether v is nil or a typed nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
