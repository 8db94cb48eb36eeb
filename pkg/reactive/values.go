package reactive

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Same reports whether a and b are the same value.
//
// Comparable values are compared with ==. Slices and maps are the same only
// when they share backing storage (and, for slices, length); funcs are never
// the same. This mirrors identity equality for reference-like values, so
// setting an attribute to a freshly built slice always counts as a change.
func Same(a, b any) (same bool) {
	if a == nil || b == nil {
		return isNil(a) && isNil(b)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer() && va.IsNil() == vb.IsNil()
	case reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Func:
		return false
	}
	if !ta.Comparable() {
		return false
	}
	// Structs and arrays holding interfaces can still panic on ==.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Truthy reports whether v counts as true for presentation purposes.
//
// nil, false, zero numbers, empty strings, nil pointers and empty slices or
// maps are false; everything else is true. Observables are unwrapped to
// their current value first.
func Truthy(v any) bool {
	if obs, ok := v.(Observable); ok && !isNil(obs) {
		v = obs.Value()
	}
	if isNil(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	}
	return true
}

// Convert turns v into a T.
//
// Values that already are a T are returned as-is. Otherwise strings are
// parsed into numeric and boolean targets, any value can become a string,
// booleans accept truthiness, and numeric kinds convert between each other.
func Convert[T any](v any) (T, error) {
	var zero T
	if t, ok := v.(T); ok {
		return t, nil
	}
	if v == nil {
		return zero, nil
	}
	target := reflect.TypeFor[T]()
	out, err := convertValue(reflect.ValueOf(v), target)
	if err != nil {
		return zero, err
	}
	t, _ := out.Interface().(T)
	return t, nil
}

func convertValue(rv reflect.Value, target reflect.Type) (reflect.Value, error) {
	s, isString := rv.Interface().(string)
	fail := func(cause error) (reflect.Value, error) {
		if cause != nil {
			return reflect.Value{}, fmt.Errorf("reactive: cannot convert %s %q to %s: %w", rv.Type(), fmt.Sprint(rv.Interface()), target, cause)
		}
		return reflect.Value{}, fmt.Errorf("reactive: cannot convert %s to %s", rv.Type(), target)
	}

	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(fmt.Sprint(rv.Interface())).Convert(target), nil
	case reflect.Bool:
		if isString {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return fail(err)
			}
			return reflect.ValueOf(b).Convert(target), nil
		}
		return reflect.ValueOf(Truthy(rv.Interface())).Convert(target), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isString {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, target.Bits())
			if err != nil {
				return fail(err)
			}
			return reflect.ValueOf(n).Convert(target), nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if isString {
			n, err := strconv.ParseUint(strings.TrimSpace(s), 10, target.Bits())
			if err != nil {
				return fail(err)
			}
			return reflect.ValueOf(n).Convert(target), nil
		}
	case reflect.Float32, reflect.Float64:
		if isString {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), target.Bits())
			if err != nil {
				return fail(err)
			}
			return reflect.ValueOf(f).Convert(target), nil
		}
	case reflect.Interface:
		if rv.Type().Implements(target) {
			out := reflect.New(target).Elem()
			out.Set(rv)
			return out, nil
		}
		return fail(nil)
	}
	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) {
		return rv.Convert(target), nil
	}
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	return fail(nil)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// as asserts v to T, returning the zero value for nil or mismatched values.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

func first(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}
