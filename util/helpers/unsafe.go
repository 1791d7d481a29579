package helpers

import (
	"reflect"
	"unsafe"
)

func Sizeof[T any](v T) int {
	return int(reflect.TypeOf(v).Size())
}

// HasPointers reports whether values of T contain Go pointers. Byte views
// are only safe for pointer-free types.
func HasPointers[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return hasPointers(t)
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	}
	return true
}

// Bytesof returns the in-memory bytes of *v. The slice aliases v.
func Bytesof[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), Sizeof(*v))
}

func Frombytes[T any](srcBytes []byte, dst *T) {
	copy(Bytesof(dst), srcBytes)
}
