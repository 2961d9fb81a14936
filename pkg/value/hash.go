package value

import "hash/fnv"

// NameHash computes the 64-bit function-name hash a Function record carries.
// Grace dispatches Call by this hash rather than by string comparison;
// NativeCall dispatches by native-table index instead.
func NameHash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
