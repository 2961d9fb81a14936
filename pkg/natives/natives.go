// Package natives implements Grace's native function table: built-in
// functionality backed by real Go code rather than compiled bytecode,
// dispatched through the VM's NativeCall opcode by a compile-time-known
// index. Natives are grouped by concern file (math, time, list, then the
// domain extensions: auth, networking, mail, environment).
package natives

import "github.com/lgtm-migrator/grace/pkg/value"

// Func is a native function body: it receives its arguments already
// arity-checked and returns either a value or a runtime error.
type Func func(args []value.Value) (value.Value, error)

// Native is one entry in the native function table.
type Native struct {
	Name  string
	Arity int
	Fn    Func
}

var table []Native
var byName = map[string]int{}

// register appends n to the global native table and indexes it by name.
// Called from each concern file's init() so the table's composition
// mirrors which files are compiled in.
func register(n Native) {
	byName[n.Name] = len(table)
	table = append(table, n)
}

// Lookup returns the compile-time index and arity of a native function by
// name, for the compiler to emit NativeCall(index, argCount) instead of
// the hash-based Call it uses for user-defined functions.
func Lookup(name string) (index int, arity int, ok bool) {
	i, ok := byName[name]
	if !ok {
		return 0, 0, false
	}
	return i, table[i].Arity, true
}

// Call invokes the native at index with args, which the VM has already
// popped off the value stack in call order.
func Call(index int, args []value.Value) (value.Value, error) {
	return table[index].Fn(args)
}

// Count returns the number of registered natives, used by the VM to
// bounds-check a NativeCall index pulled from the constant pool.
func Count() int {
	return len(table)
}
