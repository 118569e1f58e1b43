// Package object is the runtime value model shared by the compiler and
// the VM: a small closed set of tagged values (spec.md §3).
package object

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/wisplang/wisp/internal/code"
)

// Type names one of the closed set of runtime value kinds.
type Type string

const (
	INTEGER_OBJ           Type = "INTEGER"
	BOOLEAN_OBJ           Type = "BOOLEAN"
	NULL_OBJ              Type = "NULL"
	STRING_OBJ            Type = "STRING"
	ARRAY_OBJ             Type = "ARRAY"
	HASH_OBJ              Type = "HASH"
	COMPILED_FUNCTION_OBJ Type = "COMPILED_FUNCTION"
	BUILTIN_OBJ           Type = "BUILTIN"
	ERROR_OBJ             Type = "ERROR"
)

// Value is implemented by every runtime value kind.
type Value interface {
	Type() Type
	Inspect() string
}

// Integer is a 64-bit signed integer. The language has no floats
// (spec.md §1 Non-goals).
type Integer struct {
	Value int64
}

func (i *Integer) Type() Type      { return INTEGER_OBJ }
func (i *Integer) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// Boolean is one of the two singleton truth values.
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() Type      { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string { return fmt.Sprintf("%t", b.Value) }

// Null is the single absence-of-value singleton.
type Null struct{}

func (n *Null) Type() Type      { return NULL_OBJ }
func (n *Null) Inspect() string { return "null" }

// String is an immutable byte string. No escape processing happens at
// the value layer; that was already handled (or not) by the lexer.
type String struct {
	Value string
}

func (s *String) Type() Type      { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }

// Array is an ordered, growable sequence of values.
type Array struct {
	Elements []Value
}

func (a *Array) Type() Type { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	var out strings.Builder
	elements := make([]string, 0, len(a.Elements))
	for _, e := range a.Elements {
		elements = append(elements, e.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// Builtin wraps a host-provided function callable from the language.
// Name is carried for error messages (spec.md §7's
// "argument to <builtin> not supported" form).
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

// BuiltinFunction is the signature every built-in implements: it
// receives its already-evaluated arguments and returns either a Value
// or an *Error (never a Go error — the VM treats both uniformly as
// runtime errors, see spec.md §4.6).
type BuiltinFunction func(args ...Value) Value

func (b *Builtin) Type() Type      { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string { return "builtin function" }

// Error is a runtime error value. Pushing one aborts the VM loop
// (spec.md §7).
type Error struct {
	Message string
}

func (e *Error) Type() Type      { return ERROR_OBJ }
func (e *Error) Inspect() string { return "ERROR: " + e.Message }

// NewError formats a runtime error message the same way every
// spec.md §7 runtime error form does.
func NewError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

// CompiledFunction is a function's compiled body, with just enough
// metadata to set up a call frame: spec.md explicitly excludes
// environment captures, so there are no free-variable slots here.
type CompiledFunction struct {
	Instructions  code.Instructions
	NumLocals     int
	NumParameters int
	Name          string // best-effort, for Inspect/error messages; may be empty
}

func (cf *CompiledFunction) Type() Type { return COMPILED_FUNCTION_OBJ }
func (cf *CompiledFunction) Inspect() string {
	if cf.Name != "" {
		return fmt.Sprintf("CompiledFunction<%s>[%p]", cf.Name, cf)
	}
	return fmt.Sprintf("CompiledFunction[%p]", cf)
}

// HashKey identifies a Hashable value for use as a Hash key: two
// values that compare equal must produce the same HashKey.
type HashKey struct {
	Type  Type
	Value uint64
}

// Hashable is implemented by the three kinds the language allows as
// hash keys (spec.md §3): Integer, Boolean, String.
type Hashable interface {
	Value
	HashKey() HashKey
}

func (i *Integer) HashKey() HashKey {
	return HashKey{Type: i.Type(), Value: uint64(i.Value)}
}

func (b *Boolean) HashKey() HashKey {
	var v uint64
	if b.Value {
		v = 1
	}
	return HashKey{Type: b.Type(), Value: v}
}

func (s *String) HashKey() HashKey {
	h := fnv.New64a()
	h.Write([]byte(s.Value))
	return HashKey{Type: s.Type(), Value: h.Sum64()}
}

// HashPair keeps the original key value alongside the stored value so
// Inspect can render `"key": value` rather than just the hash code.
type HashPair struct {
	Key   Value
	Value Value
}

// Hash is an immutable map keyed by Hashable values.
type Hash struct {
	Pairs map[HashKey]HashPair
}

func (h *Hash) Type() Type { return HASH_OBJ }
func (h *Hash) Inspect() string {
	pairs := make([]string, 0, len(h.Pairs))
	for _, pair := range h.Pairs {
		pairs = append(pairs, fmt.Sprintf("%s: %s", pair.Key.Inspect(), pair.Value.Inspect()))
	}
	sort.Strings(pairs)

	var out strings.Builder
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// Equal implements spec.md §4.5's "==" / "!=" structural equality. It
// is defined for every Value kind, not just Hashable ones, since arrays
// and hashes are comparable too even though they can't be hash keys.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() {
		return false
	}

	switch av := a.(type) {
	case *Integer:
		return av.Value == b.(*Integer).Value
	case *Boolean:
		return av.Value == b.(*Boolean).Value
	case *String:
		return av.Value == b.(*String).Value
	case *Null:
		return true
	case *Array:
		bv := b.(*Array)
		if len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Hash:
		bv := b.(*Hash)
		if len(av.Pairs) != len(bv.Pairs) {
			return false
		}
		for k, pair := range av.Pairs {
			other, ok := bv.Pairs[k]
			if !ok || !Equal(pair.Value, other.Value) {
				return false
			}
		}
		return true
	default:
		// Functions, builtins, errors: identity only.
		return a == b
	}
}
