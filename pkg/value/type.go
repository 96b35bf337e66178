// Package value implements LumiDB's tagged value union and its subtype
// lattice, grounded on the teacher's catalog.DataType / catalog.Value
// split between a type tag and a payload struct (pkg/catalog/types.go),
// adapted to the five-tag nullable lattice the pipeline language needs.
package value

import "fmt"

// Kind is the tag of a Type in the subtype lattice.
type Kind int

const (
	KindNull Kind = iota
	KindAny
	KindFloat
	KindString
	KindNullableFloat
	KindNullableString
)

// Type is a member of the subtype lattice described in spec.md §3.
type Type struct {
	kind Kind
}

var (
	TypeNull           = Type{KindNull}
	TypeAny            = Type{KindAny}
	TypeFloat          = Type{KindFloat}
	TypeString         = Type{KindString}
	TypeNullableFloat  = Type{KindNullableFloat}
	TypeNullableString = Type{KindNullableString}
)

// Kind returns the underlying tag.
func (t Type) Kind() Kind { return t.kind }

// Name renders the type the way it is written in `add_field` arguments.
func (t Type) Name() string {
	switch t.kind {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindAny:
		return "any"
	case KindNull:
		return "null"
	case KindNullableFloat:
		return "float?"
	case KindNullableString:
		return "string?"
	default:
		return "unknown"
	}
}

func (t Type) String() string { return t.Name() }

// IsSubtypeOf reports whether t ⊑ other under the lattice in spec.md §3:
//
//	X ⊑ Any for all X
//	Null ⊑ NullableFloat,  Float ⊑ NullableFloat
//	Null ⊑ NullableString, String ⊑ NullableString
//	otherwise X ⊑ Y iff X = Y
func (t Type) IsSubtypeOf(other Type) bool {
	switch other.kind {
	case KindAny:
		return true
	case KindNullableFloat:
		return t.kind == KindFloat || t.kind == KindNullableFloat || t.kind == KindNull
	case KindNullableString:
		return t.kind == KindString || t.kind == KindNullableString || t.kind == KindNull
	default:
		return t.kind == other.kind
	}
}

// ParseType parses a type name as used in add_field's second argument.
func ParseType(s string) (Type, error) {
	switch s {
	case "float":
		return TypeFloat, nil
	case "string":
		return TypeString, nil
	case "float?":
		return TypeNullableFloat, nil
	case "string?":
		return TypeNullableString, nil
	case "null":
		return TypeNull, nil
	case "any":
		return TypeAny, nil
	default:
		return Type{}, fmt.Errorf("unknown type: %s", s)
	}
}

// fromValueKind maps a value's own Kind tag to its "natural" Type, used by
// Value.Type() below — a raw float value's type is Float, not NullableFloat.
func fromValueKind(k Kind) Type {
	switch k {
	case KindNull:
		return TypeNull
	case KindFloat:
		return TypeFloat
	case KindString:
		return TypeString
	default:
		return TypeAny
	}
}
