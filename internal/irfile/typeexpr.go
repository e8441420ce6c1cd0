package irfile

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// maxTypeDepth bounds pointer nesting in a type expression.
const maxTypeDepth = 64

// TypeExpr is a structural type expression. Exactly one field is set.
type TypeExpr struct {
	Scalar string
	Ptr    *TypeExpr
	Opaque string
}

// Scalar returns the expression for a scalar type name.
func Scalar(name string) TypeExpr { return TypeExpr{Scalar: name} }

// PtrTo returns the expression for a pointer to elem.
func PtrTo(elem TypeExpr) TypeExpr { return TypeExpr{Ptr: &elem} }

// Opaque returns the expression for a named opaque type.
func Opaque(name string) TypeExpr { return TypeExpr{Opaque: name} }

// IsZero reports whether no type was given.
func (t TypeExpr) IsZero() bool {
	return t.Scalar == "" && t.Ptr == nil && t.Opaque == ""
}

func (t TypeExpr) String() string {
	switch {
	case t.Ptr != nil:
		return "{ptr: " + t.Ptr.String() + "}"
	case t.Opaque != "":
		return "{opaque: " + t.Opaque + "}"
	case t.Scalar != "":
		return t.Scalar
	}
	return "<none>"
}

func (t TypeExpr) toAny() any {
	switch {
	case t.Ptr != nil:
		return map[string]any{"ptr": t.Ptr.toAny()}
	case t.Opaque != "":
		return map[string]any{"opaque": t.Opaque}
	}
	return t.Scalar
}

func fromAny(v any, depth int) (TypeExpr, error) {
	if depth > maxTypeDepth {
		return TypeExpr{}, fmt.Errorf("type nested deeper than %d levels", maxTypeDepth)
	}
	switch x := v.(type) {
	case string:
		if x == "" {
			return TypeExpr{}, fmt.Errorf("empty type name")
		}
		return Scalar(x), nil
	case map[string]any:
		return fromMap(x, depth)
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			ks, ok := k.(string)
			if !ok {
				return TypeExpr{}, fmt.Errorf("type key %v is not a string", k)
			}
			m[ks] = val
		}
		return fromMap(m, depth)
	case nil:
		return TypeExpr{}, fmt.Errorf("missing type")
	}
	return TypeExpr{}, fmt.Errorf("type must be a name or a one-key map, got %T", v)
}

func fromMap(m map[string]any, depth int) (TypeExpr, error) {
	if len(m) != 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return TypeExpr{}, fmt.Errorf("type map must have exactly one key, got %v", keys)
	}
	if elem, ok := m["ptr"]; ok {
		inner, err := fromAny(elem, depth+1)
		if err != nil {
			return TypeExpr{}, fmt.Errorf("ptr: %w", err)
		}
		return PtrTo(inner), nil
	}
	if name, ok := m["opaque"]; ok {
		s, ok := name.(string)
		if !ok || s == "" {
			return TypeExpr{}, fmt.Errorf("opaque: name must be a non-empty string")
		}
		return Opaque(s), nil
	}
	for k := range m {
		return TypeExpr{}, fmt.Errorf("unknown type constructor %q", k)
	}
	return TypeExpr{}, nil
}

func (t *TypeExpr) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	parsed, err := fromAny(v, 0)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = parsed
	return nil
}

func (t TypeExpr) MarshalYAML() (any, error) {
	return t.toAny(), nil
}

func (t *TypeExpr) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	parsed, err := fromAny(v, 0)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TypeExpr) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(t.toAny())
}
