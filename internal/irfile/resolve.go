package irfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"bril/internal/ir"
	"bril/internal/types"
)

var (
	ErrUnknownOp   = errors.New("unknown operation")
	ErrUnknownType = errors.New("unknown type")
	ErrBadLocation = errors.New("malformed location")
)

// Module resolves every type expression through a fresh interner and builds
// the module. Errors wrap ErrInvalid and name the func/block/op they hit.
func (d *Document) Module() (*ir.Module, error) {
	m := ir.NewModule(d.Name)
	r := resolver{in: m.Types}

	for fi, fd := range d.Funcs {
		floc, err := ParseLocation(fd.Loc)
		if err != nil {
			return nil, fmt.Errorf("%w: func %d (%s): %w", ErrInvalid, fi, fd.Name, err)
		}
		fb := m.AddFunc(fd.Name, floc)
		for bi, bd := range fd.Blocks {
			fb.Block(bd.Label)
			for oi, od := range bd.Ops {
				if err := r.op(fb, od); err != nil {
					return nil, fmt.Errorf("%w: func %d (%s) block %d op %d: %w", ErrInvalid, fi, fd.Name, bi, oi, err)
				}
			}
		}
	}
	return m, nil
}

type resolver struct {
	in *types.Interner
}

func (r resolver) op(fb *ir.FuncBuilder, od OpDoc) error {
	kind, ok := ir.LookupOpKind(od.Op)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownOp, od.Op)
	}
	loc, err := ParseLocation(od.Loc)
	if err != nil {
		return err
	}
	operands, err := r.values(od.Operands, "operand")
	if err != nil {
		return err
	}
	results, err := r.values(od.Results, "result")
	if err != nil {
		return err
	}
	fb.Op(kind, operands, results, loc)
	return nil
}

func (r resolver) values(docs []ValueDoc, role string) ([]ir.Value, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]ir.Value, len(docs))
	for i, vd := range docs {
		id, err := r.typ(vd.Type)
		if err != nil {
			return nil, fmt.Errorf("%s %d (%s): %w", role, i, vd.Name, err)
		}
		out[i] = ir.Value{Name: vd.Name, Type: id}
	}
	return out, nil
}

func (r resolver) typ(t TypeExpr) (types.TypeID, error) {
	switch {
	case t.Ptr != nil:
		elem, err := r.typ(*t.Ptr)
		if err != nil {
			return types.NoTypeID, err
		}
		return r.in.Pointer(elem), nil
	case t.Opaque != "":
		return r.in.Opaque(t.Opaque), nil
	case t.Scalar != "":
		return r.scalar(t.Scalar)
	}
	return types.NoTypeID, fmt.Errorf("%w: missing type", ErrUnknownType)
}

func (r resolver) scalar(name string) (types.TypeID, error) {
	switch name {
	case "bool":
		return r.in.Bool(), nil
	case "char":
		return r.in.Char(), nil
	case "int":
		return r.in.Builtins().Int, nil
	case "float":
		return r.in.Builtins().Float, nil
	}
	if len(name) < 2 {
		return types.NoTypeID, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
	var kind types.Kind
	switch name[0] {
	case 'i':
		kind = types.KindInt
	case 'f':
		kind = types.KindFloat
	default:
		return types.NoTypeID, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
	n, err := strconv.ParseUint(name[1:], 10, 64)
	if err != nil {
		return types.NoTypeID, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
	w8, err := safecast.Conv[uint8](n)
	if err != nil || !types.Width(w8).Valid(kind) {
		return types.NoTypeID, fmt.Errorf("%w %q: unsupported width", ErrUnknownType, name)
	}
	if kind == types.KindInt {
		return r.in.Int(types.Width(w8)), nil
	}
	return r.in.Float(types.Width(w8)), nil
}

// ParseLocation parses "file", "file:line" or "file:line:col".
// The empty string is the unknown location.
func ParseLocation(s string) (ir.Location, error) {
	if s == "" {
		return ir.Location{}, nil
	}
	file := s
	var nums []uint32
	for len(nums) < 2 {
		i := strings.LastIndexByte(file, ':')
		if i < 0 {
			break
		}
		n, err := strconv.ParseUint(file[i+1:], 10, 64)
		if err != nil {
			break
		}
		v, err := safecast.Conv[uint32](n)
		if err != nil {
			return ir.Location{}, fmt.Errorf("%w %q: %w", ErrBadLocation, s, err)
		}
		nums = append(nums, v)
		file = file[:i]
	}
	if file == "" {
		return ir.Location{}, fmt.Errorf("%w %q: missing file", ErrBadLocation, s)
	}
	loc := ir.Location{File: file}
	switch len(nums) {
	case 1:
		loc.Line = nums[0]
	case 2:
		loc.Line, loc.Col = nums[1], nums[0]
	}
	return loc, nil
}

// FromModule converts a module back to its document form.
func FromModule(m *ir.Module) (*Document, error) {
	if m == nil {
		return nil, errors.New("nil module")
	}
	doc := &Document{Name: m.Name, Funcs: make([]FuncDoc, 0, len(m.Funcs))}
	for _, f := range m.Funcs {
		fd := FuncDoc{Name: f.Name, Loc: formatLocation(f.Loc)}
		for _, bb := range f.Blocks {
			bd := BlockDoc{Label: bb.Label, Ops: make([]OpDoc, 0, len(bb.Ops))}
			for _, op := range bb.Ops {
				od := OpDoc{Op: op.Kind.String(), Loc: formatLocation(op.Loc)}
				var err error
				if od.Operands, err = valueDocs(m.Types, op.Operands); err != nil {
					return nil, fmt.Errorf("func %s: %s: %w", f.Name, od.Op, err)
				}
				if od.Results, err = valueDocs(m.Types, op.Results); err != nil {
					return nil, fmt.Errorf("func %s: %s: %w", f.Name, od.Op, err)
				}
				bd.Ops = append(bd.Ops, od)
			}
			fd.Blocks = append(fd.Blocks, bd)
		}
		doc.Funcs = append(doc.Funcs, fd)
	}
	return doc, nil
}

func formatLocation(loc ir.Location) string {
	if !loc.Known() {
		return ""
	}
	return loc.String()
}

func valueDocs(in *types.Interner, vals []ir.Value) ([]ValueDoc, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	out := make([]ValueDoc, len(vals))
	for i, v := range vals {
		t, err := typeExprOf(in, v.Type, 0)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", v.Name, err)
		}
		out[i] = ValueDoc{Name: v.Name, Type: t}
	}
	return out, nil
}

func typeExprOf(in *types.Interner, id types.TypeID, depth int) (TypeExpr, error) {
	if depth > maxTypeDepth {
		return TypeExpr{}, fmt.Errorf("type nested deeper than %d levels", maxTypeDepth)
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return TypeExpr{}, fmt.Errorf("%w: invalid type id %d", ErrUnknownType, id)
	}
	switch tt.Kind {
	case types.KindBool:
		return Scalar("bool"), nil
	case types.KindChar:
		return Scalar("char"), nil
	case types.KindInt:
		return Scalar(fmt.Sprintf("i%d", tt.Width)), nil
	case types.KindFloat:
		return Scalar(fmt.Sprintf("f%d", tt.Width)), nil
	case types.KindPointer:
		elem, err := typeExprOf(in, tt.Elem, depth+1)
		if err != nil {
			return TypeExpr{}, err
		}
		return PtrTo(elem), nil
	case types.KindOpaque:
		name, _ := in.OpaqueName(id)
		return Opaque(name), nil
	}
	return TypeExpr{}, fmt.Errorf("%w: %s", ErrUnknownType, tt.Kind)
}
