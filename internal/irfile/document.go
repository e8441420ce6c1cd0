package irfile

// Document is the on-disk form of one module.
type Document struct {
	Name  string    `yaml:"module" msgpack:"module"`
	Funcs []FuncDoc `yaml:"funcs" msgpack:"funcs"`
}

type FuncDoc struct {
	Name   string     `yaml:"name" msgpack:"name"`
	Loc    string     `yaml:"loc,omitempty" msgpack:"loc,omitempty"`
	Blocks []BlockDoc `yaml:"blocks" msgpack:"blocks"`
}

type BlockDoc struct {
	Label string  `yaml:"label" msgpack:"label"`
	Ops   []OpDoc `yaml:"ops" msgpack:"ops"`
}

// OpDoc is one operation. Op accepts the qualified ("bril.load") or bare
// ("load") name; Loc is "file[:line[:col]]".
type OpDoc struct {
	Op       string     `yaml:"op" msgpack:"op"`
	Loc      string     `yaml:"loc,omitempty" msgpack:"loc,omitempty"`
	Operands []ValueDoc `yaml:"operands,omitempty" msgpack:"operands,omitempty"`
	Results  []ValueDoc `yaml:"results,omitempty" msgpack:"results,omitempty"`
}

type ValueDoc struct {
	Name string   `yaml:"name" msgpack:"name"`
	Type TypeExpr `yaml:"type" msgpack:"type"`
}
