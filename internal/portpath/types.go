package portpath

// Path is a parsed port path.
type Path struct {
	// Module holds the relative module path segments, outermost first.
	Module []string
	// Prefix is the port's signal prefix.
	Prefix string
	// Index selects one port of a fanned-out group; -1 means none.
	Index int
}

// New builds a Path from its components.
func New(module []string, prefix string, index int) *Path {
	return &Path{
		Module: append([]string(nil), module...),
		Prefix: prefix,
		Index:  index,
	}
}
