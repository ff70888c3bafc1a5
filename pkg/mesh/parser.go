package mesh

// Parser reads one geometry file into a Mesh. Implementations wrap an
// external mesh IO library; the core never parses file formats itself.
type Parser interface {
	Parse(path string) (*Mesh, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(path string) (*Mesh, error)

// Parse calls f(path).
func (f ParserFunc) Parse(path string) (*Mesh, error) {
	return f(path)
}
