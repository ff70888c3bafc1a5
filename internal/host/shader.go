package host

// NodeType names a shader node.
type NodeType string

// Node types used by the particle color graph.
const (
	NodeParticleInfo NodeType = "particle_info"
	NodeVectorMath   NodeType = "vector_math"
	NodeMath         NodeType = "math"
	NodeColorRamp    NodeType = "color_ramp"
	NodeDiffuse      NodeType = "diffuse_bsdf"
	NodeOutput       NodeType = "material_output"
)

// ColorStop is one entry of a color ramp.
type ColorStop struct {
	Position float32
	Color    [4]float32
}

// Node is one shader node.
type Node struct {
	Name      string
	Type      NodeType
	Operation string
	Ramp      []ColorStop
}

// Link connects an output socket to an input socket.
type Link struct {
	From       string
	FromSocket string
	To         string
	ToSocket   string
}

// ShaderGraph is a static material node graph.
type ShaderGraph struct {
	Name  string
	Nodes []Node
	Links []Link
}

// Node returns the node with the given name.
func (g ShaderGraph) Node(name string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}
