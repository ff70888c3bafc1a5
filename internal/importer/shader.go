package importer

import "github.com/Faultbox/pointseq/internal/host"

// ColorGraph returns the material attached to every instance template.
// It reads the particle velocity (the color carrier), takes its length
// via sqrt(v.v) and looks the result up in a blue-to-red ramp.
func ColorGraph() host.ShaderGraph {
	return host.ShaderGraph{
		Name: "pointseq_color",
		Nodes: []host.Node{
			{Name: "particle_info", Type: host.NodeParticleInfo},
			{Name: "dot", Type: host.NodeVectorMath, Operation: "DOT_PRODUCT"},
			{Name: "sqrt", Type: host.NodeMath, Operation: "SQRT"},
			{Name: "ramp", Type: host.NodeColorRamp, Ramp: []host.ColorStop{
				{Position: 0, Color: [4]float32{0, 0, 1, 1}},
				{Position: 1, Color: [4]float32{1, 0, 0, 1}},
			}},
			{Name: "diffuse", Type: host.NodeDiffuse},
			{Name: "output", Type: host.NodeOutput},
		},
		Links: []host.Link{
			{From: "particle_info", FromSocket: "Velocity", To: "dot", ToSocket: "Vector"},
			{From: "particle_info", FromSocket: "Velocity", To: "dot", ToSocket: "Vector_001"},
			{From: "dot", FromSocket: "Value", To: "sqrt", ToSocket: "Value"},
			{From: "sqrt", FromSocket: "Value", To: "ramp", ToSocket: "Fac"},
			{From: "ramp", FromSocket: "Color", To: "diffuse", ToSocket: "Color"},
			{From: "diffuse", FromSocket: "BSDF", To: "output", ToSocket: "Surface"},
		},
	}
}
