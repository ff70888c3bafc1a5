// Package pointio reads and writes point-cloud frames stored as YAML.
//
// The format is a plain fixture format for headless playback and tests:
//
//	points:
//	  - [0, 0, 0]
//	  - [1, 0, 0]
//	point_data:
//	  speed:
//	    data: [0.5, 2]
//	  velocity:
//	    rows: [[1, 0, 0], [0, 1, 0]]
//
// Real mesh formats are read by an external parser behind mesh.Parser.
package pointio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/pointseq/pkg/mesh"
)

// Format errors.
var (
	ErrRaggedRows = errors.New("attribute rows have different widths")
	ErrBadShape   = errors.New("attribute shape does not match data")
)

type frameFile struct {
	Points    [][3]float32         `yaml:"points"`
	PointData map[string]fieldFile `yaml:"point_data,omitempty"`
}

type fieldFile struct {
	Shape []int       `yaml:"shape,omitempty"`
	Data  []float32   `yaml:"data,omitempty"`
	Rows  [][]float32 `yaml:"rows,omitempty"`
}

// Parser implements mesh.Parser for YAML frames.
type Parser struct{}

// Parse reads the frame at path.
func (Parser) Parse(path string) (*mesh.Mesh, error) {
	return Read(path)
}

// Read loads one frame from a YAML file.
func Read(path string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses one frame from YAML bytes.
func Decode(data []byte) (*mesh.Mesh, error) {
	var f frameFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}

	m := &mesh.Mesh{
		Points:    f.Points,
		PointData: make(map[string]mesh.Attribute, len(f.PointData)),
	}
	if m.Points == nil {
		m.Points = [][3]float32{}
	}

	for name, field := range f.PointData {
		attr, err := field.attribute()
		if err != nil {
			return nil, fmt.Errorf("point_data %q: %w", name, err)
		}
		m.PointData[name] = attr
	}
	return m, nil
}

func (f fieldFile) attribute() (mesh.Attribute, error) {
	if len(f.Rows) > 0 {
		width := len(f.Rows[0])
		data := make([]float32, 0, len(f.Rows)*width)
		for _, row := range f.Rows {
			if len(row) != width {
				return mesh.Attribute{}, ErrRaggedRows
			}
			data = append(data, row...)
		}
		return mesh.Attribute{Shape: []int{len(f.Rows), width}, Data: data}, nil
	}

	attr := mesh.Attribute{Shape: f.Shape, Data: f.Data}
	if attr.Shape == nil {
		attr.Shape = []int{len(f.Data)}
	}
	if attr.Data == nil {
		attr.Data = []float32{}
	}
	if err := attr.Validate(); err != nil {
		return mesh.Attribute{}, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return attr, nil
}

// Encode serializes a frame. Rank-2 attributes are written as rows, all
// others as shape plus flat data.
func Encode(m *mesh.Mesh) ([]byte, error) {
	f := frameFile{Points: m.Points}
	if len(m.PointData) > 0 {
		f.PointData = make(map[string]fieldFile, len(m.PointData))
	}
	for name, attr := range m.PointData {
		if attr.Rank() == 2 {
			rows := make([][]float32, attr.Len())
			for i := range rows {
				rows[i] = append([]float32(nil), attr.Row(i)...)
			}
			f.PointData[name] = fieldFile{Rows: rows}
			continue
		}
		f.PointData[name] = fieldFile{Shape: attr.Shape, Data: attr.Data}
	}
	return yaml.Marshal(&f)
}

// Write stores a frame at path, creating parent directories.
func Write(path string, m *mesh.Mesh) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
