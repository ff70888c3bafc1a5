package script

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// EntryPoint is the function a text script must define.
const EntryPoint = "Preprocess"

// HelperImport is the import path of the helper package available to
// scripts: frames.Load(path) and frames.Path(seq, frame).
const HelperImport = "pointseq/frames"

// LoadFile reads Go source from path and compiles it with Load. The script
// name is the file base name.
func LoadFile(path string, p mesh.Parser) (*Preprocessor, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return Load(filepath.Base(path), string(src), p)
}

// Load interprets Go source once and checks that it defines
//
//	func Preprocess(seq *sequence.Sequence, frame int) (*mesh.Mesh, error)
//
// Scripts may import the standard library, the mesh and sequence packages
// and HelperImport, whose Load uses p.
func Load(name, src string, p mesh.Parser) (*Preprocessor, error) {
	pkg, err := packageName(name, src)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading stdlib symbols: %w", err)
	}
	if err := i.Use(exports(p)); err != nil {
		return nil, fmt.Errorf("loading pointseq symbols: %w", err)
	}

	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScript, name, err)
	}

	v, err := i.Eval(pkg + "." + EntryPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s not found: %v", ErrInvalidScript, name, EntryPoint, err)
	}

	fn, ok := v.Interface().(func(*sequence.Sequence, int) (*mesh.Mesh, error))
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s has type %s", ErrInvalidScript, name, EntryPoint, v.Type())
	}
	return Native(name, fn)
}

func packageName(name, src string) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), name, src, parser.PackageClauseOnly)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	return f.Name.Name, nil
}

// exports builds the symbol table handed to the interpreter.
func exports(p mesh.Parser) interp.Exports {
	return interp.Exports{
		"github.com/Faultbox/pointseq/pkg/mesh/mesh": {
			"Mesh":      reflect.ValueOf((*mesh.Mesh)(nil)),
			"Attribute": reflect.ValueOf((*mesh.Attribute)(nil)),
			"Scalar":    reflect.ValueOf(mesh.Scalar),
			"Vectors":   reflect.ValueOf(mesh.Vectors),
		},
		"github.com/Faultbox/pointseq/pkg/sequence/sequence": {
			"Sequence": reflect.ValueOf((*sequence.Sequence)(nil)),
		},
		HelperImport + "/frames": {
			"Load": reflect.ValueOf(func(path string) (*mesh.Mesh, error) {
				if p == nil {
					return nil, fmt.Errorf("no parser configured")
				}
				return p.Parse(path)
			}),
			"Path": reflect.ValueOf(func(seq *sequence.Sequence, frame int) (string, error) {
				return seq.Resolve(frame)
			}),
		},
	}
}
