// Package host declares the operations the sync engine needs from the
// 3D application it drives. The application's scene graph, UI and
// property system stay behind these interfaces.
package host

import (
	"fmt"

	"github.com/Faultbox/pointseq/pkg/math"
)

// Handle identifies a host object. The zero Handle is never valid.
type Handle uint64

// ObjectKind selects what the host creates.
type ObjectKind int

// Object kinds.
const (
	// KindEmitter is the invisible positional anchor owning the particle buffer.
	KindEmitter ObjectKind = iota
	// KindInstance is the hidden template rendered once per particle.
	KindInstance
)

// String returns the kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindEmitter:
		return "emitter"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Severity grades user notifications.
type Severity int

// Notification severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// DisplayMethod is how the viewport draws particles.
type DisplayMethod string

// Particle display methods.
const (
	DisplayNone   DisplayMethod = "NONE"
	DisplayRender DisplayMethod = "RENDER"
	DisplayDot    DisplayMethod = "DOT"
	DisplayCircle DisplayMethod = "CIRC"
	DisplayCross  DisplayMethod = "CROSS"
	DisplayAxis   DisplayMethod = "AXIS"
)

// Valid reports whether m is one of the known display methods.
func (m DisplayMethod) Valid() bool {
	switch m {
	case DisplayNone, DisplayRender, DisplayDot, DisplayCircle, DisplayCross, DisplayAxis:
		return true
	}
	return false
}

// ObjectSpec describes an object to create.
type ObjectSpec struct {
	Kind ObjectKind
	Name string
	// Tag is stored on the object so an importer can find it again when
	// its handle does not survive a session reload.
	Tag    string
	Hidden bool
}

// Clock exposes the host animation timeline.
type Clock interface {
	CurrentFrame() int
	IsPlaybackActive() bool
	HaltPlayback()
}

// Notifier shows non-blocking messages to the user.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Scene is the subset of the host object model the engine writes to.
type Scene interface {
	CreateObject(spec ObjectSpec) (Handle, error)
	RemoveObject(h Handle) error
	SetHidden(h Handle, hidden bool) error
	// Exists reports whether the object behind h is still in the scene.
	Exists(h Handle) bool
	// FindByTag is a recovery lookup; handles are the primary reference.
	FindByTag(tag string, kind ObjectKind) (Handle, bool)

	WorldMatrix(h Handle) (math.Mat4, error)
	SetWorldMatrix(h Handle, m math.Mat4) error

	ElementCount(h Handle) (int, error)
	// SetElementCount resizes the particle buffer. Resizing discards all
	// per-element data.
	SetElementCount(h Handle, n int) error
	WritePositions(h Handle, positions [][3]float32) error
	// WriteColorChannel writes the velocity channel that carries color data.
	WriteColorChannel(h Handle, values [][3]float32) error
	// SetParticleDisplay sets the particle size, used for both render and
	// viewport, and the viewport display method.
	SetParticleDisplay(h Handle, size float32, method DisplayMethod) error

	// SetInstance makes instance the object rendered for each particle of emitter.
	SetInstance(emitter, instance Handle) error
	// AttachShader builds the given node graph as the object's material.
	AttachShader(h Handle, graph ShaderGraph) error
}

// Host is everything the engine consumes.
type Host interface {
	Clock
	Notifier
	Scene
}
