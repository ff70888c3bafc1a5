// Package headless is an in-memory host application. It keeps objects,
// particle buffers, a playback clock and a notification log, and is used
// for offline playback and as the host in tests.
package headless

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/pointseq/internal/host"
	"github.com/Faultbox/pointseq/internal/logger"
	"github.com/Faultbox/pointseq/pkg/math"
)

// Host errors.
var (
	ErrNoObject      = errors.New("object does not exist")
	ErrCountMismatch = errors.New("write length does not match element count")
	ErrWrongKind     = errors.New("operation not supported for object kind")
	ErrBadDisplay    = errors.New("invalid particle display settings")
)

// Object is one scene object and its particle buffer.
type Object struct {
	Handle host.Handle
	Spec   host.ObjectSpec
	Hidden bool
	World  math.Mat4

	Count     int
	Positions [][3]float32
	Colors    [][3]float32

	ParticleSize float32
	Display      host.DisplayMethod

	Instance host.Handle
	Shader   *host.ShaderGraph
}

// Notification is one message shown to the user.
type Notification struct {
	Frame    int
	Message  string
	Severity host.Severity
}

// Host implements host.Host in memory.
type Host struct {
	frame      int
	playing    bool
	haltCalls  int
	nextHandle host.Handle
	objects    map[host.Handle]*Object

	notifications []Notification

	// CreateErr, when set for a kind, makes CreateObject fail.
	CreateErr map[host.ObjectKind]error
}

var _ host.Host = (*Host)(nil)

// New returns an empty host at frame 0 with playback stopped.
func New() *Host {
	return &Host{
		objects:   make(map[host.Handle]*Object),
		CreateErr: make(map[host.ObjectKind]error),
	}
}

// CurrentFrame returns the timeline frame.
func (h *Host) CurrentFrame() int { return h.frame }

// IsPlaybackActive reports whether the timeline is playing.
func (h *Host) IsPlaybackActive() bool { return h.playing }

// HaltPlayback stops the timeline.
func (h *Host) HaltPlayback() {
	h.haltCalls++
	h.playing = false
}

// SetFrame moves the timeline.
func (h *Host) SetFrame(frame int) { h.frame = frame }

// Play starts playback.
func (h *Host) Play() { h.playing = true }

// HaltCalls returns how many times playback was halted.
func (h *Host) HaltCalls() int { return h.haltCalls }

// Notify records and logs a user notification.
func (h *Host) Notify(message string, severity host.Severity) {
	h.notifications = append(h.notifications, Notification{
		Frame:    h.frame,
		Message:  message,
		Severity: severity,
	})

	fields := []zap.Field{zap.Int("frame", h.frame), zap.Stringer("severity", severity)}
	switch severity {
	case host.SeverityError:
		logger.Error(message, fields...)
	case host.SeverityWarning:
		logger.Warn(message, fields...)
	default:
		logger.Info(message, fields...)
	}
}

// Notifications returns a copy of all recorded notifications.
func (h *Host) Notifications() []Notification {
	out := make([]Notification, len(h.notifications))
	copy(out, h.notifications)
	return out
}

// ClearNotifications drops the notification log.
func (h *Host) ClearNotifications() {
	h.notifications = nil
}

// CreateObject adds an object to the scene.
func (h *Host) CreateObject(spec host.ObjectSpec) (host.Handle, error) {
	if err := h.CreateErr[spec.Kind]; err != nil {
		return 0, err
	}
	h.nextHandle++
	obj := &Object{
		Handle: h.nextHandle,
		Spec:   spec,
		Hidden: spec.Hidden,
		World:  math.Identity(),
	}
	h.objects[obj.Handle] = obj
	logger.Debug("object created",
		zap.Uint64("handle", uint64(obj.Handle)),
		zap.Stringer("kind", spec.Kind),
		zap.String("name", spec.Name))
	return obj.Handle, nil
}

// RemoveObject deletes an object. Removing an emitter's instance clears
// the emitter's link to it.
func (h *Host) RemoveObject(handle host.Handle) error {
	if _, ok := h.objects[handle]; !ok {
		return fmt.Errorf("remove %d: %w", handle, ErrNoObject)
	}
	delete(h.objects, handle)
	for _, o := range h.objects {
		if o.Instance == handle {
			o.Instance = 0
		}
	}
	return nil
}

// SetHidden toggles object visibility.
func (h *Host) SetHidden(handle host.Handle, hidden bool) error {
	obj, err := h.lookup(handle)
	if err != nil {
		return err
	}
	obj.Hidden = hidden
	return nil
}

// Exists reports whether handle refers to a live object.
func (h *Host) Exists(handle host.Handle) bool {
	_, ok := h.objects[handle]
	return ok
}

// FindByTag returns the lowest handle with the given tag and kind.
func (h *Host) FindByTag(tag string, kind host.ObjectKind) (host.Handle, bool) {
	handles := h.sortedHandles()
	for _, hd := range handles {
		o := h.objects[hd]
		if o.Spec.Tag == tag && o.Spec.Kind == kind {
			return hd, true
		}
	}
	return 0, false
}

// WorldMatrix returns the object's world placement.
func (h *Host) WorldMatrix(handle host.Handle) (math.Mat4, error) {
	obj, err := h.lookup(handle)
	if err != nil {
		return math.Mat4{}, err
	}
	return obj.World, nil
}

// SetWorldMatrix moves an object.
func (h *Host) SetWorldMatrix(handle host.Handle, m math.Mat4) error {
	obj, err := h.lookup(handle)
	if err != nil {
		return err
	}
	obj.World = m
	return nil
}

// ElementCount returns the particle buffer size.
func (h *Host) ElementCount(handle host.Handle) (int, error) {
	obj, err := h.emitter(handle)
	if err != nil {
		return 0, err
	}
	return obj.Count, nil
}

// SetElementCount resizes the particle buffer, discarding its contents.
func (h *Host) SetElementCount(handle host.Handle, n int) error {
	obj, err := h.emitter(handle)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("element count %d: %w", n, ErrCountMismatch)
	}
	obj.Count = n
	obj.Positions = make([][3]float32, n)
	obj.Colors = make([][3]float32, n)
	return nil
}

// WritePositions replaces the position channel.
func (h *Host) WritePositions(handle host.Handle, positions [][3]float32) error {
	obj, err := h.emitter(handle)
	if err != nil {
		return err
	}
	if len(positions) != obj.Count {
		return fmt.Errorf("positions: %d for %d elements: %w", len(positions), obj.Count, ErrCountMismatch)
	}
	copy(obj.Positions, positions)
	return nil
}

// WriteColorChannel replaces the velocity channel.
func (h *Host) WriteColorChannel(handle host.Handle, values [][3]float32) error {
	obj, err := h.emitter(handle)
	if err != nil {
		return err
	}
	if len(values) != obj.Count {
		return fmt.Errorf("colors: %d for %d elements: %w", len(values), obj.Count, ErrCountMismatch)
	}
	copy(obj.Colors, values)
	return nil
}

// SetParticleDisplay stores the particle size and display method.
func (h *Host) SetParticleDisplay(handle host.Handle, size float32, method host.DisplayMethod) error {
	obj, err := h.emitter(handle)
	if err != nil {
		return err
	}
	if !method.Valid() || size < 0 {
		return fmt.Errorf("size %g, method %q: %w", size, method, ErrBadDisplay)
	}
	obj.ParticleSize = size
	obj.Display = method
	return nil
}

// SetInstance links an instance template to an emitter.
func (h *Host) SetInstance(emitter, instance host.Handle) error {
	obj, err := h.emitter(emitter)
	if err != nil {
		return err
	}
	if _, err := h.lookup(instance); err != nil {
		return err
	}
	obj.Instance = instance
	return nil
}

// AttachShader stores a copy of the material graph on the object.
func (h *Host) AttachShader(handle host.Handle, graph host.ShaderGraph) error {
	obj, err := h.lookup(handle)
	if err != nil {
		return err
	}
	g := graph
	g.Nodes = append([]host.Node(nil), graph.Nodes...)
	g.Links = append([]host.Link(nil), graph.Links...)
	obj.Shader = &g
	return nil
}

// Object returns the live object behind handle.
func (h *Host) Object(handle host.Handle) (*Object, bool) {
	o, ok := h.objects[handle]
	return o, ok
}

// Objects returns all live objects ordered by handle.
func (h *Host) Objects() []*Object {
	handles := h.sortedHandles()
	out := make([]*Object, len(handles))
	for i, hd := range handles {
		out[i] = h.objects[hd]
	}
	return out
}

// Reload simulates saving and reopening the scene: every object gets a
// new handle while names and tags survive.
func (h *Host) Reload() {
	old := h.objects
	remap := make(map[host.Handle]host.Handle, len(old))
	h.objects = make(map[host.Handle]*Object, len(old))

	for _, hd := range sortedKeys(old) {
		h.nextHandle++
		remap[hd] = h.nextHandle
	}
	for hd, o := range old {
		o.Handle = remap[hd]
		o.Instance = remap[o.Instance]
		h.objects[o.Handle] = o
	}
}

func (h *Host) lookup(handle host.Handle) (*Object, error) {
	obj, ok := h.objects[handle]
	if !ok {
		return nil, fmt.Errorf("handle %d: %w", handle, ErrNoObject)
	}
	return obj, nil
}

func (h *Host) emitter(handle host.Handle) (*Object, error) {
	obj, err := h.lookup(handle)
	if err != nil {
		return nil, err
	}
	if obj.Spec.Kind != host.KindEmitter {
		return nil, fmt.Errorf("%s %d: %w", obj.Spec.Kind, handle, ErrWrongKind)
	}
	return obj, nil
}

func (h *Host) sortedHandles() []host.Handle {
	return sortedKeys(h.objects)
}

func sortedKeys(m map[host.Handle]*Object) []host.Handle {
	keys := make([]host.Handle, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
