package importer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/pointseq/internal/host"
	"github.com/Faultbox/pointseq/pkg/math"
	"github.com/Faultbox/pointseq/pkg/mesh"
	"github.com/Faultbox/pointseq/pkg/normalize"
)

// FrameReport describes what one Update did. Err is informational only:
// it has already been shown to the user.
type FrameReport struct {
	Frame            int
	Path             string
	Points           int
	Resized          bool
	PositionsWritten bool
	ColorWritten     bool
	Err              error
}

// Update synchronizes the backing particle buffer with frame. It is the
// host's frame-change callback and never panics.
//
// On a load failure the buffer keeps the last good frame and playback is
// halted. On a color failure the positions are still written.
func (imp *Importer) Update(frame int) (report FrameReport) {
	report.Frame = frame
	defer func() {
		if r := recover(); r != nil {
			report.Err = fmt.Errorf("%w: panic: %v", ErrHostCall, r)
			imp.halt()
			imp.notify(fmt.Sprintf("%s: frame %d aborted: %v", imp.name, frame, r), host.SeverityError)
		}
	}()

	if imp.state != StateActive {
		report.Err = ErrBackingObjectRemoved
		return report
	}
	if !imp.host.Exists(imp.emitter) {
		imp.invalidate()
		report.Err = ErrBackingObjectRemoved
		return report
	}

	m, path, err := imp.loadFrame(frame)
	report.Path = path
	if err != nil {
		report.Err = err
		imp.halt()
		imp.notify(fmt.Sprintf("%s: frame %d skipped: %v", imp.name, frame, err), host.SeverityError)
		return report
	}
	report.Points = m.PointCount()

	if err := imp.writeFrame(m, &report); err != nil {
		report.Err = err
		return report
	}

	imp.log.Debug("frame synced",
		zap.Int("frame", frame),
		zap.String("path", path),
		zap.Int("points", report.Points),
		zap.Bool("resized", report.Resized),
		zap.Bool("color", report.ColorWritten))
	return report
}

// writeFrame resizes the buffer, writes positions and then color. A
// color failure is notified and returned after positions are committed.
func (imp *Importer) writeFrame(m *mesh.Mesh, report *FrameReport) error {
	n := m.PointCount()

	count, err := imp.host.ElementCount(imp.emitter)
	if err != nil {
		return imp.hostFailure("read element count", err)
	}
	if count != n {
		if err := imp.host.SetElementCount(imp.emitter, n); err != nil {
			return imp.hostFailure("resize particle buffer", err)
		}
		report.Resized = true
	}

	world, err := imp.host.WorldMatrix(imp.emitter)
	if err != nil {
		return imp.hostFailure("read world matrix", err)
	}
	if err := imp.host.WritePositions(imp.emitter, math.TransformPoints(m.Points, world)); err != nil {
		return imp.hostFailure("write positions", err)
	}
	report.PositionsWritten = true

	channel, colorErr := imp.colorChannel(m)
	if colorErr != nil {
		imp.notify(fmt.Sprintf("%s: color not updated: %v", imp.name, colorErr), host.SeverityWarning)
		if !report.Resized {
			return colorErr
		}
		// The resize discarded the old channel; keep it consistent.
		channel = normalize.Zero(n)
	}
	if err := imp.host.WriteColorChannel(imp.emitter, channel); err != nil {
		return imp.hostFailure("write color channel", err)
	}
	report.ColorWritten = colorErr == nil
	return colorErr
}

// colorChannel applies the current settings to m.
func (imp *Importer) colorChannel(m *mesh.Mesh) ([][3]float32, error) {
	s := imp.settings
	n := m.PointCount()
	if s.Attribute == "" {
		return normalize.Zero(n), nil
	}

	attr, ok := m.Attribute(s.Attribute)
	if !ok {
		return nil, &AttributeMissingError{Name: s.Attribute}
	}

	res, err := normalize.Normalize(attr, n, s.Policy())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrAttributeDimension, s.Attribute, err)
	}
	if res.HasObserved {
		imp.currentRange, imp.hasRange = res.Observed, true
	}
	return res.Channel, nil
}

// loadFrame returns the mesh for frame, via the preprocess script when
// one is set and otherwise by resolving and parsing the frame file.
func (imp *Importer) loadFrame(frame int) (*mesh.Mesh, string, error) {
	seq, ok := imp.library.Get(imp.seqName)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrSequenceMissing, imp.seqName)
	}

	if imp.script != nil {
		m, err := imp.script.Run(seq, frame)
		return m, "", err
	}

	path, err := seq.Resolve(frame)
	if err != nil {
		return nil, "", err
	}
	m, err := imp.parse(path)
	if err != nil {
		return nil, path, &FrameLoadError{Path: path, Err: err}
	}
	return m, path, nil
}

func (imp *Importer) parse(path string) (m *mesh.Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("parser panic: %v", r)
		}
	}()
	m, err = imp.parser.Parse(path)
	if err == nil && m == nil {
		err = errors.New("parser returned no mesh")
	}
	return m, err
}

// invalidate moves to StateInvalid and notifies exactly once.
func (imp *Importer) invalidate() {
	imp.state = StateInvalid
	if imp.invalidNotified {
		return
	}
	imp.invalidNotified = true
	imp.halt()
	imp.notify(fmt.Sprintf("%s: %v; remove the sequence or re-import it", imp.name, ErrBackingObjectRemoved), host.SeverityError)
}

func (imp *Importer) hostFailure(op string, err error) error {
	err = fmt.Errorf("%w: %s: %w", ErrHostCall, op, err)
	imp.halt()
	imp.notify(fmt.Sprintf("%s: %v", imp.name, err), host.SeverityError)
	return err
}

func (imp *Importer) halt() {
	if imp.host.IsPlaybackActive() {
		imp.host.HaltPlayback()
		imp.log.Info("playback halted")
	}
}

func (imp *Importer) notify(msg string, severity host.Severity) {
	imp.host.Notify(msg, severity)
	switch severity {
	case host.SeverityError:
		imp.log.Error(msg)
	case host.SeverityWarning:
		imp.log.Warn(msg)
	default:
		imp.log.Info(msg)
	}
}
