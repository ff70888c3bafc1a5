package importer

import (
	"errors"
	"fmt"

	"github.com/Faultbox/pointseq/internal/script"
	"github.com/Faultbox/pointseq/pkg/sequence"
)

// Importer errors. Per-frame errors are reported to the user and returned
// in FrameReport.Err; they are never raised to the host.
var (
	ErrEmptySequence         = sequence.ErrEmptySequence
	ErrScriptExecutionFailed = script.ErrScriptExecutionFailed
	ErrFrameLoadFailed       = errors.New("frame load failed")
	ErrAttributeDimension    = errors.New("attribute has unsupported dimensions")
	ErrAttributeMissing      = errors.New("attribute missing in this frame")
	ErrBackingObjectRemoved  = errors.New("backing object was removed")
	ErrSequenceMissing       = errors.New("sequence is no longer available")
	ErrHostCall              = errors.New("host call failed")
	ErrInvalidSettings       = errors.New("invalid importer settings")
	ErrBootstrapFailed       = errors.New("import failed")
	ErrAlreadyImported       = errors.New("importer name already in use")
	ErrBootstrapInProgress   = errors.New("another import is in progress")
	ErrUnknownImporter       = errors.New("no importer with that name")
	ErrNotFound              = errors.New("backing object not found by tag")
)

// FrameLoadError reports a frame whose file could not be read or parsed.
type FrameLoadError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *FrameLoadError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Path, e.Err)
}

// Unwrap returns the parser error.
func (e *FrameLoadError) Unwrap() error { return e.Err }

// Is matches ErrFrameLoadFailed.
func (e *FrameLoadError) Is(target error) bool { return target == ErrFrameLoadFailed }

// AttributeMissingError reports a selected attribute absent from a frame.
type AttributeMissingError struct {
	Name string
}

// Error implements error.
func (e *AttributeMissingError) Error() string {
	return fmt.Sprintf("attribute %q not present in this frame", e.Name)
}

// Is matches ErrAttributeMissing.
func (e *AttributeMissingError) Is(target error) bool { return target == ErrAttributeMissing }
