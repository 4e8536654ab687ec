package reference

import (
	"fmt"

	"security-camera-monitor/internal/models"
)

// Model holds the background estimate the classifier compares frames
// against. The baseline is replaced wholesale on Initialize/Refresh and
// never mutated in place, so a comparison always sees a consistent frame.
type Model struct {
	baseline models.Frame
	ready    bool
}

func New() *Model {
	return &Model{}
}

// Initialize sets the first captured frame as the baseline.
func (m *Model) Initialize(f models.Frame) {
	m.baseline = f
	m.ready = true
}

// Initialized reports whether a baseline has been set.
func (m *Model) Initialized() bool {
	return m.ready
}

// Refresh replaces the baseline with the given frame. Callers must not
// refresh while a recording session is active; the monitor loop defers
// refresh requests until the session ends.
func (m *Model) Refresh(f models.Frame) {
	m.baseline = f
}

// Compare produces the per-pixel absolute deviation of f from the
// baseline. It does not mutate the baseline. Calling Compare before
// Initialize is a precondition violation and fatal to the caller.
func (m *Model) Compare(f models.Frame) ([]uint8, error) {
	if !m.ready {
		return nil, fmt.Errorf("reference model not initialized")
	}
	if f.Width != m.baseline.Width || f.Height != m.baseline.Height {
		return nil, fmt.Errorf("frame size %dx%d does not match baseline %dx%d",
			f.Width, f.Height, m.baseline.Width, m.baseline.Height)
	}

	delta := make([]uint8, len(f.Pix))
	for i, p := range f.Pix {
		b := m.baseline.Pix[i]
		if p >= b {
			delta[i] = p - b
		} else {
			delta[i] = b - p
		}
	}
	return delta, nil
}
