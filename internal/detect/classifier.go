package detect

import (
	"security-camera-monitor/internal/models"
	"security-camera-monitor/internal/reference"
)

const (
	// baseThreshold is the pixel deviation counted as "changed" at
	// sensitivity 100. The mapping to lower sensitivities is linear, so
	// sensitivity 20 requires a deviation of 20 luminance levels.
	baseThreshold = 100.0

	// defaultTriggerRatio is the minimum fraction of the frame that must
	// change before motion is reported. Suppresses single-pixel sensor
	// noise; roughly a 500-pixel blob on a 640x480 frame.
	defaultTriggerRatio = 0.002
)

// ThresholdFor maps a 1-100 sensitivity setting to a pixel deviation
// threshold. Lower sensitivity values give lower thresholds, so more
// pixels count as changed and detection is more sensitive. The mapping
// is monotonic: s1 < s2 implies ThresholdFor(s1) <= ThresholdFor(s2).
func ThresholdFor(sensitivity int) float64 {
	return baseThreshold * float64(sensitivity) / 100.0
}

type ClassifierOption func(*Classifier)

func WithTriggerRatio(ratio float64) ClassifierOption {
	return func(c *Classifier) {
		c.triggerRatio = ratio
	}
}

// Classifier turns a frame into a MotionSignal by counting pixels whose
// deviation from the reference baseline exceeds the sensitivity-derived
// threshold. It never refreshes the baseline itself; refresh timing
// belongs to the monitor loop.
type Classifier struct {
	ref          *reference.Model
	threshold    float64
	triggerRatio float64
}

func NewClassifier(ref *reference.Model, sensitivity int, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		ref:          ref,
		threshold:    ThresholdFor(sensitivity),
		triggerRatio: defaultTriggerRatio,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify compares the frame against the current reference baseline and
// reports whether the changed area is large enough to count as motion.
func (c *Classifier) Classify(f models.Frame) (models.MotionSignal, error) {
	delta, err := c.ref.Compare(f)
	if err != nil {
		return models.MotionSignal{}, err
	}

	changed := 0
	for _, d := range delta {
		if float64(d) > c.threshold {
			changed++
		}
	}

	fraction := 0.0
	if len(delta) > 0 {
		fraction = float64(changed) / float64(len(delta))
	}

	return models.MotionSignal{
		Detected:        fraction > c.triggerRatio,
		ChangedFraction: fraction,
		Timestamp:       f.Timestamp,
	}, nil
}
