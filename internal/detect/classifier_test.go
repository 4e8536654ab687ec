package detect

import (
	"testing"
	"time"

	"security-camera-monitor/internal/models"
	"security-camera-monitor/internal/reference"
)

func grayFrame(w, h int, v uint8) models.Frame {
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = v
	}
	return models.Frame{Pix: pix, Width: w, Height: h, Timestamp: time.Now()}
}

// withRect returns a copy of the frame with a w x h rectangle at the
// origin set to a different value.
func withRect(f models.Frame, rectW, rectH int, v uint8) models.Frame {
	pix := make([]uint8, len(f.Pix))
	copy(pix, f.Pix)
	for y := 0; y < rectH; y++ {
		for x := 0; x < rectW; x++ {
			pix[y*f.Width+x] = v
		}
	}
	return models.Frame{Pix: pix, Width: f.Width, Height: f.Height, Timestamp: f.Timestamp}
}

func TestThresholdMonotonic(t *testing.T) {
	for s := 1; s < 100; s++ {
		if ThresholdFor(s) > ThresholdFor(s+1) {
			t.Fatalf("ThresholdFor(%d) = %f > ThresholdFor(%d) = %f",
				s, ThresholdFor(s), s+1, ThresholdFor(s+1))
		}
	}
}

func TestStaticSceneNoFalsePositive(t *testing.T) {
	ref := reference.New()
	baseline := grayFrame(100, 100, 100)
	ref.Initialize(baseline)

	c := NewClassifier(ref, 20)

	for i := 0; i < 5; i++ {
		sig, err := c.Classify(grayFrame(100, 100, 100))
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if sig.Detected {
			t.Fatalf("frame %d: motion detected on a static scene", i)
		}
		if sig.ChangedFraction != 0 {
			t.Fatalf("frame %d: ChangedFraction = %f, want 0", i, sig.ChangedFraction)
		}
	}
}

func TestLargeChangeDetected(t *testing.T) {
	ref := reference.New()
	baseline := grayFrame(100, 100, 100)
	ref.Initialize(baseline)

	c := NewClassifier(ref, 20)

	// 20x20 rectangle changed out of 100x100: 4% of the frame, well above
	// the trigger ratio.
	sig, err := c.Classify(withRect(baseline, 20, 20, 200))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !sig.Detected {
		t.Fatal("expected motion for a large rectangular change")
	}
	if sig.ChangedFraction != 0.04 {
		t.Errorf("ChangedFraction = %f, want 0.04", sig.ChangedFraction)
	}
}

func TestSubThresholdDeviationIgnored(t *testing.T) {
	ref := reference.New()
	ref.Initialize(grayFrame(100, 100, 100))

	// Sensitivity 20 maps to a threshold of 20 luminance levels; a
	// uniform deviation of 10 stays below it everywhere.
	c := NewClassifier(ref, 20)

	sig, err := c.Classify(grayFrame(100, 100, 110))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if sig.Detected || sig.ChangedFraction != 0 {
		t.Errorf("got Detected=%v ChangedFraction=%f, want quiet", sig.Detected, sig.ChangedFraction)
	}
}

func TestLowerSensitivityDetectsMore(t *testing.T) {
	frame := grayFrame(100, 100, 100)
	changed := grayFrame(100, 100, 130) // deviation of 30 everywhere

	tests := []struct {
		sensitivity int
		want        bool
	}{
		{10, true},  // threshold 10 < 30
		{20, true},  // threshold 20 < 30
		{50, false}, // threshold 50 > 30
		{90, false},
	}

	for _, tt := range tests {
		ref := reference.New()
		ref.Initialize(frame)
		c := NewClassifier(ref, tt.sensitivity)

		sig, err := c.Classify(changed)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if sig.Detected != tt.want {
			t.Errorf("sensitivity %d: Detected = %v, want %v", tt.sensitivity, sig.Detected, tt.want)
		}
	}
}

func TestTriggerRatioSuppressesNoise(t *testing.T) {
	ref := reference.New()
	baseline := grayFrame(100, 100, 100)
	ref.Initialize(baseline)

	// Require half the frame to change: a 4% blob no longer triggers.
	c := NewClassifier(ref, 20, WithTriggerRatio(0.5))

	sig, err := c.Classify(withRect(baseline, 20, 20, 200))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if sig.Detected {
		t.Error("4% change should not trigger with a 50% trigger ratio")
	}
}

func TestClassifyUninitializedReference(t *testing.T) {
	c := NewClassifier(reference.New(), 20)

	if _, err := c.Classify(grayFrame(4, 4, 0)); err == nil {
		t.Fatal("expected error classifying against an uninitialized reference")
	}
}

func TestClassifyDoesNotMutateBaseline(t *testing.T) {
	ref := reference.New()
	ref.Initialize(grayFrame(10, 10, 100))
	c := NewClassifier(ref, 20)

	if _, err := c.Classify(grayFrame(10, 10, 250)); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	// A static frame must still read as quiet: classification never
	// refreshes the baseline.
	sig, err := c.Classify(grayFrame(10, 10, 100))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if sig.Detected {
		t.Error("baseline was mutated by a previous classification")
	}
}
