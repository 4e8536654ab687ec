package reference

import (
	"testing"
	"time"

	"security-camera-monitor/internal/models"
)

func grayFrame(w, h int, v uint8) models.Frame {
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = v
	}
	return models.Frame{Pix: pix, Width: w, Height: h, Timestamp: time.Now()}
}

func TestCompareBeforeInitialize(t *testing.T) {
	m := New()

	if m.Initialized() {
		t.Fatal("model should not report initialized before Initialize")
	}
	if _, err := m.Compare(grayFrame(4, 4, 10)); err == nil {
		t.Fatal("expected error comparing before Initialize")
	}
}

func TestCompareIdenticalFrame(t *testing.T) {
	m := New()
	m.Initialize(grayFrame(4, 4, 100))

	delta, err := m.Compare(grayFrame(4, 4, 100))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	for i, d := range delta {
		if d != 0 {
			t.Fatalf("delta[%d] = %d, want 0", i, d)
		}
	}
}

func TestCompareAbsoluteDeviation(t *testing.T) {
	m := New()
	m.Initialize(grayFrame(2, 2, 100))

	brighter, _ := m.Compare(grayFrame(2, 2, 130))
	darker, _ := m.Compare(grayFrame(2, 2, 70))

	for i := range brighter {
		if brighter[i] != 30 {
			t.Errorf("brighter delta[%d] = %d, want 30", i, brighter[i])
		}
		if darker[i] != 30 {
			t.Errorf("darker delta[%d] = %d, want 30", i, darker[i])
		}
	}
}

func TestCompareSizeMismatch(t *testing.T) {
	m := New()
	m.Initialize(grayFrame(4, 4, 100))

	if _, err := m.Compare(grayFrame(8, 8, 100)); err == nil {
		t.Fatal("expected error for mismatched frame size")
	}
}

func TestRefreshReplacesBaseline(t *testing.T) {
	m := New()
	m.Initialize(grayFrame(2, 2, 50))
	m.Refresh(grayFrame(2, 2, 200))

	delta, err := m.Compare(grayFrame(2, 2, 200))
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	for i, d := range delta {
		if d != 0 {
			t.Fatalf("delta[%d] = %d after refresh, want 0", i, d)
		}
	}
}
