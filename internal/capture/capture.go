// Package capture owns the OpenCV boundary: camera acquisition, frame
// preprocessing and artifact encoding. Everything above it works on plain
// grayscale frames and knows nothing about gocv.
package capture

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"security-camera-monitor/internal/models"
	"security-camera-monitor/internal/monitor"

	"gocv.io/x/gocv"
)

// gaussianKernel is the blur kernel applied before differencing. Smooths
// sensor noise so the classifier sees scene change, not grain.
var gaussianKernel = image.Pt(21, 21)

// Device is a frame source backed by a local camera.
type Device struct {
	cam    *gocv.VideoCapture
	raw    gocv.Mat
	gray   gocv.Mat
	width  int
	height int
	fps    float64
}

func OpenDevice(cameraID int) (*Device, error) {
	cam, err := gocv.OpenVideoCapture(cameraID)
	if err != nil {
		return nil, fmt.Errorf("%w: camera %d: %v", models.ErrDeviceUnavailable, cameraID, err)
	}
	if !cam.IsOpened() {
		cam.Close()
		return nil, fmt.Errorf("%w: camera %d could not be opened", models.ErrDeviceUnavailable, cameraID)
	}

	fps := cam.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = 30
	}

	return &Device{
		cam:    cam,
		raw:    gocv.NewMat(),
		gray:   gocv.NewMat(),
		width:  int(cam.Get(gocv.VideoCaptureFrameWidth)),
		height: int(cam.Get(gocv.VideoCaptureFrameHeight)),
		fps:    fps,
	}, nil
}

// FPS reports the capture rate the device advertises.
func (d *Device) FPS() float64 {
	return d.fps
}

// Next blocks until the camera yields a frame, then returns it as a
// blurred grayscale grid stamped with the capture time.
func (d *Device) Next() (models.Frame, error) {
	if ok := d.cam.Read(&d.raw); !ok || d.raw.Empty() {
		return models.Frame{}, fmt.Errorf("%w: could not read frame", models.ErrCaptureFailed)
	}
	captured := time.Now()

	gocv.CvtColor(d.raw, &d.gray, gocv.ColorBGRToGray)
	gocv.GaussianBlur(d.gray, &d.gray, gaussianKernel, 0, 0, gocv.BorderDefault)

	return models.Frame{
		Pix:       d.gray.ToBytes(),
		Width:     d.gray.Cols(),
		Height:    d.gray.Rows(),
		Timestamp: captured,
	}, nil
}

func (d *Device) Close() error {
	d.raw.Close()
	d.gray.Close()
	return d.cam.Close()
}

// Store writes the per-episode artifacts: an XVID-encoded .avi clip and a
// .jpg screenshot, both under the recordings directory.
type Store struct {
	fps float64
}

func NewStore(fps float64) *Store {
	return &Store{fps: fps}
}

func (s *Store) NewVideoWriter(path string, first models.Frame) (monitor.Recorder, error) {
	writer, err := gocv.VideoWriterFile(path, "XVID", s.fps, first.Width, first.Height, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open video writer: %w", err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("video writer did not open for %s", path)
	}
	return &videoWriter{writer: writer}, nil
}

func (s *Store) SaveScreenshot(path string, f models.Frame) error {
	mat, err := frameMat(f)
	if err != nil {
		return err
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to write screenshot %s", path)
	}
	return nil
}

type videoWriter struct {
	writer *gocv.VideoWriter
}

func (w *videoWriter) WriteFrame(f models.Frame) error {
	mat, err := frameMat(f)
	if err != nil {
		return err
	}
	defer mat.Close()

	// The overlay only touches the mat copy, never the shared frame.
	gocv.PutText(&mat, f.Timestamp.Format("Monday 02 January 2006 03:04:05PM"),
		image.Pt(10, f.Height-10), gocv.FontHersheySimplex, 0.5, color.RGBA{R: 255, G: 255, B: 255}, 1)

	if err := w.writer.Write(mat); err != nil {
		return fmt.Errorf("failed to append frame: %w", err)
	}
	return nil
}

func (w *videoWriter) Close() error {
	return w.writer.Close()
}

// frameMat builds a single-channel mat holding a copy of the frame's
// pixels.
func frameMat(f models.Frame) (gocv.Mat, error) {
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8U, f.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to build mat from frame: %w", err)
	}
	return mat, nil
}
