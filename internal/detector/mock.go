package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results. Queued results are
// returned one per Detect call before falling back to the fixed hands.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	queue  [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-frame results consumed in order by Detect.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued hands, the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// PointingLandmarks returns a hand with the index finger extended and the
// other fingers curled, translated so the index fingertip sits at (x, y).
func PointingLandmarks(handedness string, x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72}
	landmarks.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.68}
	landmarks.Points[ThumbTip] = Point3D{X: 0.53, Y: 0.66}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.56}
	landmarks.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.49}
	landmarks.Points[IndexTip] = Point3D{X: 0.55, Y: 0.43}

	// Middle, ring and pinky curled back below their PIP joints
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.62}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.66}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.69}

	landmarks.Points[RingMCP] = Point3D{X: 0.46, Y: 0.68}
	landmarks.Points[RingPIP] = Point3D{X: 0.46, Y: 0.64}
	landmarks.Points[RingDIP] = Point3D{X: 0.46, Y: 0.68}
	landmarks.Points[RingTip] = Point3D{X: 0.46, Y: 0.71}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.70}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.67}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.42, Y: 0.70}
	landmarks.Points[PinkyTip] = Point3D{X: 0.42, Y: 0.73}

	return landmarks.moveTipTo(x, y)
}

// FistLandmarks returns a closed hand with every fingertip below its PIP
// joint. The index fingertip is moved to (x, y).
func FistLandmarks(handedness string, x, y float64) HandLandmarks {
	landmarks := PointingLandmarks(handedness, 0.55, 0.43)

	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.60}
	landmarks.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.64}
	landmarks.Points[IndexTip] = Point3D{X: 0.55, Y: 0.67}

	return landmarks.moveTipTo(x, y)
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks(handedness string) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// moveTipTo translates every point so that the index fingertip lands on (x, y).
// Relative finger geometry, and therefore the gesture, is preserved.
func (h HandLandmarks) moveTipTo(x, y float64) HandLandmarks {
	dx := x - h.Points[IndexTip].X
	dy := y - h.Points[IndexTip].Y
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
