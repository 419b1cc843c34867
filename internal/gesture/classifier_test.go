package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/gesturetoe/internal/detector"
)

func TestClassify(t *testing.T) {
	palmThreeFingers := detector.OpenPalmLandmarks(detector.Right)
	// Pinky folded: no partial credit for open palm
	palmThreeFingers.Points[detector.PinkyTip].Y = palmThreeFingers.Points[detector.PinkyPIP].Y + 0.05

	// Index and middle up, ring and pinky down: neither palm, fist nor point
	peace := detector.OpenPalmLandmarks(detector.Left)
	peace.Points[detector.RingTip].Y = peace.Points[detector.RingPIP].Y + 0.05
	peace.Points[detector.PinkyTip].Y = peace.Points[detector.PinkyPIP].Y + 0.05

	// Tip exactly level with the joint is neither above nor below
	level := detector.OpenPalmLandmarks(detector.Left)
	level.Points[detector.IndexTip].Y = level.Points[detector.IndexPIP].Y

	tests := []struct {
		name string
		hand *detector.HandLandmarks
		want Label
	}{
		{name: "nil hand", hand: nil, want: None},
		{name: "open palm", hand: ptr(detector.OpenPalmLandmarks(detector.Right)), want: OpenPalm},
		{name: "fist", hand: ptr(detector.FistLandmarks(detector.Left, 0.5, 0.5)), want: Fist},
		{name: "pointing", hand: ptr(detector.PointingLandmarks(detector.Left, 0.5, 0.5)), want: Pointing},
		{name: "three fingers is not a palm", hand: &palmThreeFingers, want: None},
		{name: "peace sign is ambiguous", hand: &peace, want: None},
		{name: "level fingertip breaks open palm", hand: &level, want: None},
		{name: "zero landmarks", hand: &detector.HandLandmarks{}, want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.hand))
		})
	}
}

func TestClassify_PositionIndependent(t *testing.T) {
	for _, pos := range [][2]float64{{0.1, 0.1}, {0.5, 0.5}, {0.9, 0.9}} {
		hand := detector.PointingLandmarks(detector.Right, pos[0], pos[1])
		assert.Equal(t, Pointing, Classify(&hand), "pointing at %v", pos)

		fist := detector.FistLandmarks(detector.Right, pos[0], pos[1])
		assert.Equal(t, Fist, Classify(&fist), "fist at %v", pos)
	}
}

func ptr(h detector.HandLandmarks) *detector.HandLandmarks {
	return &h
}
