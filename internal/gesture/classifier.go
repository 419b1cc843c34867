// Package gesture classifies a single hand pose into the small gesture
// vocabulary used for game control.
package gesture

import "github.com/ayusman/gesturetoe/internal/detector"

// Label is a discrete gesture recognised from one hand's landmarks.
type Label string

const (
	// None is an ambiguous pose. It triggers nothing; the fingertip still
	// drives the cursor.
	None Label = "none"
	// Pointing is the index finger extended with the other fingers curled.
	Pointing Label = "pointing"
	// OpenPalm is all four fingers extended. While playing it aborts to the menu.
	OpenPalm Label = "open-palm"
	// Fist is index and middle finger curled.
	Fist Label = "fist"
)

// fingers pairs each non-thumb fingertip with the joint two landmarks below it.
var fingers = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Classify maps a hand to a gesture label. Checks run in the order
// open palm, fist, pointing; anything else is None.
func Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return None
	}

	switch {
	case isOpenPalm(hand):
		return OpenPalm
	case isFist(hand):
		return Fist
	case isPointing(hand):
		return Pointing
	default:
		return None
	}
}

// extended reports whether a fingertip is above its PIP joint in screen space.
func extended(hand *detector.HandLandmarks, tip, pip int) bool {
	return hand.Points[tip].Y < hand.Points[pip].Y
}

// curled reports whether a fingertip is below its PIP joint in screen space.
func curled(hand *detector.HandLandmarks, tip, pip int) bool {
	return hand.Points[tip].Y > hand.Points[pip].Y
}

func isOpenPalm(hand *detector.HandLandmarks) bool {
	for _, f := range fingers {
		if !extended(hand, f[0], f[1]) {
			return false
		}
	}
	return true
}

func isFist(hand *detector.HandLandmarks) bool {
	return curled(hand, detector.IndexTip, detector.IndexPIP) &&
		curled(hand, detector.MiddleTip, detector.MiddlePIP)
}

func isPointing(hand *detector.HandLandmarks) bool {
	if !extended(hand, detector.IndexTip, detector.IndexPIP) {
		return false
	}
	for _, f := range fingers[1:] {
		if !curled(hand, f[0], f[1]) {
			return false
		}
	}
	return true
}
