package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		require.NoError(t, err)
		assert.Nil(t, hands)
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{
			PointingLandmarks(Left, 0.5, 0.5),
			OpenPalmLandmarks(Right),
		})

		hands, err := mock.Detect(nil)

		require.NoError(t, err)
		assert.Len(t, hands, 2)
	})

	t.Run("queued frames are consumed before fixed hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{OpenPalmLandmarks(Left)})
		mock.Queue(
			[]HandLandmarks{PointingLandmarks(Left, 0.1, 0.1)},
			nil,
		)

		first, err := mock.Detect(nil)
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.InDelta(t, 0.1, first[0].Tip().X, epsilon)

		second, err := mock.Detect(nil)
		require.NoError(t, err)
		assert.Empty(t, second)

		third, err := mock.Detect(nil)
		require.NoError(t, err)
		assert.Len(t, third, 1)
		assert.Equal(t, 3, mock.Calls())
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		require.ErrorIs(t, err, expectedErr)
		assert.Nil(t, hands)
	})

	t.Run("Close marks closed", func(t *testing.T) {
		mock := NewMockDetector()

		require.NoError(t, mock.Close())
		assert.True(t, mock.Closed())
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestPointingLandmarks(t *testing.T) {
	landmarks := PointingLandmarks(Left, 0.2, 0.7)

	t.Run("tip lands on requested position", func(t *testing.T) {
		assert.InDelta(t, 0.2, landmarks.Tip().X, epsilon)
		assert.InDelta(t, 0.7, landmarks.Tip().Y, epsilon)
		assert.Equal(t, Left, landmarks.Handedness)
	})

	t.Run("index extended, others curled", func(t *testing.T) {
		assert.Less(t, landmarks.Points[IndexTip].Y, landmarks.Points[IndexPIP].Y)
		assert.Greater(t, landmarks.Points[MiddleTip].Y, landmarks.Points[MiddlePIP].Y)
		assert.Greater(t, landmarks.Points[RingTip].Y, landmarks.Points[RingPIP].Y)
		assert.Greater(t, landmarks.Points[PinkyTip].Y, landmarks.Points[PinkyPIP].Y)
	})
}

func TestFistLandmarks(t *testing.T) {
	landmarks := FistLandmarks(Right, 0.4, 0.4)

	assert.InDelta(t, 0.4, landmarks.Tip().X, epsilon)
	assert.Greater(t, landmarks.Points[IndexTip].Y, landmarks.Points[IndexPIP].Y)
	assert.Greater(t, landmarks.Points[MiddleTip].Y, landmarks.Points[MiddlePIP].Y)
}

func TestOpenPalmLandmarks(t *testing.T) {
	landmarks := OpenPalmLandmarks(Right)

	t.Run("has correct handedness and score", func(t *testing.T) {
		assert.Equal(t, Right, landmarks.Handedness)
		assert.GreaterOrEqual(t, landmarks.Score, 0.9)
	})

	t.Run("all fingers are extended", func(t *testing.T) {
		minExtension := 0.2

		for _, mcp := range []int{IndexMCP, MiddleMCP, RingMCP, PinkyMCP} {
			tip := mcp + 3
			extension := landmarks.Points[mcp].Y - landmarks.Points[tip].Y
			if extension < minExtension {
				t.Errorf("finger %d not extended enough (extension: %f), expected >= %f", mcp, extension, minExtension)
			}
		}
	})
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0x01, 0x02}

	require.NoError(t, writeFrame(&buf, payload))

	out := buf.Bytes()
	require.Len(t, out, 4+len(payload))
	assert.Equal(t, uint32(len(payload)), binary.BigEndian.Uint32(out[:4]))
	assert.Equal(t, payload, out[4:])
}

func TestDecodeResponse(t *testing.T) {
	t.Run("parses hands", func(t *testing.T) {
		line := []byte(`{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0},{"x":0.3,"y":0.4,"z":0.01}],"handedness":"Left","score":0.91}]}` + "\n")

		hands, err := decodeResponse(line)

		require.NoError(t, err)
		require.Len(t, hands, 1)
		assert.Equal(t, Left, hands[0].Handedness)
		assert.InDelta(t, 0.91, hands[0].Score, epsilon)
		assert.InDelta(t, 0.3, hands[0].Points[ThumbCMC].X, epsilon)
		// Missing points stay at the zero value
		assert.True(t, math.Abs(hands[0].Points[PinkyTip].X) < epsilon)
	})

	t.Run("empty hands", func(t *testing.T) {
		hands, err := decodeResponse([]byte(`{"hands":[]}`))

		require.NoError(t, err)
		assert.Empty(t, hands)
	})

	t.Run("service error", func(t *testing.T) {
		_, err := decodeResponse([]byte(`{"error":"bad jpeg"}`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad jpeg")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := decodeResponse([]byte(`{not json`))

		require.Error(t, err)
	})
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = "/nonexistent/mediapipe_service.py"

	_, err := NewMediaPipeDetector(cfg)

	require.ErrorIs(t, err, ErrScriptNotFound)
}
