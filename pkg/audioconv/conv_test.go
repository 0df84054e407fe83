package audioconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertBytesRejectsShortInput(t *testing.T) {
	_, err := ConvertBytes([]byte{0x01}, Options{})
	assert.Error(t, err)
}

func TestConvertBytesRejectsUnknownFormat(t *testing.T) {
	_, err := ConvertBytes([]byte("this is definitely not audio data"), Options{})
	assert.Error(t, err)
}

func TestDownmixAverages(t *testing.T) {
	mono := downmix([]float32{1, 0, 0.5, 0.5}, 2)
	assert.Equal(t, []float32{0.5, 0.5}, mono)
}

func TestResampleHalvesRate(t *testing.T) {
	in := make([]float32, 320)
	for i := range in {
		in[i] = float32(i) / 320
	}
	out := resampleLinear(in, 32000, 16000)
	assert.InDelta(t, len(in)/2, len(out), 1)
	// Endpoints survive resampling.
	assert.InDelta(t, float64(in[0]), float64(out[0]), 1e-4)
}

func TestResampleNoOpAtSameRate(t *testing.T) {
	in := []float32{0.1, 0.2}
	assert.Equal(t, in, resampleLinear(in, 16000, 16000))
}
