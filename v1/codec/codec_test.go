package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise_TruncationKeepsLeadingDims(t *testing.T) {
	values := make([]float64, 768)
	for i := range values {
		values[i] = float64(i) * 0.001
	}

	out := Normalise(values, 256)

	require.Len(t, out, 256)
	assert.Equal(t, values[:256], out)
}

func TestNormalise_ZeroPads(t *testing.T) {
	out := Normalise([]float64{1, 2, 3}, 8)

	require.Len(t, out, 8)
	assert.Equal(t, []float64{1, 2, 3, 0, 0, 0, 0, 0}, out)
}

func TestNormalise_ExactLengthIsPassthrough(t *testing.T) {
	values := []float64{0.1, 0.2}
	assert.Equal(t, values, Normalise(values, 2))
}

func TestNewBitPacker_RejectsNonMultipleOfEight(t *testing.T) {
	for _, dim := range []int{0, -8, 7, 9, 100} {
		_, err := NewBitPacker(dim)
		assert.Error(t, err, "dim %d should be rejected", dim)
	}

	packer, err := NewBitPacker(768)
	require.NoError(t, err)
	assert.Equal(t, 96, packer.PackedLen())
}

func TestPackBits_SignQuantization(t *testing.T) {
	packer, err := NewBitPacker(8)
	require.NoError(t, err)

	// Signs: + - 0 + + - + -  ->  10011010  ->  0x9A  ->  -102 as int8.
	packed := packer.PackBits([]float64{0.5, -0.1, 0, 9.2, 3.4, -2.0, 8.1, -7.0})

	assert.Equal(t, []int8{-102}, packed)
}

func TestPackBits_ZeroIsNotPositive(t *testing.T) {
	packer, err := NewBitPacker(8)
	require.NoError(t, err)

	packed := packer.PackBits([]float64{0, 0, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, []int8{0}, packed)
}

func TestPackBits_AllPositiveIsMinusOne(t *testing.T) {
	packer, err := NewBitPacker(8)
	require.NoError(t, err)

	packed := packer.PackBits([]float64{1, 1, 1, 1, 1, 1, 1, 1})
	assert.Equal(t, []int8{-1}, packed, "0xFF reinterprets as -1")
}

func TestPackBits_NormalisesFirst(t *testing.T) {
	packer, err := NewBitPacker(16)
	require.NoError(t, err)

	// Only 4 positive components supplied; the rest zero-pad to 0 bits.
	packed := packer.PackBits([]float64{1, 1, 1, 1})

	assert.Equal(t, []int8{-16, 0}, packed, "0xF0 reinterprets as -16")
}
