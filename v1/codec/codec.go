package codec

import "fmt"

// Normalise truncates or zero-pads values to exactly targetDim components.
// Truncation keeps the leading dimensions. The input slice is never
// mutated; a fresh slice is returned when the length differs.
func Normalise(values []float64, targetDim int) []float64 {
	if len(values) == targetDim {
		return values
	}
	if len(values) > targetDim {
		return values[:targetDim]
	}

	padded := make([]float64, targetDim)
	copy(padded, values)
	return padded
}

// BitPacker packs sign-quantized embeddings into signed bytes.
type BitPacker struct {
	targetDim int
}

// NewBitPacker returns a packer for vectors of targetDim components.
// targetDim must be a positive multiple of 8 (one byte per 8 components),
// otherwise the packer configuration is rejected up front.
func NewBitPacker(targetDim int) (*BitPacker, error) {
	if targetDim <= 0 || targetDim%8 != 0 {
		return nil, fmt.Errorf("codec: packing dimension %d is not a positive multiple of 8", targetDim)
	}
	return &BitPacker{targetDim: targetDim}, nil
}

// Dim returns the configured component count.
func (p *BitPacker) Dim() int { return p.targetDim }

// PackedLen returns the number of bytes PackBits produces.
func (p *BitPacker) PackedLen() int { return p.targetDim / 8 }

// PackBits normalises values to the configured dimension and packs each
// consecutive group of 8 components into one byte, most significant bit
// first: bit 7 corresponds to the first component of the group and is set
// when that component is strictly positive (zero packs as 0). The unsigned
// byte is then reinterpreted as a two's-complement int8.
func (p *BitPacker) PackBits(values []float64) []int8 {
	normalised := Normalise(values, p.targetDim)

	packed := make([]int8, p.targetDim/8)
	for i := range packed {
		var b byte
		for bit := 0; bit < 8; bit++ {
			if normalised[i*8+bit] > 0 {
				b |= 1 << (7 - bit)
			}
		}
		packed[i] = int8(b)
	}
	return packed
}
