package huff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// maxCodeSize bounds the depth of any node.  A tree over NumSymbols leaves has
// at most NumSymbols-1 internal nodes stacked on one path.
const maxCodeSize = NumSymbols

// Code represents a sequence of bits: the path from the root of a Tree down to
// one of its nodes, where 0 selects the left child and 1 the right child.
type Code struct {
	// Size holds the number of valid bits.
	Size int

	// bits holds the path, first bit in the most significant position of
	// bits[0].
	bits [maxCodeSize / 64]uint64
}

// MakeCode is a convenience function that constructs a Code of up to 64 bits.
// The most significant of the size low bits of bits is the first bit.
func MakeCode(size int, bits uint64) Code {
	assert.Assertf(size >= 0 && size <= 64, "size %d out of range [0, 64]", size)
	var hc Code
	for i := size - 1; i >= 0; i-- {
		hc.Append(uint(bits>>uint(i)) & 1)
	}
	return hc
}

// ParseCode constructs a Code from a string of '0' and '1' characters.
func ParseCode(str string) Code {
	var hc Code
	for i := 0; i < len(str); i++ {
		ch := str[i]
		assert.Assertf(ch == '0' || ch == '1', "invalid character %q in code %q", ch, str)
		hc.Append(uint(ch - '0'))
	}
	return hc
}

// Bit returns the i'th bit of the path, counting from the root.
func (hc Code) Bit(i int) uint {
	assert.Assertf(i >= 0 && i < hc.Size, "bit index %d out of range [0, %d)", i, hc.Size)
	return uint(hc.bits[i/64]>>(63-uint(i%64))) & 1
}

// Append extends the path by one bit.
func (hc *Code) Append(bit uint) {
	assert.Assertf(hc.Size < maxCodeSize, "code longer than %d bits", maxCodeSize)
	if bit != 0 {
		hc.bits[hc.Size/64] |= uint64(1) << (63 - uint(hc.Size%64))
	}
	hc.Size++
}

// Reversed returns the Code with its bits in the opposite order.
func (hc Code) Reversed() Code {
	var out Code
	for i := hc.Size - 1; i >= 0; i-- {
		out.Append(hc.Bit(i))
	}
	return out
}

// BitWriter is the sink that Code.Emit writes into.
type BitWriter interface {
	WriteBit(bit uint)
}

// Emit writes the bits of the path, root first.
func (hc Code) Emit(bw BitWriter) {
	for i := 0; i < hc.Size; i++ {
		bw.WriteBit(hc.Bit(i))
	}
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	var sb strings.Builder
	sb.Grow(hc.Size)
	for i := 0; i < hc.Size; i++ {
		sb.WriteByte('0' + byte(hc.Bit(i)))
	}
	return strconv.Quote(sb.String())
}

var _ fmt.Stringer = Code{}
