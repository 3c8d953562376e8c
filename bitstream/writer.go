package bitstream

import (
	"encoding/binary"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// Writer writes bits MSB-first through a fixed-width register.
type Writer struct {
	w       io.Writer
	err     error
	reg     uint64
	nbits   uint
	width   uint
	written uint64
	buf     [8]byte
}

// ValidWidth reports whether width is an accepted register width in bytes.
func ValidWidth(width int) bool {
	switch width {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// NewWriter returns a Writer that emits to w through a register of the given
// width in bytes.  The width must be 1, 2, 4 or 8.
func NewWriter(w io.Writer, width int) *Writer {
	assert.Assertf(ValidWidth(width), "register width %d is not one of 1, 2, 4, 8", width)
	return &Writer{w: w, width: uint(width) * 8}
}

// Reset discards any buffered bits and the sticky error, and redirects output
// to w.  The register width is kept.
func (bw *Writer) Reset(w io.Writer) {
	*bw = Writer{w: w, width: bw.width}
}

// Width returns the register width in bytes.
func (bw *Writer) Width() int {
	return int(bw.width / 8)
}

// WriteBit appends one bit.  Any non-zero value is a 1 bit.
func (bw *Writer) WriteBit(bit uint) {
	if bit != 0 {
		bw.reg |= uint64(1) << (bw.width - 1 - bw.nbits)
	}
	bw.nbits++
	bw.written++
	if bw.nbits == bw.width {
		bw.emit()
	}
}

// WriteBits appends the low n bits of value, most significant first.
func (bw *Writer) WriteBits(value uint64, n int) {
	assert.Assertf(n >= 0 && n <= 64, "bit count %d out of range [0, 64]", n)
	for i := n - 1; i >= 0; i-- {
		bw.WriteBit(uint(value>>uint(i)) & 1)
	}
}

// WriteUint8 appends all 8 bits of v.
func (bw *Writer) WriteUint8(v uint8) { bw.WriteBits(uint64(v), 8) }

// WriteUint16 appends all 16 bits of v.
func (bw *Writer) WriteUint16(v uint16) { bw.WriteBits(uint64(v), 16) }

// WriteUint32 appends all 32 bits of v.
func (bw *Writer) WriteUint32(v uint32) { bw.WriteBits(uint64(v), 32) }

// WriteUint64 appends all 64 bits of v.
func (bw *Writer) WriteUint64(v uint64) { bw.WriteBits(v, 64) }

// Written returns the number of bits accepted so far, not counting the zero
// padding added by Flush.
func (bw *Writer) Written() uint64 {
	return bw.written
}

// Pending returns the number of bits sitting in the register.
func (bw *Writer) Pending() int {
	return int(bw.nbits)
}

// Flush pads the register with zero bits up to its boundary and emits it.  It
// returns the first error encountered by any write so far.
//
// Flushing an empty register emits nothing.
//
func (bw *Writer) Flush() error {
	if bw.nbits != 0 {
		bw.emit()
	}
	return bw.err
}

// Err returns the first error returned by the underlying writer, if any.
func (bw *Writer) Err() error {
	return bw.err
}

func (bw *Writer) emit() {
	if bw.err == nil {
		binary.BigEndian.PutUint64(bw.buf[:], bw.reg<<(64-bw.width))
		if _, err := bw.w.Write(bw.buf[:bw.width/8]); err != nil {
			bw.err = errors.WithStack(err)
		}
	}
	bw.reg = 0
	bw.nbits = 0
}
