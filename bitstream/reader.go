package bitstream

import (
	"bufio"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// Reader reads bits MSB-first from a byte stream.
type Reader struct {
	r     io.ByteReader
	cur   byte
	nbits uint
	read  uint64
}

// NewReader returns a Reader over r.  If r does not implement io.ByteReader
// it is wrapped in a bufio.Reader, which may read ahead of the bits consumed.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: byteReader(r)}
}

// Reset discards any partially consumed byte and switches to r.
func (br *Reader) Reset(r io.Reader) {
	*br = Reader{r: byteReader(r)}
}

// ReadBit returns the next bit.  It returns io.EOF when the stream is
// exhausted.
func (br *Reader) ReadBit() (uint, error) {
	if br.nbits == 0 {
		c, err := br.r.ReadByte()
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, errors.WithStack(err)
		}
		br.cur = c
		br.nbits = 8
	}
	br.nbits--
	br.read++
	return uint(br.cur>>br.nbits) & 1, nil
}

// ReadBits reads n bits and returns them as the low bits of the result, the
// first bit read being the most significant.
//
// If the stream ends before the first bit, ReadBits returns io.EOF.  If it
// ends partway through, ReadBits returns io.ErrUnexpectedEOF.
//
func (br *Reader) ReadBits(n int) (uint64, error) {
	assert.Assertf(n >= 0 && n <= 64, "bit count %d out of range [0, 64]", n)
	var v uint64
	for i := 0; i < n; i++ {
		bit, err := br.ReadBit()
		if err != nil {
			if err == io.EOF && i != 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		v = (v << 1) | uint64(bit)
	}
	return v, nil
}

// ReadUint8 reads 8 bits.
func (br *Reader) ReadUint8() (uint8, error) {
	v, err := br.ReadBits(8)
	return uint8(v), err
}

// ReadUint16 reads 16 bits.
func (br *Reader) ReadUint16() (uint16, error) {
	v, err := br.ReadBits(16)
	return uint16(v), err
}

// ReadUint32 reads 32 bits.
func (br *Reader) ReadUint32() (uint32, error) {
	v, err := br.ReadBits(32)
	return uint32(v), err
}

// ReadUint64 reads 64 bits.
func (br *Reader) ReadUint64() (uint64, error) {
	return br.ReadBits(64)
}

// Consumed returns the number of bits consumed so far.
func (br *Reader) Consumed() uint64 {
	return br.read
}

// Align discards the unread bits of the current byte and returns how many
// were dropped.
func (br *Reader) Align() int {
	n := int(br.nbits)
	br.read += uint64(br.nbits)
	br.nbits = 0
	return n
}

func byteReader(r io.Reader) io.ByteReader {
	if x, ok := r.(io.ByteReader); ok {
		return x
	}
	return bufio.NewReader(r)
}
