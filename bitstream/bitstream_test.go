package bitstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/icza/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Layout(t *testing.T) {
	type testRow struct {
		width  int
		bits   string
		expect []byte
	}

	testData := [...]testRow{
		{width: 1, bits: "", expect: nil},
		{width: 1, bits: "101", expect: []byte{0xa0}},
		{width: 1, bits: "11111111", expect: []byte{0xff}},
		{width: 1, bits: "111111111", expect: []byte{0xff, 0x80}},
		{width: 2, bits: "101", expect: []byte{0xa0, 0x00}},
		{width: 2, bits: "0000000110000001", expect: []byte{0x01, 0x81}},
		{width: 4, bits: "1", expect: []byte{0x80, 0x00, 0x00, 0x00}},
		{width: 8, bits: "01", expect: []byte{0x40, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, row := range testData {
		name := fmt.Sprintf("w%d/%q", row.width, row.bits)
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			bw := NewWriter(&buf, row.width)
			for _, ch := range row.bits {
				bw.WriteBit(uint(ch - '0'))
			}
			if err := bw.Flush(); err != nil {
				t.Fatalf("Flush failed: %v", err)
			}
			if !bytes.Equal(row.expect, buf.Bytes()) {
				t.Errorf("wrong output:\n\texpect: %#v\n\tactual: %#v", row.expect, buf.Bytes())
			}
			if bw.Written() != uint64(len(row.bits)) {
				t.Errorf("expected %d bits written, got %d", len(row.bits), bw.Written())
			}
		})
	}
}

func TestWriter_NoImplicitFlush(t *testing.T) {
	var buf bytes.Buffer
	bw := NewWriter(&buf, 2)
	bw.WriteBits(0x1ff, 9)
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, 9, bw.Pending())
	bw.WriteBits(0x7f, 7)
	assert.Equal(t, []byte{0xff, 0xff}, buf.Bytes())
	assert.Equal(t, 0, bw.Pending())
}

func TestWriter_FixedWidth(t *testing.T) {
	var buf bytes.Buffer
	bw := NewWriter(&buf, 1)
	bw.WriteBit(1)
	bw.WriteUint8(0x81)
	bw.WriteUint16(0x1234)
	bw.WriteUint32(0xdeadbeef)
	bw.WriteUint64(0x0102030405060708)
	require.NoError(t, bw.Flush())

	br := NewReader(bytes.NewReader(buf.Bytes()))
	bit, err := br.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, uint(1), bit)
	u8, err := br.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x81), u8)
	u16, err := br.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)
	u32, err := br.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), u32)
	u64, err := br.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)
	assert.Equal(t, uint64(1+8+16+32+64), br.Consumed())
}

func TestRoundTrip_AllWidths(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bits := make([]uint, 1237)
	for i := range bits {
		bits[i] = uint(rng.Intn(2))
	}

	for _, width := range []int{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("w%d", width), func(t *testing.T) {
			var buf bytes.Buffer
			bw := NewWriter(&buf, width)
			for _, bit := range bits {
				bw.WriteBit(bit)
			}
			require.NoError(t, bw.Flush())
			require.Zero(t, buf.Len()%width, "output not a whole number of registers")

			br := NewReader(&buf)
			for i, expect := range bits {
				actual, err := br.ReadBit()
				require.NoError(t, err)
				require.Equalf(t, expect, actual, "bit %d", i)
			}
		})
	}
}

func TestRoundTrip_WidthIndependent(t *testing.T) {
	var outputs [][]byte
	for _, width := range []int{1, 2, 4, 8} {
		var buf bytes.Buffer
		bw := NewWriter(&buf, width)
		bw.WriteBits(0x5a5a5a5a5a5a5a5a, 64)
		require.NoError(t, bw.Flush())
		outputs = append(outputs, buf.Bytes())
	}
	for _, out := range outputs[1:] {
		assert.Equal(t, outputs[0], out)
	}
}

func TestAgainstBitio(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	type chunk struct {
		value uint64
		n     int
	}
	chunks := make([]chunk, 300)
	for i := range chunks {
		n := 1 + rng.Intn(64)
		chunks[i] = chunk{value: rng.Uint64() & (^uint64(0) >> uint(64-n)), n: n}
	}

	t.Run("ours-to-bitio", func(t *testing.T) {
		var buf bytes.Buffer
		bw := NewWriter(&buf, 4)
		for _, c := range chunks {
			bw.WriteBits(c.value, c.n)
		}
		require.NoError(t, bw.Flush())

		r := bitio.NewReader(bytes.NewReader(buf.Bytes()))
		for i, c := range chunks {
			v, err := r.ReadBits(uint8(c.n))
			require.NoError(t, err)
			require.Equalf(t, c.value, v, "chunk %d", i)
		}
	})

	t.Run("bitio-to-ours", func(t *testing.T) {
		var buf bytes.Buffer
		w := bitio.NewWriter(&buf)
		for _, c := range chunks {
			require.NoError(t, w.WriteBits(c.value, uint8(c.n)))
		}
		require.NoError(t, w.Close())

		br := NewReader(bytes.NewReader(buf.Bytes()))
		for i, c := range chunks {
			v, err := br.ReadBits(c.n)
			require.NoError(t, err)
			require.Equalf(t, c.value, v, "chunk %d", i)
		}
	})
}

func TestReader_EOF(t *testing.T) {
	br := NewReader(bytes.NewReader([]byte{0xf0}))

	v, err := br.ReadBits(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xf), v)

	_, err = br.ReadBits(8)
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	_, err = br.ReadBit()
	assert.Equal(t, io.EOF, err)

	empty := NewReader(bytes.NewReader(nil))
	_, err = empty.ReadUint64()
	assert.Equal(t, io.EOF, err)
}

func TestReader_Align(t *testing.T) {
	br := NewReader(bytes.NewReader([]byte{0xc0, 0x7f}))
	bit, err := br.ReadBit()
	require.NoError(t, err)
	assert.Equal(t, uint(1), bit)
	assert.Equal(t, 7, br.Align())
	v, err := br.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7f), v)
	assert.Equal(t, uint64(16), br.Consumed())
}

type failWriter struct {
	calls int
}

var errFail = errors.New("disk on fire")

func (fw *failWriter) Write(p []byte) (int, error) {
	fw.calls++
	return 0, errFail
}

func TestWriter_StickyError(t *testing.T) {
	fw := &failWriter{}
	bw := NewWriter(fw, 1)
	bw.WriteUint32(0xffffffff)
	err := bw.Flush()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errFail))
	assert.Equal(t, 1, fw.calls)
	assert.Equal(t, err, bw.Err())

	bw.Reset(&bytes.Buffer{})
	assert.NoError(t, bw.Err())
	assert.Equal(t, 1, bw.Width())
}

func TestNewWriter_BadWidth(t *testing.T) {
	assert.Panics(t, func() { NewWriter(io.Discard, 3) })
	assert.False(t, ValidWidth(0))
	assert.True(t, ValidWidth(8))
}
