package huff

import (
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/chronos-tachyon/huff/bitstream"
)

// Decoder decompresses a stream produced by Encoder.
//
// The Decoder rebuilds the Encoder's code tree as it goes: it walks the tree
// one bit at a time from the root to a leaf, reads 8 raw bits whenever the
// leaf is the NYT node, and then applies the same update the Encoder applied.
// Decoding stops after exactly the number of payload bits announced by the
// stream header; the padding after them is never interpreted.
//
type Decoder struct {
	br       *bitstream.Reader
	tree     *Tree
	total    uint64
	consumed uint64
	symbols  uint64
	width    int
	started  bool
	err      error
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	o := buildOptions(opts)
	assert.Assertf(bitstream.ValidWidth(o.width), "register width %d must be 1, 2, 4 or 8", o.width)
	d := &Decoder{
		br:    bitstream.NewReader(r),
		tree:  NewTree(),
		width: o.width,
	}
	d.tree.verifyEachUpdate = o.verify
	return d
}

// Reset discards all state, including the code tree, and starts decoding a
// new stream from r.
func (d *Decoder) Reset(r io.Reader) {
	d.br.Reset(r)
	d.tree.Reset()
	d.total = 0
	d.consumed = 0
	d.symbols = 0
	d.started = false
	d.err = nil
}

// Tree returns the Decoder's code tree.  It must not be modified.
func (d *Decoder) Tree() *Tree {
	return d.tree
}

// ReadByte decodes one byte.  It returns io.EOF after the last one.
func (d *Decoder) ReadByte() (byte, error) {
	if d.err != nil {
		return 0, d.err
	}
	if !d.started {
		d.started = true
		if d.err = d.readHeader(); d.err != nil {
			return 0, d.err
		}
	}
	if d.consumed == d.total {
		d.err = io.EOF
		return 0, d.err
	}

	symbol, err := d.decodeSymbol()
	if err != nil {
		d.err = err
		return 0, err
	}
	d.tree.Update(symbol)
	d.symbols++
	return byte(symbol), nil
}

// Read decodes up to len(p) bytes into p.
func (d *Decoder) Read(p []byte) (int, error) {
	for i := range p {
		c, err := d.ReadByte()
		if err != nil {
			if i != 0 {
				return i, nil
			}
			return 0, err
		}
		p[i] = c
	}
	return len(p), nil
}

// WriteTo decodes the whole stream into w.
func (d *Decoder) WriteTo(w io.Writer) (int64, error) {
	var buf [32 << 10]byte
	var total int64
	for {
		n, err := d.Read(buf[:])
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, errors.WithStack(werr)
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Stats summarizes the stream decoded so far.  The padding after the payload
// is never read, so Bytes assumes the register width given with
// WithRegisterWidth, 1 byte by default.
func (d *Decoder) Stats() Stats {
	s := treeStats(d.tree)
	s.Bits = d.consumed
	if d.started {
		s.Bytes = headerBits/8 + payloadBytes(d.total, d.width)
	}
	return s
}

func (d *Decoder) readHeader() error {
	total, err := d.br.ReadUint64()
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.Wrap(ErrCorrupt, "stream header truncated")
	}
	if err != nil {
		return err
	}
	d.total = total
	log.Debugf("stream header declares %d payload bits", total)
	return nil
}

func (d *Decoder) decodeSymbol() (Symbol, error) {
	n := d.tree.Root()
	for !d.tree.IsLeaf(n) {
		bit, err := d.readBit()
		if err != nil {
			return InvalidSymbol, err
		}
		n = d.tree.Child(n, bit)
	}

	if nyt, ok := d.tree.NYT(); !ok || n != nyt {
		return d.tree.Symbol(n), nil
	}

	var raw uint64
	for i := 0; i < SymbolBits; i++ {
		bit, err := d.readBit()
		if err != nil {
			return InvalidSymbol, err
		}
		raw = (raw << 1) | uint64(bit)
	}
	symbol := Symbol(raw)
	if _, seen := d.tree.FindLeaf(symbol); seen {
		return InvalidSymbol, errors.Wrapf(ErrCorrupt, "symbol %d announced as new after symbol %d, but was already seen", symbol, d.symbols)
	}
	if log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("new symbol %d at output offset %d", symbol, d.symbols)
	}
	return symbol, nil
}

func (d *Decoder) readBit() (uint, error) {
	if d.consumed == d.total {
		return 0, errors.Wrapf(ErrCorrupt, "code runs past the declared %d payload bits", d.total)
	}
	bit, err := d.br.ReadBit()
	if err == io.EOF {
		return 0, errors.Wrapf(ErrCorrupt, "stream ends at payload bit %d of %d", d.consumed, d.total)
	}
	if err != nil {
		return 0, err
	}
	d.consumed++
	return bit, nil
}
