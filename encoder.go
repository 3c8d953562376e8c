package huff

import (
	"bufio"
	"bytes"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/chronos-tachyon/huff/bitstream"
)

// headerBits is the size of the payload length that opens every stream.
const headerBits = 64

// Encoder compresses a byte stream with an adaptive Huffman code.
//
// The output begins with a 64-bit big-endian count of the payload bits that
// follow.  The payload carries, for each input byte, either the path to the
// byte's leaf or, for a byte never seen before, the path to the NYT node
// followed by the byte's 8 raw bits.  Zero bits pad the payload to the
// register width.
//
// If the destination is an io.WriteSeeker, the payload is streamed through a
// 32 KiB buffer and the length is patched in on Close.  Otherwise the payload is held in memory
// until Close.
//
type Encoder struct {
	dst     io.Writer
	seeker  io.WriteSeeker
	start   int64
	staging bytes.Buffer
	out     *bufio.Writer
	bw      *bitstream.Writer
	tree    *Tree
	symbols uint64
	size    uint64
	started bool
	closed  bool
	err     error
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	o := buildOptions(opts)
	e := &Encoder{
		bw:   bitstream.NewWriter(nil, o.width),
		out:  bufio.NewWriterSize(nil, 32<<10),
		tree: NewTree(),
	}
	e.tree.verifyEachUpdate = o.verify
	e.Reset(w)
	return e
}

// Reset discards all state, including the code tree, and starts a new stream
// on w.  Encoding after Reset is indistinguishable from encoding with a new
// Encoder.
func (e *Encoder) Reset(w io.Writer) {
	e.dst = w
	e.seeker, _ = w.(io.WriteSeeker)
	e.start = 0
	e.staging.Reset()
	e.out.Reset(nil)
	e.bw.Reset(nil)
	e.tree.Reset()
	e.symbols = 0
	e.size = 0
	e.started = false
	e.closed = false
	e.err = nil
}

// Tree returns the Encoder's code tree.  It must not be modified.
func (e *Encoder) Tree() *Tree {
	return e.tree
}

// WriteByte encodes one byte.
func (e *Encoder) WriteByte(c byte) error {
	if err := e.ready(); err != nil {
		return err
	}

	symbol := Symbol(c)
	if leaf, found := e.tree.FindLeaf(symbol); found {
		e.tree.PathTo(leaf).Emit(e.bw)
	} else {
		nyt, ok := e.tree.NYT()
		assert.Assertf(ok, "symbol %d unseen, but no NYT node", symbol)
		e.tree.PathTo(nyt).Emit(e.bw)
		e.bw.WriteBits(uint64(c), SymbolBits)
		if log.IsEnabledFor(logging.DEBUG) {
			log.Debugf("new symbol %d at input offset %d via NYT %s", symbol, e.symbols, e.tree.PathTo(nyt))
		}
	}
	e.tree.Update(symbol)
	e.symbols++

	if err := e.bw.Err(); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Write encodes every byte of p.
func (e *Encoder) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := e.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// ReadFrom encodes everything r produces until io.EOF.
func (e *Encoder) ReadFrom(r io.Reader) (int64, error) {
	var buf [32 << 10]byte
	var total int64
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			written, werr := e.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, errors.WithStack(err)
		}
	}
}

// Close pads and flushes the payload and writes its length.  It does not
// close the underlying writer.  Calling Close again returns the first
// result.
func (e *Encoder) Close() error {
	if e.closed {
		return e.err
	}
	if err := e.ready(); err != nil {
		return err
	}
	e.closed = true

	bits := e.bw.Written()
	if err := e.bw.Flush(); err != nil {
		e.err = err
		return err
	}

	var header bytes.Buffer
	hw := bitstream.NewWriter(&header, 8)
	hw.WriteUint64(bits)
	_ = hw.Flush()

	if e.seeker != nil {
		if err := e.out.Flush(); err != nil {
			e.err = errors.Wrap(err, "huff: writing payload")
			return e.err
		}
		e.err = e.patchHeader(header.Bytes())
	} else {
		e.err = e.writeStaged(header.Bytes())
	}
	if e.err != nil {
		return e.err
	}

	e.size = uint64(header.Len()) + payloadBytes(bits, e.bw.Width())
	log.Debugf("encoded %d symbols into %d payload bits", e.symbols, bits)
	return nil
}

// Stats summarizes the stream encoded so far.  Bytes is known only after
// Close.
func (e *Encoder) Stats() Stats {
	s := treeStats(e.tree)
	s.Bits = e.bw.Written()
	s.Bytes = e.size
	return s
}

func (e *Encoder) ready() error {
	if e.closed {
		return ErrClosed
	}
	if e.err != nil {
		return e.err
	}
	if !e.started {
		e.started = true
		e.err = e.begin()
	}
	return e.err
}

// begin reserves room for the header when streaming, or falls back to
// staging when the destination cannot seek.
func (e *Encoder) begin() error {
	if e.seeker != nil {
		pos, err := e.seeker.Seek(0, io.SeekCurrent)
		if err == nil {
			var placeholder [headerBits / 8]byte
			if _, err := e.seeker.Write(placeholder[:]); err != nil {
				return errors.Wrap(err, "huff: reserving stream header")
			}
			e.start = pos
			e.out.Reset(e.seeker)
			e.bw.Reset(e.out)
			return nil
		}
		log.Debugf("destination cannot seek (%v); staging payload in memory", err)
		e.seeker = nil
	}
	e.bw.Reset(&e.staging)
	return nil
}

func (e *Encoder) patchHeader(header []byte) error {
	end, err := e.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "huff: locating end of payload")
	}
	if _, err := e.seeker.Seek(e.start, io.SeekStart); err != nil {
		return errors.Wrap(err, "huff: seeking to stream header")
	}
	if _, err := e.seeker.Write(header); err != nil {
		return errors.Wrap(err, "huff: writing stream header")
	}
	if _, err := e.seeker.Seek(end, io.SeekStart); err != nil {
		return errors.Wrap(err, "huff: seeking past payload")
	}
	return nil
}

func (e *Encoder) writeStaged(header []byte) error {
	if _, err := e.dst.Write(header); err != nil {
		return errors.Wrap(err, "huff: writing stream header")
	}
	if _, err := e.staging.WriteTo(e.dst); err != nil {
		return errors.Wrap(err, "huff: writing payload")
	}
	return nil
}

func payloadBytes(bits uint64, width int) uint64 {
	registerBits := uint64(width) * 8
	registers := (bits + registerBits - 1) / registerBits
	return registers * uint64(width)
}
