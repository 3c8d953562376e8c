package huff

import (
	"github.com/pkg/errors"
)

var (
	// ErrCorrupt is returned by Decoder when the compressed stream is
	// truncated or decodes to something no Encoder could have produced.
	ErrCorrupt = errors.New("huff: corrupt stream")

	// ErrClosed is returned by Encoder methods called after Close.
	ErrClosed = errors.New("huff: encoder closed")

	// ErrInvariant is returned by Tree.Verify.  It indicates a bug, not bad
	// input.
	ErrInvariant = errors.New("huff: tree invariant violated")
)
