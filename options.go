package huff

// Option configures an Encoder or Decoder.  Options that do not apply to the
// component they are passed to are ignored.
type Option func(*options)

type options struct {
	width  int
	verify bool
}

func buildOptions(opts []Option) options {
	o := options{width: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRegisterWidth sets the width, in bytes, of the Encoder's bit register:
// 1, 2, 4 or 8.  The compressed stream is zero-padded to a multiple of this
// width.  Decoders accept any width; given to a Decoder, it only sets the
// padding that Stats counts.
func WithRegisterWidth(width int) Option {
	return func(o *options) {
		o.width = width
	}
}

// WithVerify makes the tree check all of its invariants after every update
// and panic on the first violation.  This is slow; it exists for testing.
func WithVerify(verify bool) Option {
	return func(o *options) {
		o.verify = verify
	}
}
