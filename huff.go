package huff

import (
	"io"
)

// Compress encodes everything read from src into dst as one stream.
func Compress(dst io.Writer, src io.Reader, opts ...Option) (Stats, error) {
	e := NewEncoder(dst, opts...)
	if _, err := e.ReadFrom(src); err != nil {
		return e.Stats(), err
	}
	err := e.Close()
	return e.Stats(), err
}

// Decompress decodes one stream read from src into dst.
func Decompress(dst io.Writer, src io.Reader, opts ...Option) (Stats, error) {
	d := NewDecoder(src, opts...)
	_, err := d.WriteTo(dst)
	return d.Stats(), err
}
