// Package bitstream packs and unpacks individual bits, most significant bit
// first, over a byte-oriented stream.
//
// A Writer accumulates bits in a register of 1, 2, 4 or 8 bytes and emits the
// register big-endian once it fills, so the byte stream always carries the
// bits in the order they were written regardless of the register width.  A
// Reader consumes that byte stream one bit at a time and never needs to know
// which width produced it.
//
package bitstream
