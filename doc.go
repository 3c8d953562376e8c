// Package huff implements single-pass adaptive Huffman coding (the FGK
// algorithm) over bytes.
//
// Encoder and Decoder each grow their own code tree from the symbols seen so
// far, so no code table is ever transmitted: a byte is coded by its path in
// the tree, and a byte never seen before is coded by the path to the NYT
// ("not yet transmitted") node followed by its 8 raw bits.  After every byte
// both sides apply the same update, which keeps the two trees identical.
//
// Stream format:
//
//     64 bits    payload length in bits, big-endian
//     N bits     payload, most significant bit first
//     0..63 bits zero padding up to the encoder's register width
//
// References:
//
//     Gallager, "Variations on a theme by Huffman", IEEE Trans. IT-24 (1978)
//
//     Knuth, "Dynamic Huffman coding", J. Algorithms 6 (1985)
//
//     <https://en.wikipedia.org/wiki/Adaptive_Huffman_coding>
//
package huff
