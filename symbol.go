package huff

// Symbol represents one value of the byte alphabet.  Negative symbols are not
// valid.
type Symbol int32

// NumSymbols is the size of the alphabet.
const NumSymbols = 256

// SymbolBits is the width of a raw symbol as written after the NYT code.
const SymbolBits = 8

// MaxSymbol is the maximum valid symbol.
const MaxSymbol = Symbol(NumSymbols - 1)

// InvalidSymbol marks a node that holds no symbol: the NYT node and every
// internal node.
const InvalidSymbol = Symbol(-1)

// Valid returns true iff the symbol is within the alphabet.
func (s Symbol) Valid() bool {
	return s >= 0 && s <= MaxSymbol
}
