// Package bencode implements a zero-copy decoder for the bencoding format
// used by BitTorrent metainfo files and peer-wire messages.
//
// Decode performs a single pass over the input buffer and produces a flat
// array of fixed-width tokens; no payload bytes are copied. The resulting
// Node tree is a lazy, read-only view over that token array and the
// original buffer, materializing child views only when asked.
package bencode

// Kind identifies the syntactic category a Token represents.
type Kind uint8

const (
	// KindNone is the zero value; it must never appear in a token stream
	// produced by Decode.
	KindNone Kind = iota
	KindDict
	KindList
	KindStr
	KindInt
	// KindEnd marks the close of a container, or (for the final token in
	// the stream) the synthetic terminator of the whole buffer.
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindDict:
		return "Dict"
	case KindList:
		return "List"
	case KindStr:
		return "Str"
	case KindInt:
		return "Int"
	case KindEnd:
		return "End"
	default:
		return "None"
	}
}

// Resource limits enforced during tokenization (spec.md §5).
const (
	// MaxOffset is the largest byte offset (and buffer length) a Token
	// can address: 29 bits.
	MaxOffset = 1<<29 - 1

	// MaxNextItem is the largest skip-distance a container token can
	// carry: 29 bits.
	MaxNextItem = 1<<29 - 1

	// MaxHeaderSize is the largest byte length a string's decimal length
	// prefix may have: 3 bits.
	MaxHeaderSize = 7

	// MaxIntDigits caps the digit run of an integer token; an int64
	// needs at most 19 digits plus sign, so 20 leaves headroom for the
	// sign-free case while still rejecting pathological inputs early.
	MaxIntDigits = 20

	// DefaultDepthLimit is the default maximum open-container nesting.
	DefaultDepthLimit = 100

	// DefaultTokenLimit is the default maximum number of tokens a single
	// decode may emit.
	DefaultTokenLimit = 1_000_000
)

// Token is a fixed-width structural record packed into a single 64-bit
// word: offset (29 bits), kind (3 bits), next_item (29 bits), header_size
// (3 bits). It indexes one syntactic position in the source buffer without
// carrying a copy of any payload bytes.
type Token uint64

const (
	offsetBits     = 29
	kindBits       = 3
	nextItemBits   = 29
	headerSizeBits = 3

	offsetShift     = 0
	kindShift       = offsetShift + offsetBits
	nextItemShift   = kindShift + kindBits
	headerSizeShift = nextItemShift + nextItemBits

	offsetMask     = uint64(1)<<offsetBits - 1
	kindMask       = uint64(1)<<kindBits - 1
	nextItemMask   = uint64(1)<<nextItemBits - 1
	headerSizeMask = uint64(1)<<headerSizeBits - 1
)

// newToken packs a Token from its fields. Callers are responsible for
// validating each field against the limits above before calling this;
// newToken itself performs no range checking.
func newToken(kind Kind, offset, nextItem int, headerSize int) Token {
	return Token(
		uint64(offset)&offsetMask<<offsetShift |
			uint64(kind)&kindMask<<kindShift |
			uint64(nextItem)&nextItemMask<<nextItemShift |
			uint64(headerSize)&headerSizeMask<<headerSizeShift,
	)
}

// newDictToken returns an opening Dict token with a placeholder next_item,
// to be fixed up by back-patching once the matching 'e' is seen.
func newDictToken(offset int) Token { return newToken(KindDict, offset, 0, 0) }

// newListToken returns an opening List token with a placeholder next_item.
func newListToken(offset int) Token { return newToken(KindList, offset, 0, 0) }

// newIntToken returns a leaf Int token; next_item is always 1 for leaves.
func newIntToken(offset int) Token { return newToken(KindInt, offset, 1, 0) }

// newStrToken returns a leaf Str token carrying its length-prefix size.
func newStrToken(offset, headerSize int) Token {
	return newToken(KindStr, offset, 1, headerSize)
}

// newEndToken returns an End token, used both for container closes and the
// synthetic terminator appended after the top-level value.
func newEndToken(offset int) Token { return newToken(KindEnd, offset, 1, 0) }

// Offset returns the byte position in the buffer where this token's source
// begins.
func (t Token) Offset() int { return int(uint64(t) >> offsetShift & offsetMask) }

// Kind returns the token's syntactic category.
func (t Token) Kind() Kind { return Kind(uint64(t) >> kindShift & kindMask) }

// NextItem returns the number of tokens to skip, from this token's index,
// to reach its next sibling (or, for a container, its own end-marker).
func (t Token) NextItem() int {
	return int(uint64(t) >> nextItemShift & nextItemMask)
}

// HeaderSize returns the byte length of a string token's decimal length
// prefix. It is always 0 for non-string tokens.
func (t Token) HeaderSize() int {
	return int(uint64(t) >> headerSizeShift & headerSizeMask)
}

// withNextItem returns a copy of t with its next_item field replaced. Used
// to back-patch a container token once its close marker is reached.
func (t Token) withNextItem(nextItem int) Token {
	return newToken(t.Kind(), t.Offset(), nextItem, t.HeaderSize())
}
