package bencode

import "math"

// stackFrame tracks one currently-open container during tokenization: the
// token index of its opening token, whether it is a dict, and (for dicts)
// the parity bit alternating between "expecting key" (false) and
// "expecting value" (true).
//
// The frame is always looked up by its position in the stack slice, never
// cached behind a pointer that could alias a popped (and later reused)
// slot — that aliasing is exactly the bug the design this decoder is based
// on had to be fixed to avoid.
type stackFrame struct {
	index  int
	dict   bool
	parity bool
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// validateBufferLength reports LimitExceeded if n exceeds the largest
// offset a Token can address.
func validateBufferLength(n int) error {
	if n > MaxOffset {
		return errLimitExceeded(n)
	}
	return nil
}

// tokenize scans buf in a single pass and produces the flat token array
// describing exactly one top-level bencoded value. depthLimit and
// tokenLimit default to DefaultDepthLimit/DefaultTokenLimit when <= 0.
func tokenize(buf []byte, depthLimit, tokenLimit int) ([]Token, error) {
	if depthLimit <= 0 {
		depthLimit = DefaultDepthLimit
	}
	if tokenLimit <= 0 {
		tokenLimit = DefaultTokenLimit
	}

	if err := validateBufferLength(len(buf)); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errUnexpectedEOF(0)
	}

	var (
		tokens []Token
		stack  []stackFrame
		p      int
		budget = tokenLimit
	)

	for {
		if len(stack) >= depthLimit {
			return nil, errDepthExceeded(depthLimit)
		}

		budget--
		if budget < 0 {
			return nil, errLimitExceeded(tokenLimit)
		}

		if p >= len(buf) {
			return nil, errUnexpectedEOF(p)
		}
		b := buf[p]

		if n := len(stack); n > 0 {
			top := stack[n-1]
			if top.dict && !top.parity && !isDigit(b) && b != 'e' {
				return nil, errExpectedDigit(p)
			}
		}

		pushed := false
		popped := false

		switch {
		case b == 'd':
			stack = append(stack, stackFrame{index: len(tokens), dict: true})
			tokens = append(tokens, newDictToken(p))
			p++
			pushed = true

		case b == 'l':
			stack = append(stack, stackFrame{index: len(tokens)})
			tokens = append(tokens, newListToken(p))
			p++
			pushed = true

		case b == 'i':
			start := p
			p++
			if p < len(buf) && buf[p] == '-' {
				p++
			}
			digitsStart := p
			for p < len(buf) && isDigit(buf[p]) {
				p++
			}
			if p >= len(buf) {
				return nil, errUnexpectedEOF(p)
			}
			digitCount := p - digitsStart
			if buf[p] != 'e' {
				return nil, errExpectedDigit(p)
			}
			if digitCount == 0 {
				return nil, errExpectedDigit(p)
			}
			if digitCount > MaxIntDigits {
				return nil, errOverflow("digit run exceeds 20 characters")
			}
			tokens = append(tokens, newIntToken(start))
			p++ // past 'e'

		case b == 'e':
			n := len(stack)
			if n == 0 {
				return nil, errUnexpectedEOF(p)
			}
			top := stack[n-1]
			if top.dict && top.parity {
				return nil, errExpectedValue(p)
			}
			tokens = append(tokens, newEndToken(p))
			nextItem := len(tokens) - top.index
			if nextItem > MaxNextItem {
				return nil, errLimitExceeded(nextItem)
			}
			tokens[top.index] = tokens[top.index].withNextItem(nextItem)
			stack = stack[:n-1]
			p++
			popped = true

		default:
			if !isDigit(b) {
				return nil, errExpectedDigit(p)
			}
			start := p
			length := 0
			for p < len(buf) && isDigit(buf[p]) {
				d := int(buf[p] - '0')
				if length > (math.MaxInt-d)/10 {
					return nil, errLimitExceeded(p - start + 1)
				}
				length = length*10 + d
				p++
			}
			if p >= len(buf) {
				return nil, errExpectedColon(p)
			}
			if buf[p] != ':' {
				return nil, errExpectedColon(p)
			}
			headerSize := p - start
			if headerSize > MaxHeaderSize {
				return nil, errLimitExceeded(headerSize)
			}
			p++ // past ':'
			if length > len(buf)-p {
				return nil, errUnexpectedEOF(p)
			}
			tokens = append(tokens, newStrToken(start, headerSize))
			p += length
		}

		// Flip the parity of whichever dict frame just received the item
		// emitted by this step. For a push this is the parent (one below
		// the newly pushed frame); for a leaf it's the unchanged top.
		// Closing a container ('e') delivers that container itself as an
		// item to ITS parent, but the parent's parity was already
		// advanced at the moment the container was pushed — popping must
		// not advance it a second time. Always resolved by index into
		// the live slice, never through a retained pointer.
		var enclosingIdx int
		var hasEnclosing bool
		switch {
		case pushed:
			if len(stack) >= 2 {
				enclosingIdx = len(stack) - 2
				hasEnclosing = true
			}
		case popped:
			// no-op: the parent's parity already advanced on push.
		default:
			if len(stack) >= 1 {
				enclosingIdx = len(stack) - 1
				hasEnclosing = true
			}
		}
		if hasEnclosing && stack[enclosingIdx].dict {
			stack[enclosingIdx].parity = !stack[enclosingIdx].parity
		}

		if len(stack) == 0 {
			break
		}
	}

	tokens = append(tokens, newEndToken(p))
	return tokens, nil
}

// Decode tokenizes buf with default resource limits and returns a Node
// handle over its top-level value.
func Decode(buf []byte) (*Node, error) {
	return DecodeLimits(buf, DefaultDepthLimit, DefaultTokenLimit)
}

// DecodeLimits tokenizes buf with the given depth and token limits (<= 0
// selects the default for that limit) and returns a Node handle over its
// top-level value.
func DecodeLimits(buf []byte, depthLimit, tokenLimit int) (*Node, error) {
	tokens, err := tokenize(buf, depthLimit, tokenLimit)
	if err != nil {
		return nil, err
	}
	return newNode(buf, tokens, 0), nil
}
