package bencode

import "strings"

// ToJSON renders the node tree as a single-line, debug-oriented JSON
// representation. It is lossy for non-ASCII keys and is not a reversible
// transform.
func (n *Node) ToJSON() string {
	var b strings.Builder
	n.writeJSON(&b, false, 0)
	return b.String()
}

// ToJSONPretty renders the node tree as an indented JSON representation,
// 4 spaces per level, one item per line.
func (n *Node) ToJSONPretty() string {
	var b strings.Builder
	n.writeJSON(&b, true, 0)
	return b.String()
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("    ")
	}
}

func (n *Node) writeJSON(b *strings.Builder, pretty bool, depth int) {
	switch n.Kind() {
	case KindInt:
		tok := n.token()
		start := tok.Offset() + 1
		end := n.tokens[n.index+1].Offset() - 1
		b.Write(n.buf[start:end])

	case KindStr:
		writeJSONString(b, n.AsString())

	case KindList:
		b.WriteByte('[')
		for i := 0; i < n.count; i++ {
			if i > 0 {
				b.WriteByte(',')
				if !pretty {
					b.WriteByte(' ')
				}
			}
			if pretty {
				b.WriteByte('\n')
				writeIndent(b, depth+1)
			}
			n.ListItem(i).writeJSON(b, pretty, depth+1)
		}
		if pretty && n.count > 0 {
			b.WriteByte('\n')
			writeIndent(b, depth)
		}
		b.WriteByte(']')

	case KindDict:
		b.WriteByte('{')
		for i := 0; i < n.count; i++ {
			if i > 0 {
				b.WriteByte(',')
				if !pretty {
					b.WriteByte(' ')
				}
			}
			if pretty {
				b.WriteByte('\n')
				writeIndent(b, depth+1)
			}
			key, value := n.DictItem(i)
			writeJSONString(b, key.AsString())
			b.WriteString(": ")
			value.writeJSON(b, pretty, depth+1)
		}
		if pretty && n.count > 0 {
			b.WriteByte('\n')
			writeIndent(b, depth)
		}
		b.WriteByte('}')

	default:
		b.WriteString("null")
	}
}

const hexDigits = "0123456789abcdef"

// writeJSONString renders s under the debug-string rules: '"' is escaped
// as \x22, space renders literally, every other non-ASCII-graphic byte is
// hex-escaped, and everything else is written as-is.
func writeJSONString(b *strings.Builder, s []byte) {
	b.WriteByte('"')
	for _, c := range s {
		switch {
		case c == '"':
			b.WriteString(`\x22`)
		case c == ' ':
			b.WriteByte(' ')
		case c > 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			b.WriteString(`\x`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		}
	}
	b.WriteByte('"')
}
