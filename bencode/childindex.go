package bencode

// buildChildIndex computes the direct-child token indexes of the Dict or
// List token at start. It walks forward from start+1 following next_item
// skip-distances until it hits the container's End token.
//
// For lists every visited index is a child. For dicts, keys and values
// alternate strictly; only the even-positioned (key) indexes are kept, so
// the returned count is half the number of tokens visited.
//
// A non-container start, or an empty container, returns (nil, 0).
func buildChildIndex(tokens []Token, start int) ([]int, int) {
	kind := tokens[start].Kind()
	if kind != KindDict && kind != KindList {
		return nil, 0
	}

	isDict := kind == KindDict
	var indexes []int

	i := start + 1
	pos := 0
	for tokens[i].Kind() != KindEnd {
		if !isDict || pos%2 == 0 {
			indexes = append(indexes, i)
		}
		i += tokens[i].NextItem()
		pos++
	}

	return indexes, len(indexes)
}
