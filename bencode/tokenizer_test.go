package bencode

import (
	"strings"
	"testing"
)

func decodeString(t *testing.T, s string) *Node {
	t.Helper()
	n, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", s, err)
	}
	return n
}

func wantErrKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with kind %s, got nil", kind)
	}
	berr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *bencode.Error, got %T (%v)", err, err)
	}
	if berr.Kind != kind {
		t.Fatalf("error kind = %s, want %s (%v)", berr.Kind, kind, err)
	}
}

func TestDecode_Scenarios(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		n := decodeString(t, "i19e")
		v, err := n.AsInt()
		if err != nil || v != 19 {
			t.Fatalf("AsInt() = %d, %v, want 19, nil", v, err)
		}
		if len(n.tokens) != 2 {
			t.Fatalf("token count = %d, want 2", len(n.tokens))
		}
	})

	t.Run("string", func(t *testing.T) {
		n := decodeString(t, "2:k1")
		if got := string(n.AsString()); got != "k1" {
			t.Fatalf("AsString() = %q, want %q", got, "k1")
		}
		if len(n.tokens) != 2 {
			t.Fatalf("token count = %d, want 2", len(n.tokens))
		}
	})

	t.Run("list", func(t *testing.T) {
		n := decodeString(t, "li19e2:abe")
		if n.Kind() != KindList {
			t.Fatalf("Kind() = %s, want List", n.Kind())
		}
		if n.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", n.Len())
		}
		if v, err := n.ListItemAsInt(0); err != nil || v != 19 {
			t.Fatalf("ListItemAsInt(0) = %d, %v, want 19, nil", v, err)
		}
		if got := string(n.ListItemAsString(1)); got != "ab" {
			t.Fatalf("ListItemAsString(1) = %q, want %q", got, "ab")
		}
	})

	t.Run("dict", func(t *testing.T) {
		n := decodeString(t, "d1:a1:b2:cd3:foo4:baroi9ee")
		if n.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", n.Len())
		}
		if v, ok := n.DictFindAsString([]byte("a")); !ok || string(v) != "b" {
			t.Fatalf("DictFindAsString(a) = %q, %v", v, ok)
		}
		if v, ok := n.DictFindAsString([]byte("cd")); !ok || string(v) != "foo" {
			t.Fatalf("DictFindAsString(cd) = %q, %v", v, ok)
		}
		if v, ok := n.DictFindAsInt([]byte("baro")); !ok || v != 9 {
			t.Fatalf("DictFindAsInt(baro) = %d, %v, want 9, true", v, ok)
		}
		if len(n.tokens) != 9 {
			t.Fatalf("token count = %d, want 9", len(n.tokens))
		}
	})

	t.Run("mixed-dict", func(t *testing.T) {
		n := decodeString(t, "d2:k12:v12:k2li1ei2ee3:k03i3e2:k4d2:k5i5e2:k6i6eee")
		if n.Len() != 4 {
			t.Fatalf("Len() = %d, want 4", n.Len())
		}
		k2, ok := n.DictFindAsList([]byte("k2"))
		if !ok || k2.Len() != 2 {
			t.Fatalf("DictFindAsList(k2) = %v, %v", k2, ok)
		}
		if v, _ := k2.ListItemAsInt(0); v != 1 {
			t.Fatalf("k2[0] = %d, want 1", v)
		}
		if v, _ := k2.ListItemAsInt(1); v != 2 {
			t.Fatalf("k2[1] = %d, want 2", v)
		}
		k4, ok := n.DictFindAsDict([]byte("k4"))
		if !ok {
			t.Fatalf("DictFindAsDict(k4) missing")
		}
		if v, ok := k4.DictFindAsInt([]byte("k5")); !ok || v != 5 {
			t.Fatalf("k4.k5 = %d, %v, want 5, true", v, ok)
		}
		if v, ok := k4.DictFindAsInt([]byte("k6")); !ok || v != 6 {
			t.Fatalf("k4.k6 = %d, %v, want 6, true", v, ok)
		}
	})

	t.Run("deeply-nested", func(t *testing.T) {
		n := decodeString(t, "d2:k1d2:k2d2:k3li9eeee2:k41:4e")
		k1, _ := n.DictFindAsDict([]byte("k1"))
		k2, _ := k1.DictFindAsDict([]byte("k2"))
		k3, _ := k2.DictFindAsList([]byte("k3"))
		if k3.Len() != 1 {
			t.Fatalf("k1.k2.k3 len = %d, want 1", k3.Len())
		}
		if v, _ := k3.ListItemAsInt(0); v != 9 {
			t.Fatalf("k1.k2.k3[0] = %d, want 9", v)
		}
		if v, ok := n.DictFindAsString([]byte("k4")); !ok || string(v) != "4" {
			t.Fatalf("k4 = %q, %v, want 4, true", v, ok)
		}
	})

	t.Run("trailing-data-not-consumed", func(t *testing.T) {
		buf := []byte("d1:ai1ee" + "e")
		n, err := Decode(buf)
		if err != nil {
			t.Fatalf("Decode error: %v", err)
		}
		if v, ok := n.DictFindAsInt([]byte("a")); !ok || v != 1 {
			t.Fatalf("a = %d, %v, want 1, true", v, ok)
		}
	})

	t.Run("long-header", func(t *testing.T) {
		n := decodeString(t, "10:abcdefghij")
		if n.token().HeaderSize() != 2 {
			t.Fatalf("HeaderSize() = %d, want 2", n.token().HeaderSize())
		}
		if got := string(n.AsString()); got != "abcdefghij" {
			t.Fatalf("AsString() = %q, want %q", got, "abcdefghij")
		}
	})
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind ErrorKind
	}{
		{"double-minus", "i--1e", ExpectedDigit},
		{"dict-key-without-value", "d1:ae", ExpectedValue},
		{"empty-buffer", "", UnexpectedEOF},
		{"top-level-e", "e", UnexpectedEOF},
		{"truncated-list", "l", UnexpectedEOF},
		{"truncated-dict", "d", UnexpectedEOF},
		{"truncated-int", "i42", UnexpectedEOF},
		{"empty-int-digits", "ie", ExpectedDigit},
		{"non-digit-string-length", "1x:a", ExpectedColon},
		{"truncated-string-payload", "5:abc", UnexpectedEOF},
		{"overlong-int-digits", "i" + strings.Repeat("1", 21) + "e", Overflow},
		{"buffer-too-long", "", LimitExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.name == "buffer-too-long" {
				wantErrKind(t, validateBufferLength(MaxOffset+1), LimitExceeded)
				return
			}
			_, err := Decode([]byte(tc.in))
			wantErrKind(t, err, tc.kind)
		})
	}
}

// nestedLists returns bencoded data opening n lists and closing them all.
func nestedLists(n int) string {
	var open, closing strings.Builder
	for i := 0; i < n; i++ {
		open.WriteString("l")
		closing.WriteString("e")
	}
	return open.String() + closing.String()
}

func TestDecode_DepthLimit(t *testing.T) {
	const limit = 5

	// The depth check runs before every token, including the one that
	// closes the innermost container, so a full round trip completes
	// only up to limit-1 open containers.
	if _, err := DecodeLimits([]byte(nestedLists(limit-1)), limit, 0); err != nil {
		t.Fatalf("nesting %d deep under limit %d: unexpected error %v", limit-1, limit, err)
	}

	_, err := DecodeLimits([]byte(nestedLists(limit)), limit, 0)
	wantErrKind(t, err, DepthExceeded)
}

func TestDecode_TokenLimit(t *testing.T) {
	_, err := DecodeLimits([]byte("li1ei2ei3ee"), 0, 3)
	wantErrKind(t, err, LimitExceeded)
}

func TestDecode_EmptyContainers(t *testing.T) {
	d := decodeString(t, "de")
	if d.Kind() != KindDict || d.Len() != 0 {
		t.Fatalf("empty dict: kind=%s len=%d", d.Kind(), d.Len())
	}

	l := decodeString(t, "le")
	if l.Kind() != KindList || l.Len() != 0 {
		t.Fatalf("empty list: kind=%s len=%d", l.Kind(), l.Len())
	}
}

func TestDecode_NegativeAndZero(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"i0e", 0},
		{"i-0e", 0},
		{"i-1e", -1},
		{"i42e", 42},
	}
	for _, tc := range tests {
		v, err := decodeString(t, tc.in).AsInt()
		if err != nil || v != tc.want {
			t.Fatalf("AsInt(%q) = %d, %v, want %d, nil", tc.in, v, err, tc.want)
		}
	}
}

func TestNode_Panics(t *testing.T) {
	n := decodeString(t, "i1e")

	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		fn()
	}

	mustPanic("AsString on Int", func() { n.AsString() })
	mustPanic("Len on Int", func() { n.Len() })

	list := decodeString(t, "li1ee")
	mustPanic("out of range ListItem", func() { list.ListItem(5) })
}
