package bencode

import "testing"

func TestToJSON_Compact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"i42e", "42"},
		{"4:spam", `"spam"`},
		{"li1e2:abe", `[1, "ab"]`},
		{"d1:ai1e1:b2:bve", `{"a": 1, "b": "bv"}`},
		{"de", "{}"},
		{"le", "[]"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			n := decodeString(t, tc.in)
			if got := n.ToJSON(); got != tc.want {
				t.Fatalf("ToJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestToJSON_EscapesAndSpaces(t *testing.T) {
	n := decodeString(t, "6:a\"b c\x01")
	want := `"a\x22b c\x01"`
	if got := n.ToJSON(); got != want {
		t.Fatalf("ToJSON() = %q, want %q", got, want)
	}
}

func TestToJSONPretty_Indents(t *testing.T) {
	n := decodeString(t, "li1ei2ee")
	want := "[\n    1,\n    2\n]"
	if got := n.ToJSONPretty(); got != want {
		t.Fatalf("ToJSONPretty() = %q, want %q", got, want)
	}
}
