package sanitize

import (
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  slept well  ", want: "slept well"},
		{name: "blank lines dropped", in: "one\n\n\n two ", want: "one\ntwo"},
		{name: "markup stripped", in: "<b>long</b> walk", want: "long walk"},
		{name: "script removed", in: "hi<script>alert(1)</script> there", want: "hi there"},
		{name: "blocks keep breaks", in: "<p>first</p><p>second</p>", want: "first\nsecond"},
		{name: "entities decoded", in: "tea &amp; toast", want: "tea & toast"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := Text(testCase.in); got != testCase.want {
				t.Fatalf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}

func TestLine(t *testing.T) {
	if got := Line("<p>my</p><p>sister</p>"); got != "my sister" {
		t.Fatalf("expected single line, got %q", got)
	}
}

func TestTextClipsLongInput(t *testing.T) {
	long := strings.Repeat("é", MaxLength)
	got := Text(long)
	if len(got) > MaxLength {
		t.Fatalf("expected at most %d bytes, got %d", MaxLength, len(got))
	}
	if !strings.HasSuffix(got, "é") {
		t.Fatalf("expected clip on a rune boundary")
	}
}
