package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMessage(t *testing.T) {
	tcases := []struct {
		name string
		in   string
		max  int
		want bool
	}{
		{name: "plain", in: "hi", max: DefaultMaxLength, want: true},
		{name: "whitespace only", in: "  \n\t ", max: DefaultMaxLength, want: false},
		{name: "empty", in: "", max: 0, want: false},
		{name: "at bound", in: strings.Repeat("a", 500), max: DefaultMaxLength, want: true},
		{name: "over bound", in: strings.Repeat("a", 501), max: DefaultMaxLength, want: false},
		{name: "bound counts runes", in: strings.Repeat("é", 3), max: 3, want: true},
		{name: "unbounded", in: strings.Repeat("a", 10000), max: 0, want: true},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidMessage(tc.in, tc.max))
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("  hello <script>alert(1)</script> "))
	assert.Equal(t, "a  b", Sanitize("a <SCRIPT type=\"x\">\nbad()\n</script> b"))
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "hello...", Truncate("hello world", 6))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 5))
}
