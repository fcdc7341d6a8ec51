package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		prefix string
		seq    int
		want   string
	}{
		{"C", 1, "C000001"},
		{"C", 123456, "C123456"},
		{"T", 42, "T000042"},
		{"A", 999999, "A999999"},
		{"INF", 7, "INF000007"},
		{"TES", 100, "TES000100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.prefix, tt.seq))
	}
}

func TestSequence(t *testing.T) {
	tests := []struct {
		prefix string
		code   string
		want   int
		ok     bool
	}{
		{"C", "C000001", 1, true},
		{"C", "C123456", 123456, true},
		{"INF", "INF000007", 7, true},
		{"C", "T000001", 0, false},
		{"C", "C00001", 0, false},   // too short
		{"C", "C0000001", 0, false}, // too long
		{"C", "C00000x", 0, false},  // non-digit
		{"C", "", 0, false},
		{"EX", "EXP000001", 0, false}, // prefix mismatch past the match
	}
	for _, tt := range tests {
		got, ok := Sequence(tt.prefix, tt.code)
		assert.Equal(t, tt.ok, ok, "code %q", tt.code)
		assert.Equal(t, tt.want, got, "code %q", tt.code)
	}
}

func TestMaxSequence(t *testing.T) {
	existing := []string{"C000001", "C000005", "C000003", "T000099", "garbage", "C00001"}
	assert.Equal(t, 5, MaxSequence("C", existing))
	assert.Equal(t, 99, MaxSequence("T", existing))
	assert.Equal(t, 0, MaxSequence("A", existing))
	assert.Equal(t, 0, MaxSequence("C", nil))
}

func TestWordClassPrefix(t *testing.T) {
	tests := []struct {
		class  string
		prefix string
	}{
		{"data_type", "C"},
		{"dictionary_word", "A"},
		{"template_category", "T"},
		{"clinical_info", "I"},
		{"info_type", "G"},
		{"lab_type", "E"},
		{"info_name", "INF"},
		{"lab_name", "TES"},
		{"exam_name", "CHK"},
		{"exam_type", "EX"},
	}
	for _, tt := range tests {
		got, err := WordClassPrefix(tt.class)
		require.NoError(t, err)
		assert.Equal(t, tt.prefix, got)
	}

	_, err := WordClassPrefix("bogus")
	require.ErrorIs(t, err, ErrUnknownWordClass)
}

func TestPattern(t *testing.T) {
	p := Pattern("C")
	assert.True(t, p.MatchString("C000001"))
	assert.False(t, p.MatchString("C00001"))
	assert.False(t, p.MatchString("xC000001"))
	assert.False(t, p.MatchString("C000001x"))

	inf := Pattern("INF")
	assert.True(t, inf.MatchString("INF000123"))
	assert.False(t, inf.MatchString("IN000123"))
}
