// Package codes implements the business-code numbering scheme shared by
// dictionary entries, cases, templates and archives: a fixed prefix followed
// by a six-digit, zero-padded, per-prefix sequence number.
package codes

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

const NumDigits = 6

const (
	CasePrefix     = "C"
	TemplatePrefix = "T"
	ArchivePrefix  = "A"
)

// MaxAttempts bounds the retry loop when an allocated code collides with a
// concurrent writer's insert.
const MaxAttempts = 10

var (
	ErrUnknownWordClass = errors.New("unknown word class")
	// ErrExhausted is a generation failure, not a validation failure: the
	// allocator ran out of retry attempts against concurrent inserts.
	ErrExhausted = errors.New("code generation exhausted retry attempts")
)

// wordClassPrefixes maps each dictionary word class to its code prefix.
var wordClassPrefixes = map[string]string{
	"data_type":         "C",
	"dictionary_word":   "A",
	"template_category": "T",
	"clinical_info":     "I",
	"info_type":         "G",
	"lab_type":          "E",
	"info_name":         "INF",
	"lab_name":          "TES",
	"exam_name":         "CHK",
	"exam_type":         "EX",
}

// WordClassPrefix returns the code prefix for a dictionary word class.
func WordClassPrefix(wordClass string) (string, error) {
	prefix, ok := wordClassPrefixes[wordClass]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownWordClass, wordClass)
	}
	return prefix, nil
}

// WordClasses returns the known word classes. Order is unspecified.
func WordClasses() []string {
	classes := make([]string, 0, len(wordClassPrefixes))
	for class := range wordClassPrefixes {
		classes = append(classes, class)
	}
	return classes
}

// IsValidWordClass reports whether wordClass maps to a known prefix.
func IsValidWordClass(wordClass string) bool {
	_, ok := wordClassPrefixes[wordClass]
	return ok
}

// Format renders a business code: prefix + six-digit zero-padded sequence.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, NumDigits, seq)
}

// Sequence parses the numeric part of a code with the given prefix. It
// returns false when the code does not match `{prefix}{6 digits}` exactly.
func Sequence(prefix, code string) (int, bool) {
	if len(code) != len(prefix)+NumDigits || code[:len(prefix)] != prefix {
		return 0, false
	}
	numeric := code[len(prefix):]
	for i := 0; i < len(numeric); i++ {
		if numeric[i] < '0' || numeric[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(numeric)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Pattern returns the regexp matching valid codes for a prefix.
func Pattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `\d{6}$`)
}

// MaxSequence scans a set of existing codes and returns the highest sequence
// number found for the prefix. Codes that do not match the scheme are skipped,
// so deleted or malformed rows never poison the counter.
func MaxSequence(prefix string, existing []string) int {
	max := 0
	for _, code := range existing {
		if n, ok := Sequence(prefix, code); ok && n > max {
			max = n
		}
	}
	return max
}
