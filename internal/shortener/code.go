package shortener

import (
	"regexp"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the character set for shortcodes.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GeneratedCodeLength is the length of auto-generated shortcodes.
const GeneratedCodeLength = 7

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{4,20}$`)

// ValidCode reports whether code satisfies the shortcode format. The same
// rule applies wherever a shortcode enters the system: creation with a
// custom code, redirect, and stats lookup.
func ValidCode(code Code) bool {
	return codePattern.MatchString(string(code))
}

// CodeGenerator produces random shortcode candidates.
type CodeGenerator func() Code

// NewCodeGenerator returns a generator drawing codes of GeneratedCodeLength
// uniformly from Alphabet.
func NewCodeGenerator() (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, GeneratedCodeLength)
	if err != nil {
		return nil, err
	}

	return func() Code { return Code(gen()) }, nil
}
