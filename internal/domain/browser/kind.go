package browser

import (
	"fmt"
	"strings"
)

// Kind is a supported browser variant.
type Kind string

const (
	Chrome  Kind = "chrome"
	Firefox Kind = "firefox"
)

// Kinds lists every supported variant.
var Kinds = []Kind{Chrome, Firefox}

// ParseKind parses a caller-supplied browser name, ignoring case and
// surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	switch k {
	case Chrome, Firefox:
		return true
	}
	return false
}

// DisplayName returns the human-facing product name.
func (k Kind) DisplayName() string {
	switch k {
	case Chrome:
		return "Chrome"
	case Firefox:
		return "Firefox"
	}
	return string(k)
}

func (k Kind) String() string { return string(k) }
