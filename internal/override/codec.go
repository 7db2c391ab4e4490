// Package override implements the tri-state display overrides that sit at
// the heart of gallery configuration. Every display attribute can be set
// globally per template and overridden per gallery, where "inherit" is a
// first-class value distinct from an explicit off/zero.
package override

import (
	"errors"
	"strconv"
	"strings"
)

// InheritToken is the wire token for the inherit state. An empty value
// decodes the same way.
const InheritToken = "inherit"

// Column count bounds shared by the codec and the resolution engine.
const (
	MinColumns = 2
	MaxColumns = 6
)

// Transition effects understood by the client-side viewer.
const (
	TransitionNone    = "none"
	TransitionSlide   = "slide"
	TransitionFade    = "fade"
	TransitionExplode = "explode"
	TransitionImplode = "implode"
)

var transitions = []string{
	TransitionNone,
	TransitionSlide,
	TransitionFade,
	TransitionExplode,
	TransitionImplode,
}

var (
	ErrInvalidBoolToken = errors.New("invalid boolean override token")
	ErrInvalidIntToken  = errors.New("invalid numeric override token")
)

var truthyTokens = map[string]bool{"1": true, "true": true, "yes": true, "on": true}
var falsyTokens = map[string]bool{"0": true, "false": true, "no": true, "off": true}

// DecodeBool parses a wire token into a nullable bool. Empty and "inherit"
// decode to nil. Unrecognized tokens are rejected rather than coerced.
func DecodeBool(raw string) (*bool, error) {
	token := normalizeToken(raw)
	if token == "" || token == InheritToken {
		return nil, nil
	}
	if truthyTokens[token] {
		v := true
		return &v, nil
	}
	if falsyTokens[token] {
		v := false
		return &v, nil
	}
	return nil, ErrInvalidBoolToken
}

// DecodeInt parses a wire token into a nullable int clamped into
// [min, max]. Empty and "inherit" decode to nil.
func DecodeInt(raw string, min, max int) (*int, error) {
	token := normalizeToken(raw)
	if token == "" || token == InheritToken {
		return nil, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return nil, ErrInvalidIntToken
	}
	n = clamp(n, min, max)
	return &n, nil
}

// DecodeColumns is DecodeInt with the column bounds applied.
func DecodeColumns(raw string) (*int, error) {
	return DecodeInt(raw, MinColumns, MaxColumns)
}

// DecodeTransition parses a wire token into a nullable transition name.
// Unknown effect names decode to nil (inherit); a stale client naming an
// effect this build no longer ships should fall back to the global value,
// not break the save.
func DecodeTransition(raw string) *string {
	token := normalizeToken(raw)
	if token == "" || token == InheritToken {
		return nil
	}
	for _, t := range transitions {
		if token == t {
			v := t
			return &v
		}
	}
	return nil
}

// EncodeBool renders a nullable bool back to its wire token.
func EncodeBool(v *bool) string {
	if v == nil {
		return InheritToken
	}
	if *v {
		return "1"
	}
	return "0"
}

// EncodeInt renders a nullable int back to its wire token.
func EncodeInt(v *int) string {
	if v == nil {
		return InheritToken
	}
	return strconv.Itoa(*v)
}

// EncodeTransition renders a nullable transition back to its wire token.
func EncodeTransition(v *string) string {
	if v == nil {
		return InheritToken
	}
	return *v
}

// ValidTransition reports whether name is a known transition effect.
func ValidTransition(name string) bool {
	for _, t := range transitions {
		if name == t {
			return true
		}
	}
	return false
}

// ClampColumns forces a column count into the supported range.
func ClampColumns(n int) int {
	return clamp(n, MinColumns, MaxColumns)
}

func clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func normalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
