// Package dither reduces floating-point audio to integer PCM with optional
// dither noise and error-feedback noise shaping.
package dither

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOption indicates an out-of-range quantizer option.
var ErrInvalidOption = errors.New("dither: invalid option")

// Type selects the probability distribution of the dither noise.
type Type int

const (
	// TypeNone rounds without added noise.
	TypeNone Type = iota
	// TypeRectangular adds uniform noise of one LSB peak to peak (RPDF).
	TypeRectangular
	// TypeTriangular adds the difference of two uniform draws (TPDF).
	TypeTriangular
)

var typeNames = map[Type]string{
	TypeNone:        "none",
	TypeRectangular: "rpdf",
	TypeTriangular:  "tpdf",
}

// String returns the short lower-case name.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("dither(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType resolves "none", "rpdf" or "tpdf" (case-insensitive).
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == key {
			return t, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown dither type %q", ErrInvalidOption, name)
}
