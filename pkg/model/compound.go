package model

import (
	"fmt"
	"strings"
)

// Compound is the slick tire specification. Wet and intermediate
// compounds are rejected upstream (dry sessions only).
type Compound string

const (
	CompoundSoft   Compound = "SOFT"
	CompoundMedium Compound = "MEDIUM"
	CompoundHard   Compound = "HARD"
)

var slickCompounds = map[Compound]struct{}{
	CompoundSoft:   {},
	CompoundMedium: {},
	CompoundHard:   {},
}

func ParseCompound(arg string) (Compound, error) {
	c := Compound(strings.ToUpper(strings.TrimSpace(arg)))
	if _, ok := slickCompounds[c]; !ok {
		return "", fmt.Errorf("invalid compound %q (want SOFT, MEDIUM or HARD)", arg)
	}
	return c, nil
}

func (c Compound) Valid() bool {
	_, ok := slickCompounds[c]
	return ok
}
