package schedule

import "errors"

// ErrEmptyPalette is returned when WithPalette is given no colors.
var ErrEmptyPalette = errors.New("palette must contain at least one color")
