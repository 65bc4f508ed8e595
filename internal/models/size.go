package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the decoded Data.Size field: "<items>,<width>,<height>[,<depth>]".
// Depth is zero when unknown.
type Size struct {
	Items  int
	Width  int
	Height int
	Depth  int
}

// ParseSize decodes a comma-joined size string.
func ParseSize(s string) (Size, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) < 3 || len(parts) > 4 {
		return Size{}, fmt.Errorf("size %q: want 3 or 4 comma-separated values", s)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := parseDim(p)
		if err != nil {
			return Size{}, fmt.Errorf("size %q: %w", s, err)
		}
		vals[i] = v
	}
	size := Size{Items: vals[0], Width: vals[1], Height: vals[2]}
	if len(vals) == 4 {
		size.Depth = vals[3]
	}
	return size, nil
}

// parseDim accepts integers and integral floats ("640.0").
func parseDim(p string) (int, error) {
	p = strings.TrimSpace(p)
	if v, err := strconv.Atoi(p); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(p, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid dimension %q", p)
	}
	return int(f), nil
}

// String encodes the size, omitting depth when unknown.
func (s Size) String() string {
	if s.Depth > 0 {
		return fmt.Sprintf("%d,%d,%d,%d", s.Items, s.Width, s.Height, s.Depth)
	}
	return fmt.Sprintf("%d,%d,%d", s.Items, s.Width, s.Height)
}
