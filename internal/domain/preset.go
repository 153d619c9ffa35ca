package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type Preset struct {
	ID       string
	Name     string
	FocusSec int
	RestSec  int
}

func DefaultPresets() []Preset {
	return []Preset{
		{ID: "classic", Name: "Classic (25/5)", FocusSec: 25 * 60, RestSec: 5 * 60},
		{ID: "long", Name: "Long (50/10)", FocusSec: 50 * 60, RestSec: 10 * 60},
		{ID: "short", Name: "Short (15/3)", FocusSec: 15 * 60, RestSec: 3 * 60},
	}
}

func FindPreset(presets []Preset, id string) (Preset, error) {
	for _, p := range presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
}

// ParseCustom reads "<focus> <rest>" in minutes. maxMinutes <= 0 disables
// the upper bound.
func ParseCustom(raw string, maxMinutes int) (focusMin, restMin int, err error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return 0, 0, &ValidationError{Message: "Invalid input format. Please enter both focus and rest times."}
	}

	values := make([]int, 2)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, 0, &ValidationError{Message: fmt.Sprintf("%q is not a whole number of minutes.", f)}
		}
		if n <= 0 {
			return 0, 0, &ValidationError{Message: "Focus and rest times must be positive integers."}
		}
		if maxMinutes > 0 && n > maxMinutes {
			return 0, 0, &ValidationError{Message: fmt.Sprintf("Focus and rest times must be at most %d minutes.", maxMinutes)}
		}
		values[i] = n
	}

	return values[0], values[1], nil
}
