// Package preset holds the named parameter tables that map user-facing
// difficulty choices onto pipeline settings.
package preset

import "fmt"

// Complexity controls how aggressively markers are eroded. Larger erosion
// gives fewer, larger seeds and a coarser template; smaller erosion keeps
// more detail but risks losing thin features entirely.
type Complexity int

const (
	Low Complexity = iota
	Medium
	High
	Extreme
)

// ErosionRadius returns the disk radius in pixels used to erode color masks
// at this complexity.
func (c Complexity) ErosionRadius() int {
	switch c {
	case Low:
		return 5
	case Medium:
		return 3
	case High:
		return 2
	case Extreme:
		return 1
	default:
		return 3
	}
}

func (c Complexity) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Extreme:
		return "extreme"
	default:
		return "unknown"
	}
}

// ParseComplexity converts a user-supplied name to a Complexity.
func ParseComplexity(s string) (Complexity, error) {
	switch s {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	case "extreme":
		return Extreme, nil
	}
	return Medium, fmt.Errorf("unknown complexity %q (want low, medium, high, or extreme)", s)
}

// Preset is a named bundle of pipeline parameters.
type Preset struct {
	Name              string
	Complexity        Complexity
	ColorCount        int
	MinRegionSize     int
	SimplifyTolerance float64
	MaxDimension      int
}

// Table lists the built-in presets, ordered from easiest to hardest.
var Table = []Preset{
	{Name: "kids", Complexity: Low, ColorCount: 8, MinRegionSize: 400, SimplifyTolerance: 2.5, MaxDimension: 800},
	{Name: "casual", Complexity: Medium, ColorCount: 12, MinRegionSize: 200, SimplifyTolerance: 1.8, MaxDimension: 1000},
	{Name: "detailed", Complexity: High, ColorCount: 14, MinRegionSize: 100, SimplifyTolerance: 1.5, MaxDimension: 1400},
	{Name: "master", Complexity: Extreme, ColorCount: 16, MinRegionSize: 50, SimplifyTolerance: 1.2, MaxDimension: 1800},
}

// Lookup finds a preset by name.
func Lookup(name string) (Preset, bool) {
	for _, p := range Table {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the preset names in table order.
func Names() []string {
	names := make([]string, len(Table))
	for i, p := range Table {
		names[i] = p.Name
	}
	return names
}
