package quadknn

import "fmt"

// SearchMode selects how a nearest-neighbor query walks the points.
type SearchMode string

const (
	ModeAuto       SearchMode = "auto"
	ModeExhaustive SearchMode = "exhaustive"
	ModeIndexed    SearchMode = "indexed"
)

// DefaultExhaustiveThreshold is the point count at or below which ModeAuto
// scans linearly instead of walking the quadtree.
const DefaultExhaustiveThreshold = 32

// resolveMode turns ModeAuto into a concrete mode for an index of n points
// and rejects unknown modes.
func resolveMode(mode SearchMode, n, threshold int) (SearchMode, error) {
	switch mode {
	case ModeAuto, "":
		if n <= threshold {
			return ModeExhaustive, nil
		}
		return ModeIndexed, nil
	case ModeExhaustive, ModeIndexed:
		return mode, nil
	default:
		return "", fmt.Errorf("quadknn: invalid SearchMode %q", mode)
	}
}
