package intel

import (
	"strings"

	"github.com/nstehr/vimy/vimy-tactics/model"
)

// typed is a generic constraint for any model type with a TypeName accessor.
type typed interface {
	TypeName() string
}

// matchesAny returns true if item's TypeName matches any of types (case-insensitive).
func matchesAny[T typed](item T, types []string) bool {
	for _, t := range types {
		if strings.EqualFold(item.TypeName(), t) {
			return true
		}
	}
	return false
}

// filterTypes returns the items whose TypeName matches any of types.
func filterTypes[T typed](items []T, types []string) []T {
	var out []T
	for _, item := range items {
		if matchesAny(item, types) {
			out = append(out, item)
		}
	}
	return out
}

// StructureClass is the target-priority bucket of a hostile structure.
type StructureClass int

const (
	ClassIgnored StructureClass = iota
	ClassSpawn
	ClassDefense
	ClassSecondary
)

func (c StructureClass) String() string {
	switch c {
	case ClassSpawn:
		return "spawn"
	case ClassDefense:
		return "defense"
	case ClassSecondary:
		return "secondary"
	default:
		return "ignored"
	}
}

// Structure type names.
var (
	spawnTypes   = []string{"spawn"}
	defenseTypes = []string{"tower"}
	ignoredTypes = []string{"controller", "road", "portal", "keeperLair"}
)

// Classify buckets a structure for target distribution.
func Classify(s model.Structure) StructureClass {
	switch {
	case matchesAny(s, ignoredTypes):
		return ClassIgnored
	case matchesAny(s, spawnTypes):
		return ClassSpawn
	case matchesAny(s, defenseTypes):
		return ClassDefense
	default:
		return ClassSecondary
	}
}

// IsDefense reports whether s is a static defense that deals damage.
func IsDefense(s model.Structure) bool {
	return matchesAny(s, defenseTypes)
}
