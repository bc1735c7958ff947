package selection

import "fmt"

// PolicyKind distinguishes the two ways candidates are chosen
type PolicyKind int

const (
	// TopTwoOverride ignores significance levels and returns the two most significant features
	TopTwoOverride PolicyKind = iota
	// Cutoff admits features whose p-value is below the level
	Cutoff
)

// Policy decides which ranked features may enter candidate subsets
type Policy struct {
	Kind PolicyKind
	// Level is the significance cutoff, only meaningful for Cutoff
	Level float64
}

// TopTwo returns the TopTwoOverride policy
func TopTwo() Policy {
	return Policy{Kind: TopTwoOverride}
}

// CutoffAt returns a Cutoff policy at level p
func CutoffAt(p float64) Policy {
	return Policy{Kind: Cutoff, Level: p}
}

func (p Policy) String() string {
	switch p.Kind {
	case TopTwoOverride:
		return "top-two"
	case Cutoff:
		return fmt.Sprintf("p<%g", p.Level)
	default:
		return "unknown"
	}
}
