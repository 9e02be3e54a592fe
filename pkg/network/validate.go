package network

import (
	"fmt"
	"strings"

	"github.com/matzehuels/railpath/pkg/errors"
)

// ProblemKind classifies a structural defect in a graph.
type ProblemKind string

// Problem kinds reported by [Problems] and [CheckSymmetry].
const (
	ProblemNonPositiveWeight ProblemKind = "non-positive weight"
	ProblemSelfLoop          ProblemKind = "self loop"
	ProblemDangling          ProblemKind = "dangling reference"
	ProblemAsymmetric        ProblemKind = "asymmetric edge"
	ProblemMissingCoords     ProblemKind = "missing coordinates"
)

// Problem describes one defect found in a graph or network.
type Problem struct {
	Kind   ProblemKind
	From   string
	To     string
	Weight int
}

func (p Problem) String() string {
	switch p.Kind {
	case ProblemNonPositiveWeight:
		return fmt.Sprintf("%s: %s→%s weight=%d", p.Kind, p.From, p.To, p.Weight)
	case ProblemSelfLoop:
		return fmt.Sprintf("%s: %s", p.Kind, p.From)
	case ProblemMissingCoords:
		return fmt.Sprintf("%s: %s", p.Kind, p.From)
	default:
		return fmt.Sprintf("%s: %s→%s", p.Kind, p.From, p.To)
	}
}

// Problems lists every hard defect of g in deterministic order:
// non-positive weights, self loops, and neighbors that are not top-level
// nodes. Asymmetry is not included; see [CheckSymmetry].
func Problems(g Graph) []Problem {
	var out []Problem
	for _, from := range g.Nodes() {
		for _, e := range g.Neighbors(from) {
			if e.Weight <= 0 {
				out = append(out, Problem{Kind: ProblemNonPositiveWeight, From: e.From, To: e.To, Weight: e.Weight})
			}
			if e.From == e.To {
				out = append(out, Problem{Kind: ProblemSelfLoop, From: e.From, To: e.To})
			}
			if !g.HasNode(e.To) {
				out = append(out, Problem{Kind: ProblemDangling, From: e.From, To: e.To})
			}
		}
	}
	return out
}

// CheckSymmetry lists edges whose reverse is missing or has a different
// weight. Each offending direction is reported once.
func CheckSymmetry(g Graph) []Problem {
	var out []Problem
	for _, from := range g.Nodes() {
		for _, e := range g.Neighbors(from) {
			if w, ok := g.Weight(e.To, e.From); !ok || w != e.Weight {
				out = append(out, Problem{Kind: ProblemAsymmetric, From: e.From, To: e.To, Weight: e.Weight})
			}
		}
	}
	return out
}

// Validate returns an INVALID_GRAPH error listing every problem of g,
// or nil if there are none.
func Validate(g Graph) error {
	return problemsError("graph", Problems(g))
}

// Validate checks the network's graph and that every city has coordinates.
func (n Network) Validate() error {
	problems := Problems(n.Graph)
	for _, id := range n.Cities() {
		if _, ok := n.Coords[id]; !ok {
			problems = append(problems, Problem{Kind: ProblemMissingCoords, From: id})
		}
	}
	name := n.Name
	if name == "" {
		name = "network"
	}
	return problemsError(name, problems)
}

func problemsError(subject string, problems []Problem) error {
	if len(problems) == 0 {
		return nil
	}
	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = p.String()
	}
	return errors.New(errors.ErrCodeInvalidGraph, "%s has %d problem(s): %s", subject, len(problems), strings.Join(lines, "; "))
}
