package network

import (
	"strings"
	"testing"

	"github.com/matzehuels/railpath/pkg/errors"
)

func TestProblems(t *testing.T) {
	tests := []struct {
		name  string
		graph Graph
		want  []Problem
	}{
		{
			name:  "Clean",
			graph: Graph{"a": {"b": 1}, "b": {"a": 1}},
			want:  nil,
		},
		{
			name:  "Zero weight",
			graph: Graph{"a": {"b": 0}, "b": {"a": 0}},
			want: []Problem{
				{Kind: ProblemNonPositiveWeight, From: "a", To: "b", Weight: 0},
				{Kind: ProblemNonPositiveWeight, From: "b", To: "a", Weight: 0},
			},
		},
		{
			name:  "Negative weight",
			graph: Graph{"a": {"b": -5}, "b": {}},
			want:  []Problem{{Kind: ProblemNonPositiveWeight, From: "a", To: "b", Weight: -5}},
		},
		{
			name:  "Self loop",
			graph: Graph{"a": {"a": 2}},
			want:  []Problem{{Kind: ProblemSelfLoop, From: "a", To: "a"}},
		},
		{
			name:  "Dangling reference",
			graph: Graph{"a": {"ghost": 2}},
			want:  []Problem{{Kind: ProblemDangling, From: "a", To: "ghost"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Problems(tt.graph)
			if len(got) != len(tt.want) {
				t.Fatalf("Problems() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Problems()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Graph{"a": {"b": 1}, "b": {"a": 1}}); err != nil {
		t.Errorf("Validate(clean) = %v, want nil", err)
	}

	err := Validate(Graph{"a": {"ghost": -1}})
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("Validate() error = %v, want %s", err, errors.ErrCodeInvalidGraph)
	}
	msg := errors.UserMessage(err)
	for _, want := range []string{"2 problem(s)", "non-positive weight", "dangling reference"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestCheckSymmetry(t *testing.T) {
	g := Graph{
		"a": {"b": 1, "c": 2},
		"b": {"a": 1},
		"c": {"a": 3},
	}
	got := CheckSymmetry(g)
	want := []Problem{
		{Kind: ProblemAsymmetric, From: "a", To: "c", Weight: 2},
		{Kind: ProblemAsymmetric, From: "c", To: "a", Weight: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("CheckSymmetry() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("CheckSymmetry()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNetworkValidateCoords(t *testing.T) {
	n := Network{
		Name:   "pair",
		Graph:  Graph{"a": {"b": 1}, "b": {"a": 1}},
		Coords: map[string]Point{"a": {0, 0}},
	}
	err := n.Validate()
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("Validate() error = %v, want %s", err, errors.ErrCodeInvalidGraph)
	}
	if !strings.Contains(err.Error(), "missing coordinates: b") {
		t.Errorf("error %q should name the city without coordinates", err)
	}
}

func TestProblemString(t *testing.T) {
	tests := []struct {
		p    Problem
		want string
	}{
		{Problem{Kind: ProblemNonPositiveWeight, From: "a", To: "b", Weight: -1}, "non-positive weight: a→b weight=-1"},
		{Problem{Kind: ProblemSelfLoop, From: "a", To: "a"}, "self loop: a"},
		{Problem{Kind: ProblemDangling, From: "a", To: "x"}, "dangling reference: a→x"},
		{Problem{Kind: ProblemMissingCoords, From: "a"}, "missing coordinates: a"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
