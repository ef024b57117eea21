package gotale

import (
	"fmt"
	"sort"
	"strings"
)

// StepSpec is one node of an author-submitted scenario graph. The ID is a
// submission-scoped token chosen by the author; it only exists to express
// edges and is remapped to a durable identifier during construction.
type StepSpec struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location,omitempty"`
	Choices     []ChoiceSpec `json:"choices"`
}

// ChoiceSpec is a directed edge to another StepSpec, by submission-scoped id.
type ChoiceSpec struct {
	Text string `json:"text"`
	Next int    `json:"next"`
}

// ValidationErrors aggregates independent findings about a bad submission.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return strings.Join(e, " ")
}

// ValidateGraph checks the structural invariants of a submitted step graph
// and returns the submission-scoped id of its unique root (the one step no
// choice points at). Independent violations are collected and reported
// together. Duplicate step ids are the exception: they corrupt the
// id-to-choices mapping every later check depends on, so they are reported
// alone.
func ValidateGraph(steps []StepSpec) (int, ValidationErrors) {
	if len(steps) == 0 {
		return 0, ValidationErrors{"A scenario must have at least one step."}
	}

	stepChoices := make(map[int][]ChoiceSpec, len(steps))
	var dups ValidationErrors
	for _, s := range steps {
		if _, seen := stepChoices[s.ID]; seen {
			dups = append(dups, fmt.Sprintf("Step %d is duplicated.", s.ID))
		}
		stepChoices[s.ID] = s.Choices
	}
	if len(dups) > 0 {
		return 0, dups
	}

	var errs ValidationErrors
	referenced := make(map[int]bool)
	for _, s := range steps {
		if len(s.Choices) > MaxChoicesPerStep {
			errs = append(errs, fmt.Sprintf(
				"Step %d has more than 4 choices. A step cannot have more than 4 choices.", s.ID))
		}
		for _, c := range s.Choices {
			if _, ok := stepChoices[c.Next]; !ok {
				errs = append(errs, fmt.Sprintf(
					"Step %d has a choice pointing to non-existent step {text: %q, next: %d}.",
					s.ID, c.Text, c.Next))
			} else {
				referenced[c.Next] = true
			}
		}
	}

	var roots []int
	for _, s := range steps {
		if !referenced[s.ID] {
			roots = append(roots, s.ID)
		}
	}

	root := 0
	switch len(roots) {
	case 1:
		root = roots[0]
	case 0:
		errs = append(errs,
			"No root step found. At least one step must not be a target of any choice.")
	default:
		sort.Ints(roots)
		errs = append(errs, fmt.Sprintf(
			"Multiple root steps found: %v. There must be exactly one root step.", roots))
	}

	if len(errs) > 0 {
		return 0, errs
	}
	return root, nil
}
