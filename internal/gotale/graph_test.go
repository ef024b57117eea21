package gotale

import (
	"strings"
	"testing"
)

func step(id int, choices ...ChoiceSpec) StepSpec {
	return StepSpec{ID: id, Title: "step", Choices: choices}
}

func to(id int) ChoiceSpec {
	return ChoiceSpec{Text: "go", Next: id}
}

func TestValidateGraphRoot(t *testing.T) {
	root, errs := ValidateGraph([]StepSpec{
		step(1, to(2), to(3)),
		step(2),
		step(3),
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if root != 1 {
		t.Errorf("root = %d, want 1", root)
	}
}

func TestValidateGraphSingleStep(t *testing.T) {
	root, errs := ValidateGraph([]StepSpec{step(7)})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if root != 7 {
		t.Errorf("root = %d, want 7", root)
	}
}

func TestValidateGraphCycleBackEdge(t *testing.T) {
	// A choice may point back to an earlier step as long as one step
	// still has no incoming edges.
	root, errs := ValidateGraph([]StepSpec{
		step(1, to(2)),
		step(2, to(3)),
		step(3, to(2)),
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if root != 1 {
		t.Errorf("root = %d, want 1", root)
	}
}

func TestValidateGraphEmpty(t *testing.T) {
	_, errs := ValidateGraph(nil)
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if errs[0] != "A scenario must have at least one step." {
		t.Errorf("unexpected message: %q", errs[0])
	}
}

func TestValidateGraphDuplicateReportedAlone(t *testing.T) {
	// The duplicated step also has too many choices and a dangling edge,
	// but only the duplication is reported.
	_, errs := ValidateGraph([]StepSpec{
		step(1, to(99), to(99), to(99), to(99), to(99)),
		step(1),
	})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if errs[0] != "Step 1 is duplicated." {
		t.Errorf("unexpected message: %q", errs[0])
	}
}

func TestValidateGraphTooManyChoices(t *testing.T) {
	_, errs := ValidateGraph([]StepSpec{
		step(1, to(2), to(2), to(2), to(2), to(2)),
		step(2),
	})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	want := "Step 1 has more than 4 choices. A step cannot have more than 4 choices."
	if errs[0] != want {
		t.Errorf("message = %q, want %q", errs[0], want)
	}
}

func TestValidateGraphFourChoicesAllowed(t *testing.T) {
	_, errs := ValidateGraph([]StepSpec{
		step(1, to(2), to(3), to(4), to(5)),
		step(2), step(3), step(4), step(5),
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateGraphDanglingChoice(t *testing.T) {
	_, errs := ValidateGraph([]StepSpec{
		step(1, ChoiceSpec{Text: "leap", Next: 42}),
	})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if !strings.Contains(errs[0], "Step 1 has a choice pointing to non-existent step") {
		t.Errorf("unexpected message: %q", errs[0])
	}
	if !strings.Contains(errs[0], "42") {
		t.Errorf("message should name the dangling target: %q", errs[0])
	}
}

func TestValidateGraphAmbiguousRoot(t *testing.T) {
	_, errs := ValidateGraph([]StepSpec{
		step(1),
		step(2),
	})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	want := "Multiple root steps found: [1 2]. There must be exactly one root step."
	if errs[0] != want {
		t.Errorf("message = %q, want %q", errs[0], want)
	}
}

func TestValidateGraphNoRootTotalCycle(t *testing.T) {
	_, errs := ValidateGraph([]StepSpec{
		step(1, to(2)),
		step(2, to(1)),
	})
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	want := "No root step found. At least one step must not be a target of any choice."
	if errs[0] != want {
		t.Errorf("message = %q, want %q", errs[0], want)
	}
}

func TestValidateGraphAggregatesIndependentErrors(t *testing.T) {
	// Five choices on step 1 plus a dangling edge on step 2 plus an
	// ambiguous root: all three reported together.
	_, errs := ValidateGraph([]StepSpec{
		step(1, to(3), to(3), to(3), to(3), to(3)),
		step(2, ChoiceSpec{Text: "x", Next: 9}),
		step(3),
	})
	if len(errs) != 3 {
		t.Fatalf("errors = %v, want three", errs)
	}
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		wantErrs int
	}{
		{0, 0, 0},
		{-90, -180, 0},
		{90, 180, 0},
		{90.1, 0, 1},
		{-90.1, 0, 1},
		{0, 180.1, 1},
		{0, -180.1, 1},
		{91, 181, 2},
	}
	for _, tt := range tests {
		errs := ValidCoordinates(tt.lat, tt.lon)
		if len(errs) != tt.wantErrs {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %d errors",
				tt.lat, tt.lon, errs, tt.wantErrs)
		}
	}
}
