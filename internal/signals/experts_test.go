package signals

import (
	"math"
	"testing"
)

// #region opinion-tests

func TestBroadcast(t *testing.T) {
	o := Broadcast(0.25)
	if len(o) != Width {
		t.Fatalf("expected width %d, got %d", Width, len(o))
	}
	for i, v := range o {
		if v != 0.25 {
			t.Fatalf("entry %d = %f, want 0.25", i, v)
		}
	}
	if o.Mean() != 0.25 {
		t.Errorf("mean = %f, want 0.25", o.Mean())
	}
	if (Opinion{}).Mean() != 0 {
		t.Error("empty opinion should have mean 0")
	}
}

// #endregion opinion-tests

// #region syntax-tests

func TestSyntaxExpert(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"unfinished", "TODO: fix this", -0.8},
		{"hack-beats-tests", "HACK in test_foo /// doc", -0.8},
		{"tests-and-docs", "/// doc\nfn test_foo() {}", 0.9},
		{"tests-only", "fn test_feature() { }", 0.6},
		{"docs-only", "/** docs */", 0.6},
		{"neutral", "x := 1", 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SyntaxExpert{}.Opinion(tt.text).Mean()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

// #endregion syntax-tests

// #region logic-tests

func TestLogicExpert(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"none", "", 0.4},
		{"two", "MODIFIED: a\nNEW: b", 0.4},
		{"three", "MODIFIED: file1.rs\nMODIFIED: file2.rs\nMODIFIED: file3.rs", 0.8},
		{"seven", "NEW: a\nNEW: b\nNEW: c\nNEW: d\nNEW: e\nNEW: f\nNEW: g", 0.8},
		{"deleted-not-counted", "DELETED: a\nDELETED: b\nDELETED: c", 0.4},
		{"eight", "NEW: a\nNEW: b\nNEW: c\nNEW: d\nNEW: e\nNEW: f\nNEW: g\nNEW: h", 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogicExpert{}.Opinion(tt.text).Mean()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

// #endregion logic-tests

// #region semantic-tests

func TestSemanticExpert(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"no-paths", "+just content", 0},
		{"deleted-only", "DELETED: a/b.go", 0},
		{"top-level", "MODIFIED: main.go\nNEW: go.mod", 0.9},
		{"two-dirs", "MODIFIED: a/x.go\nMODIFIED: b/y.go\nNEW: a/z.go", 0.9},
		{"four-dirs", "MODIFIED: a/x\nMODIFIED: b/x\nMODIFIED: c/x\nMODIFIED: d/x", 0.6},
		{"scattered", "MODIFIED: a/x\nMODIFIED: b/x\nMODIFIED: c/x\nMODIFIED: d/x\nNEW: e/x", 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SemanticExpert{}.Opinion(tt.text).Mean()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

// #endregion semantic-tests

// #region defaults-tests

func TestDefaultExpertsOrder(t *testing.T) {
	want := []string{"syntax", "logic", "semantic"}
	experts := DefaultExperts()
	if len(experts) != len(want) {
		t.Fatalf("expected %d experts, got %d", len(want), len(experts))
	}
	for i, e := range experts {
		if e.Name() != want[i] {
			t.Errorf("expert %d = %q, want %q", i, e.Name(), want[i])
		}
	}
}

// #endregion defaults-tests
