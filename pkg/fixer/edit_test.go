package fixer

import "testing"

func TestApply(t *testing.T) {
	source := []byte("abcdef")

	t.Run("SingleReplace", func(t *testing.T) {
		out := Apply(source, []Edit{{Start: 2, End: 4, Replacement: "XY"}})
		if string(out) != "abXYef" {
			t.Errorf("got %q", out)
		}
	})

	t.Run("Insertion", func(t *testing.T) {
		out := Apply(source, []Edit{{Start: 0, End: 0, Replacement: ">>"}})
		if string(out) != ">>abcdef" {
			t.Errorf("got %q", out)
		}
	})

	t.Run("MultipleEditsAnyInputOrder", func(t *testing.T) {
		edits := []Edit{
			{Start: 0, End: 1, Replacement: "A"},
			{Start: 5, End: 6, Replacement: "F"},
			{Start: 2, End: 3, Replacement: "C"},
		}
		out := Apply(source, edits)
		if string(out) != "AbCdeF" {
			t.Errorf("got %q", out)
		}
		// Reversed input must give the same result: application order is
		// internal, descending by offset.
		reversed := []Edit{edits[2], edits[1], edits[0]}
		if out2 := Apply(source, reversed); string(out2) != string(out) {
			t.Errorf("order-dependent application: %q vs %q", out, out2)
		}
	})

	t.Run("OutOfRangeEditSkipped", func(t *testing.T) {
		out := Apply(source, []Edit{{Start: 4, End: 99, Replacement: "X"}})
		if string(out) != "abcdef" {
			t.Errorf("got %q, want input unchanged", out)
		}
	})

	t.Run("InputNotModified", func(t *testing.T) {
		Apply(source, []Edit{{Start: 0, End: 6, Replacement: ""}})
		if string(source) != "abcdef" {
			t.Error("Apply mutated its input")
		}
	})
}

func TestOverlapping(t *testing.T) {
	cases := []struct {
		name  string
		edits []Edit
		want  bool
	}{
		{"Disjoint", []Edit{{Start: 0, End: 2}, {Start: 5, End: 7}}, false},
		{"Adjacent", []Edit{{Start: 0, End: 2}, {Start: 2, End: 4}}, false},
		{"Overlap", []Edit{{Start: 0, End: 3}, {Start: 2, End: 5}}, true},
		{"Nested", []Edit{{Start: 0, End: 10}, {Start: 2, End: 5}}, true},
		{"Single", []Edit{{Start: 0, End: 3}}, false},
		{"Empty", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlapping(tc.edits); got != tc.want {
				t.Errorf("Overlapping = %v, want %v", got, tc.want)
			}
		})
	}
}
