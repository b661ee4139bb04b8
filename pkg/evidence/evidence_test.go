package evidence

import (
	"strings"
	"testing"

	"github.com/tigredonorte/flakelint/pkg/syntax"
)

// locate parses source and returns the first call whose text contains
// marker, together with the file source.
func locate(t *testing.T, source, marker string) (*syntax.Node, []byte) {
	t.Helper()
	f, err := syntax.NewParser().Parse("evidence.test.tsx", []byte(source))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	t.Cleanup(f.Close)

	// Deepest match wins, so the marker picks the assertion call itself
	// rather than an enclosing it(...) call.
	var found *syntax.Node
	var walk func(n *syntax.Node)
	walk = func(n *syntax.Node) {
		if n == nil {
			return
		}
		if syntax.KindOf(n) == syntax.KindCallExpression &&
			strings.Contains(syntax.Text(n, f.Source), marker) {
			found = n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(f.Root())
	if found == nil {
		t.Fatalf("no call containing %q", marker)
	}
	return found, f.Source
}

func TestEnclosingStatementList(t *testing.T) {
	src := `
it('x', () => {
  render(<App />);
  userEvent.click(button);
  expect(screen.queryByText('Modal')).toBeNull();
});
`
	call, _ := locate(t, src, "toBeNull")
	w, ok := EnclosingStatementList(call)
	if !ok {
		t.Fatal("window not found")
	}
	if len(w.Statements) != 3 {
		t.Errorf("statements = %d, want 3", len(w.Statements))
	}
	if w.Index != 2 {
		t.Errorf("cursor = %d, want 2", w.Index)
	}
}

func TestEnclosingStatementListTopLevel(t *testing.T) {
	call, _ := locate(t, "foo();\nbar();", "bar")
	w, ok := EnclosingStatementList(call)
	if !ok {
		t.Fatal("program-level statements should form a window")
	}
	if w.Index != 1 {
		t.Errorf("cursor = %d, want 1", w.Index)
	}
}

func TestCollectTriggerAndPresence(t *testing.T) {
	src := `
it('x', () => {
  expect(screen.getByText('Modal')).toBeInTheDocument();
  userEvent.click(closeButton);
  expect(screen.queryByText('Modal')).toBeNull();
});
`
	call, source := locate(t, src, "toBeNull")
	w, ok := EnclosingStatementList(call)
	if !ok {
		t.Fatal("window not found")
	}

	facts := Collect(w, source, "Modal")
	if !facts.Trigger {
		t.Error("userEvent.click before the cursor is a trigger")
	}
	if !facts.PriorPresence {
		t.Error("getByText('Modal') before the cursor is presence evidence")
	}
	if !facts.Sufficient(true) {
		t.Error("trigger + presence is sufficient for an identified target")
	}
}

func TestCollectStopsAtCursor(t *testing.T) {
	// The interaction comes after the assertion: not evidence.
	src := `
it('x', () => {
  expect(screen.queryByText('Modal')).toBeNull();
  userEvent.click(openButton);
});
`
	call, source := locate(t, src, "toBeNull")
	w, _ := EnclosingStatementList(call)
	facts := Collect(w, source, "Modal")
	if facts.Trigger || facts.PriorPresence {
		t.Error("statements after the cursor must not contribute facts")
	}
}

func TestCollectFirstStatementHasNoEvidence(t *testing.T) {
	src := `
it('x', () => {
  expect(screen.queryByText('Modal')).toBeNull();
});
`
	call, source := locate(t, src, "toBeNull")
	w, _ := EnclosingStatementList(call)
	if w.Index != 0 {
		t.Fatalf("cursor = %d, want 0", w.Index)
	}
	facts := Collect(w, source, "Modal")
	if facts.Trigger || facts.PriorPresence {
		t.Error("first statement can have no prior facts")
	}
}

func TestCollectIgnoresDifferentTarget(t *testing.T) {
	src := `
it('x', () => {
  expect(screen.getByText('Other')).toBeInTheDocument();
  userEvent.click(button);
  expect(screen.queryByText('Modal')).toBeNull();
});
`
	call, source := locate(t, src, "toBeNull")
	w, _ := EnclosingStatementList(call)
	facts := Collect(w, source, "Modal")
	if facts.PriorPresence {
		t.Error("presence of a different target is not evidence")
	}
	if facts.Sufficient(true) {
		t.Error("identified target without presence evidence is insufficient")
	}
}

func TestCollectNegatedPresenceDoesNotCount(t *testing.T) {
	src := `
it('x', () => {
  expect(screen.queryByText('Modal')).not.toBeInTheDocument();
  userEvent.click(button);
  expect(screen.queryByText('Modal')).toBeNull();
});
`
	call, source := locate(t, src, "toBeNull")
	w, _ := EnclosingStatementList(call)
	facts := Collect(w, source, "Modal")
	if facts.PriorPresence {
		t.Error("a prior absence assertion is not presence evidence")
	}
}

func TestSufficientFallbackWithoutTarget(t *testing.T) {
	f := Facts{Trigger: true}
	if !f.Sufficient(false) {
		t.Error("trigger alone suffices when the target is unidentifiable")
	}
	if f.Sufficient(true) {
		t.Error("identified targets require presence evidence too")
	}
	if (Facts{}).Sufficient(false) {
		t.Error("no facts is never sufficient")
	}
}

func TestQueryTarget(t *testing.T) {
	t.Run("Literal", func(t *testing.T) {
		call, source := locate(t, "expect(screen.queryByText('Save')).toBeNull();", "toBeNull")
		target, ok := QueryTarget(call, source)
		if !ok || target != "Save" {
			t.Errorf("QueryTarget = %q, %v", target, ok)
		}
	})
	t.Run("TestIdVariant", func(t *testing.T) {
		call, source := locate(t, "expect(queryByTestId('modal-root')).toBeNull();", "toBeNull")
		target, ok := QueryTarget(call, source)
		if !ok || target != "modal-root" {
			t.Errorf("QueryTarget = %q, %v", target, ok)
		}
	})
	t.Run("VariableArgument", func(t *testing.T) {
		call, source := locate(t, "expect(screen.queryByText(label)).toBeNull();", "toBeNull")
		if _, ok := QueryTarget(call, source); ok {
			t.Error("variable argument must not identify a target")
		}
	})
	t.Run("NoQueryCall", func(t *testing.T) {
		call, source := locate(t, "expect(value).toBeNull();", "toBeNull")
		if _, ok := QueryTarget(call, source); ok {
			t.Error("no query call, no target")
		}
	})
}

func TestIsInteraction(t *testing.T) {
	cases := []struct {
		src    string
		marker string
		want   bool
	}{
		{"userEvent.click(b);", "userEvent.click", true},
		{"fireEvent.change(i, {});", "fireEvent.change", true},
		{"page.click('#save');", "page.click", true},
		{"wrapper.trigger('submit');", "wrapper.trigger", true},
		{"screen.getByText('x');", "getByText", false},
		{"console.log('x');", "console.log", false},
	}
	for _, tc := range cases {
		call, source := locate(t, tc.src, tc.marker)
		if got := IsInteraction(call, source); got != tc.want {
			t.Errorf("IsInteraction(%s) = %v, want %v", tc.src, got, tc.want)
		}
	}
}
