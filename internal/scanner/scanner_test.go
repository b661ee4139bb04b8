package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates the given relative files under a temp root.
func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("// test"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

// relPaths normalizes scan results for comparison.
func relPaths(t *testing.T, root string, files []string) map[string]bool {
	t.Helper()
	out := map[string]bool{}
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out[filepath.ToSlash(rel)] = true
	}
	return out
}

func TestIsTestFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"src/app.test.ts", true},
		{"src/app.spec.js", true},
		{"src/Button.test.tsx", true},
		{"cypress/e2e/login.cy.ts", true},
		{"src/__tests__/helpers.ts", true},
		{"test/setup.js", true},
		{"e2e/checkout.ts", true},
		{"src/util-test.js", true},
		{"src/app.ts", false},
		{"src/app.test.css", false},
		{"src/testing.ts", false},
		{"README.md", false},
	}
	for _, tc := range cases {
		if got := IsTestFile(tc.path); got != tc.want {
			t.Errorf("IsTestFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestScanFindsTestFiles(t *testing.T) {
	root := writeTree(t,
		"src/app.test.ts",
		"src/app.ts",
		"src/components/__tests__/Button.tsx",
		"docs/notes.md",
	)

	files, err := New(DefaultOptions()).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	got := relPaths(t, root, files)

	if !got["src/app.test.ts"] || !got["src/components/__tests__/Button.tsx"] {
		t.Errorf("test files missing from %v", got)
	}
	if got["src/app.ts"] || got["docs/notes.md"] {
		t.Errorf("non-test files included: %v", got)
	}
}

func TestScanSkipsExcludedDirs(t *testing.T) {
	root := writeTree(t,
		"node_modules/lib/lib.test.js",
		"dist/bundle.test.js",
		"src/real.test.js",
	)

	files, err := New(DefaultOptions()).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	got := relPaths(t, root, files)

	if len(got) != 1 || !got["src/real.test.js"] {
		t.Errorf("got %v, want only src/real.test.js", got)
	}
}

func TestScanHonorsIgnoreFile(t *testing.T) {
	root := writeTree(t,
		"src/keep.test.ts",
		"src/skip.test.ts",
		"legacy/old.test.ts",
	)
	ignore := "# legacy suites\nskip.test.ts\nlegacy/\n"
	if err := os.WriteFile(filepath.Join(root, ".flakelintignore"), []byte(ignore), 0o644); err != nil {
		t.Fatalf("write ignore: %v", err)
	}

	files, err := New(DefaultOptions()).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	got := relPaths(t, root, files)

	if len(got) != 1 || !got["src/keep.test.ts"] {
		t.Errorf("got %v, want only src/keep.test.ts", got)
	}
}

func TestScanSingleFile(t *testing.T) {
	root := writeTree(t, "app.test.ts", "app.ts")

	files, err := New(DefaultOptions()).Scan(filepath.Join(root, "app.test.ts"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %v", files)
	}

	files, err = New(DefaultOptions()).Scan(filepath.Join(root, "app.ts"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("non-test file should be filtered even when named directly: %v", files)
	}
}

func TestScanAllSources(t *testing.T) {
	root := writeTree(t, "src/app.ts", "src/app.test.ts")

	files, err := New(Options{AllSources: true}).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("AllSources should include both files, got %v", files)
	}
}

func TestScanDeterministicOrder(t *testing.T) {
	root := writeTree(t,
		"b/second.test.ts",
		"a/first.test.ts",
		"c/third.test.ts",
	)

	first, err := New(DefaultOptions()).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	second, err := New(DefaultOptions()).Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("lengths = %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("order differs at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := New(DefaultOptions()).Scan(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("missing root should fail")
	}
}
