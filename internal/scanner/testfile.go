package scanner

import (
	"path/filepath"
	"strings"
)

// sourceExtensions are the JavaScript/TypeScript extensions the engine
// can parse.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
	".ts":  true,
	".tsx": true,
	".mts": true,
	".cts": true,
}

// testDirNames mark every file beneath them as a test file.
var testDirNames = map[string]bool{
	"__tests__": true,
	"test":      true,
	"tests":     true,
	"e2e":       true,
}

// hasSourceExtension reports whether the path has a parseable extension.
func hasSourceExtension(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsTestFile classifies a path as a test source: a test/spec infix in the
// file name (app.test.ts, app.spec.js, app.cy.ts), or placement under a
// conventional test directory.
func IsTestFile(path string) bool {
	if !hasSourceExtension(path) {
		return false
	}
	slash := filepath.ToSlash(strings.ToLower(path))
	base := slash
	if i := strings.LastIndexByte(slash, '/'); i >= 0 {
		base = slash[i+1:]
	}

	for _, infix := range []string{".test.", ".spec.", ".cy.", "-test.", "-spec.", "_test.", "_spec."} {
		if strings.Contains(base, infix) {
			return true
		}
	}

	for _, segment := range strings.Split(slash, "/") {
		if testDirNames[segment] {
			return true
		}
	}
	return strings.Contains(slash, "cypress/")
}
