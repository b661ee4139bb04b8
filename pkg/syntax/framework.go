package syntax

import (
	"regexp"
	"strings"
)

// Framework identifies which test framework's idioms a file uses. The
// oracle is heuristic: import statements first, then path hints, then
// framework-specific globals in the source text.
type Framework string

const (
	FrameworkJest       Framework = "jest"
	FrameworkVitest     Framework = "vitest"
	FrameworkMocha      Framework = "mocha"
	FrameworkJasmine    Framework = "jasmine"
	FrameworkCypress    Framework = "cypress"
	FrameworkPlaywright Framework = "playwright"
	FrameworkAva        Framework = "ava"
	FrameworkUnknown    Framework = ""
)

var frameworkImports = []struct {
	module    string
	framework Framework
}{
	{"vitest", FrameworkVitest},
	{"@playwright/test", FrameworkPlaywright},
	{"playwright", FrameworkPlaywright},
	{"cypress", FrameworkCypress},
	{"ava", FrameworkAva},
	{"@jest/globals", FrameworkJest},
	{"mocha", FrameworkMocha},
	{"jasmine", FrameworkJasmine},
}

var (
	importRe  = regexp.MustCompile(`(?m)^\s*import\b[^'"]*['"]([^'"]+)['"]`)
	requireRe = regexp.MustCompile(`\brequire\(\s*['"]([^'"]+)['"]\s*\)`)
	cyRe      = regexp.MustCompile(`\bcy\.[a-zA-Z]`)
	jestRe    = regexp.MustCompile(`\bjest\.[a-zA-Z]`)
	viRe      = regexp.MustCompile(`\bvi\.[a-zA-Z]`)
)

// DetectFramework inspects a file's path and source text and returns the
// framework in play, or FrameworkUnknown when nothing identifies one.
func DetectFramework(path string, source []byte) Framework {
	text := string(source)

	modules := map[string]bool{}
	for _, m := range importRe.FindAllStringSubmatch(text, -1) {
		modules[m[1]] = true
	}
	for _, m := range requireRe.FindAllStringSubmatch(text, -1) {
		modules[m[1]] = true
	}
	for _, fi := range frameworkImports {
		if modules[fi.module] {
			return fi.framework
		}
	}

	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "cypress/"):
		return FrameworkCypress
	case strings.Contains(lower, ".cy."):
		return FrameworkCypress
	case strings.Contains(lower, "e2e/") && cyRe.MatchString(text):
		return FrameworkCypress
	}

	switch {
	case cyRe.MatchString(text):
		return FrameworkCypress
	case viRe.MatchString(text):
		return FrameworkVitest
	case jestRe.MatchString(text):
		return FrameworkJest
	}
	return FrameworkUnknown
}

// SupportsWaitFor reports whether the framework can use the Testing Library
// waitFor polling helper. Cypress and Playwright ship their own retrying
// commands and never import waitFor, so fixes targeting it are withheld.
func (f Framework) SupportsWaitFor() bool {
	switch f {
	case FrameworkCypress, FrameworkPlaywright:
		return false
	}
	return true
}
