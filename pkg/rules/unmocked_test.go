package rules

import (
	"testing"

	"github.com/tigredonorte/flakelint/pkg/analysis"
)

func TestUnmockedNetwork(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int
	}{
		{
			name: "FetchInTest",
			src:  `it('x', async () => { const r = await fetch('/api/users'); });`,
			want: 1,
		},
		{
			name: "AxiosInTest",
			src:  `it('x', async () => { await axios.get('/api/users'); });`,
			want: 1,
		},
		{
			name: "HttpRequestInHook",
			src:  `beforeEach(() => { http.get('http://localhost/seed'); });`,
			want: 1,
		},
		{
			name: "XMLHttpRequestInTest",
			src:  `it('x', () => { const xhr = new XMLHttpRequest(); });`,
			want: 1,
		},
		{
			name: "JestMockSuppresses",
			src: `jest.mock('node-fetch');
it('x', async () => { await fetch('/api/users'); });`,
			want: 0,
		},
		{
			name: "MswSuppresses",
			src: `import { setupServer } from 'msw/node';
it('x', async () => { await fetch('/api/users'); });`,
			want: 0,
		},
		{
			name: "ModuleLevelFetchIgnored",
			src:  `const data = fetch('/fixture.json');`,
			want: 0,
		},
		{
			name: "HttpWithoutRequestingProperty",
			src:  `it('x', () => { http.createServer(); });`,
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			findings := byCategory(analyzeSource(t, "net.test.ts", tc.src))[analysis.CategoryUnmockedNetwork]
			if len(findings) != tc.want {
				t.Errorf("findings = %d, want %d", len(findings), tc.want)
			}
		})
	}
}

func TestUnmockedFS(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int
	}{
		{
			name: "ReadFileSyncInTest",
			src:  `it('x', () => { const data = fs.readFileSync('/tmp/f'); });`,
			want: 1,
		},
		{
			name: "FsPromisesInTest",
			src:  `it('x', async () => { await fs.promises.writeFile('/tmp/f', 'x'); });`,
			want: 1,
		},
		{
			name: "UnlinkInTeardown",
			src:  `afterEach(() => { fs.unlinkSync('/tmp/f'); });`,
			want: 1,
		},
		{
			name: "MockFsSuppresses",
			src: `const mockFs = require('mock-fs');
it('x', () => { fs.writeFileSync('/tmp/f', 'x'); });`,
			want: 0,
		},
		{
			name: "NonIOMethodIgnored",
			src:  `it('x', () => { fs.existsSync('/tmp/f'); });`,
			want: 0,
		},
		{
			name: "ModuleLevelReadIgnored",
			src:  `const fixture = fs.readFileSync('./fixture.json');`,
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			findings := byCategory(analyzeSource(t, "fs.test.ts", tc.src))[analysis.CategoryUnmockedFS]
			if len(findings) != tc.want {
				t.Errorf("findings = %d, want %d", len(findings), tc.want)
			}
		})
	}
}
