package decompiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdecomp/gdecomp/pkg/symtab"
)

type fakeSource struct {
	syms []symtab.Symbol
}

func (s fakeSource) Functions() ([]symtab.Symbol, error) {
	return s.syms, nil
}

func TestResolve(t *testing.T) {
	src := fakeSource{syms: []symtab.Symbol{
		{Name: "main", Address: 0x1000},
		{Name: "main_init", Address: 0x1100},
		{Name: "foo", Address: 0x1200},
		{Name: "foobar", Address: 0x1300},
	}}

	tests := []struct {
		name       string
		query      string
		want       string
		err        error
		candidates []string
	}{
		{
			name:  "exact match wins over substring matches",
			query: "main",
			want:  "main",
		},
		{
			name:  "single substring match resolves",
			query: "bar",
			want:  "foobar",
		},
		{
			name:  "exact match of a prefix symbol",
			query: "foo",
			want:  "foo",
		},
		{
			name:       "substring match over several symbols is ambiguous",
			query:      "fo",
			candidates: []string{"foo", "foobar"},
		},
		{
			name:  "no match",
			query: "bazinga",
			err:   ErrNoSuchFunction,
		},
	}

	r := New(&Config{Target: "/bin/fake"}, src)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, err := r.Resolve(tt.query)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			if tt.candidates != nil {
				var amb *AmbiguousNameError
				require.ErrorAs(t, err, &amb)
				assert.Equal(t, tt.query, amb.Query)
				assert.Equal(t, tt.candidates, amb.Candidates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sym.Name)
		})
	}
}

func TestResolveDuplicateSymbols(t *testing.T) {
	// same name at two addresses still reads as one candidate
	src := fakeSource{syms: []symtab.Symbol{
		{Name: "init", Address: 0x1000},
		{Name: "init", Address: 0x2000},
	}}

	r := New(&Config{Target: "/bin/fake"}, src)

	var amb *AmbiguousNameError
	_, err := r.Resolve("init")
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []string{"init"}, amb.Candidates)
}

// writeFakeTool drops a ghidrecomp stand-in that writes the decompilation of
// the filtered function under <out>/<target>/<function>.c
func writeFakeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ghidrecomp")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

const okTool = `#!/bin/sh
# args: --filter ^name$ -o outdir target
fn="${2#^}"
fn="${fn%\$}"
mkdir -p "$4/$(basename "$5")"
printf 'int %s(void)\n{\n  return 42;\n}\n' "$fn" > "$4/$(basename "$5")/$fn.c"
`

func TestDecompile(t *testing.T) {
	tool := writeFakeTool(t, okTool)
	src := fakeSource{syms: []symtab.Symbol{{Name: "foo", Address: 0x1000}}}

	r := New(&Config{
		Target: "/bin/fake",
		Tool:   tool,
		Output: filepath.Join(t.TempDir(), "out"),
		Keep:   true,
	}, src)

	want := "int foo(void)\n{\n  return 42;\n}\n"

	got, err := r.DecompileByName("foo")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// repeat invocation on an unchanged target is idempotent
	again, err := r.DecompileByName("foo")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestDecompileScratchDirRemoved(t *testing.T) {
	tool := writeFakeTool(t, okTool)
	src := fakeSource{syms: []symtab.Symbol{{Name: "foo", Address: 0x1000}}}

	outDir := filepath.Join(t.TempDir(), "out")
	r := New(&Config{Target: "/bin/fake", Tool: tool, Output: outDir}, src)

	_, err := r.DecompileByName("foo")
	require.NoError(t, err)

	_, err = os.Stat(outDir)
	assert.True(t, os.IsNotExist(err), "output dir should be removed without Keep")
}

func TestDecompileToolFailure(t *testing.T) {
	tool := writeFakeTool(t, "#!/bin/sh\necho 'ERROR: analysis timed out' >&2\nexit 2\n")
	src := fakeSource{syms: []symtab.Symbol{{Name: "foo", Address: 0x1000}}}

	r := New(&Config{Target: "/bin/fake", Tool: tool}, src)

	out, err := r.DecompileByName("foo")
	assert.Empty(t, out, "no partial output on tool failure")

	var fe *FailedError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Output, "ERROR: analysis timed out")
}

func TestDecompileEmptyOutput(t *testing.T) {
	tool := writeFakeTool(t, `#!/bin/sh
mkdir -p "$4/$(basename "$5")"
: > "$4/$(basename "$5")/foo.c"
`)
	src := fakeSource{syms: []symtab.Symbol{{Name: "foo", Address: 0x1000}}}

	r := New(&Config{Target: "/bin/fake", Tool: tool}, src)

	var fe *FailedError
	_, err := r.DecompileByName("foo")
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Err.Error(), "empty decompiled output")
}

func TestDecompileToolNotFound(t *testing.T) {
	src := fakeSource{syms: []symtab.Symbol{{Name: "foo", Address: 0x1000}}}

	r := New(&Config{Target: "/bin/fake", Tool: "no-such-decompiler-on-path"}, src)

	var fe *FailedError
	_, err := r.DecompileByName("foo")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "no-such-decompiler-on-path", fe.Tool)
}

func TestErrorText(t *testing.T) {
	amb := &AmbiguousNameError{Query: "fo", Candidates: []string{"foo", "foobar"}}
	assert.Equal(t, `ambiguous function name "fo" matches: foo, foobar`, amb.Error())

	fe := &FailedError{Tool: "ghidrecomp", Output: "boom\n", Err: errors.New("exit status 2")}
	assert.Contains(t, fe.Error(), "boom")
	assert.Contains(t, fe.Error(), "exit status 2")
}
