package main

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sumGrammar = `
@@grammar :: sum
sum = left:num { '+' right+:num } $ ;
num = /[0-9]+/ ;
`

type result struct {
	code           int
	stdout, stderr string
}

func runCmd(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code, stdout.String(), stderr.String()}
}

// workDir changes to a temporary directory populated with files.
func workDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestVersion(t *testing.T) {
	workDir(t, nil)
	res := runCmd(t, "", "version")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "pegx dev\n", res.stdout)
}

func TestUsageErrors(t *testing.T) {
	workDir(t, nil)
	res := runCmd(t, "", "frobnicate")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "pegx: ")

	res = runCmd(t, "", "gen")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, errNoFiles.Error())
}

func TestInvalidConfig(t *testing.T) {
	workDir(t, map[string]string{"pegx.yaml": "target: cobol\n"})
	res := runCmd(t, "", "--no-color", "version")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "error[E0303]")

	workDir(t, nil)
	res = runCmd(t, "", "--no-color", "--log-level", "loud", "version")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "log_level")
}

func TestGen(t *testing.T) {
	dir := workDir(t, map[string]string{
		"sum.ebnf":        sumGrammar,
		"lib/common.ebnf": "num = /[0-9]+/ ;\n",
		"lib/main.md":     "# Grammar\n\n```ebnf\n#include :: \"common.ebnf\"\nlist = num { ',' num } ;\n```\n",
	})

	res := runCmd(t, "", "--no-color", "gen", "sum.ebnf", filepath.Join("lib", "main.md"))
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "msg=generated")

	for _, name := range []string{"sum.go", filepath.Join("lib", "main.go")} {
		content, e := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, e, name)
		_, e = parser.ParseFile(token.NewFileSet(), name, content, 0)
		require.NoError(t, e, name)
	}
	content, _ := os.ReadFile(filepath.Join(dir, "sum.go"))
	assert.Contains(t, string(content), "type SumParser struct")

	res = runCmd(t, "", "gen", "-t", "yaml", "-o", "out", "sum.ebnf")
	assert.Equal(t, 1, res.code, "output directory does not exist")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "out"), 0o755))
	res = runCmd(t, "", "gen", "-t", "yaml", "-o", "out", "sum.ebnf")
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, filepath.Join(dir, "out", "sum.yaml"))
}

func TestGenCanceled(t *testing.T) {
	dir := workDir(t, map[string]string{"sum.ebnf": sumGrammar})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--no-color", "gen", "sum.ebnf"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "context canceled")
	assert.NoFileExists(t, filepath.Join(dir, "sum.go"))
}

func TestGenStdout(t *testing.T) {
	workDir(t, map[string]string{"sum.ebnf": sumGrammar})

	res := runCmd(t, "", "gen", "--stdout", "-t", "ebnf", "sum.ebnf")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "@@grammar :: sum\n\nsum = left:num { \"+\" right+:num } $ ;\nnum = /[0-9]+/ ;\n", res.stdout)

	res = runCmd(t, "", "gen", "--stdout", "-t", "cobol", "sum.ebnf")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cobol")
}

func TestGenFromConfig(t *testing.T) {
	dir := workDir(t, map[string]string{
		"pegx.yaml": "target: yaml\ngrammars:\n  - sum.ebnf\n",
		"sum.ebnf":  sumGrammar,
	})

	res := runCmd(t, "", "gen")
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, filepath.Join(dir, "sum.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, "sum.go"))
}

func TestGenErrors(t *testing.T) {
	workDir(t, map[string]string{
		"bad.ebnf": "a = ;",
		"ok.ebnf":  sumGrammar,
	})

	res := runCmd(t, "", "--no-color", "gen", "ok.ebnf", "bad.ebnf", "missing.ebnf")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error[E0101]")
	assert.Contains(t, res.stderr, "--> bad.ebnf:1:5\n")
	assert.Contains(t, res.stderr, "  1 │ a = ;\n    │     ^\n")
	assert.Contains(t, res.stderr, "missing.ebnf")
	assert.FileExists(t, "ok.go")
}

func TestCheck(t *testing.T) {
	workDir(t, map[string]string{
		"ok.ebnf":  sumGrammar,
		"bad.ebnf": "a = 'x' ;\nb = b 'y' | 'z' ;\n",
		"dead.ebnf": "a = 'x' ;\nb = 'y' ;\n",
	})

	res := runCmd(t, "", "check", "ok.ebnf", "dead.ebnf")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "ok.ebnf: ok\ndead.ebnf: warning: unreachable rules: b\n", res.stdout)

	res = runCmd(t, "", "check", "bad.ebnf")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "bad.ebnf: warning: unreachable rules: b\nbad.ebnf: error: left-recursive rules: b\n", res.stdout)
}

func TestParse(t *testing.T) {
	workDir(t, map[string]string{
		"sum.ebnf": sumGrammar,
		"in.txt":   "4 + 5",
	})

	res := runCmd(t, "1 + 2 + 3", "parse", "sum.ebnf")
	require.Equal(t, 0, res.code, res.stderr)
	var value struct {
		Left  string   `yaml:"left"`
		Right []string `yaml:"right"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &value), res.stdout)
	assert.Equal(t, "1", value.Left)
	assert.Equal(t, []string{"2", "3"}, value.Right)

	res = runCmd(t, "", "parse", "-f", "dump", "sum.ebnf", "in.txt")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "{left:\"4\" right:[\"5\"]}\n", res.stdout)

	res = runCmd(t, "1 + ", "--no-color", "parse", "sum.ebnf")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error[E0102]")
	assert.Contains(t, res.stderr, "--> <stdin>:1:5\n")
	assert.Contains(t, res.stderr, "note: while parsing sum > num\n")
}

func TestParseLeftover(t *testing.T) {
	workDir(t, map[string]string{"num.ebnf": "num = /[0-9]+/ ;"})

	res := runCmd(t, "12 x", "parse", "num.ebnf")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "input not consumed entirely")

	res = runCmd(t, "12 x", "--no-color", "parse", "--full", "num.ebnf")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error[E0109]: expected end of input")
	assert.Contains(t, res.stderr, "--> <stdin>:1:3\n")

	res = runCmd(t, "12", "parse", "-s", "nope", "num.ebnf")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "nope")
}
