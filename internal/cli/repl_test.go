package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/exevalator"
	"github.com/zephyrtronium/exevalator/internal/config"
)

func TestReplCommand(t *testing.T) {
	script := strings.Join([]string{
		"x0",
		".let a = 2 * 3",
		"a + 1",
		"",
		".let a = a * a",
		".vars",
		".ast -a",
		".bogus",
		".quit",
		"1000 + 1000",
	}, "\n")
	out, err := execute(t, script, "repl")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Error: Variable not found: 'x0'", lines[0])
	assert.Equal(t, "a = 6", lines[1])
	assert.Equal(t, "7", lines[2])
	assert.Equal(t, "a = 36", lines[3])
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "36")
	assert.Contains(t, out, `<Operator word="-" optype="UnaryPrefix" precedence="200">`)
	assert.Contains(t, out, "Unknown command .bogus")
	assert.NotContains(t, out, "2000")
}

func TestReplEOF(t *testing.T) {
	out, err := execute(t, "1 + 1\n", "repl")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func newSession(t *testing.T, preset string) (*session, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.Preset = preset
	e, err := newEngine(cfg, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	return &session{e: e, cfg: cfg, msgs: exevalator.English, out: &out}, &out
}

func TestSessionCommands(t *testing.T) {
	s, out := newSession(t, "math")
	assert.False(t, s.handle(".vars"))
	assert.Equal(t, "(no variables)\n", out.String())

	out.Reset()
	s.handle(".funcs")
	assert.Equal(t, "abs acos asin atan cos e exp ln log10 log2 pi pow sin sqrt tan\n", out.String())

	out.Reset()
	s.handle(".let = 1")
	assert.Equal(t, "Usage: .let name = expression\n", out.String())

	out.Reset()
	s.handle(".let b 1")
	assert.Equal(t, "Usage: .let name = expression\n", out.String())

	out.Reset()
	s.handle(".let c = (")
	assert.Equal(t, "Error: The number of closed parentheses ')' is deficient.\n", out.String())

	out.Reset()
	s.handle(".ast")
	assert.Equal(t, "Error: The inputted expression is empty.\n", out.String())

	out.Reset()
	s.handle(".help")
	assert.Contains(t, out.String(), ".let NAME = EXPR")

	assert.True(t, s.handle(".EXIT"))

	s, out = newSession(t, "none")
	s.handle(".funcs")
	assert.Equal(t, "(no functions)\n", out.String())
}
