package grammar

import (
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRegexp tests decoding of nested regexp documents
func TestParseRegexp(t *testing.T) {
	doc := `{"tag": "Then", "contents": [
		{"tag": "Literal", "contents": [102, 110]},
		{"tag": "OneOrMore", "contents": {"tag": "RESet", "contents": [97, 98]}}
	]}`

	re, err := ParseRegexp([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, KindThen, re.Kind)
	require.Len(t, re.Subs, 2)
	assert.Equal(t, KindLiteral, re.Subs[0].Kind)
	assert.Equal(t, []byte("fn"), re.Subs[0].Bytes)
	assert.Equal(t, KindPlus, re.Subs[1].Kind)
	require.Len(t, re.Subs[1].Subs, 1)
	assert.Equal(t, KindSet, re.Subs[1].Subs[0].Kind)
	assert.Equal(t, []byte("ab"), re.Subs[1].Subs[0].Bytes)
}

// TestParseRegexp_SingleByteContents tests that a scalar content is treated as a one-element list
func TestParseRegexp_SingleByteContents(t *testing.T) {
	re, err := ParseRegexp([]byte(`{"tag": "Literal", "contents": 120}`))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), re.Bytes)

	re, err = ParseRegexp([]byte(`{"tag": "Or", "contents": [120, 121]}`))
	require.NoError(t, err)
	require.Len(t, re.Subs, 2)
	assert.Equal(t, KindLiteral, re.Subs[1].Kind)
	assert.Equal(t, []byte("y"), re.Subs[1].Bytes)
}

// TestParseRegexp_Invalid tests rejection of malformed documents
func TestParseRegexp_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown tag":   `{"tag": "Lookahead", "contents": []}`,
		"empty set":     `{"tag": "RESet", "contents": []}`,
		"empty star":    `{"tag": "Star", "contents": []}`,
		"byte overflow": `{"tag": "Literal", "contents": [300]}`,
		"not json":      `{"tag": `,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			re, err := ParseRegexp([]byte(doc))
			assert.Error(t, err)
			assert.Nil(t, re)
		})
	}
}

// TestSolve tests that generated strings match the regexp
func TestSolve(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	re := Then(Literal("0x"), Plus(Set("0123456789abcdef")), Optional(Literal("u")))
	pattern := regexp.MustCompile(`^0x[0-9a-f]+u?$`)

	for i := 0; i < 500; i++ {
		out := re.Solve(r, 16, nil)
		assert.Regexp(t, pattern, string(out))
	}
}

// TestSolve_RepeatCap tests that Star never exceeds the repeat cap
func TestSolve_RepeatCap(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	re := Star(Literal("a"))

	for i := 0; i < 500; i++ {
		assert.LessOrEqual(t, len(re.Solve(r, 3, nil)), 3)
	}
	assert.Empty(t, re.Solve(r, 0, nil))
	assert.Equal(t, []byte("a"), Plus(Literal("a")).Solve(r, 1, nil))
}

// TestDefaultGrammar tests random generation with the built-in rules
func TestDefaultGrammar(t *testing.T) {
	g, err := Load(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []uint64{StateInitial, StateComment}, g.States())
	assert.Equal(t, len(DefaultRules()), g.NumRules())

	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		root := g.RandomRoot(r)
		assert.GreaterOrEqual(t, root.Len(), 5)
		assert.LessOrEqual(t, root.Len(), 10)
		for _, tok := range root.Children {
			assert.NotEmpty(t, tok.Text)
			assert.Contains(t, []uint64{StateInitial, StateComment}, tok.State)
		}
	}
}

// TestRandomRoot_Deterministic tests that equal seeds give equal trees
func TestRandomRoot_Deterministic(t *testing.T) {
	g, err := Load(DefaultConfig())
	require.NoError(t, err)

	a := g.RandomRoot(rand.New(rand.NewSource(42)))
	b := g.RandomRoot(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

// TestLoadDir tests loading rule files from a directory
func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"2_0.regexp":  `{"tag": "Literal", "contents": [98]}`,
		"1_0.regexp":  `{"tag": "Literal", "contents": [97]}`,
		"3_7.regexp":  `{"tag": "RESet", "contents": [99]}`,
		"notes.txt":   `ignored`,
		"10_7.regexp": `{"tag": "Literal", "contents": [100]}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	cfg := DefaultConfig()
	cfg.Directory = dir
	g, err := Load(cfg)
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 7}, g.States())
	assert.Equal(t, 4, g.NumRules())

	state0 := g.Rules(0)
	require.Len(t, state0, 2)
	assert.Equal(t, uint64(1), state0[0].ID)
	assert.Equal(t, uint64(2), state0[1].ID)

	state7 := g.Rules(7)
	require.Len(t, state7, 2)
	assert.Equal(t, uint64(3), state7[0].ID)
	assert.Equal(t, uint64(10), state7[1].ID)

	tok := g.RandomToken(rand.New(rand.NewSource(4)))
	assert.Len(t, tok.Text, 1)
}

// TestLoadDir_Errors tests directory loading failures
func TestLoadDir_Errors(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Directory = t.TempDir()
	_, err := LoadDir(cfg)
	assert.ErrorIs(t, err, ErrNoRules)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x_0.regexp"), []byte(`{"tag": "Literal", "contents": [97]}`), 0644))
	cfg.Directory = dir
	_, err = LoadDir(cfg)
	assert.Error(t, err)

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_0.regexp"), []byte(`{"tag": "Nope"}`), 0644))
	cfg.Directory = dir
	_, err = LoadDir(cfg)
	assert.Error(t, err)
}

// TestParseRuleFileName tests rule/state extraction from file names
func TestParseRuleFileName(t *testing.T) {
	rule, state, err := ParseRuleFileName("/tmp/grammar/12_3.regexp")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), rule)
	assert.Equal(t, uint64(3), state)

	_, _, err = ParseRuleFileName("12.regexp")
	assert.Error(t, err)
}

// TestConfigValidate tests grammar configuration validation
func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MaxTokens = 2
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MinTokens = -1
	assert.Error(t, cfg.Validate())

	_, err := New(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNoRules)
}

// TestPretty tests that rendering concatenates children in order
func TestPretty(t *testing.T) {
	root := &Root{Children: []Token{
		{Rule: 1, Text: []byte("int")},
		{Rule: 7, Text: []byte(" ")},
		{Rule: 2, Text: []byte("main")},
	}}
	assert.Equal(t, "int main", Pretty(root))
	assert.Equal(t, 8, root.TextLen())
	assert.Equal(t, "> int main", string(root.AppendText([]byte("> "))))
	assert.Equal(t, "", Pretty(&Root{}))
}
