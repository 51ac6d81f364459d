package nslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_StarMatchesEverything(t *testing.T) {
	p := MustCompilePattern("*")
	for _, ns := range []string{"a", "ns", "ns:sub", "ns:sub:deep", "x.y.z", "UPPER:lower"} {
		assert.True(t, p.Test(ns), "expected %q enabled", ns)
	}
}

func TestPattern_PrefixWildcard(t *testing.T) {
	p := MustCompilePattern("ns:*")
	assert.True(t, p.Test("ns:sub"))
	assert.True(t, p.Test("ns:sub:deep"))
	assert.True(t, p.Test("ns:sub:deep:deeper"))
	assert.False(t, p.Test("other"))
	assert.False(t, p.Test("ns"))
	assert.False(t, p.Test("nsx:sub"))
}

func TestPattern_DisableWins(t *testing.T) {
	for _, src := range []string{
		"ns:*, -ns:internal",
		"-ns:internal ns:*",
		"-ns:internal,ns:*,ns:internal",
	} {
		p := MustCompilePattern(src)
		assert.False(t, p.Test("ns:internal"), src)
		assert.True(t, p.Test("ns:public"), src)
	}
}

func TestPattern_DisableWildcard(t *testing.T) {
	p := MustCompilePattern("*,-db:*")
	assert.True(t, p.Test("http"))
	assert.True(t, p.Test("db"))
	assert.False(t, p.Test("db:pool"))
	assert.False(t, p.Test("db:pool:conn"))
}

func TestPattern_DisableIsLiteral(t *testing.T) {
	p := MustCompilePattern("ns:*, -ns:internal")
	assert.False(t, p.Test("ns:internal"))
	assert.True(t, p.Test("ns:internal:x"), "un disable literal no cubre el subárbol")

	p = MustCompilePattern("ns:*, -ns:internal, -ns:internal:*")
	assert.False(t, p.Test("ns:internal"))
	assert.False(t, p.Test("ns:internal:x"))
	assert.True(t, p.Test("ns:public"))
}

func TestPattern_Segments(t *testing.T) {
	cases := []struct {
		pattern string
		ns      string
		want    bool
	}{
		{"a:*:c", "a:b:c", true},
		{"a:*:c", "a:x:c", true},
		{"a:*:c", "a:b:d", false},
		{"a:*:c", "a:b:c:d", false},
		{"a:*:c", "a:c", false},
		{"a:b", "a:b", true},
		{"a:b", "a:b:c", false},
		{"a:b", "a", false},
		{"api*", "api", true},
		{"api*", "apiv2", true},
		{"api*", "api:users:list", true},
		{"api*", "ap", false},
		{"svc:db*:q", "svc:dbx:q", true},
		{"svc:db*:q", "svc:db:q", true},
		{"svc:db*:q", "svc:dbx:q:r", false},
		{"svc:db*:q", "svc:cache:q", false},
		{"NS", "ns", false},
		{"ns", "NS", false},
		{"a.b", "a.b", true},
	}
	for _, c := range cases {
		p, err := CompilePattern(c.pattern)
		require.NoError(t, err, c.pattern)
		assert.Equal(t, c.want, p.Test(c.ns), "pattern=%q ns=%q", c.pattern, c.ns)
	}
}

func TestPattern_EmptyMatchesNothing(t *testing.T) {
	for _, src := range []string{"", "   ", ",,", " , \t\n"} {
		p, err := CompilePattern(src)
		require.NoError(t, err)
		assert.True(t, p.Empty())
		assert.False(t, p.Test("anything"))
		assert.False(t, p.Test("a:b"))
	}

	only := MustCompilePattern("-ns:internal")
	assert.False(t, only.Test("ns:public"), "disable-only pattern enables nothing")
}

func TestPattern_Separators(t *testing.T) {
	p := MustCompilePattern("a  b,c\td\n,e")
	for _, ns := range []string{"a", "b", "c", "d", "e"} {
		assert.True(t, p.Test(ns), ns)
	}
	assert.False(t, p.Test("f"))
}

func TestPattern_Malformed(t *testing.T) {
	for _, src := range []string{"-", "a::b", ":a", "a:", "a*b", "*a", "**", "ns:*, -"} {
		_, err := CompilePattern(src)
		require.Error(t, err, src)
		assert.True(t, IsMalformedPattern(err), src)
		assert.True(t, IsConfigError(err), src)
	}
}

func TestPattern_MemoIsStable(t *testing.T) {
	p := MustCompilePattern("ns:*, -ns:internal")
	for i := 0; i < 3; i++ {
		assert.True(t, p.Test("ns:a"))
		assert.False(t, p.Test("ns:internal"))
	}
	assert.Equal(t, 2, p.memo.ItemCount())
}

func TestPattern_Rules(t *testing.T) {
	p := MustCompilePattern("ns:*, -ns:internal other")
	assert.Equal(t, []Rule{
		{Glob: "ns:*"},
		{Glob: "other"},
		{Glob: "ns:internal", Disable: true},
	}, p.Rules())
	assert.Equal(t, "ns:*, -ns:internal other", p.String())
}

func TestValidNamespace(t *testing.T) {
	for _, ns := range []string{"a", "a:b", "a.b:c", "svc-1:db_2"} {
		assert.True(t, ValidNamespace(ns), ns)
	}
	for _, ns := range []string{"", " ", "a::b", ":a", "a:", "a:*", "a b", "a,b"} {
		assert.False(t, ValidNamespace(ns), ns)
	}
}
