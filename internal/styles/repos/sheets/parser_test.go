package sheets

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usercss/userstyles/internal/styles/common/log"
	"github.com/usercss/userstyles/internal/styles/domain"
)

func TestMain(m *testing.M) {
	log.SetLogger(log.NewNoop())
	os.Exit(m.Run())
}

func TestParseSingleSection(t *testing.T) {
	src := `@-moz-document domain("example.com") {
		body { background: #222; }
	}`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Predicates, 1)
	assert.Equal(t, domain.MatchDomain, blocks[0].Predicates[0].Kind())
	assert.Equal(t, "example.com", blocks[0].Predicates[0].Value())
	assert.Equal(t, "body { background: #222; }", blocks[0].CSS)
}

func TestParseConditionKinds(t *testing.T) {
	src := `@-moz-document url("https://example.com/"), url-prefix("https://example.com/sub"), domain("example.com"), regexp("https?://.*\\.example\\.org/.*") { a {} }`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	preds := blocks[0].Predicates
	require.Len(t, preds, 4)

	want := []struct {
		kind  domain.PredicateKind
		value string
	}{
		{domain.MatchURL, "https://example.com/"},
		{domain.MatchURLPrefix, "https://example.com/sub"},
		{domain.MatchDomain, "example.com"},
		{domain.MatchRegexp, `https?://.*\\.example\\.org/.*`},
	}
	for i, w := range want {
		assert.Equal(t, w.kind, preds[i].Kind(), "predicate %d kind", i)
		assert.Equal(t, w.value, preds[i].Value(), "predicate %d value", i)
	}
}

func TestParseRoundTripsPredicates(t *testing.T) {
	src := `@-moz-document url("https://a/"), domain("b.example.com") { a {} }
@-moz-document url-prefix("https://c/") { b {} }`
	blocks, err := Parse(src)
	require.NoError(t, err)

	var rendered []string
	for _, b := range blocks {
		for _, p := range b.Predicates {
			rendered = append(rendered, p.String())
		}
	}
	assert.Equal(t, []string{
		`url("https://a/")`,
		`domain("b.example.com")`,
		`url-prefix("https://c/")`,
	}, rendered)
}

func TestParseMultipleSectionsAndTrailingCSS(t *testing.T) {
	src := `
@-moz-document domain("one.example") { a { color: red } }
@-moz-document domain("two.example") { b { color: blue } }
p { margin: 0 }`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	last := blocks[2]
	require.Len(t, last.Predicates, 1)
	assert.Equal(t, domain.MatchURLPrefix, last.Predicates[0].Kind())
	assert.Equal(t, "", last.Predicates[0].Value())
	assert.Equal(t, "p { margin: 0 }", last.CSS)
}

func TestParseNestedBraces(t *testing.T) {
	src := `@-moz-document domain("example.com") {
	@media (max-width: 600px) { nav { display: none } }
	a { color: red }
}`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].CSS, "@media (max-width: 600px) { nav { display: none } }")
	assert.Contains(t, blocks[0].CSS, "a { color: red }")
}

func TestParseRegexpWithGroupingParens(t *testing.T) {
	src := `@-moz-document regexp("https?://(shop|www)\\.example\\.com/.*") { a {} }`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks[0].Predicates, 1)
	assert.Equal(t, `https?://(shop|www)\\.example\\.com/.*`, blocks[0].Predicates[0].Value())
}

func TestParseUnquotedAndSingleQuotedParams(t *testing.T) {
	src := `@-moz-document domain(example.com), url-prefix('https://x/') { a {} }`
	blocks, err := Parse(src)
	require.NoError(t, err)
	preds := blocks[0].Predicates
	require.Len(t, preds, 2)
	assert.Equal(t, "example.com", preds[0].Value())
	assert.Equal(t, "https://x/", preds[1].Value())
}

func TestParseRejectsLegacyFormat(t *testing.T) {
	blocks, err := Parse("body { color: red }")
	assert.Nil(t, blocks)
	assert.ErrorIs(t, err, ErrLegacyFormat)
}

func TestParseGlobalMarkerOptOut(t *testing.T) {
	src := `/* userstyles: apply-globally */
body { color: red }`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.MatchURLPrefix, blocks[0].Predicates[0].Kind())
	assert.Equal(t, "", blocks[0].Predicates[0].Value())
	assert.Equal(t, "body { color: red }", blocks[0].CSS)
}

func TestParseMarkerOnlyFileYieldsNoBlocks(t *testing.T) {
	blocks, err := Parse("/* userstyles: apply-globally */\n\n")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated body", `@-moz-document domain("x") { a {`},
		{"missing body", `@-moz-document domain("x")`},
		{"unterminated params", `@-moz-document domain("x" { a {} }`},
		{"missing keyword", `@-moz-document ("x") { a {} }`},
		{"bad regexp", `@-moz-document regexp("(") { a {} }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := Parse(tt.src)
			assert.Nil(t, blocks)
			var malformed *MalformedError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestParseSkipsUnrecognizedCondition(t *testing.T) {
	src := `@-moz-document media-document("video"), domain("example.com") { a {} }`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Predicates, 1)
	assert.Equal(t, domain.MatchDomain, blocks[0].Predicates[0].Kind())
}

func TestParseAllConditionsUnrecognized(t *testing.T) {
	src := `@-moz-document media-document("video") { a {} }`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Empty(t, blocks[0].Predicates)
	assert.False(t, blocks[0].Matches(domain.NewPageAddress("https://example.com/")))
}

func TestParseStripsCommentsAndNamespace(t *testing.T) {
	src := `/* a leading comment with a stray { brace */
@namespace url(http://www.w3.org/1999/xhtml);
@-moz-document domain("example.com") {
	/* inner note */
	a { color: red }
}`
	blocks, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.NotContains(t, blocks[0].CSS, "inner note")
	assert.Contains(t, blocks[0].CSS, "a { color: red }")
	for _, b := range blocks {
		assert.NotContains(t, b.CSS, "@namespace")
	}
}

func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString(`@-moz-document domain("example.com"), url-prefix("https://example.com/app") {
	body { background: #123456; color: #eee; }
	nav, footer { display: none; }
}
`)
	}
	src := sb.String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(src); err != nil {
			b.Fatal(err)
		}
	}
}
