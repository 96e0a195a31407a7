package sheets

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// stripNoise removes block comments and @namespace declarations while
// leaving every other byte of the source intact. The CSS lexer hands tokens
// back verbatim, so reassembly is lossless; comments become a single space
// to keep adjoining tokens separated.
func stripNoise(source string) string {
	lexer := css.NewLexer(parse.NewInput(strings.NewReader(source)))
	var out strings.Builder
	out.Grow(len(source))
	skipping := false // inside an @namespace declaration
	for {
		tt, data := lexer.Next()
		switch {
		case tt == css.ErrorToken:
			return out.String()
		case skipping:
			if tt == css.SemicolonToken {
				skipping = false
			}
		case tt == css.CommentToken:
			out.WriteByte(' ')
		case tt == css.AtKeywordToken && string(data) == "@namespace":
			skipping = true
		default:
			out.Write(data)
		}
	}
}
