// Package sheets loads user stylesheets: CSS files carrying @-moz-document
// sections that scope each rule block to a set of page addresses. The CSS
// bodies pass through opaquely; only the conditional wrapper is parsed.
//
// Files with no sections are accepted when they carry the
// "userstyles: apply-globally" comment token; the whole file then becomes a
// single block applied to every page. Text trailing the last section is
// wrapped the same way, matching the historical handling of unscoped files.
package sheets

import (
	"strings"

	"github.com/usercss/userstyles/internal/styles/common/log"
	"github.com/usercss/userstyles/internal/styles/domain"
)

const (
	// DocumentMarker opens one scoped section.
	DocumentMarker = "@-moz-document"

	// GlobalMarker is the opt-out comment token for deliberately unscoped
	// files.
	GlobalMarker = "userstyles: apply-globally"
)

// Parse converts raw stylesheet source into its ordered rule blocks. It
// returns ErrLegacyFormat for pre-scoping files and *MalformedError when a
// section cannot be parsed; either way the caller must reject the whole
// file, never a partial result.
func Parse(source string) ([]domain.RuleBlock, error) {
	if !strings.Contains(source, DocumentMarker) && !strings.Contains(source, GlobalMarker) {
		return nil, ErrLegacyFormat
	}

	c := &cursor{src: stripNoise(source)}
	var blocks []domain.RuleBlock
	for {
		c.skipSpace()
		if c.done() {
			break
		}
		if !c.accept(DocumentMarker) {
			// Whatever follows the last section applies everywhere.
			rest := strings.TrimSpace(c.rest())
			if rest != "" {
				blocks = append(blocks, domain.RuleBlock{
					Predicates: []domain.Predicate{domain.MatchAllPredicate()},
					CSS:        rest,
				})
			}
			break
		}
		block, err := parseSection(c)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// parseSection parses one comma-separated condition list and its
// brace-delimited body, the cursor sitting just past the document marker.
// Unrecognized condition keywords are skipped with a warning; the rest of
// the section still parses.
func parseSection(c *cursor) (domain.RuleBlock, error) {
	var preds []domain.Predicate
	for {
		c.skipSpace()
		start := c.pos
		keyword := c.ident()
		if keyword == "" {
			return domain.RuleBlock{}, &MalformedError{Offset: c.pos, Reason: "expected a condition keyword"}
		}
		c.skipSpace()
		param, err := c.delimited('(', ')')
		if err != nil {
			return domain.RuleBlock{}, err
		}
		param = unquote(strings.TrimSpace(param))
		switch keyword {
		case "url":
			preds = append(preds, domain.NewURLPredicate(param))
		case "url-prefix":
			preds = append(preds, domain.NewURLPrefixPredicate(param))
		case "domain":
			preds = append(preds, domain.NewDomainPredicate(param))
		case "regexp":
			p, err := domain.NewRegexpPredicate(param)
			if err != nil {
				return domain.RuleBlock{}, &MalformedError{Offset: start, Reason: err.Error()}
			}
			preds = append(preds, p)
		default:
			log.Warn(map[string]any{"keyword": keyword}, "Skipping unrecognized document condition")
		}
		c.skipSpace()
		if !c.acceptByte(',') {
			break
		}
	}
	c.skipSpace()
	body, err := c.delimited('{', '}')
	if err != nil {
		return domain.RuleBlock{}, err
	}
	return domain.RuleBlock{Predicates: preds, CSS: strings.TrimSpace(body)}, nil
}

// unquote strips one matching pair of single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
