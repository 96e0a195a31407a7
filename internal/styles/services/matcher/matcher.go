// Package matcher is the match engine: it decides which rule blocks apply
// to a page address and pushes the resulting activation state into each
// block's injection handle. Reads go through a cache -> bloom -> predicate
// pipeline; the bloom filter holds every domain-predicate anchor and lets
// evaluation skip domain comparisons for addresses that cannot match any.
package matcher

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/usercss/userstyles/internal/styles/common/log"
	"github.com/usercss/userstyles/internal/styles/common/utils"
	"github.com/usercss/userstyles/internal/styles/domain"
)

// Cache stores raw match vectors keyed by address. Vectors are index-aligned
// with the sheet and block slices of the collection the matcher was last
// indexed with, which is why Index must purge on every swap.
type Cache interface {
	Get(uri string) ([][]bool, bool)
	Put(uri string, vec [][]bool)
	Purge()
}

// Matcher evaluates stylesheet collections against page addresses.
type Matcher struct {
	mu    sync.RWMutex
	cache Cache
	bloom *bloom.BloomFilter
}

// New constructs a Matcher around the given match cache.
func New(cache Cache) *Matcher {
	return &Matcher{cache: cache}
}

// Index rebuilds the domain-anchor bloom filter for a freshly swapped sheet
// collection and purges the match cache.
func (m *Matcher) Index(sheets []*domain.Stylesheet) {
	var n uint
	for _, sheet := range sheets {
		for _, block := range sheet.Blocks {
			for _, p := range block.Predicates {
				if p.Kind() == domain.MatchDomain {
					n++
				}
			}
		}
	}
	bf := bloom.NewWithEstimates(max(n, 1), 0.01)
	for _, sheet := range sheets {
		for _, block := range sheet.Blocks {
			for _, p := range block.Predicates {
				if p.Kind() == domain.MatchDomain {
					bf.AddString(p.Value())
				}
			}
		}
	}
	m.mu.Lock()
	m.bloom = bf
	m.cache.Purge()
	m.mu.Unlock()
}

// Evaluate recomputes the activation state of every block in every sheet for
// one page address and pushes it to the injection handles:
//
//	activation = global && sheet.Enabled && block matches
//
// Handles are told their state unconditionally on every pass. Activation is
// idempotent, and diffing against remembered state would risk going stale
// across reloads.
func (m *Matcher) Evaluate(sheets []*domain.Stylesheet, addr domain.PageAddress, global bool) []domain.SheetResult {
	vec := m.matchVector(sheets, addr)
	results := make([]domain.SheetResult, 0, len(sheets))
	for i, sheet := range sheets {
		res := domain.SheetResult{FileID: sheet.FileID}
		for j := range sheet.Blocks {
			matched := vec[i][j]
			if matched {
				res.Matched++
			}
			active := global && sheet.Enabled && matched
			if active {
				res.Active++
			}
			if h := sheet.Blocks[j].Handle; h != nil {
				if active {
					h.Activate()
				} else {
					h.Deactivate()
				}
			}
		}
		results = append(results, res)
	}
	if addr.Domain != "" {
		log.Debug(map[string]any{"uri": addr.URI, "apex": utils.ApexDomain(addr.Domain)}, "Evaluated stylesheets")
	}
	return results
}

// matchVector returns the raw per-block predicate results for addr, served
// from the cache when the address was evaluated against this collection
// before.
func (m *Matcher) matchVector(sheets []*domain.Stylesheet, addr domain.PageAddress) [][]bool {
	m.mu.RLock()
	vec, ok := m.cache.Get(addr.URI)
	bf := m.bloom
	m.mu.RUnlock()
	if ok && len(vec) == len(sheets) {
		return vec
	}

	// Domain predicates can only match when at least one suffix anchor might
	// be present. False negatives are impossible, so the gate never changes
	// the result, only the work.
	domainViable := bf == nil
	if bf != nil {
		for _, s := range addr.Suffixes {
			if bf.TestString(s) {
				domainViable = true
				break
			}
		}
	}

	vec = make([][]bool, len(sheets))
	for i, sheet := range sheets {
		vec[i] = make([]bool, len(sheet.Blocks))
		for j, block := range sheet.Blocks {
			vec[i][j] = blockMatches(block, addr, domainViable)
		}
	}
	m.cache.Put(addr.URI, vec)
	return vec
}

// blockMatches is the OR over the block's predicates. An empty predicate
// list matches nothing; it is never treated as match-all.
func blockMatches(b domain.RuleBlock, addr domain.PageAddress, domainViable bool) bool {
	for _, p := range b.Predicates {
		if p.Kind() == domain.MatchDomain && !domainViable {
			continue
		}
		if p.Matches(addr) {
			return true
		}
	}
	return false
}
