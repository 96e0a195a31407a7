// Package registry owns the loaded stylesheet collection. It rebuilds the
// collection from the discovery source, persists enable toggles, tracks
// per-view navigation state, and triggers re-evaluation through the match
// engine. All mutation and evaluation is serialized through one mutex so
// hosts may call in from any goroutine without observing a torn reload.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/usercss/userstyles/internal/styles/common/log"
	"github.com/usercss/userstyles/internal/styles/domain"
	"github.com/usercss/userstyles/internal/styles/repos/sheets"
)

// FileError records one file that could not be loaded during a reload.
type FileError struct {
	FileID string
	Err    error
}

// ReloadReport is the partial-success result of a reload: the files that
// loaded and the files that were skipped, with reasons. One bad file never
// aborts the rest, and nothing already loaded is rolled back because a
// sibling failed.
type ReloadReport struct {
	Loaded []string
	Failed []FileError
}

// Err aggregates the per-file failures; nil when everything loaded.
func (r *ReloadReport) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, fmt.Errorf("%s: %w", f.FileID, f.Err))
	}
	return err
}

// MenuRow is one line of a view's stylesheet menu snapshot.
type MenuRow struct {
	FileID  string
	Enabled bool
	Blocks  int
	Matched int
	Active  int
}

// SheetInfo is the read-only listing entry for UI surfaces.
type SheetInfo struct {
	FileID  string
	Enabled bool
	Blocks  int
}

// view holds per-page-view state. The menu snapshot is rebuilt on every
// evaluation and erased when the view closes.
type view struct {
	addr    domain.PageAddress
	enabled bool // host's per-view global-enable signal
	menu    []MenuRow
}

// Options collects the registry's collaborators.
type Options struct {
	Source   Source
	State    StateStore
	Injector domain.Injector
	Matcher  Matcher
}

// Registry is the owning collection of loaded stylesheets, at most one per
// file id, in discovery order.
type Registry struct {
	mu       sync.Mutex
	source   Source
	state    StateStore
	injector domain.Injector
	matcher  Matcher
	sheets   []*domain.Stylesheet
	views    map[string]*view
}

// New constructs an empty Registry; call Reload to populate it.
func New(opts Options) *Registry {
	return &Registry{
		source:   opts.Source,
		state:    opts.State,
		injector: opts.Injector,
		matcher:  opts.Matcher,
		views:    make(map[string]*view),
	}
}

// Reload rebuilds the collection from the discovery source. Old handles are
// released before their sheets are discarded, the new collection is built
// off to the side and swapped in whole, and every open view is re-evaluated
// against it before Reload returns.
func (r *Registry) Reload() *ReloadReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := &ReloadReport{}

	names, err := r.source.List()
	if err != nil {
		log.Error(map[string]any{"error": err}, "Stylesheet discovery failed")
		report.Failed = append(report.Failed, FileError{FileID: ".", Err: err})
		return report
	}

	r.releaseLocked()

	var next []*domain.Stylesheet
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		sheet, err := r.loadLocked(name)
		if err != nil {
			if errors.Is(err, sheets.ErrLegacyFormat) {
				log.Warn(map[string]any{"file": name}, "Skipping legacy-format stylesheet")
			} else {
				log.Error(map[string]any{"file": name, "error": err}, "Skipping unloadable stylesheet")
			}
			report.Failed = append(report.Failed, FileError{FileID: name, Err: err})
			continue
		}
		next = append(next, sheet)
		report.Loaded = append(report.Loaded, name)
	}

	r.sheets = next
	r.matcher.Index(r.sheets)
	for _, v := range r.views {
		r.evaluateLocked(v)
	}
	log.Info(map[string]any{"loaded": len(report.Loaded), "failed": len(report.Failed)}, "Stylesheets reloaded")
	return report
}

// loadLocked reads, parses, and registers one stylesheet.
func (r *Registry) loadLocked(name string) (*domain.Stylesheet, error) {
	src, err := r.source.Read(name)
	if err != nil {
		return nil, err
	}
	blocks, err := sheets.Parse(src)
	if err != nil {
		return nil, err
	}
	enabled, err := r.state.Enabled(name)
	if err != nil {
		log.Warn(map[string]any{"file": name, "error": err}, "Enabled flag unavailable, defaulting to enabled")
		enabled = true
	}
	for i := range blocks {
		h, err := r.injector.Register(blocks[i].CSS)
		if err != nil {
			releaseBlocks(blocks[:i])
			return nil, fmt.Errorf("registering css: %w", err)
		}
		blocks[i].Handle = h
	}
	return &domain.Stylesheet{FileID: name, Blocks: blocks, Enabled: enabled}, nil
}

// releaseLocked deactivates and releases every handle of the current
// collection. Handles must never outlive their owning rule block.
func (r *Registry) releaseLocked() {
	for _, sheet := range r.sheets {
		releaseBlocks(sheet.Blocks)
	}
	r.sheets = nil
}

func releaseBlocks(blocks []domain.RuleBlock) {
	for i := range blocks {
		if h := blocks[i].Handle; h != nil {
			h.Deactivate()
			h.SetSource("")
			h.Release()
			blocks[i].Handle = nil
		}
	}
}

// Sheets lists the loaded stylesheets in discovery order.
func (r *Registry) Sheets() []SheetInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]SheetInfo, 0, len(r.sheets))
	for _, sheet := range r.sheets {
		infos = append(infos, SheetInfo{FileID: sheet.FileID, Enabled: sheet.Enabled, Blocks: len(sheet.Blocks)})
	}
	return infos
}

// Toggle flips a stylesheet's enabled flag, persists it, and re-evaluates
// every open view. The flip is undone when persistence fails, so memory and
// disk never disagree.
func (r *Registry) Toggle(fileID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sheet := r.findLocked(fileID)
	if sheet == nil {
		return false, fmt.Errorf("no stylesheet named %s", fileID)
	}
	sheet.Enabled = !sheet.Enabled
	if err := r.state.SetEnabled(fileID, sheet.Enabled); err != nil {
		sheet.Enabled = !sheet.Enabled
		return sheet.Enabled, fmt.Errorf("persisting enabled flag: %w", err)
	}
	for _, v := range r.views {
		r.evaluateLocked(v)
	}
	return sheet.Enabled, nil
}

// OnNavigate records a view's new address and re-evaluates every block for
// it. Unknown views are created with the global-enable signal defaulted on.
func (r *Registry) OnNavigate(viewID, uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.viewLocked(viewID)
	v.addr = domain.NewPageAddress(uri)
	r.evaluateLocked(v)
}

// SetViewEnabled applies the host's per-view global-enable signal; false
// suppresses all styling for that view regardless of any sheet's flag.
func (r *Registry) SetViewEnabled(viewID string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.viewLocked(viewID)
	v.enabled = enabled
	r.evaluateLocked(v)
}

// CloseView drops a view's state and menu snapshot.
func (r *Registry) CloseView(viewID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, viewID)
}

// Menu returns the menu-row snapshot computed at the view's last evaluation.
func (r *Registry) Menu(viewID string) []MenuRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[viewID]
	if !ok {
		return nil
	}
	rows := make([]MenuRow, len(v.menu))
	copy(rows, v.menu)
	return rows
}

// Close releases every handle and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
	r.matcher.Index(nil)
}

func (r *Registry) viewLocked(id string) *view {
	v, ok := r.views[id]
	if !ok {
		v = &view{enabled: true}
		r.views[id] = v
	}
	return v
}

func (r *Registry) findLocked(fileID string) *domain.Stylesheet {
	for _, sheet := range r.sheets {
		if sheet.FileID == fileID {
			return sheet
		}
	}
	return nil
}

func (r *Registry) evaluateLocked(v *view) {
	results := r.matcher.Evaluate(r.sheets, v.addr, v.enabled)
	rows := make([]MenuRow, 0, len(results))
	for i, res := range results {
		rows = append(rows, MenuRow{
			FileID:  res.FileID,
			Enabled: r.sheets[i].Enabled,
			Blocks:  len(r.sheets[i].Blocks),
			Matched: res.Matched,
			Active:  res.Active,
		})
	}
	v.menu = rows
}
