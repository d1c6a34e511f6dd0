package cards

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"pwcards/internal/model"
)

// Empty-state messages derived from the collection and the search text.
const (
	EmptyNoEntries = "No Passwords registered"
	EmptyNoMatches = "No Passwords found with this name"
)

// LoadState tracks the initial fetch of the entry list.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ListModel holds the authoritative in-memory collection of entries, the
// active search text and which entry (if any) the form works on.
//
// The collection is never modified in place: every change builds a new
// slice and swaps it in, so views handed out earlier stay valid. API calls
// are made without holding the lock and the last completion wins.
type ListModel struct {
	api      API
	notifier Notifier
	logger   Logger

	mu          sync.Mutex
	entries     []model.PasswordEntry
	search      string
	selected    *model.PasswordEntry
	formVisible bool
	loadState   LoadState
	loadErr     error
}

// NewListModel creates an empty ListModel. Call Load to fetch entries.
func NewListModel(api API, notifier Notifier, logger Logger) *ListModel {
	return &ListModel{
		api:      api,
		notifier: notifier,
		logger:   logger,
		entries:  []model.PasswordEntry{},
	}
}

// Load fetches all entries and replaces the collection wholesale.
// On failure the collection is left as it was and the state becomes LoadFailed.
func (m *ListModel) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loadState = LoadLoading
	m.mu.Unlock()

	entries, err := m.api.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.loadState = LoadFailed
		m.loadErr = &RequestFailure{Op: OpLoad, Err: err}
		m.logger.Error("loading entries failed", "error", err)
		return m.loadErr
	}

	next := make([]model.PasswordEntry, len(entries))
	copy(next, entries)
	m.entries = next
	m.loadState = LoadLoaded
	m.loadErr = nil
	m.logger.Debug("entries loaded", "count", len(next))
	return nil
}

// LoadState returns the state of the last Load and its error, if it failed.
func (m *ListModel) LoadState() (LoadState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadState, m.loadErr
}

// Entries returns a copy of the collection in server order.
func (m *ListModel) Entries() []model.PasswordEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.PasswordEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries in the collection.
func (m *ListModel) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Find returns the entry with the given id.
func (m *ListModel) Find(id string) (model.PasswordEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := indexOf(m.entries, id); i >= 0 {
		return m.entries[i], true
	}
	return model.PasswordEntry{}, false
}

// SetSearch sets the text the filtered view matches entry names against.
func (m *ListModel) SetSearch(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.search = text
}

// Search returns the active search text.
func (m *ListModel) Search() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.search
}

// Filtered returns a lazy view of the entries whose name contains the search
// text, compared upper-cased. The view is bound to the collection and search
// text at call time and can be ranged over any number of times.
func (m *ListModel) Filtered() iter.Seq[model.PasswordEntry] {
	m.mu.Lock()
	entries, needle := m.entries, strings.ToUpper(m.search)
	m.mu.Unlock()

	return func(yield func(model.PasswordEntry) bool) {
		for _, e := range entries {
			if !strings.Contains(strings.ToUpper(e.Name), needle) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// FilteredEntries collects Filtered into a slice. It is never nil.
func (m *ListModel) FilteredEntries() []model.PasswordEntry {
	out := []model.PasswordEntry{}
	for e := range m.Filtered() {
		out = append(out, e)
	}
	return out
}

// EmptyMessage explains why the filtered view is empty, or returns "" when
// there is something to show.
func (m *ListModel) EmptyMessage() string {
	for range m.Filtered() {
		return ""
	}
	if m.Len() == 0 {
		return EmptyNoEntries
	}
	return EmptyNoMatches
}

// Upsert replaces the entry with the same id in place, or appends it.
// Pass the entity returned by the API, not the client draft.
func (m *ListModel) Upsert(entry model.PasswordEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]model.PasswordEntry, len(m.entries), len(m.entries)+1)
	copy(next, m.entries)

	if i := indexOf(next, entry.ID); i >= 0 {
		next[i] = entry
	} else {
		next = append(next, entry)
	}
	m.entries = next
}

// Remove deletes the entry through the API and, on success, drops the first
// entry with that id from the collection. On failure the collection is
// unchanged and the user is notified.
func (m *ListModel) Remove(ctx context.Context, id string) error {
	if err := m.api.Delete(ctx, id); err != nil {
		m.logger.Error("deleting entry failed", "id", id, "error", err)
		m.notifier.Notify(GenericFailureMessage)
		return &RequestFailure{Op: OpDelete, ID: id, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexOf(m.entries, id)
	if i < 0 {
		return nil
	}
	next := make([]model.PasswordEntry, 0, len(m.entries)-1)
	next = append(next, m.entries[:i]...)
	next = append(next, m.entries[i+1:]...)
	m.entries = next

	m.logger.Info("entry deleted", "id", id)
	return nil
}

// SelectForEdit sets the entry the form will edit; nil selects the create flow.
// The selection is a copy and is not kept in sync with the collection.
func (m *ListModel) SelectForEdit(entry *model.PasswordEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry == nil {
		m.selected = nil
		return
	}
	e := *entry
	m.selected = &e
}

// Selected returns a copy of the selected entry, or nil in the create flow.
func (m *ListModel) Selected() *model.PasswordEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected == nil {
		return nil
	}
	e := *m.selected
	return &e
}

// OpenForm shows the form. It reports whether the form was closed before.
func (m *ListModel) OpenForm() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.formVisible {
		return false
	}
	m.formVisible = true
	return true
}

// CloseForm hides the form.
func (m *ListModel) CloseForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formVisible = false
}

// FormVisible reports whether the form is open.
func (m *ListModel) FormVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.formVisible
}

func indexOf(entries []model.PasswordEntry, id string) int {
	return slices.IndexFunc(entries, func(e model.PasswordEntry) bool {
		return e.ID == id
	})
}
