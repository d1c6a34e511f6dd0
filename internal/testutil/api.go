package testutil

import (
	"context"
	"sync"

	"pwcards/internal/api"
	"pwcards/internal/cards"
	"pwcards/internal/model"
)

// FlakyAPI wraps a cards.API and can be told to fail or stall calls.
// The zero error fields pass calls through to the wrapped API.
type FlakyAPI struct {
	Inner cards.API

	mu        sync.Mutex
	listErr   error
	createErr error
	updateErr error
	deleteErr error
	gate      chan struct{}
	calls     map[string]int
}

var _ cards.API = (*FlakyAPI)(nil)

// NewFlakyAPI wraps an in-memory API seeded with entries.
func NewFlakyAPI(entries ...model.PasswordEntry) *FlakyAPI {
	return &FlakyAPI{
		Inner: api.NewMemoryAPI(entries...),
		calls: make(map[string]int),
	}
}

// FailList makes List return err until reset with nil.
func (f *FlakyAPI) FailList(err error) { f.set(&f.listErr, err) }

// FailCreate makes Create return err until reset with nil.
func (f *FlakyAPI) FailCreate(err error) { f.set(&f.createErr, err) }

// FailUpdate makes Update return err until reset with nil.
func (f *FlakyAPI) FailUpdate(err error) { f.set(&f.updateErr, err) }

// FailDelete makes Delete return err until reset with nil.
func (f *FlakyAPI) FailDelete(err error) { f.set(&f.deleteErr, err) }

func (f *FlakyAPI) set(field *error, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*field = err
}

// Hold makes every following write call block until the returned
// release function is called.
func (f *FlakyAPI) Hold() (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.gate = nil
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many times the named method ("List", "Create",
// "Update" or "Delete") was invoked.
func (f *FlakyAPI) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FlakyAPI) enter(ctx context.Context, method string, errField *error) error {
	f.mu.Lock()
	f.calls[method]++
	err := *errField
	gate := f.gate
	f.mu.Unlock()

	if gate != nil && method != "List" {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *FlakyAPI) List(ctx context.Context) ([]model.PasswordEntry, error) {
	if err := f.enter(ctx, "List", &f.listErr); err != nil {
		return nil, err
	}
	return f.Inner.List(ctx)
}

func (f *FlakyAPI) Create(ctx context.Context, entry model.PasswordEntry) (model.PasswordEntry, error) {
	if err := f.enter(ctx, "Create", &f.createErr); err != nil {
		return model.PasswordEntry{}, err
	}
	return f.Inner.Create(ctx, entry)
}

func (f *FlakyAPI) Update(ctx context.Context, id string, entry model.PasswordEntry) (model.PasswordEntry, error) {
	if err := f.enter(ctx, "Update", &f.updateErr); err != nil {
		return model.PasswordEntry{}, err
	}
	return f.Inner.Update(ctx, id, entry)
}

func (f *FlakyAPI) Delete(ctx context.Context, id string) error {
	if err := f.enter(ctx, "Delete", &f.deleteErr); err != nil {
		return err
	}
	return f.Inner.Delete(ctx, id)
}
