package cards

import (
	"context"
	"fmt"
	"sync"

	"pwcards/internal/model"
)

// FormState is the submit state of the form.
type FormState int

const (
	FormIdle FormState = iota
	FormSubmitting
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormSubmitting:
		return "submitting"
	case FormError:
		return "error"
	default:
		return "unknown"
	}
}

// Flow tells whether the form creates a new entry or edits an existing one.
type Flow string

const (
	FlowCreate Flow = "create"
	FlowEdit   Flow = "edit"
)

// Draft is the in-progress, unvalidated form state of an entry.
type Draft struct {
	URL      string
	Name     string
	Username string
	Password string
}

func (d Draft) entry() model.PasswordEntry {
	return model.PasswordEntry{
		URL:      d.URL,
		Name:     d.Name,
		Username: d.Username,
		Password: d.Password,
	}
}

// FormModel holds the transient edit state for one entry and submits it.
// A successful submit hands the saved entity to the ListModel and closes the form.
//
// Every Initialize and Cancel starts a new generation. A submit that
// completes after its generation ended still upserts the saved entity but
// leaves the form and its state alone.
type FormModel struct {
	api       API
	list      *ListModel
	idgen     IDGenerator
	clipboard Clipboard
	notifier  Notifier
	logger    Logger

	mu           sync.Mutex
	editing      *model.PasswordEntry
	draft        Draft
	showPassword bool
	errors       ValidationErrors
	state        FormState
	generation   uint64
}

// NewFormModel creates a FormModel that reports saved entries to list.
func NewFormModel(api API, list *ListModel, idgen IDGenerator, clipboard Clipboard, notifier Notifier, logger Logger) *FormModel {
	return &FormModel{
		api:       api,
		list:      list,
		idgen:     idgen,
		clipboard: clipboard,
		notifier:  notifier,
		logger:    logger,
		errors:    ValidationErrors{},
	}
}

// Initialize resets the form. Given an entry, the draft is seeded from it
// (edit flow); given nil the draft stays empty (create flow).
func (f *FormModel) Initialize(entry *model.PasswordEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft = Draft{}
	f.editing = nil
	f.showPassword = false
	f.errors = ValidationErrors{}
	f.state = FormIdle
	f.generation++

	if entry != nil {
		e := *entry
		f.editing = &e
		f.draft = Draft{
			URL:      e.URL,
			Name:     e.Name,
			Username: e.Username,
			Password: e.Password,
		}
	}
}

// Flow returns FlowEdit when an entry is being edited, else FlowCreate.
func (f *FormModel) Flow() Flow {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.editing != nil {
		return FlowEdit
	}
	return FlowCreate
}

// Title is the heading shown above the form.
func (f *FormModel) Title() string {
	if f.Flow() == FlowEdit {
		return "Update Password"
	}
	return "New Password"
}

// Editing returns a copy of the entry being edited, or nil in the create flow.
func (f *FormModel) Editing() *model.PasswordEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.editing == nil {
		return nil
	}
	e := *f.editing
	return &e
}

// Generation identifies the current opening of the form.
func (f *FormModel) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation
}

// Draft returns the current draft.
func (f *FormModel) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// SetField updates one draft field by name.
func (f *FormModel) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldURL:
		f.draft.URL = value
	case FieldName:
		f.draft.Name = value
	case FieldUsername:
		f.draft.Username = value
	case FieldPassword:
		f.draft.Password = value
	default:
		return fmt.Errorf("unknown field: %q", name)
	}
	return nil
}

// ShowPassword reports whether the password is displayed in clear text.
func (f *FormModel) ShowPassword() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showPassword
}

// ToggleShowPassword flips the display of the password. Display only.
func (f *FormModel) ToggleShowPassword() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showPassword = !f.showPassword
}

// Errors returns a copy of the per-field errors of the last submit.
func (f *FormModel) Errors() ValidationErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(ValidationErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// State returns the submit state.
func (f *FormModel) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit validates the draft and saves it through the API. Validation
// errors are stored and returned as ValidationErrors without a request.
// A request failure leaves the draft and the open form untouched.
func (f *FormModel) Submit(ctx context.Context) (model.PasswordEntry, error) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return model.PasswordEntry{}, ErrSubmitInProgress
	}

	f.errors = Validate(DraftFields(f.draft))
	if len(f.errors) > 0 {
		errs := make(ValidationErrors, len(f.errors))
		for k, v := range f.errors {
			errs[k] = v
		}
		f.mu.Unlock()
		return model.PasswordEntry{}, errs
	}

	payload := f.draft.entry()
	var editing *model.PasswordEntry
	if f.editing != nil {
		e := *f.editing
		editing = &e
	}
	f.state = FormSubmitting
	gen := f.generation
	f.mu.Unlock()

	var (
		saved model.PasswordEntry
		err   error
		op    string
		id    string
	)
	if editing == nil {
		op = OpCreate
		payload.ID = f.idgen.New()
		id = payload.ID
		saved, err = f.api.Create(ctx, payload)
	} else {
		op = OpUpdate
		id = editing.ID
		saved, err = f.api.Update(ctx, id, payload)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	current := f.generation == gen

	if err != nil {
		if current {
			f.state = FormError
		}
		f.logger.Error("saving entry failed", "op", op, "id", id, "error", err)
		f.notifier.Notify(GenericFailureMessage)
		return model.PasswordEntry{}, &RequestFailure{Op: op, ID: id, Err: err}
	}

	f.list.Upsert(saved)
	if current {
		f.state = FormIdle
		f.list.CloseForm()
	} else {
		f.logger.Debug("form reopened before submit completed", "op", op, "id", saved.ID)
	}

	f.logger.Info("entry saved", "op", op, "id", saved.ID)
	return saved, nil
}

// Cancel closes the form without saving. A submit still in flight is not
// aborted, but its completion no longer affects the form.
func (f *FormModel) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.state = FormIdle
	f.list.CloseForm()
}

// CopyPassword copies the draft password to the clipboard.
func (f *FormModel) CopyPassword() error {
	password := f.Draft().Password
	if err := f.clipboard.WriteText(password); err != nil {
		return fmt.Errorf("copying password: %w", err)
	}
	f.notifier.Notify(CopiedPasswordMessage)
	return nil
}
