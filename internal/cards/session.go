package cards

import (
	"context"
	"errors"

	"pwcards/internal/model"
)

// Session is the root view-model: one list and the form working on it.
// It owns the Closed -> Open(create|edit) -> Closed transitions of the form.
type Session struct {
	List *ListModel
	Form *FormModel

	rec recorder
}

// NewSession composes list and form. history may be nil.
func NewSession(list *ListModel, form *FormModel, history History, clock Clock, logger Logger) *Session {
	return &Session{
		List: list,
		Form: form,
		rec:  recorder{history: history, clock: clock, logger: logger},
	}
}

// OpenCreate opens an empty form. It reports false when the form was
// already open, in which case the draft is left alone.
func (s *Session) OpenCreate() bool {
	return s.open(nil)
}

// OpenEdit opens the form seeded from entry. It reports false when the
// form was already open, in which case the draft is left alone.
func (s *Session) OpenEdit(entry model.PasswordEntry) bool {
	return s.open(&entry)
}

func (s *Session) open(entry *model.PasswordEntry) bool {
	if s.List.FormVisible() {
		return false
	}
	s.List.SelectForEdit(entry)
	if !s.List.OpenForm() {
		return false
	}
	s.Form.Initialize(s.List.Selected())
	return true
}

// Cancel closes the form without saving.
func (s *Session) Cancel() {
	s.Form.Cancel()
}

// Submit saves the draft. Submissions rejected by validation are not recorded.
func (s *Session) Submit(ctx context.Context) (model.PasswordEntry, error) {
	operation := OperationCreate
	entryID := ""
	if e := s.Form.Editing(); e != nil {
		operation = OperationUpdate
		entryID = e.ID
	}

	started := s.rec.start()
	saved, err := s.Form.Submit(ctx)

	var verrs ValidationErrors
	if errors.As(err, &verrs) || errors.Is(err, ErrSubmitInProgress) {
		return saved, err
	}
	if err == nil {
		entryID = saved.ID
	} else {
		var rf *RequestFailure
		if errors.As(err, &rf) {
			entryID = rf.ID
		}
	}

	s.rec.record(operation, entryID, started, err)
	return saved, err
}

// Delete removes the entry with the given id.
func (s *Session) Delete(ctx context.Context, id string) error {
	started := s.rec.start()
	err := s.List.Remove(ctx, id)
	s.rec.record(OperationDelete, id, started, err)
	return err
}

// History returns the most recent recorded operations, newest first.
func (s *Session) History(limit int) ([]*model.Operation, error) {
	if s.rec.history == nil {
		return nil, errors.New("operation history is not configured")
	}
	return s.rec.history.ListOperations(limit)
}
