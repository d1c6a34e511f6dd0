package cards_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pwcards/internal/cards"
	"pwcards/internal/clipboard"
	"pwcards/internal/model"
	"pwcards/internal/testutil"
)

type formFixture struct {
	list      *cards.ListModel
	form      *cards.FormModel
	api       *testutil.FlakyAPI
	notifier  *testutil.RecordingNotifier
	clipboard *clipboard.Memory
	ids       *testutil.StubIDGenerator
}

func newFormFixture(t *testing.T, entries ...model.PasswordEntry) *formFixture {
	t.Helper()
	list, api, notifier := newLoadedList(t, entries...)
	clip := clipboard.NewMemory()
	ids := testutil.NewStubIDGenerator()
	form := cards.NewFormModel(api, list, ids, clip, notifier, cards.NewNopLogger())
	return &formFixture{list: list, form: form, api: api, notifier: notifier, clipboard: clip, ids: ids}
}

func (f *formFixture) open(entry *model.PasswordEntry) {
	f.list.SelectForEdit(entry)
	f.list.OpenForm()
	f.form.Initialize(f.list.Selected())
}

func fill(t *testing.T, form *cards.FormModel, d cards.Draft) {
	t.Helper()
	for name, value := range map[string]string{
		cards.FieldURL:      d.URL,
		cards.FieldName:     d.Name,
		cards.FieldUsername: d.Username,
		cards.FieldPassword: d.Password,
	} {
		if err := form.SetField(name, value); err != nil {
			t.Fatalf("SetField(%q) error = %v", name, err)
		}
	}
}

func TestFormModel_Initialize(t *testing.T) {
	t.Run("create flow starts empty", func(t *testing.T) {
		f := newFormFixture(t)
		f.open(nil)

		if f.form.Flow() != cards.FlowCreate {
			t.Errorf("Flow() = %q, want create", f.form.Flow())
		}
		if f.form.Title() != "New Password" {
			t.Errorf("Title() = %q", f.form.Title())
		}
		if f.form.Draft() != (cards.Draft{}) {
			t.Errorf("Draft() = %+v, want empty", f.form.Draft())
		}
	})

	t.Run("edit flow seeds draft", func(t *testing.T) {
		f := newFormFixture(t, sampleEntries()...)
		entry := sampleEntries()[0]
		f.open(&entry)

		if f.form.Title() != "Update Password" {
			t.Errorf("Title() = %q", f.form.Title())
		}
		want := cards.Draft{URL: entry.URL, Name: entry.Name, Username: entry.Username, Password: entry.Password}
		if diff := cmp.Diff(want, f.form.Draft()); diff != "" {
			t.Errorf("Draft() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("resets previous state", func(t *testing.T) {
		f := newFormFixture(t)
		f.open(nil)
		f.form.ToggleShowPassword()
		_, _ = f.form.Submit(context.Background())

		f.form.Initialize(nil)
		if f.form.ShowPassword() {
			t.Error("ShowPassword() = true after Initialize")
		}
		if len(f.form.Errors()) != 0 {
			t.Errorf("Errors() = %v after Initialize", f.form.Errors())
		}
	})
}

func TestFormModel_SetField_Unknown(t *testing.T) {
	f := newFormFixture(t)
	if err := f.form.SetField("email", "x"); err == nil {
		t.Fatal("SetField() expected error for unknown field")
	}
}

func TestFormModel_Submit_Validation(t *testing.T) {
	f := newFormFixture(t, sampleEntries()...)
	f.open(nil)
	fill(t, f.form, cards.Draft{URL: "", Name: "n", Username: "u", Password: "p"})

	_, err := f.form.Submit(context.Background())

	var verrs cards.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Submit() error = %v, want ValidationErrors", err)
	}
	want := cards.ValidationErrors{"url": "required field"}
	if diff := cmp.Diff(want, verrs); diff != "" {
		t.Errorf("returned errors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, f.form.Errors()); diff != "" {
		t.Errorf("Errors() (-want +got):\n%s", diff)
	}
	if f.api.Calls("Create") != 0 {
		t.Errorf("Create calls = %d, want 0", f.api.Calls("Create"))
	}
	if f.ids.Issued() != 0 {
		t.Errorf("ids issued = %d, want 0", f.ids.Issued())
	}
	if !f.list.FormVisible() {
		t.Error("form closed after validation failure")
	}
	if f.form.State() != cards.FormIdle {
		t.Errorf("State() = %v, want idle", f.form.State())
	}
}

func TestFormModel_Submit_Create(t *testing.T) {
	f := newFormFixture(t, sampleEntries()...)
	f.open(nil)
	fill(t, f.form, cards.Draft{URL: "https://x.com", Name: "X", Username: "x", Password: "pw"})

	saved, err := f.form.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	want := model.PasswordEntry{ID: "id-1", URL: "https://x.com", Name: "X", Username: "x", Password: "pw"}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Errorf("saved (-want +got):\n%s", diff)
	}
	entries := f.list.Entries()
	if len(entries) != 4 || entries[3].ID != "id-1" {
		t.Errorf("Entries() = %v, want new entry appended", names(entries))
	}
	if f.list.FormVisible() {
		t.Error("form still visible after successful submit")
	}
	if f.form.State() != cards.FormIdle {
		t.Errorf("State() = %v, want idle", f.form.State())
	}
	if len(f.form.Errors()) != 0 {
		t.Errorf("Errors() = %v, want none", f.form.Errors())
	}
}

func TestFormModel_Submit_Edit(t *testing.T) {
	f := newFormFixture(t, sampleEntries()...)
	entry := sampleEntries()[1]
	f.open(&entry)
	if err := f.form.SetField(cards.FieldPassword, "rotated"); err != nil {
		t.Fatal(err)
	}

	saved, err := f.form.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if saved.ID != "2" || saved.Password != "rotated" {
		t.Errorf("saved = %+v", saved)
	}
	if f.api.Calls("Update") != 1 || f.api.Calls("Create") != 0 {
		t.Errorf("calls update=%d create=%d", f.api.Calls("Update"), f.api.Calls("Create"))
	}

	entries := f.list.Entries()
	if len(entries) != 3 {
		t.Fatalf("Len = %d, want 3", len(entries))
	}
	if entries[1].Password != "rotated" {
		t.Errorf("entry at index 1 = %+v, want replaced in place", entries[1])
	}
}

func TestFormModel_Submit_RequestFailure(t *testing.T) {
	f := newFormFixture(t, sampleEntries()...)
	f.open(nil)
	draft := cards.Draft{URL: "https://x.com", Name: "X", Username: "x", Password: "pw"}
	fill(t, f.form, draft)
	f.api.FailCreate(errors.New("connection reset"))

	_, err := f.form.Submit(context.Background())

	var rf *cards.RequestFailure
	if !errors.As(err, &rf) || rf.Op != cards.OpCreate {
		t.Fatalf("Submit() error = %v, want RequestFailure for create", err)
	}
	if f.form.State() != cards.FormError {
		t.Errorf("State() = %v, want error", f.form.State())
	}
	if f.notifier.Last() != cards.GenericFailureMessage {
		t.Errorf("notification = %q", f.notifier.Last())
	}
	if !f.list.FormVisible() {
		t.Error("form closed after request failure")
	}
	if f.form.Draft() != draft {
		t.Errorf("Draft() = %+v, want retained", f.form.Draft())
	}
	if f.list.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.list.Len())
	}

	// A retry after the failure goes through.
	f.api.FailCreate(nil)
	if _, err := f.form.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit() error = %v", err)
	}
	if f.form.State() != cards.FormIdle {
		t.Errorf("State() after retry = %v, want idle", f.form.State())
	}
}

func TestFormModel_Submit_ServerConflict(t *testing.T) {
	f := newFormFixture(t, sampleEntries()...)
	f.open(nil)
	fill(t, f.form, cards.Draft{URL: "https://github.com", Name: "Dup", Username: "x", Password: "pw"})

	_, err := f.form.Submit(context.Background())
	var rf *cards.RequestFailure
	if !errors.As(err, &rf) {
		t.Fatalf("Submit() error = %v, want RequestFailure", err)
	}
	if f.list.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.list.Len())
	}
}

func TestFormModel_Submit_InProgress(t *testing.T) {
	f := newFormFixture(t)
	f.open(nil)
	fill(t, f.form, cards.Draft{URL: "https://x.com", Name: "X", Username: "x", Password: "pw"})

	release := f.api.Hold()
	defer release()

	done := make(chan error, 1)
	go func() {
		_, err := f.form.Submit(context.Background())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for f.api.Calls("Create") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first submit never reached the API")
		}
		time.Sleep(time.Millisecond)
	}

	if f.form.State() != cards.FormSubmitting {
		t.Errorf("State() = %v, want submitting", f.form.State())
	}
	if _, err := f.form.Submit(context.Background()); !errors.Is(err, cards.ErrSubmitInProgress) {
		t.Errorf("second Submit() error = %v, want ErrSubmitInProgress", err)
	}

	release()
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if f.api.Calls("Create") != 1 {
		t.Errorf("Create calls = %d, want 1", f.api.Calls("Create"))
	}
	if f.list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.list.Len())
	}
}

func TestFormModel_ShowPassword(t *testing.T) {
	f := newFormFixture(t)
	f.open(nil)

	if f.form.ShowPassword() {
		t.Fatal("password shown by default")
	}
	f.form.ToggleShowPassword()
	if !f.form.ShowPassword() {
		t.Error("ShowPassword() = false after toggle")
	}
	f.form.ToggleShowPassword()
	if f.form.ShowPassword() {
		t.Error("ShowPassword() = true after second toggle")
	}
}

func TestFormModel_CopyPassword(t *testing.T) {
	f := newFormFixture(t)
	f.open(nil)
	if err := f.form.SetField(cards.FieldPassword, "hunter2"); err != nil {
		t.Fatal(err)
	}

	if err := f.form.CopyPassword(); err != nil {
		t.Fatalf("CopyPassword() error = %v", err)
	}
	if f.clipboard.Text() != "hunter2" {
		t.Errorf("clipboard = %q, want hunter2", f.clipboard.Text())
	}
	if f.notifier.Last() != "Copied the password!" {
		t.Errorf("notification = %q", f.notifier.Last())
	}
}

func TestFormModel_Cancel(t *testing.T) {
	f := newFormFixture(t, sampleEntries()...)
	f.open(nil)
	fill(t, f.form, cards.Draft{URL: "https://x.com", Name: "X", Username: "x", Password: "pw"})

	f.form.Cancel()

	if f.list.FormVisible() {
		t.Error("form visible after Cancel")
	}
	if f.list.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.list.Len())
	}
	if f.api.Calls("Create") != 0 {
		t.Error("Cancel made an API call")
	}
}
