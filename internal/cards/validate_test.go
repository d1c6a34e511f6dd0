package cards_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pwcards/internal/cards"
	"pwcards/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   cards.ValidationErrors
	}{
		{
			name:   "all fields set",
			fields: map[string]string{"url": "u", "name": "n", "username": "x", "password": "p"},
			want:   cards.ValidationErrors{},
		},
		{
			name:   "empty url",
			fields: map[string]string{"url": "", "name": "n", "username": "x", "password": "p"},
			want:   cards.ValidationErrors{"url": cards.RequiredFieldMessage},
		},
		{
			name:   "every field empty",
			fields: map[string]string{"url": "", "name": "", "username": "", "password": ""},
			want: cards.ValidationErrors{
				"url":      "required field",
				"name":     "required field",
				"username": "required field",
				"password": "required field",
			},
		},
		{
			name:   "whitespace is not empty",
			fields: map[string]string{"name": "   "},
			want:   cards.ValidationErrors{},
		},
		{
			name:   "no fields",
			fields: map[string]string{},
			want:   cards.ValidationErrors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cards.Validate(tt.fields)
			if got == nil {
				t.Fatal("Validate() returned nil map")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntryFields(t *testing.T) {
	e := model.PasswordEntry{ID: "1", URL: "https://github.com", Name: "GitHub", Username: "octo", Password: ""}
	errs := cards.Validate(cards.EntryFields(e))

	want := cards.ValidationErrors{"password": "required field"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := cards.ValidationErrors{"url": "required field", "name": "required field"}
	got := errs.Error()
	want := "validation failed: name: required field, url: required field"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !strings.HasPrefix(got, "validation failed") {
		t.Errorf("Error() = %q", got)
	}
}
