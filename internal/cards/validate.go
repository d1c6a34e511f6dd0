package cards

import "pwcards/internal/model"

// Field names shared by validation, the form and error maps.
const (
	FieldURL      = "url"
	FieldName     = "name"
	FieldUsername = "username"
	FieldPassword = "password"
)

// RequiredFieldMessage is the error recorded for every empty field.
const RequiredFieldMessage = "required field"

// Validate returns an error message for every field whose value is empty.
// Only the exact empty string counts as empty; whitespace-only values pass.
// The result is never nil.
func Validate(fields map[string]string) ValidationErrors {
	errs := ValidationErrors{}
	for name, value := range fields {
		if value == "" {
			errs[name] = RequiredFieldMessage
		}
	}
	return errs
}

// EntryFields returns the required text fields of an entry keyed by field name.
func EntryFields(e model.PasswordEntry) map[string]string {
	return map[string]string{
		FieldURL:      e.URL,
		FieldName:     e.Name,
		FieldUsername: e.Username,
		FieldPassword: e.Password,
	}
}

// DraftFields returns the fields of a form draft keyed by field name.
func DraftFields(d Draft) map[string]string {
	return EntryFields(d.entry())
}
