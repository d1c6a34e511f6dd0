package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"pwcards/internal/model"
)

func statusCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return http.StatusOK
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	return se.Code
}

func TestMemoryAPI_Create(t *testing.T) {
	valid := model.PasswordEntry{ID: "3", URL: "https://gitlab.com", Name: "GitLab", Username: "u", Password: "p"}

	tests := []struct {
		name  string
		entry func() model.PasswordEntry
		want  int
	}{
		{"valid", func() model.PasswordEntry { return valid }, http.StatusOK},
		{"empty id", func() model.PasswordEntry { e := valid; e.ID = ""; return e }, http.StatusBadRequest},
		{"empty field", func() model.PasswordEntry { e := valid; e.Username = ""; return e }, http.StatusBadRequest},
		{"blank id", func() model.PasswordEntry { e := valid; e.ID = "  "; return e }, http.StatusBadRequest},
		{"blank name", func() model.PasswordEntry { e := valid; e.Name = "   "; return e }, http.StatusBadRequest},
		{"blank password", func() model.PasswordEntry { e := valid; e.Password = "\t"; return e }, http.StatusBadRequest},
		{"unparseable url", func() model.PasswordEntry { e := valid; e.URL = "http://[::1"; return e }, http.StatusBadRequest},
		{"duplicate id", func() model.PasswordEntry { e := valid; e.ID = "1"; return e }, http.StatusConflict},
		{"duplicate url", func() model.PasswordEntry { e := valid; e.URL = "https://github.com"; return e }, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemoryAPI(seed()...)
			_, err := m.Create(context.Background(), tt.entry())
			if got := statusCode(t, err); got != tt.want {
				t.Errorf("status = %d, want %d (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestMemoryAPI_ValidationDetail(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAPI(seed()...)

	_, err := m.Update(ctx, "1", model.PasswordEntry{URL: "https://github.com", Name: "GH", Username: " ", Password: "p"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Update() error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusBadRequest || se.Detail != "username can't be empty" {
		t.Errorf("Update() = %d %q, want 400 %q", se.Code, se.Detail, "username can't be empty")
	}

	entries, _ := m.List(ctx)
	if entries[0].Name == "GH" {
		t.Error("rejected update was applied")
	}
}

func TestMemoryAPI_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps position and forces id", func(t *testing.T) {
		m := NewMemoryAPI(seed()...)
		got, err := m.Update(ctx, "1", model.PasswordEntry{ID: "other", URL: "https://github.com", Name: "GH", Username: "u", Password: "p"})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.ID != "1" {
			t.Errorf("ID = %q, want 1", got.ID)
		}
		list, _ := m.List(ctx)
		if list[0].Name != "GH" || len(list) != 2 {
			t.Errorf("List() = %+v", list)
		}
	})

	t.Run("url taken by another entry", func(t *testing.T) {
		m := NewMemoryAPI(seed()...)
		_, err := m.Update(ctx, "1", model.PasswordEntry{URL: "https://mail.google.com", Name: "n", Username: "u", Password: "p"})
		if got := statusCode(t, err); got != http.StatusConflict {
			t.Errorf("status = %d, want 409", got)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		m := NewMemoryAPI(seed()...)
		_, err := m.Update(ctx, "9", model.PasswordEntry{URL: "u", Name: "n", Username: "u", Password: "p"})
		if got := statusCode(t, err); got != http.StatusNotFound {
			t.Errorf("status = %d, want 404", got)
		}
	})
}

func TestMemoryAPI_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryAPI(seed()...)

	if err := m.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := statusCode(t, m.Delete(ctx, "1")); got != http.StatusNotFound {
		t.Errorf("second Delete() status = %d, want 404", got)
	}
	list, _ := m.List(ctx)
	if len(list) != 1 || list[0].ID != "2" {
		t.Errorf("List() = %+v", list)
	}
}

func TestMemoryAPI_SeedIsCopied(t *testing.T) {
	entries := seed()
	m := NewMemoryAPI(entries...)
	entries[0].Name = "mutated"

	list, _ := m.List(context.Background())
	if list[0].Name != "GitHub" {
		t.Errorf("seed aliased caller slice: %q", list[0].Name)
	}
}
