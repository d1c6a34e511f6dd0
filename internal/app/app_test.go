package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pwcards/internal/cards"
	"pwcards/internal/clipboard"
	"pwcards/internal/config"
)

// newTestConfig returns a config wired entirely to in-memory backends.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewConfig(dir)
	cfg.API = config.APIConfig{Type: "memory"}
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	cfg.Vaults = []config.VaultConfig{{Type: "memory", Name: "test"}}
	cfg.Clipboard = "memory"
	return cfg
}

func newTestApp(t *testing.T) (*PasswordApp, *[]string) {
	t.Helper()
	var messages []string
	a, err := NewPasswordApp(context.Background(), newTestConfig(t), Options{
		Command:  "test",
		Notifier: cards.NotifierFunc(func(m string) { messages = append(messages, m) }),
	})
	if err != nil {
		t.Fatalf("NewPasswordApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, &messages
}

func TestPasswordApp_EntryLifecycle(t *testing.T) {
	ctx := context.Background()
	a, messages := newTestApp(t)

	added, err := a.AddEntry(ctx, cards.Draft{URL: "https://github.com", Name: "GitHub", Username: "octo", Password: "hunter2"})
	if err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}
	if added.ID == "" {
		t.Fatal("AddEntry() returned entry without id")
	}
	if a.Session.List.FormVisible() {
		t.Error("form left open after AddEntry")
	}

	edited, err := a.EditEntry(ctx, added.ID, map[string]string{cards.FieldPassword: "rotated"})
	if err != nil {
		t.Fatalf("EditEntry() error = %v", err)
	}
	if edited.Password != "rotated" || edited.Name != "GitHub" {
		t.Errorf("EditEntry() = %+v", edited)
	}

	found, err := a.ListEntries(ctx, "hub")
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(found) != 1 || found[0].Password != "rotated" {
		t.Errorf("ListEntries() = %+v", found)
	}

	if err := a.CopyPassword(ctx, added.ID); err != nil {
		t.Fatalf("CopyPassword() error = %v", err)
	}
	if got := a.Clipboard().(*clipboard.Memory).Text(); got != "rotated" {
		t.Errorf("clipboard = %q, want rotated", got)
	}
	if len(*messages) != 1 || (*messages)[0] != cards.CopiedPasswordMessage {
		t.Errorf("messages = %v", *messages)
	}

	if err := a.RemoveEntry(ctx, added.ID); err != nil {
		t.Fatalf("RemoveEntry() error = %v", err)
	}
	if err := a.RemoveEntry(ctx, added.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second RemoveEntry() error = %v, want ErrEntryNotFound", err)
	}

	ops, err := a.GetHistory(10)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	var names []string
	for _, op := range ops {
		names = append(names, op.Operation)
	}
	want := []string{cards.OperationDelete, cards.OperationUpdate, cards.OperationCreate}
	if len(names) != len(want) {
		t.Fatalf("history = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	entryOps, err := a.GetEntryHistory(added.ID)
	if err != nil {
		t.Fatalf("GetEntryHistory() error = %v", err)
	}
	if len(entryOps) != 3 || entryOps[0].Operation != cards.OperationDelete {
		t.Errorf("GetEntryHistory() = %d ops, first %+v", len(entryOps), entryOps)
	}
}

func TestPasswordApp_AddEntry_Validation(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.AddEntry(context.Background(), cards.Draft{Name: "n", Username: "u", Password: "p"})
	var verrs cards.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("AddEntry() error = %v, want ValidationErrors", err)
	}
	if verrs[cards.FieldURL] != cards.RequiredFieldMessage {
		t.Errorf("errors = %v", verrs)
	}
	if a.Session.List.FormVisible() {
		t.Error("form left open after failed AddEntry")
	}
}

func TestPasswordApp_Backup(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t)

	if err := a.ValidateVault(ctx); err != nil {
		t.Fatalf("ValidateVault() error = %v", err)
	}
	if err := a.InitBackupKeys("pw"); err != nil {
		t.Fatalf("InitBackupKeys() error = %v", err)
	}
	if _, err := a.AddEntry(ctx, cards.Draft{URL: "u", Name: "n", Username: "x", Password: "p"}); err != nil {
		t.Fatal(err)
	}

	name, count, err := a.Backups.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	saved, err := a.Backups.Import(ctx, filepath.Base(name), "pw")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if saved != 1 {
		t.Errorf("saved = %d, want 1", saved)
	}
}

func TestNewPasswordApp_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"unknown api", func(c *config.Config) { c.API.Type = "grpc" }},
		{"no vaults", func(c *config.Config) { c.Vaults = nil }},
		{"bad log level", func(c *config.Config) { c.Log.Level = "loud" }},
		{"unmigrated sqlite", func(c *config.Config) {
			c.Database = config.DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(c.BaseDir, "db")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			tt.modify(cfg)
			if _, err := NewPasswordApp(context.Background(), cfg, Options{Command: "test"}); err == nil {
				t.Fatal("NewPasswordApp() expected error")
			}
		})
	}
}

func TestMigrateDatabase(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Database = config.DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(cfg.BaseDir, "db")}

	if err := MigrateDatabase(cfg); err != nil {
		t.Fatalf("MigrateDatabase() error = %v", err)
	}

	a, err := NewPasswordApp(context.Background(), cfg, Options{Command: "test"})
	if err != nil {
		t.Fatalf("NewPasswordApp() after migrate error = %v", err)
	}
	a.Close()
}
