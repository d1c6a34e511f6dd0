package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"pwcards/internal/api"
	"pwcards/internal/cards"
	"pwcards/internal/clipboard"
	"pwcards/internal/config"
	"pwcards/internal/database"
	"pwcards/internal/database/migrations"
	"pwcards/internal/encryption"
	"pwcards/internal/model"
	"pwcards/internal/vault"
)

// ErrEntryNotFound is returned when an id does not match any loaded entry.
var ErrEntryNotFound = errors.New("entry not found")

// Options tune how a PasswordApp is built for one command.
type Options struct {
	// Command names the CLI command being run (e.g. "add", "tui").
	Command string

	// Notifier receives user-visible messages. Nil discards them.
	Notifier cards.Notifier

	// Quiet suppresses log output to stderr regardless of config,
	// for commands that own the terminal.
	Quiet bool
}

// PasswordApp is the application layer between the CLI and the view-models.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw CLI arguments, and releases resources on Close.
type PasswordApp struct {
	cfg        *config.Config
	invocation Invocation
	api        cards.API
	history    *database.SQLiteDatabase
	vault      cards.Vault
	encryptor  cards.Encryptor
	clipboard  cards.Clipboard
	logger     *slog.Logger
	logFile    *os.File

	Session *cards.Session
	Backups *cards.BackupService
}

// NewPasswordApp creates a fully wired PasswordApp from the given config.
// The caller must call Close when done.
func NewPasswordApp(ctx context.Context, cfg *config.Config, opts Options) (*PasswordApp, error) {
	clock := cards.RealClock{}
	inv := NewInvocation(opts.Command, clock.Now())

	logger, logFile, err := newLogger(cfg.LogDir, cfg.Log.Level, inv.ID, cfg.Log.Stderr && !opts.Quiet)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a := &PasswordApp{cfg: cfg, invocation: inv, logger: logger, logFile: logFile}

	if err := a.wire(ctx, clock, opts.Notifier); err != nil {
		a.Close()
		return nil, err
	}

	logger.Debug("app started", "command", inv.Command, "api", cfg.API.Type)
	return a, nil
}

func (a *PasswordApp) wire(ctx context.Context, clock cards.Clock, notifier cards.Notifier) error {
	cfg := a.cfg

	client, err := api.NewAPIFromConfig(cfg.API)
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}
	a.api = client

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	a.history = db
	if err := db.CheckMigrations(); err != nil {
		if errors.Is(err, migrations.ErrNeedsMigration) {
			return fmt.Errorf("history database is not initialized: run 'pwcards db migrate'")
		}
		return fmt.Errorf("database schema out of date: %w", err)
	}

	if len(cfg.Vaults) == 0 {
		return fmt.Errorf("no vaults configured")
	}
	v, err := vault.NewVaultFromConfig(ctx, cfg.Vaults[0])
	if err != nil {
		return fmt.Errorf("creating vault: %w", err)
	}
	a.vault = v

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	a.encryptor = enc

	clip, err := clipboard.New(cfg.Clipboard)
	if err != nil {
		return fmt.Errorf("creating clipboard: %w", err)
	}
	a.clipboard = clip

	if notifier == nil {
		notifier = cards.NotifierFunc(func(string) {})
	}

	logger := &slogAdapter{l: a.logger}
	list := cards.NewListModel(a.api, notifier, logger)
	form := cards.NewFormModel(a.api, list, cards.UUIDGenerator{}, a.clipboard, notifier, logger)
	a.Session = cards.NewSession(list, form, a.history, clock, logger)
	a.Backups = cards.NewBackupService(a.api, list, a.vault, a.encryptor, a.history, clock, logger)
	return nil
}

// Logger returns the application logger.
func (a *PasswordApp) Logger() *slog.Logger { return a.logger }

// Clipboard returns the clipboard the form copies to.
func (a *PasswordApp) Clipboard() cards.Clipboard { return a.clipboard }

// Load fetches the entry list from the server.
func (a *PasswordApp) Load(ctx context.Context) error {
	return a.Session.List.Load(ctx)
}

// ListEntries loads the entries and returns those whose name matches search.
func (a *PasswordApp) ListEntries(ctx context.Context, search string) ([]model.PasswordEntry, error) {
	if err := a.Load(ctx); err != nil {
		return nil, err
	}
	a.Session.List.SetSearch(search)
	return a.Session.List.FilteredEntries(), nil
}

// AddEntry creates a new entry from the given draft.
func (a *PasswordApp) AddEntry(ctx context.Context, draft cards.Draft) (model.PasswordEntry, error) {
	if err := a.Load(ctx); err != nil {
		return model.PasswordEntry{}, err
	}
	a.Session.OpenCreate()
	defer a.cancelIfOpen()

	if err := setDraft(a.Session.Form, draft); err != nil {
		return model.PasswordEntry{}, err
	}
	return a.Session.Submit(ctx)
}

// EditEntry updates the entry with the given id. Only the fields present
// in changes are replaced; the rest keep their current values.
func (a *PasswordApp) EditEntry(ctx context.Context, id string, changes map[string]string) (model.PasswordEntry, error) {
	entry, err := a.find(ctx, id)
	if err != nil {
		return model.PasswordEntry{}, err
	}
	a.Session.OpenEdit(entry)
	defer a.cancelIfOpen()

	for name, value := range changes {
		if err := a.Session.Form.SetField(name, value); err != nil {
			return model.PasswordEntry{}, err
		}
	}
	return a.Session.Submit(ctx)
}

// RemoveEntry deletes the entry with the given id.
func (a *PasswordApp) RemoveEntry(ctx context.Context, id string) error {
	if _, err := a.find(ctx, id); err != nil {
		return err
	}
	return a.Session.Delete(ctx, id)
}

// CopyPassword copies the password of the entry with the given id.
func (a *PasswordApp) CopyPassword(ctx context.Context, id string) error {
	entry, err := a.find(ctx, id)
	if err != nil {
		return err
	}
	a.Session.OpenEdit(entry)
	defer a.cancelIfOpen()
	return a.Session.Form.CopyPassword()
}

// GetHistory returns the most recent recorded operations.
func (a *PasswordApp) GetHistory(limit int) ([]*model.Operation, error) {
	return a.Session.History(limit)
}

// GetEntryHistory returns every recorded operation on one entry, newest first.
func (a *PasswordApp) GetEntryHistory(id string) ([]*model.Operation, error) {
	ops, err := a.history.ListOperationsForEntry(id)
	if err != nil {
		return nil, fmt.Errorf("listing history for %s: %w", id, err)
	}
	return ops, nil
}

// InitBackupKeys generates the backup key pair protected by passphrase.
func (a *PasswordApp) InitBackupKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up backup keys: %w", err)
	}
	a.logger.Info("backup keys created")
	return nil
}

// ValidateVault checks that the configured vault is reachable.
func (a *PasswordApp) ValidateVault(ctx context.Context) error {
	return a.vault.ValidateSetup(ctx)
}

// Close releases the database and the log file.
func (a *PasswordApp) Close() error {
	var firstErr error
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}
	if a.logFile != nil {
		a.logger.Debug("app closed", "elapsed", a.invocation.Elapsed(cards.RealClock{}.Now()))
		a.logFile.Close()
	}
	return firstErr
}

func (a *PasswordApp) find(ctx context.Context, id string) (model.PasswordEntry, error) {
	if err := a.Load(ctx); err != nil {
		return model.PasswordEntry{}, err
	}
	entry, ok := a.Session.List.Find(id)
	if !ok {
		return model.PasswordEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return entry, nil
}

func (a *PasswordApp) cancelIfOpen() {
	if a.Session.List.FormVisible() {
		a.Session.Cancel()
	}
}

// setDraft copies every field of draft into the form.
func setDraft(form *cards.FormModel, draft cards.Draft) error {
	for name, value := range cards.DraftFields(draft) {
		if err := form.SetField(name, value); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDatabase applies pending history schema migrations for cfg.
func MigrateDatabase(cfg *config.Config) error {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}
