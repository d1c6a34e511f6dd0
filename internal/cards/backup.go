package cards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pwcards/internal/model"
)

// BackupVersion is the format version written into every backup.
const BackupVersion = 1

// BackupPrefix is the vault prefix under which backups are stored.
const BackupPrefix = "backups/"

// BackupService writes encrypted snapshots of the entry list to a vault and
// restores them through the API.
type BackupService struct {
	api       API
	list      *ListModel
	vault     Vault
	encryptor Encryptor
	clock     Clock
	logger    Logger
	rec       recorder
}

// NewBackupService creates a BackupService. history may be nil.
func NewBackupService(api API, list *ListModel, vault Vault, encryptor Encryptor, history History, clock Clock, logger Logger) *BackupService {
	return &BackupService{
		api:       api,
		list:      list,
		vault:     vault,
		encryptor: encryptor,
		clock:     clock,
		logger:    logger,
		rec:       recorder{history: history, clock: clock, logger: logger},
	}
}

// Export reloads the list from the API and stores it encrypted in the vault.
// Returns the backup name and the number of entries written.
func (b *BackupService) Export(ctx context.Context) (name string, count int, err error) {
	started := b.rec.start()
	defer func() {
		b.rec.record(OperationExport, "", started, err)
	}()

	if !b.encryptor.IsConfigured() {
		return "", 0, fmt.Errorf("encryption keys not configured: run 'pwcards backup init'")
	}

	if err := b.list.Load(ctx); err != nil {
		return "", 0, err
	}

	now := b.clock.Now().UTC()
	backup := model.Backup{
		Version:   BackupVersion,
		CreatedAt: now,
		Entries:   b.list.Entries(),
	}

	plain, err := json.Marshal(backup)
	if err != nil {
		return "", 0, fmt.Errorf("encoding backup: %w", err)
	}

	var sealed bytes.Buffer
	if err := b.encryptor.Encrypt(bytes.NewReader(plain), &sealed); err != nil {
		return "", 0, fmt.Errorf("encrypting backup: %w", err)
	}

	name = BackupPrefix + now.Format("20060102T150405Z") + ".json.age"
	if err := b.vault.Put(ctx, name, &sealed, int64(sealed.Len())); err != nil {
		return "", 0, fmt.Errorf("storing backup: %w", err)
	}

	b.logger.Info("backup exported", "name", name, "entries", len(backup.Entries))
	return name, len(backup.Entries), nil
}

// ListBackups returns the names of stored backups, oldest first.
func (b *BackupService) ListBackups(ctx context.Context) ([]string, error) {
	names, err := b.vault.List(ctx, BackupPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	return names, nil
}

// Import decrypts the named backup and pushes every entry to the API.
// Entries whose id already exists on the server are updated, others created.
// Entries with empty fields are skipped. Import stops at the first request
// failure; entries saved before it stay saved.
// Returns the number of entries saved.
func (b *BackupService) Import(ctx context.Context, name, passphrase string) (saved int, err error) {
	started := b.rec.start()
	defer func() {
		b.rec.record(OperationImport, "", started, err)
	}()

	if !strings.HasPrefix(name, BackupPrefix) {
		name = BackupPrefix + name
	}

	dc, err := b.encryptor.Unlock(passphrase)
	if err != nil {
		return 0, fmt.Errorf("unlocking private key: %w", err)
	}

	var sealed bytes.Buffer
	if err := b.vault.Get(ctx, name, &sealed); err != nil {
		return 0, fmt.Errorf("fetching backup %s: %w", name, err)
	}

	var plain bytes.Buffer
	if err := dc.Decrypt(&sealed, &plain); err != nil {
		return 0, fmt.Errorf("decrypting backup %s: %w", name, err)
	}

	var backup model.Backup
	if err := json.Unmarshal(plain.Bytes(), &backup); err != nil {
		return 0, fmt.Errorf("decoding backup %s: %w", name, err)
	}
	if backup.Version != BackupVersion {
		return 0, fmt.Errorf("unsupported backup version %d", backup.Version)
	}

	if err := b.list.Load(ctx); err != nil {
		return 0, err
	}

	for _, entry := range backup.Entries {
		if entry.ID == "" {
			b.logger.Warn("skipping backup entry without id", "name", entry.Name)
			continue
		}
		if errs := Validate(EntryFields(entry)); len(errs) > 0 {
			b.logger.Warn("skipping invalid backup entry", "id", entry.ID, "error", errs.Error())
			continue
		}

		var result model.PasswordEntry
		if _, exists := b.list.Find(entry.ID); exists {
			result, err = b.api.Update(ctx, entry.ID, entry)
			if err != nil {
				return saved, &RequestFailure{Op: OpUpdate, ID: entry.ID, Err: err}
			}
		} else {
			result, err = b.api.Create(ctx, entry)
			if err != nil {
				return saved, &RequestFailure{Op: OpCreate, ID: entry.ID, Err: err}
			}
		}
		b.list.Upsert(result)
		saved++
	}

	b.logger.Info("backup imported", "name", name, "saved", saved)
	return saved, nil
}
