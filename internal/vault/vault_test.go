package vault

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pwcards/internal/cards"
)

// testVaultContract runs the behavior every cards.Vault must share.
func testVaultContract(t *testing.T, newVault func(t *testing.T) cards.Vault) {
	ctx := context.Background()

	t.Run("put then get", func(t *testing.T) {
		v := newVault(t)
		data := "sealed backup"

		if err := v.Put(ctx, "backups/a.json.age", strings.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := v.Get(ctx, "backups/a.json.age", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != data {
			t.Errorf("Get() = %q, want %q", buf.String(), data)
		}
	})

	t.Run("put replaces existing object", func(t *testing.T) {
		v := newVault(t)
		v.Put(ctx, "backups/a", strings.NewReader("old"), 3)

		if err := v.Put(ctx, "backups/a", strings.NewReader("newer"), 5); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := v.Get(ctx, "backups/a", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if buf.String() != "newer" {
			t.Errorf("Get() = %q, want %q", buf.String(), "newer")
		}
	})

	t.Run("size mismatch", func(t *testing.T) {
		v := newVault(t)
		if err := v.Put(ctx, "backups/a", strings.NewReader("abc"), 10); err == nil {
			t.Error("Put() expected size mismatch error")
		}
	})

	t.Run("get missing object", func(t *testing.T) {
		v := newVault(t)
		var buf bytes.Buffer
		if err := v.Get(ctx, "backups/missing", &buf); err == nil {
			t.Error("Get() expected error for missing object")
		}
	})

	t.Run("rejects escaping names", func(t *testing.T) {
		v := newVault(t)
		for _, name := range []string{"", "/etc/passwd", "../outside", "backups/../../x"} {
			if err := v.Put(ctx, name, strings.NewReader("x"), 1); err == nil {
				t.Errorf("Put(%q) expected error", name)
			}
		}
	})

	t.Run("list by prefix sorted", func(t *testing.T) {
		v := newVault(t)
		for _, name := range []string{"backups/b", "other/c", "backups/a"} {
			if err := v.Put(ctx, name, strings.NewReader("x"), 1); err != nil {
				t.Fatalf("Put(%q) error = %v", name, err)
			}
		}

		got, err := v.List(ctx, "backups/")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if diff := cmp.Diff([]string{"backups/a", "backups/b"}, got); diff != "" {
			t.Errorf("List() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("list empty", func(t *testing.T) {
		v := newVault(t)
		got, err := v.List(ctx, "backups/")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("List() = %v, want empty", got)
		}
	})

	t.Run("validate setup", func(t *testing.T) {
		v := newVault(t)
		if err := v.ValidateSetup(ctx); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})
}

func TestMemoryVault(t *testing.T) {
	testVaultContract(t, func(t *testing.T) cards.Vault {
		return NewMemoryVault("test")
	})
}

func TestFileSystemVault(t *testing.T) {
	testVaultContract(t, func(t *testing.T) cards.Vault {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		return v
	})
}

func TestS3Vault(t *testing.T) {
	testVaultContract(t, func(t *testing.T) cards.Vault {
		fake := newFakeS3()
		return newS3Vault("test", "bucket", "pw", fake, fake)
	})
}
