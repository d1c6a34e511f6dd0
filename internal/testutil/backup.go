package testutil

import (
	"pwcards/internal/encryption"
	"pwcards/internal/vault"
)

// NewTestEncryptor creates a configured, crypto-free encryptor.
func NewTestEncryptor() *encryption.TestEncryptor {
	return encryption.NewTestEncryptor()
}

// NewTestVault creates a new in-memory vault.
func NewTestVault() *vault.MemoryVault {
	return vault.NewMemoryVault("test-vault")
}
