package encryption

import (
	"testing"

	"pwcards/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EncryptionConfig
		wantErr bool
	}{
		{"age", config.EncryptionConfig{Type: "age", PublicKeyPath: "/k.pub", PrivateKeyPath: "/k.key"}, false},
		{"default type is age", config.EncryptionConfig{PublicKeyPath: "/k.pub", PrivateKeyPath: "/k.key"}, false},
		{"age without paths", config.EncryptionConfig{Type: "age"}, true},
		{"test", config.EncryptionConfig{Type: "test"}, false},
		{"unknown", config.EncryptionConfig{Type: "rot13"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncryptorFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncryptorFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && enc == nil {
				t.Fatal("NewEncryptorFromConfig() returned nil encryptor")
			}
		})
	}
}
