package password

import (
	"errors"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "FlaskIsAwesome123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "minimal password", password: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if got == "" || got == tt.password {
				t.Errorf("Hash() returned %q, want a hash different from the password", got)
			}
			if err := Compare(got, tt.password); err != nil {
				t.Errorf("generated hash doesn't work with original password: %v", err)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	correctHash, err := Hash("correct_password")
	if err != nil {
		t.Fatalf("failed to create test hash: %v", err)
	}

	tests := []struct {
		name    string
		hash    string
		plain   string
		wantErr error
		anyErr  bool
	}{
		{name: "matching password", hash: correctHash, plain: "correct_password"},
		{name: "wrong password", hash: correctHash, plain: "wrong_password", wantErr: ErrMismatch},
		{name: "empty password", hash: correctHash, plain: "", wantErr: ErrMismatch},
		{name: "broken hash", hash: "not-a-bcrypt-hash", plain: "correct_password", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Compare(tt.hash, tt.plain)
			switch {
			case tt.anyErr:
				if err == nil || errors.Is(err, ErrMismatch) {
					t.Errorf("Compare() = %v, want a non-mismatch error", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Compare() = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Errorf("Compare() should succeed, got error: %v", err)
				}
			}
		})
	}
}

func TestHash_Salted(t *testing.T) {
	hash1, err := Hash("same_password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	hash2, err := Hash("same_password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash1 == hash2 {
		t.Error("same password produced identical hashes")
	}
}
