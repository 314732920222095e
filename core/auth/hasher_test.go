package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Pa$$w0rd!")
	if err != nil {
		t.Fatalf("Hash() failed: %v", err)
	}
	other, err := hasher.Hash("Pa$$w0rd!")
	if err != nil {
		t.Fatalf("Hash() failed: %v", err)
	}
	if hash == other {
		t.Error("Hash() is not salted: same password gave the same hash")
	}

	tests := []struct {
		name string
		pwd  string
		hash string
		want bool
	}{
		{name: "valid password", pwd: "Pa$$w0rd!", hash: hash, want: true},
		{name: "valid password (other salt)", pwd: "Pa$$w0rd!", hash: other, want: true},
		{name: "wrong password", pwd: "pa$$w0rd!", hash: hash},
		{name: "empty password", hash: hash},
		{name: "empty hash", pwd: "Pa$$w0rd!"},
		{name: "malformed hash", pwd: "Pa$$w0rd!", hash: "$2a$10$lol"},
		{name: "plaintext stored as hash", pwd: "Pa$$w0rd!", hash: "Pa$$w0rd!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasher.Verify(tt.pwd, tt.hash); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewBcryptHasher_cost(t *testing.T) {
	if got := NewBcryptHasher().cost; got != bcrypt.DefaultCost {
		t.Errorf("default cost = %d, want %d", got, bcrypt.DefaultCost)
	}
	if got := NewBcryptHasher(100).cost; got != bcrypt.DefaultCost {
		t.Errorf("out of range cost = %d, want %d", got, bcrypt.DefaultCost)
	}
}
