package auth

import "golang.org/x/crypto/bcrypt"

// Hasher hashes passwords and verifies plaintext candidates against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	// Verify fails closed: a malformed hash never matches.
	Verify(password, hash string) bool
}

type BcryptHasher struct {
	cost int
}

var _ Hasher = (*BcryptHasher)(nil)

// NewBcryptHasher returns a Hasher using bcrypt with the given cost (bcrypt.DefaultCost if none).
func NewBcryptHasher(cost ...int) *BcryptHasher {
	c := bcrypt.DefaultCost
	if len(cost) > 0 && cost[0] >= bcrypt.MinCost && cost[0] <= bcrypt.MaxCost {
		c = cost[0]
	}
	return &BcryptHasher{cost: c}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
