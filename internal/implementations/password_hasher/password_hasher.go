package passwordhasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"inboxflow/internal/core/domain/user"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt peppers passwords with the server secret. The HMAC pre-hash keeps
// long passwords within the 72 byte input limit of bcrypt.
type Bcrypt struct {
	secret string
	cost   int
}

func NewBcrypt(secret string, cost int) *Bcrypt {
	return &Bcrypt{secret: secret, cost: cost}
}

func (h *Bcrypt) peppered(password user.RawPassword) []byte {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(mac.Sum(nil)))
}

func (h *Bcrypt) HashPassword(password user.RawPassword) (hash user.PasswordHash, err error) {
	bcryptHash, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return hash, err
	}
	return user.PasswordHash(bcryptHash), nil
}

func (h *Bcrypt) ValidatePassword(password user.RawPassword, hash user.PasswordHash) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password))
	return err == nil
}
