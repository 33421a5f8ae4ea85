package tokengenerator

import (
	"crypto/rand"
	"encoding/base64"
	"inboxflow/internal/core/domain/user"
)

// tokenBytes gives 256 bits of entropy per token.
const tokenBytes = 32

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// generate panics if the system entropy source fails, no token can be issued safely then.
func (g *Generator) generate() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("could not read random bytes: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func (g *Generator) GenerateSessionToken() user.SessionToken {
	return user.SessionToken(g.generate())
}

func (g *Generator) GeneratePasswordResetToken() user.PasswordResetToken {
	return user.PasswordResetToken(g.generate())
}
