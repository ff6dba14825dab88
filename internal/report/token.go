// ActionToken encoding: a versioned, HMAC-signed serialization that carries
// the full pending-action context across the approval boundary. The backend
// stores nothing; decode must reconstruct every field exactly.

package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVersion is bumped whenever the token payload shape changes.
const TokenVersion = 1

var ErrInvalidToken = errors.New("invalid action token")

type TokenCodec struct {
	secret []byte
}

type tokenClaims struct {
	Token model.ActionToken `json:"token"`
	jwt.RegisteredClaims
}

func NewTokenCodec(cfg config.TokenConfig) (*TokenCodec, error) {
	if cfg.SigningSecret == "" {
		return nil, fmt.Errorf("missing TOKEN_SIGNING_SECRET")
	}
	return &TokenCodec{secret: []byte(cfg.SigningSecret)}, nil
}

// Encode signs the token as an HS256 JWT. The signature closes the
// tamper-resistance gap of carrying state inside a chat button payload.
func (c *TokenCodec) Encode(token model.ActionToken) (string, error) {
	claims := tokenClaims{
		Token: token,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       token.TokenID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and reconstructs the token. Any signature,
// parse, or version mismatch collapses into ErrInvalidToken.
func (c *TokenCodec) Decode(encoded string) (*model.ActionToken, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(encoded, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Token.Version != TokenVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidToken, claims.Token.Version)
	}
	token := claims.Token
	return &token, nil
}
