package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fmtlab/fmtlab/internal/config"
	"github.com/fmtlab/fmtlab/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeBearer is the token type reported to clients
const TokenTypeBearer = "Bearer"

// Identity is the authenticated principal carried by a validated token.
type Identity struct {
	UserID    uint
	Username  string
	ExpiresAt time.Time
}

// Issuer mints and validates signed identity assertions. Signing is HS256
// with the process-wide symmetric key; the lifetime is fixed at issuance.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration

	// now is replaceable in tests to pin the issuance or validation instant
	now func() time.Time
}

// NewIssuer creates a token issuer from process-wide configuration.
func NewIssuer(cfg *config.Config) *Issuer {
	return &Issuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		lifetime: cfg.JWTExpiration,
		now:      time.Now,
	}
}

// Issue creates a signed token for the authenticated user. Apart from jti
// and iat there is no randomness: identical users at the same instant yield
// identical claim sets.
func (i *Issuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"name": user.Username,
		"iss":  i.issuer,
		"aud":  i.audience,
		"iat":  now.Unix(),
		"exp":  now.Add(i.lifetime).Unix(),
		"jti":  uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return tokenString, nil
}

// Validate verifies the token signature, issuer, audience and lifetime, and
// extracts the caller's identity.
func (i *Issuer) Validate(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject claim", ErrInvalidToken)
	}

	name, _ := claims["name"].(string)

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:    uint(userID),
		Username:  name,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
