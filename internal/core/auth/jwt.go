// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sheetboard/pkg/utils"
)

const DefaultIssuer = "sheetboard"

var (
	ErrNoSecret     = errors.New("jwt secret is not configured")
	ErrMissingUser  = errors.New("token carries no user id")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries only the user id. Role and blocked state are read from the store per request.
type Claims struct {
	UID string `json:"id"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	TTL    time.Duration
	Issuer string // DefaultIssuer when empty

	now func() time.Time
}

func (j *JWTer) issuer() string {
	if j.Issuer == "" {
		return DefaultIssuer
	}
	return j.Issuer
}

func (j *JWTer) clock() time.Time {
	if j.now != nil {
		return j.now()
	}
	return time.Now()
}

// Issue signs an HS256 token for uid that expires after TTL.
func (j *JWTer) Issue(uid string) (string, error) {
	if len(j.Secret) == 0 {
		return "", ErrNoSecret
	}
	if uid == "" {
		return "", ErrMissingUser
	}
	now := j.clock()
	claims := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utils.NewID(),
			Issuer:    j.issuer(),
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

// Parse verifies signature, issuer and expiry. Errors wrap the jwt package sentinels.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	var c Claims
	t, err := jwt.ParseWithClaims(tokenStr, &c,
		func(*jwt.Token) (any, error) { return j.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer()),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.clock),
	)
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	if c.UID == "" {
		return nil, ErrMissingUser
	}
	return &c, nil
}
