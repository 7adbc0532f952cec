package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/khanghh/kattend/model"
)

// TokenClaims is the payload of a session token.
type TokenClaims struct {
	UserID string     `json:"id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// ID returns the numeric user id carried by the token.
func (c *TokenClaims) ID() (uint, error) {
	id, err := strconv.ParseUint(c.UserID, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

type TokenIssuer struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// Issue signs a HS256 token for user that expires after the configured lifetime.
func (t *TokenIssuer) Issue(user *model.User) (string, error) {
	now := t.now()
	claims := TokenClaims{
		UserID: strconv.FormatUint(uint64(user.ID), 10),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies signature and expiry of a token and returns its claims.
func (t *TokenIssuer) Parse(tokenStr string) (*TokenClaims, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.ID(); err != nil {
		return nil, err
	}
	return &claims, nil
}

func NewTokenIssuer(secret string, expiration time.Duration, issuer string) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		expiration: expiration,
		issuer:     issuer,
		now:        time.Now,
	}
}
