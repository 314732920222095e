package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

var (
	// ErrInvalidToken is returned for any token that fails to decode: bad signature, malformed or expired.
	ErrInvalidToken = errors.New("invalid token")

	errUnsupportedAlg = errors.New("unsupported signing algorithm")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserType string `json:"user_type"`
}

// TokenData is what a valid token says about its bearer.
type TokenData struct {
	Subject   string
	UserType  string
	ExpiresAt time.Time
}

// TokenCodec issues and decodes signed, time-limited bearer tokens.
type TokenCodec interface {
	Issue(subject, userType string) (string, error)
	Decode(token string) (TokenData, error)
}

type jwtCodec struct {
	key     []byte
	method  jwt.SigningMethod
	ttl     time.Duration
	issuer  string
	nowFunc func() time.Time // mockable
}

var _ TokenCodec = (*jwtCodec)(nil)

// NewTokenCodec returns an HMAC JWT codec configured from conf.JWT.
func NewTokenCodec(conf *core.Config) (TokenCodec, error) {
	method, ok := jwt.GetSigningMethod(conf.JWT.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnsupportedAlg, conf.JWT.Algorithm)
	}
	if conf.JWT.SecretKey == "" {
		return nil, errors.New("empty JWT secret")
	}
	ttl := conf.JWT.ExpirationDelta
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &jwtCodec{
		key:     []byte(conf.JWT.SecretKey),
		method:  method,
		ttl:     ttl,
		issuer:  conf.AppName,
		nowFunc: time.Now,
	}, nil
}

func (c *jwtCodec) Issue(subject, userType string) (string, error) {
	now := c.nowFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(c.ttl).Unix(),
		},
		UserType: userType,
	}
	ss, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return ss, nil
}

func (c *jwtCodec) Decode(token string) (TokenData, error) {
	if token == "" {
		return TokenData{}, ErrInvalidToken
	}

	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, errUnsupportedAlg
		}
		return c.key, nil
	})
	if err != nil || !parsed.Valid {
		return TokenData{}, ErrInvalidToken
	}

	// jwt-go treats a missing exp as valid: tokens here are always time-limited
	if claims.Subject == "" || claims.ExpiresAt == 0 || c.nowFunc().Unix() > claims.ExpiresAt {
		return TokenData{}, ErrInvalidToken
	}
	return TokenData{
		Subject:   claims.Subject,
		UserType:  claims.UserType,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
	}, nil
}
