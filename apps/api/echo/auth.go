package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var (
	contextTokenKey = "userToken"
	contextOwnerKey = "owner"
)

// Claims represents the authorization claims transmitted via a JWT.
// Tokens are issued by the identity service; the subject is the user's UUID.
type Claims struct {
	jwt.StandardClaims
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// NewClaims returns the claims of a token for owner, valid for ttl.
func NewClaims(conf *core.Config, owner uuid.UUID, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   owner.String(),
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextOwner returns the UUID of the authenticated user.
func getContextOwner(ctx echo.Context) (uuid.UUID, error) {
	if owner, ok := ctx.Get(contextOwnerKey).(uuid.UUID); ok {
		return owner, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	owner, err := uuid.Parse(claims.Subject)
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, errUnauthorized
	}
	ctx.Set(contextOwnerKey, owner)
	return owner, nil
}
