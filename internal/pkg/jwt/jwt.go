package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL = 5 * time.Minute
)

var ErrInvalidClaims = errors.New("token claims do not carry an employee identity")

// Service verifies bearer tokens and maps their claims to a user.Actor.
// Issuing access tokens belongs to the identity provider; GenerateAccessToken
// exists for local tooling and tests.
type Service interface {
	GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error)
	GenerateSSEToken(actor user.Actor) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Actor, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()
	_, token, err = j.tokenAuth.Encode(actorClaims(actor, TokenTypeAccess, expiresAt))
	return token, expiresAt, err
}

// GenerateSSEToken mints a short-lived token for EventSource clients, which
// cannot send an Authorization header.
func (j *JWTService) GenerateSSEToken(actor user.Actor) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenTTL).Unix()
	_, token, err = j.tokenAuth.Encode(actorClaims(actor, TokenTypeSSE, expiresAt))
	if err != nil {
		return "", 0, err
	}
	return token, int(sseTokenTTL.Seconds()), nil
}

func (j *JWTService) ValidateSSEToken(tokenString string) (user.Actor, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Actor{}, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Actor{}, err
	}
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeSSE {
		return user.Actor{}, jwt.ErrInvalidJWT()
	}
	return ActorFromClaims(claims)
}

func actorClaims(actor user.Actor, tokenType string, expiresAt int64) map[string]interface{} {
	roles := make([]string, 0, len(actor.Roles))
	for _, r := range actor.Roles {
		roles = append(roles, string(r))
	}
	return map[string]interface{}{
		"employee_id": actor.EmployeeID,
		"roles":       roles,
		"branch":      actor.Branch,
		"type":        tokenType,
		"exp":         expiresAt,
	}
}

// ActorFromClaims builds the identity context from decoded token claims.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		return user.Actor{}, ErrInvalidClaims
	}
	branch, _ := claims["branch"].(string)

	var raw []string
	switch v := claims["roles"].(type) {
	case []string:
		raw = v
	case []interface{}:
		for _, r := range v {
			if s, ok := r.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	roles := user.ParseRoles(raw)
	if len(roles) == 0 {
		return user.Actor{}, ErrInvalidClaims
	}

	return user.Actor{EmployeeID: employeeID, Roles: roles, Branch: branch}, nil
}
