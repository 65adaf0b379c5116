package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	actor := user.Actor{EmployeeID: "hr-1", Roles: []user.Role{user.RoleEmployee, user.RoleHR}, Branch: "JKT"}

	token, expiresAt, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims["type"])

	got, err := ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestSSEToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	actor := user.Actor{EmployeeID: "md-1", Roles: []user.Role{user.RoleMD}}

	token, expiresIn, err := svc.GenerateSSEToken(actor)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	got, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)

	access, _, err := svc.GenerateAccessToken(actor)
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)

	other := NewJWTService("other-secret", time.Hour)
	_, err = other.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestActorFromClaims(t *testing.T) {
	_, err := ActorFromClaims(map[string]interface{}{"roles": []interface{}{"hr"}})
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = ActorFromClaims(map[string]interface{}{"employee_id": "e", "roles": []interface{}{"owner"}})
	assert.ErrorIs(t, err, ErrInvalidClaims)

	a, err := ActorFromClaims(map[string]interface{}{"employee_id": "e", "roles": []interface{}{"employee", "bogus"}, "branch": "BDG"})
	require.NoError(t, err)
	assert.Equal(t, []user.Role{user.RoleEmployee}, a.Roles)
	assert.Equal(t, "BDG", a.Branch)
}
