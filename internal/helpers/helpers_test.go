package helpers

import (
	"testing"

	"github.com/joshua-takyi/eventradar/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc.def", BearerToken("Bearer abc.def"))
	assert.Equal(t, "abc.def", BearerToken("bearer   abc.def "))
	assert.Empty(t, BearerToken("Basic Zm9vOmJhcg=="))
	assert.Empty(t, BearerToken("Bearer "))
	assert.Empty(t, BearerToken(""))
}

func TestStringTrim(t *testing.T) {
	assert.Equal(t, "123", StringTrim(` "123" `))
	assert.Equal(t, "abc", StringTrim("'abc'"))
}

func TestEnhancedClaimsActor(t *testing.T) {
	var nilClaims *EnhancedClaims
	assert.Nil(t, nilClaims.Actor())

	claims := &EnhancedClaims{CustomClaims: &CustomClaims{}, UserID: "u1"}
	actor := claims.Actor()
	assert.Equal(t, "u1", actor.UserID)
	assert.Equal(t, models.RoleUser, actor.Role)
	assert.False(t, claims.IsAdmin())

	claims.Role = models.RoleAdmin
	assert.True(t, claims.Actor().IsAdmin())
}
