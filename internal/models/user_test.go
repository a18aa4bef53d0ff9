package models

import (
	"encoding/json"
	"testing"

	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFromRow(t *testing.T) {
	u := UserFromRow(rowstore.Row{
		"id":                   float64(3),
		"nome":                 "Ana",
		"empresa":              "Acme",
		"Email":                "ana@acme.com",
		"senha_hash":           "$2a$10$x",
		"avatar_url":           nil,
		"google_refresh_token": "1//tok",
	})

	assert.Equal(t, "3", u.ID)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "", u.Phone)
	assert.Equal(t, "", u.AvatarURL)
	assert.True(t, u.HasGoogleGrant())
}

func TestHasGoogleGrant(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.HasGoogleGrant())
	assert.False(t, (&User{}).HasGoogleGrant())
	assert.False(t, (&User{RefreshToken: "  "}).HasGoogleGrant())
	assert.True(t, (&User{RefreshToken: "x"}).HasGoogleGrant())
}

func TestProfile_NeverCarriesSecrets(t *testing.T) {
	u := &User{ID: "1", Email: "a@x.com", PasswordHash: "HASH-VALUE", RefreshToken: "REFRESH-VALUE"}

	body, err := json.Marshal(u.Profile())
	require.NoError(t, err)

	assert.NotContains(t, string(body), "HASH-VALUE")
	assert.NotContains(t, string(body), "REFRESH-VALUE")
	assert.Contains(t, string(body), `"google_connected":true`)
	assert.Contains(t, string(body), `"avatar_url":null`)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}
