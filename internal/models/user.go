package models

import (
	"strings"

	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
)

// Column names of the users table in the row store.
const (
	ColUserName         = "nome"
	ColUserCompany      = "empresa"
	ColUserPhone        = "telefone"
	ColUserEmail        = "Email"
	ColUserPasswordHash = "senha_hash"
	ColUserAvatarURL    = "avatar_url"
	ColUserRefreshToken = "google_refresh_token"
)

type User struct {
	ID           string
	Name         string
	Company      string
	Phone        string
	Email        string
	PasswordHash string
	AvatarURL    string
	RefreshToken string
}

// Profile is the public projection of a User. It has no hash or token field,
// so neither can leak through any response that embeds it.
type Profile struct {
	ID              string  `json:"id"`
	Name            string  `json:"nome"`
	Email           string  `json:"email"`
	Company         string  `json:"empresa"`
	Phone           string  `json:"telefone"`
	AvatarURL       *string `json:"avatar_url"`
	GoogleConnected bool    `json:"google_connected"`
}

// NormalizeEmail is applied before every read or write of the email column.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserFromRow maps a users-table row. Missing or null columns become "".
func UserFromRow(row rowstore.Row) *User {
	return &User{
		ID:           row.ID(),
		Name:         row.String(ColUserName),
		Company:      row.String(ColUserCompany),
		Phone:        row.String(ColUserPhone),
		Email:        row.String(ColUserEmail),
		PasswordHash: row.String(ColUserPasswordHash),
		AvatarURL:    row.String(ColUserAvatarURL),
		RefreshToken: row.String(ColUserRefreshToken),
	}
}

// HasGoogleGrant is the single definition of "connected": a non-empty refresh token.
func (u *User) HasGoogleGrant() bool {
	return u != nil && strings.TrimSpace(u.RefreshToken) != ""
}

func (u *User) Profile() Profile {
	p := Profile{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Company:         u.Company,
		Phone:           u.Phone,
		GoogleConnected: u.HasGoogleGrant(),
	}
	if u.AvatarURL != "" {
		avatar := u.AvatarURL
		p.AvatarURL = &avatar
	}
	return p
}
