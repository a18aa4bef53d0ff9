package services

import (
	"context"
	"errors"
	"strings"

	"github.com/AnshRaj112/recruiter-gateway/internal/models"
	"github.com/AnshRaj112/recruiter-gateway/internal/repository"
	"github.com/AnshRaj112/recruiter-gateway/pkg/utils"
)

// MinPasswordLength applies to password changes.
const MinPasswordLength = 6

// Same message for unknown email and wrong password, so accounts cannot be enumerated.
const invalidCredentialsMessage = "invalid email or password"

const passwordTooLongMessage = "password must be at most 72 bytes"

type SignupInput struct {
	Name     string
	Company  string
	Phone    string
	Email    string
	Password string
}

// ProfileUpdate holds the editable profile fields; nil means "leave unchanged".
type ProfileUpdate struct {
	Name      *string
	Company   *string
	AvatarURL *string
}

func (p ProfileUpdate) fields() map[string]any {
	fields := map[string]any{}
	if p.Name != nil {
		fields[models.ColUserName] = *p.Name
	}
	if p.Company != nil {
		fields[models.ColUserCompany] = *p.Company
	}
	if p.AvatarURL != nil {
		fields[models.ColUserAvatarURL] = *p.AvatarURL
	}
	return fields
}

// IdentityService handles account creation, login and profile maintenance.
type IdentityService struct {
	users        repository.UserRepository
	locker       EmailLocker
	hashPassword func(string) (string, error)
}

func NewIdentityService(users repository.UserRepository, locker EmailLocker) *IdentityService {
	return &IdentityService{
		users:        users,
		locker:       locker,
		hashPassword: utils.HashPassword,
	}
}

// Signup creates an account. Exactly one row is inserted on success and none on failure.
func (s *IdentityService) Signup(ctx context.Context, in SignupInput) (*models.Profile, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, validationError("name, email and password are required")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, validationError(passwordTooLongMessage)
	}
	email := models.NormalizeEmail(in.Email)

	unlock, err := s.locker.Lock(ctx, email)
	if errors.Is(err, ErrLockHeld) {
		return nil, newError(ErrConflict, "a signup for this email is already in progress", err)
	}
	if err != nil {
		return nil, internalError("could not create account", err)
	}
	defer unlock()

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, internalError("could not create account", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "this email is already registered", nil)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, internalError("could not create account", err)
	}

	created, err := s.users.Create(ctx, &models.User{
		Name:         in.Name,
		Company:      in.Company,
		Phone:        in.Phone,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, internalError("could not create account", err)
	}

	profile := created.Profile()
	return &profile, nil
}

// Login verifies credentials. No session is issued here.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, internalError("could not log in", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, newError(ErrInvalidCredentials, invalidCredentialsMessage, nil)
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, newError(ErrInvalidCredentials, invalidCredentialsMessage, err)
	}

	profile := user.Profile()
	return &profile, nil
}

// ChangePassword replaces only the hash column.
func (s *IdentityService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if strings.TrimSpace(userID) == "" || newPassword == "" {
		return validationError("user id and new password are required")
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return validationError("password must be at least 6 characters")
	}
	if len(newPassword) > utils.MaxPasswordBytes {
		return validationError(passwordTooLongMessage)
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return internalError("could not update password", err)
	}

	if _, err := s.users.Update(ctx, userID, map[string]any{models.ColUserPasswordHash: hash}); err != nil {
		return s.lookupError(err, "could not update password")
	}
	return nil
}

// UpdateProfile patches name, company and avatar URL; anything else is ignored.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("user id is required")
	}
	fields := upd.fields()
	if len(fields) == 0 {
		return nil, validationError("no data to update")
	}

	updated, err := s.users.Update(ctx, userID, fields)
	if err != nil {
		return nil, s.lookupError(err, "could not update profile")
	}
	profile := updated.Profile()
	return &profile, nil
}

func (s *IdentityService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("user id is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.lookupError(err, "could not load user profile")
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *IdentityService) lookupError(err error, msg string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return newError(ErrNotFound, "user not found", err)
	}
	return internalError(msg, err)
}
