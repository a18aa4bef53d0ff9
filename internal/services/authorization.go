package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/oauth2"

	"github.com/AnshRaj112/recruiter-gateway/internal/repository"
)

// CodeExchanger is the part of the OAuth provider the authorization flow needs.
type CodeExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// CallbackOutcome describes what a successful callback did.
type CallbackOutcome string

const (
	CallbackNoCode         CallbackOutcome = "no_code"
	CallbackStored         CallbackOutcome = "stored"
	CallbackNoRefreshToken CallbackOutcome = "no_refresh_token"
)

// Callback failure kinds, used for operator-facing logs and events.
const (
	CallbackKindMissingState   = "missing_state"
	CallbackKindExchangeFailed = "exchange_failed"
	CallbackKindPersistFailed  = "persist_failed"
)

// CallbackError is returned by HandleCallback; callers never show it to the user.
type CallbackError struct {
	Kind   string
	UserID string
	Err    error
}

func (e *CallbackError) Error() string {
	if e.Err == nil {
		return "oauth callback " + e.Kind
	}
	return "oauth callback " + e.Kind + ": " + e.Err.Error()
}

func (e *CallbackError) Unwrap() error { return e.Err }

// AuthorizationService manages the per-user Google grant, which exists only as
// the refresh token column on the user row.
type AuthorizationService struct {
	users repository.UserRepository
	oauth CodeExchanger
}

func NewAuthorizationService(users repository.UserRepository, oauth CodeExchanger) *AuthorizationService {
	return &AuthorizationService{users: users, oauth: oauth}
}

// ConnectURL builds the consent URL. The user id travels as the state parameter
// so the callback can find the user without a server-side session.
func (s *AuthorizationService) ConnectURL(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", validationError("userId is required")
	}
	return s.oauth.AuthCodeURL(userID), nil
}

// HandleCallback exchanges code for tokens and stores the refresh token, if
// any, on the user named by state. A response without a refresh token leaves
// the stored one untouched.
func (s *AuthorizationService) HandleCallback(ctx context.Context, code, state string) (CallbackOutcome, error) {
	if code == "" {
		return CallbackNoCode, nil
	}
	userID := strings.TrimSpace(state)
	if userID == "" {
		return "", &CallbackError{Kind: CallbackKindMissingState}
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", &CallbackError{Kind: CallbackKindExchangeFailed, UserID: userID, Err: err}
	}
	if token.RefreshToken == "" {
		return CallbackNoRefreshToken, nil
	}

	if err := s.users.SetRefreshToken(ctx, userID, token.RefreshToken); err != nil {
		return "", &CallbackError{Kind: CallbackKindPersistFailed, UserID: userID, Err: err}
	}
	return CallbackStored, nil
}

// Disconnect clears the stored grant. Clearing an absent grant succeeds.
func (s *AuthorizationService) Disconnect(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return validationError("userId is required")
	}
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return newError(ErrNotFound, "user not found", err)
		}
		return internalError("could not disconnect google account", err)
	}
	return nil
}

// Status reports whether the user currently holds a grant.
func (s *AuthorizationService) Status(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, validationError("userId is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, newError(ErrNotFound, "user not found", err)
		}
		return false, internalError("could not check connection status", err)
	}
	return user.HasGoogleGrant(), nil
}
