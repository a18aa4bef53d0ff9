// Package repository adapts the generic row store to the users collection.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/recruiter-gateway/internal/models"
	"github.com/AnshRaj112/recruiter-gateway/internal/rowstore"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is the credential store used by the identity and OAuth services.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (*models.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
}

type rowUserRepository struct {
	store rowstore.Store
	table string
}

func NewUserRepository(store rowstore.Store, table string) UserRepository {
	return &rowUserRepository{store: store, table: table}
}

// FindByEmail returns (nil, nil) when no user has that email.
func (r *rowUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := r.store.Find(ctx, r.table, rowstore.Equal(models.ColUserEmail, models.NormalizeEmail(email)))
	if err != nil {
		return nil, fmt.Errorf("error searching user by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return models.UserFromRow(rows[0]), nil
}

func (r *rowUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row, err := r.store.Get(ctx, r.table, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return models.UserFromRow(row), nil
}

func (r *rowUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	fields := map[string]any{
		models.ColUserName:         u.Name,
		models.ColUserCompany:      u.Company,
		models.ColUserPhone:        u.Phone,
		models.ColUserEmail:        models.NormalizeEmail(u.Email),
		models.ColUserPasswordHash: u.PasswordHash,
	}
	row, err := r.store.Insert(ctx, r.table, fields)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return models.UserFromRow(row), nil
}

func (r *rowUserRepository) Update(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	row, err := r.store.Update(ctx, r.table, id, fields)
	if err != nil {
		return nil, mapErr(err)
	}
	return models.UserFromRow(row), nil
}

func (r *rowUserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.store.Update(ctx, r.table, id, map[string]any{models.ColUserRefreshToken: token})
	return mapErr(err)
}

// ClearRefreshToken writes null so the column reads back as absent.
func (r *rowUserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.store.Update(ctx, r.table, id, map[string]any{models.ColUserRefreshToken: nil})
	return mapErr(err)
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, rowstore.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
