package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
)

const operatorsCollection = "operators"

// OperatorService authenticates door staff against the operators collection.
// The check-in core itself never authenticates: it takes the operator display
// name the caller resolved here.
type OperatorService struct {
	app core.App
}

func NewOperatorService(app core.App) *OperatorService {
	return &OperatorService{app: app}
}

func (s *OperatorService) Authenticate(ctx context.Context, username, password string) (*models.Operator, error) {
	rec, err := s.app.FindFirstRecordByData(operatorsCollection, "username", strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.GetString("passwordHash")), []byte(password)) != nil {
		return nil, status.ErrInvalidCredentials
	}

	return &models.Operator{
		ID:       rec.Id,
		Username: rec.GetString("username"),
		Name:     rec.GetString("name"),
		Role:     rec.GetString("role"),
	}, nil
}

// EnsureDefaultAdmin seeds the admin operator on first boot so a fresh
// deployment is usable. No-op when an admin already exists.
func (s *OperatorService) EnsureDefaultAdmin(password string) error {
	if _, err := s.app.FindFirstRecordByData(operatorsCollection, "username", "admin"); err == nil {
		return nil
	}

	collection, err := s.app.FindCollectionByNameOrId(operatorsCollection)
	if err != nil {
		return fmt.Errorf("find operators collection: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	rec := core.NewRecord(collection)
	rec.Set("username", "admin")
	rec.Set("name", "Administrator")
	rec.Set("role", "ADMIN")
	rec.Set("passwordHash", string(hash))
	if err := s.app.Save(rec); err != nil {
		return fmt.Errorf("save default admin: %w", err)
	}

	slog.Info("seeded default admin operator")
	return nil
}
