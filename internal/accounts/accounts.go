package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hospital-locator/internal/models"
	"hospital-locator/internal/storage"
)

var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingField       = errors.New("username, email and password are required")
	ErrNotFound           = errors.New("account not found")
	ErrStore              = errors.New("account store failure")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateAccount registers a new account and returns its id.
func (s *Store) CreateAccount(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return 0, ErrMissingField
	}

	var existing models.Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return 0, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: lookup email: %v", ErrStore, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%w: hash password: %v", ErrStore, err)
	}

	account := models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		// A concurrent signup can pass the check above; the unique index
		// decides.
		if constraint, ok := storage.UniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return 0, ErrDuplicateEmail
			}
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("%w: insert account: %v", ErrStore, err)
	}

	return account.ID, nil
}

// Authenticate returns the account for email if password matches its hash.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("%w: lookup email: %v", ErrStore, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &account, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).First(&account, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("%w: lookup id: %v", ErrStore, err)
	}
	return &account, nil
}
