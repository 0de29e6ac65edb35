package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCode = errors.New("invalid access code")

// AccessCode is a shared team code. Only its bcrypt hash is stored.
type AccessCode struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Label     string    `gorm:"not null;default:''"`
	CodeHash  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (a *AccessCode) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func HashCode(code string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type Codes struct {
	DB *gorm.DB
}

// Add stores a new access code.
func (c *Codes) Add(ctx context.Context, label, code string) (*AccessCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("access code is empty")
	}
	hash, err := HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash access code: %w", err)
	}
	ac := AccessCode{Label: strings.TrimSpace(label), CodeHash: hash}
	if err := c.DB.WithContext(ctx).Create(&ac).Error; err != nil {
		return nil, fmt.Errorf("insert access code: %w", err)
	}
	return &ac, nil
}

// Verify returns the matching code row or ErrInvalidCode.
func (c *Codes) Verify(ctx context.Context, code string) (*AccessCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidCode
	}

	var all []AccessCode
	if err := c.DB.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, fmt.Errorf("load access codes: %w", err)
	}
	for i := range all {
		if bcrypt.CompareHashAndPassword([]byte(all[i].CodeHash), []byte(code)) == nil {
			return &all[i], nil
		}
	}
	return nil, ErrInvalidCode
}
