// Package service manages the signed-in account's authenticator (TOTP) enrollment.
package service

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pquerna/otp"
	"go.uber.org/zap"

	"numis/console/internal/api"
	"numis/console/internal/mfa"
	"numis/console/internal/mfa/domain"
	"numis/console/internal/mfa/repository"
	userdomain "numis/console/internal/user/domain"
)

var (
	// ErrAlreadyEnabled is returned by Setup when the backend answers 409.
	ErrAlreadyEnabled = errors.New("MFA is already enabled")
	// ErrBadProvisioningURI is returned when the backend's URI is not an otpauth URI.
	ErrBadProvisioningURI = errors.New("the server sent a malformed provisioning URI")
)

// DefaultQRSize is the edge length in pixels of the enrollment QR code.
const DefaultQRSize = 256

// UserReader returns the signed-in account.
type UserReader interface {
	Me(ctx context.Context) (*userdomain.User, error)
}

// MFAService drives enrollment: status, setup, verify and disable.
type MFAService struct {
	repo   repository.Repository
	users  UserReader
	logger *zap.Logger
}

// NewMFAService returns an MFAService. logger may be nil.
func NewMFAService(repo repository.Repository, users UserReader, logger *zap.Logger) *MFAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MFAService{repo: repo, users: users, logger: logger}
}

// Status reports whether the account has a second factor.
func (s *MFAService) Status(ctx context.Context) (*domain.Status, error) {
	u, err := s.users.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("mfa status: %w", err)
	}
	return &domain.Status{Email: u.Email, Enabled: u.IsMFAEnabled}, nil
}

// Setup asks the backend for a new secret and decodes its provisioning URI.
func (s *MFAService) Setup(ctx context.Context) (*domain.Enrollment, error) {
	uri, err := s.repo.Setup(ctx)
	if err != nil {
		if api.IsConflict(err) {
			return nil, ErrAlreadyEnabled
		}
		return nil, fmt.Errorf("mfa setup: %w", err)
	}
	e, err := ParseEnrollment(uri)
	if err != nil {
		return nil, err
	}
	s.logger.Info("mfa: enrollment started", zap.String("issuer", e.Issuer))
	return e, nil
}

// Verify confirms an enrollment with a code from the authenticator app.
func (s *MFAService) Verify(ctx context.Context, code string) (string, error) {
	normalized, err := mfa.CheckCode(code)
	if err != nil {
		return "", err
	}
	detail, err := s.repo.Verify(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("mfa verify: %w", err)
	}
	return detail, nil
}

// Disable turns the second factor off. The backend requires a current code.
func (s *MFAService) Disable(ctx context.Context, code string) (string, error) {
	normalized, err := mfa.CheckCode(code)
	if err != nil {
		return "", err
	}
	detail, err := s.repo.Disable(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("mfa disable: %w", err)
	}
	return detail, nil
}

// ParseEnrollment decodes an otpauth:// URI.
func ParseEnrollment(uri string) (*domain.Enrollment, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil || key.Type() != "totp" || key.Secret() == "" {
		return nil, ErrBadProvisioningURI
	}
	return &domain.Enrollment{
		URI:     uri,
		Issuer:  key.Issuer(),
		Account: key.AccountName(),
		Secret:  key.Secret(),
		Digits:  key.Digits().Length(),
		Period:  key.Period(),
	}, nil
}

// WriteQR renders the enrollment as a PNG QR code at path with mode 0600.
func WriteQR(e *domain.Enrollment, path string, size int) error {
	if size <= 0 {
		size = DefaultQRSize
	}
	key, err := otp.NewKeyFromURL(e.URI)
	if err != nil {
		return ErrBadProvisioningURI
	}
	img, err := key.Image(size, size)
	if err != nil {
		return fmt.Errorf("mfa: render qr: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("mfa: create qr dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("mfa: create qr file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("mfa: encode qr: %w", err)
	}
	return f.Close()
}
