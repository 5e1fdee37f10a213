package service

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pquerna/otp/totp"

	"numis/console/internal/api"
	"numis/console/internal/platform/validation"
	userdomain "numis/console/internal/user/domain"
)

type memMFARepo struct {
	mu       sync.Mutex
	uri      string
	setupErr error
	verified []string
	disabled []string
}

func (r *memMFARepo) Setup(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uri, r.setupErr
}

func (r *memMFARepo) Verify(ctx context.Context, code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verified = append(r.verified, code)
	return "MFA enabled successfully", nil
}

func (r *memMFARepo) Disable(ctx context.Context, code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled = append(r.disabled, code)
	return "MFA disabled successfully", nil
}

type memUsers struct{ u *userdomain.User }

func (m memUsers) Me(ctx context.Context) (*userdomain.User, error) { return m.u, nil }

func testURI(t *testing.T) string {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Numis", AccountName: "ana@example.com"})
	if err != nil {
		t.Fatalf("totp.Generate: %v", err)
	}
	return key.URL()
}

func TestSetup_ParsesProvisioningURI(t *testing.T) {
	repo := &memMFARepo{uri: testURI(t)}
	svc := NewMFAService(repo, memUsers{}, nil)

	e, err := svc.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if e.Issuer != "Numis" || e.Account != "ana@example.com" {
		t.Errorf("issuer/account = %q %q", e.Issuer, e.Account)
	}
	if e.Secret == "" || e.Digits != 6 || e.Period != 30 {
		t.Errorf("enrollment = %+v", e)
	}
}

func TestSetup_Conflict(t *testing.T) {
	repo := &memMFARepo{setupErr: &api.Error{StatusCode: 409, Detail: "MFA already enabled"}}
	svc := NewMFAService(repo, memUsers{}, nil)
	if _, err := svc.Setup(context.Background()); !errors.Is(err, ErrAlreadyEnabled) {
		t.Fatalf("err = %v, want ErrAlreadyEnabled", err)
	}
}

func TestSetup_BadURI(t *testing.T) {
	svc := NewMFAService(&memMFARepo{uri: "https://example.com"}, memUsers{}, nil)
	if _, err := svc.Setup(context.Background()); !errors.Is(err, ErrBadProvisioningURI) {
		t.Fatalf("err = %v, want ErrBadProvisioningURI", err)
	}
}

func TestVerifyAndDisable_NormalizeCode(t *testing.T) {
	repo := &memMFARepo{}
	svc := NewMFAService(repo, memUsers{}, nil)
	ctx := context.Background()

	if _, err := svc.Verify(ctx, "123 456"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if _, err := svc.Disable(ctx, " 654321 "); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if len(repo.verified) != 1 || repo.verified[0] != "123456" {
		t.Errorf("verified = %v", repo.verified)
	}
	if len(repo.disabled) != 1 || repo.disabled[0] != "654321" {
		t.Errorf("disabled = %v", repo.disabled)
	}

	if _, err := svc.Verify(ctx, "12ab56"); err == nil {
		t.Fatal("Verify should reject a non-numeric code")
	} else if _, ok := validation.As(err); !ok {
		t.Errorf("err = %v, want validation error", err)
	}
	if len(repo.verified) != 1 {
		t.Error("invalid code must not reach the backend")
	}
}

func TestStatus(t *testing.T) {
	svc := NewMFAService(&memMFARepo{}, memUsers{u: &userdomain.User{Email: "a@b.c", IsMFAEnabled: true}}, nil)
	st, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Enabled || st.Email != "a@b.c" {
		t.Errorf("status = %+v", st)
	}
}

func TestWriteQR(t *testing.T) {
	e, err := ParseEnrollment(testURI(t))
	if err != nil {
		t.Fatalf("ParseEnrollment: %v", err)
	}
	path := filepath.Join(t.TempDir(), "qr", "mfa.png")
	if err := WriteQR(e, path, 128); err != nil {
		t.Fatalf("WriteQR: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("bounds = %v, want 128x128", b)
	}
}
