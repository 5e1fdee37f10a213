package console

import (
	"context"

	auditdomain "numis/console/internal/audit/domain"
	auditservice "numis/console/internal/audit/service"
	coindomain "numis/console/internal/coin/domain"
	coinrepo "numis/console/internal/coin/repository"
	dashboarddomain "numis/console/internal/dashboard/domain"
	identitydomain "numis/console/internal/identity/domain"
	mfadomain "numis/console/internal/mfa/domain"
)

// LoginFlow is the auth flow as the login and logout commands use it.
type LoginFlow interface {
	State() identitydomain.State
	PendingEmail() (string, bool)
	Login(ctx context.Context, email, password string) (identitydomain.State, error)
	SubmitCode(ctx context.Context, code string) (identitydomain.State, error)
	Cancel()
	Logout(ctx context.Context) error
}

// Catalog is the read side of the coin catalog.
type Catalog interface {
	List(ctx context.Context, f coindomain.Filter) (*coindomain.Page, error)
	Get(ctx context.Context, id int64) (*coindomain.Coin, error)
}

// CoinManager is the admin side of the coin catalog.
type CoinManager interface {
	Catalog
	Create(ctx context.Context, in coindomain.Input, front, back *coinrepo.Image) (*coindomain.Coin, error)
	Update(ctx context.Context, id int64, in coindomain.Input, front, back *coinrepo.Image) (*coindomain.Coin, error)
	Delete(ctx context.Context, id int64) error
	Adjust(ctx context.Context, id int64, a coindomain.Adjustment) (*coindomain.Coin, error)
	ImportFile(ctx context.Context, path string) (*coindomain.ImportResult, error)
	ExportTo(ctx context.Context, format coindomain.ExportFormat, dir string) (string, error)
}

// Summaries returns the dashboard overview.
type Summaries interface {
	Summary(ctx context.Context) (*dashboarddomain.Summary, error)
}

// AuditTrail lists audit records with their field changes.
type AuditTrail interface {
	List(ctx context.Context, f auditdomain.Filter) (*auditservice.Page, error)
}

// SecondFactor manages the signed-in account's authenticator.
type SecondFactor interface {
	Status(ctx context.Context) (*mfadomain.Status, error)
	Setup(ctx context.Context) (*mfadomain.Enrollment, error)
	Verify(ctx context.Context, code string) (string, error)
	Disable(ctx context.Context, code string) (string, error)
}
