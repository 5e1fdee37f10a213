// Package service implements the catalog operations of the console on top of the coin repository:
// validation before any network call, image upload after save, import and export.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"numis/console/internal/coin/domain"
	"numis/console/internal/coin/repository"
	"numis/console/internal/platform/validation"
)

// ErrNoImages is returned by UploadImages when neither side is given.
var ErrNoImages = validation.New("images", "send at least one image")

// CoinService is the catalog surface the console views call.
type CoinService struct {
	repo   repository.Repository
	logger *zap.Logger
}

// NewCoinService returns a CoinService. logger may be nil.
func NewCoinService(repo repository.Repository, logger *zap.Logger) *CoinService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoinService{repo: repo, logger: logger}
}

// List returns one page of coins. Page defaults to 1 and PageSize to 20, capped at 100.
func (s *CoinService) List(ctx context.Context, f domain.Filter) (*domain.Page, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = domain.DefaultPageSize
	}
	if f.PageSize > domain.MaxPageSize {
		f.PageSize = domain.MaxPageSize
	}
	if f.Originality != "" {
		o, ok := domain.ParseOriginality(string(f.Originality))
		if !ok {
			return nil, validation.New("originality", "must be original, replica or unknown")
		}
		f.Originality = o
	}
	if f.YearFrom > 0 && f.YearTo > 0 && f.YearFrom > f.YearTo {
		return nil, validation.New("year_to", "must not be before year_from")
	}
	f.Country = strings.TrimSpace(f.Country)
	f.Search = strings.TrimSpace(f.Search)
	page, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list coins: %w", err)
	}
	return page, nil
}

// Get returns one coin. A missing coin is reported as the backend's 404 (api.IsNotFound).
func (s *CoinService) Get(ctx context.Context, id int64) (*domain.Coin, error) {
	if id <= 0 {
		return nil, validation.New("id", "must be positive")
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get coin %d: %w", id, err)
	}
	return c, nil
}

// Create validates in, creates the coin and then uploads the given images.
func (s *CoinService) Create(ctx context.Context, in domain.Input, front, back *repository.Image) (*domain.Coin, error) {
	if err := in.ValidateCreate(); err != nil {
		return nil, err
	}
	if in.Originality != nil {
		o := in.Originality.Normalize()
		in.Originality = &o
	}
	c, err := s.repo.Create(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("create coin: %w", err)
	}
	s.logger.Info("coin: created", zap.Int64("coin_id", c.ID))
	return s.attachImages(ctx, c, front, back)
}

// Update validates in, applies it and then uploads the given images.
func (s *CoinService) Update(ctx context.Context, id int64, in domain.Input, front, back *repository.Image) (*domain.Coin, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	if in.Originality != nil {
		o := in.Originality.Normalize()
		in.Originality = &o
	}
	c, err := s.repo.Update(ctx, id, &in)
	if err != nil {
		return nil, fmt.Errorf("update coin %d: %w", id, err)
	}
	s.logger.Info("coin: updated", zap.Int64("coin_id", id))
	return s.attachImages(ctx, c, front, back)
}

func (s *CoinService) attachImages(ctx context.Context, c *domain.Coin, front, back *repository.Image) (*domain.Coin, error) {
	if front == nil && back == nil {
		return c, nil
	}
	updated, err := s.UploadImages(ctx, c.ID, front, back)
	if err != nil {
		// The coin exists; hand it back with the upload error.
		return c, err
	}
	return updated, nil
}

// UploadImages replaces the coin's front and/or back image.
func (s *CoinService) UploadImages(ctx context.Context, id int64, front, back *repository.Image) (*domain.Coin, error) {
	if front == nil && back == nil {
		return nil, ErrNoImages
	}
	c, err := s.repo.UploadImages(ctx, id, front, back)
	if err != nil {
		return nil, fmt.Errorf("upload images for coin %d: %w", id, err)
	}
	return c, nil
}

// Delete removes a coin.
func (s *CoinService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete coin %d: %w", id, err)
	}
	s.logger.Info("coin: deleted", zap.Int64("coin_id", id))
	return nil
}

// Adjust changes the coin's quantity. The backend refuses adjustments that would go below zero.
func (s *CoinService) Adjust(ctx context.Context, id int64, a domain.Adjustment) (*domain.Coin, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.Note = strings.TrimSpace(a.Note)
	c, err := s.repo.Adjust(ctx, id, a)
	if err != nil {
		return nil, fmt.Errorf("adjust coin %d: %w", id, err)
	}
	s.logger.Info("coin: quantity adjusted", zap.Int64("coin_id", id), zap.Int("delta", a.Delta))
	return c, nil
}

// Import uploads a .json or .csv file of coins.
func (s *CoinService) Import(ctx context.Context, filename string, content io.Reader) (*domain.ImportResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".csv":
	default:
		return nil, validation.New("file", "must be a .json or .csv file")
	}
	res, err := s.repo.Import(ctx, filepath.Base(filename), content)
	if err != nil {
		return nil, fmt.Errorf("import coins: %w", err)
	}
	s.logger.Info("coin: import finished", zap.Int("inserted", res.Inserted), zap.Int("errors", res.Errors))
	return res, nil
}

// ImportFile opens path and imports it.
func (s *CoinService) ImportFile(ctx context.Context, path string) (*domain.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, path, f)
}

// ParseExportFormat accepts json or csv, case-insensitively.
func ParseExportFormat(s string) (domain.ExportFormat, error) {
	switch f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case domain.ExportJSON, domain.ExportCSV:
		return f, nil
	}
	return "", validation.New("format", "must be json or csv")
}

// Export downloads the whole catalog.
func (s *CoinService) Export(ctx context.Context, format domain.ExportFormat) (*domain.Export, error) {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return nil, err
	}
	exp, err := s.repo.Export(ctx, format)
	if err != nil {
		return nil, fmt.Errorf("export coins: %w", err)
	}
	return exp, nil
}

// ExportTo downloads the catalog into dir under the server-suggested filename and returns the
// written path.
func (s *CoinService) ExportTo(ctx context.Context, format domain.ExportFormat, dir string) (string, error) {
	exp, err := s.Export(ctx, format)
	if err != nil {
		return "", err
	}
	name := filepath.Base(exp.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "coins." + string(format)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, exp.Body, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
