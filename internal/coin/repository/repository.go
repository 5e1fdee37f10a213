package repository

import (
	"context"
	"io"

	"numis/console/internal/coin/domain"
)

// Image is one image file to upload.
type Image struct {
	Filename string
	Content  io.Reader
}

// Repository is the catalog's coin surface.
type Repository interface {
	List(ctx context.Context, f domain.Filter) (*domain.Page, error)
	Get(ctx context.Context, id int64) (*domain.Coin, error)
	Create(ctx context.Context, in *domain.Input) (*domain.Coin, error)
	Update(ctx context.Context, id int64, in *domain.Input) (*domain.Coin, error)
	Delete(ctx context.Context, id int64) error
	// UploadImages sends front and/or back; nil images are skipped.
	UploadImages(ctx context.Context, id int64, front, back *Image) (*domain.Coin, error)
	Adjust(ctx context.Context, id int64, a domain.Adjustment) (*domain.Coin, error)
	Import(ctx context.Context, filename string, content io.Reader) (*domain.ImportResult, error)
	Export(ctx context.Context, format domain.ExportFormat) (*domain.Export, error)
}
