package repository

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"numis/console/internal/api"
	"numis/console/internal/coin/domain"
)

// APIRepository implements Repository over the backend API.
type APIRepository struct {
	client *api.Client
}

// NewAPIRepository returns a Repository backed by client.
func NewAPIRepository(client *api.Client) *APIRepository {
	return &APIRepository{client: client}
}

func coinPath(id int64) string { return "/coins/" + strconv.FormatInt(id, 10) }

func (r *APIRepository) List(ctx context.Context, f domain.Filter) (*domain.Page, error) {
	var out domain.Page
	if err := r.client.Get(ctx, "/coins", listQuery(f), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listQuery(f domain.Filter) url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		size := f.PageSize
		if size > domain.MaxPageSize {
			size = domain.MaxPageSize
		}
		q.Set("page_size", strconv.Itoa(size))
	}
	if f.Country != "" {
		q.Set("country", f.Country)
	}
	if f.YearFrom > 0 {
		q.Set("year_from", strconv.Itoa(f.YearFrom))
	}
	if f.YearTo > 0 {
		q.Set("year_to", strconv.Itoa(f.YearTo))
	}
	if f.Originality != "" {
		q.Set("originality", string(f.Originality))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

func (r *APIRepository) Get(ctx context.Context, id int64) (*domain.Coin, error) {
	var c domain.Coin
	if err := r.client.Get(ctx, coinPath(id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *APIRepository) Create(ctx context.Context, in *domain.Input) (*domain.Coin, error) {
	var c domain.Coin
	if err := r.client.Post(ctx, "/coins", in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *APIRepository) Update(ctx context.Context, id int64, in *domain.Input) (*domain.Coin, error) {
	var c domain.Coin
	if err := r.client.Patch(ctx, coinPath(id), in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *APIRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, coinPath(id))
}

func (r *APIRepository) UploadImages(ctx context.Context, id int64, front, back *Image) (*domain.Coin, error) {
	var files []api.FilePart
	if front != nil {
		files = append(files, api.FilePart{Field: "front_image", Filename: front.Filename, Content: front.Content})
	}
	if back != nil {
		files = append(files, api.FilePart{Field: "back_image", Filename: back.Filename, Content: back.Content})
	}
	var c domain.Coin
	req := api.Request{Method: http.MethodPost, Path: coinPath(id) + "/upload-images", Files: files}
	if err := r.client.Do(ctx, req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *APIRepository) Adjust(ctx context.Context, id int64, a domain.Adjustment) (*domain.Coin, error) {
	var c domain.Coin
	if err := r.client.Post(ctx, "/admin"+coinPath(id)+"/adjust", a, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *APIRepository) Import(ctx context.Context, filename string, content io.Reader) (*domain.ImportResult, error) {
	var out domain.ImportResult
	req := api.Request{
		Method: http.MethodPost,
		Path:   "/coins/import",
		Files:  []api.FilePart{{Field: "file", Filename: filename, Content: content}},
	}
	if err := r.client.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *APIRepository) Export(ctx context.Context, format domain.ExportFormat) (*domain.Export, error) {
	raw, err := r.client.Raw(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "/coins/export/all",
		Query:  url.Values{"format": {string(format)}},
	})
	if err != nil {
		return nil, err
	}
	name := raw.Filename
	if name == "" {
		name = "coins." + string(format)
	}
	return &domain.Export{Format: format, Filename: name, Body: raw.Body}, nil
}
