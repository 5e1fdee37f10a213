// Package service lists audit records and pairs each with its field changes.
package service

import (
	"context"
	"fmt"
	"strings"

	"numis/console/internal/audit"
	"numis/console/internal/audit/domain"
	"numis/console/internal/audit/repository"
	"numis/console/internal/platform/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Entry is one audit record with its computed field changes.
type Entry struct {
	Record  domain.AuditLog
	Changes []audit.FieldChange
}

// Page is a page of entries.
type Page struct {
	Entries []Entry
	Meta    domain.PageMeta
}

// AuditService reads the audit trail.
type AuditService struct {
	repo repository.Repository
}

// NewAuditService returns an AuditService backed by repo.
func NewAuditService(repo repository.Repository) *AuditService {
	return &AuditService{repo: repo}
}

// List validates f, fetches one page and diffs every record.
func (s *AuditService) List(ctx context.Context, f domain.Filter) (*Page, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	f.ActorEmail = strings.TrimSpace(f.ActorEmail)
	if f.Action != "" {
		a, ok := audit.ParseAction(string(f.Action))
		if !ok {
			return nil, validation.New("action", "unknown action")
		}
		f.Action = a
	}
	if !f.DateFrom.IsZero() && !f.DateTo.IsZero() && f.DateTo.Before(f.DateFrom) {
		return nil, validation.New("date_to", "must not be before date_from")
	}

	res, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	out := &Page{Entries: make([]Entry, 0, len(res.Data)), Meta: res.Meta}
	for i := range res.Data {
		rec := res.Data[i]
		out.Entries = append(out.Entries, Entry{Record: rec, Changes: audit.Changes(&rec)})
	}
	return out, nil
}
