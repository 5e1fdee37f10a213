// Package service loads the dashboard summary and orders its breakdowns for display.
package service

import (
	"context"
	"fmt"
	"sort"

	"numis/console/internal/dashboard/domain"
	"numis/console/internal/dashboard/repository"
)

// DashboardService reads the collection overview.
type DashboardService struct {
	repo repository.Repository
}

// NewDashboardService returns a DashboardService backed by repo.
func NewDashboardService(repo repository.Repository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Summary returns the overview with countries and originality by descending count (ties by
// name) and years ascending.
func (s *DashboardService) Summary(ctx context.Context) (*domain.Summary, error) {
	sum, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	sort.SliceStable(sum.ByCountry, func(i, j int) bool {
		a, b := sum.ByCountry[i], sum.ByCountry[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Country < b.Country
	})
	sort.SliceStable(sum.ByYear, func(i, j int) bool { return sum.ByYear[i].Year < sum.ByYear[j].Year })
	sort.SliceStable(sum.ByOriginality, func(i, j int) bool {
		a, b := sum.ByOriginality[i], sum.ByOriginality[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Originality < b.Originality
	})
	return sum, nil
}
