package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"numis/console/internal/api"
	"numis/console/internal/dashboard/repository"
)

func TestSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dashboard/summary" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"total_coins": 10, "total_countries": 3, "total_originals": 6, "total_replicas": 3,
			"total_estimated_value": 1234.56,
			"by_country": [{"country":"Chile","count":2},{"country":"Brasil","count":7},{"country":"Argentina","count":2}],
			"by_year": [{"year":2001,"count":1},{"year":1994,"count":9}],
			"by_originality": [{"originality":"replica","count":3},{"originality":"original","count":6}]
		}`))
	}))
	defer srv.Close()

	svc := NewDashboardService(repository.NewAPIRepository(api.NewClient(srv.URL+"/api/v1", srv.URL, nil, 0)))
	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !sum.TotalEstimatedValue.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("TotalEstimatedValue = %v", sum.TotalEstimatedValue)
	}
	if sum.Unknown() != 1 {
		t.Errorf("Unknown() = %d, want 1", sum.Unknown())
	}
	gotCountries := []string{sum.ByCountry[0].Country, sum.ByCountry[1].Country, sum.ByCountry[2].Country}
	if sum.ByCountry[0].Country != "Brasil" || sum.ByCountry[1].Country != "Argentina" || sum.ByCountry[2].Country != "Chile" {
		t.Errorf("ByCountry order = %v", gotCountries)
	}
	if sum.ByYear[0].Year != 1994 {
		t.Errorf("ByYear not ascending: %+v", sum.ByYear)
	}
	if sum.ByOriginality[0].Originality != "original" {
		t.Errorf("ByOriginality order = %+v", sum.ByOriginality)
	}
}
