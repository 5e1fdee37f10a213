package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"numis/console/internal/api"
	"numis/console/internal/audit"
	"numis/console/internal/audit/domain"
	"numis/console/internal/audit/repository"
)

const pageBody = `{
  "data": [
    {
      "id": 31, "coin_id": 4, "action": "adjust_in", "delta_quantity": 2,
      "before": {"quantity": 1, "country": "Brasil"},
      "after": {"quantity": 3, "country": "Brasil", "note": "restock"},
      "note": "restock", "actor_user_id": 1, "actor_email": "admin@example.com",
      "created_at": "2024-05-01T12:30:00",
      "coin": {"id": 4, "country": "Brasil", "year": 1994, "face_value": "1 Real"}
    },
    {
      "id": 30, "coin_id": null, "action": "delete", "delta_quantity": null,
      "before": {"quantity": 1}, "after": null, "note": null, "actor_user_id": null,
      "actor_email": null, "created_at": "2024-04-30T09:00:00Z", "coin": null
    }
  ],
  "meta": {"page": 2, "page_size": 20, "total_items": 42, "total_pages": 3}
}`

func newTestService(t *testing.T, h http.HandlerFunc) *AuditService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAuditService(repository.NewAPIRepository(api.NewClient(srv.URL+"/api/v1", srv.URL, nil, 0)))
}

func TestList(t *testing.T) {
	var query url.Values
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/admin/audit-logs" {
			t.Errorf("path = %q", r.URL.Path)
		}
		query = r.URL.Query()
		_, _ = w.Write([]byte(pageBody))
	})

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	page, err := svc.List(context.Background(), domain.Filter{
		Page:       2,
		Action:     "Adjust In",
		CoinID:     4,
		ActorEmail: " admin@example.com ",
		DateFrom:   from,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if query.Get("action") != "adjust_in" || query.Get("coin_id") != "4" || query.Get("page") != "2" {
		t.Errorf("query = %v", query)
	}
	if query.Get("actor_email") != "admin@example.com" || query.Get("date_from") != "2024-04-01T00:00:00Z" {
		t.Errorf("query = %v", query)
	}
	if query.Get("page_size") != "20" || query.Has("date_to") {
		t.Errorf("query = %v", query)
	}

	if len(page.Entries) != 2 || page.Meta.TotalPages != 3 {
		t.Fatalf("page = %+v", page)
	}
	first := page.Entries[0]
	if len(first.Changes) != 2 {
		t.Fatalf("changes = %+v, want note and quantity", first.Changes)
	}
	if first.Changes[0].Field != "note" || first.Changes[0].Before != nil || audit.Format(first.Changes[0].After) != "restock" {
		t.Errorf("note change = %+v", first.Changes[0])
	}
	if first.Changes[1].Field != "quantity" || audit.Format(first.Changes[1].Before) != "1" || audit.Format(first.Changes[1].After) != "3" {
		t.Errorf("quantity change = %+v", first.Changes[1])
	}
	if audit.CoinTitle(&first.Record) != "Brasil • 1994 • 1 Real" {
		t.Errorf("CoinTitle = %q", audit.CoinTitle(&first.Record))
	}
	if first.Record.CreatedAt.Hour() != 12 {
		t.Errorf("CreatedAt = %v", first.Record.CreatedAt)
	}

	second := page.Entries[1]
	if second.Changes != nil {
		t.Errorf("absent after snapshot should give no changes, got %+v", second.Changes)
	}
	if audit.CoinTitle(&second.Record) != "Coin: —" {
		t.Errorf("CoinTitle = %q", audit.CoinTitle(&second.Record))
	}
}

func TestList_Validation(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) { calls++ })
	ctx := context.Background()

	if _, err := svc.List(ctx, domain.Filter{Action: "restore"}); err == nil {
		t.Error("unknown action should fail")
	}
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.List(ctx, domain.Filter{DateFrom: to.Add(time.Hour), DateTo: to}); err == nil {
		t.Error("inverted date range should fail")
	}
	if calls != 0 {
		t.Errorf("backend called %d times", calls)
	}
}

func TestList_Forbidden(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"Not authorized"}`))
	})
	_, err := svc.List(context.Background(), domain.Filter{})
	if api.StatusCode(err) != http.StatusForbidden || api.Detail(err) != "Not authorized" {
		t.Errorf("err = %v", err)
	}
}
