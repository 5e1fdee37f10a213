package console

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	auditdomain "numis/console/internal/audit/domain"
	coindomain "numis/console/internal/coin/domain"
	"numis/console/internal/platform/jsontime"
	"numis/console/internal/platform/validation"
)

// queryInt reads a positive integer query parameter; absent means 0.
func queryInt(q url.Values, key string, v *validation.Builder) int {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		v.Add(key, "must be a whole number")
		return 0
	}
	return n
}

// coinFilter reads gallery and admin list filters: page, page_size, country, year_from, year_to,
// originality and search (q is accepted as an alias).
func coinFilter(q url.Values) (coindomain.Filter, error) {
	var v validation.Builder
	f := coindomain.Filter{
		Page:     queryInt(q, "page", &v),
		PageSize: queryInt(q, "page_size", &v),
		Country:  strings.TrimSpace(q.Get("country")),
		YearFrom: queryInt(q, "year_from", &v),
		YearTo:   queryInt(q, "year_to", &v),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	if f.Search == "" {
		f.Search = strings.TrimSpace(q.Get("q"))
	}
	if s := q.Get("originality"); strings.TrimSpace(s) != "" {
		o, ok := coindomain.ParseOriginality(s)
		v.Check(ok, "originality", "must be original, replica or unknown")
		f.Originality = o
	}
	if err := v.Err(); err != nil {
		return coindomain.Filter{}, err
	}
	return f, nil
}

// auditFilter reads the audit log filters. Dates accept RFC 3339 or a bare date; a bare date_to
// covers the whole day.
func auditFilter(q url.Values) (auditdomain.Filter, error) {
	var v validation.Builder
	f := auditdomain.Filter{
		Page:       queryInt(q, "page", &v),
		PageSize:   queryInt(q, "page_size", &v),
		Action:     auditdomain.Action(strings.TrimSpace(q.Get("action"))),
		CoinID:     int64(queryInt(q, "coin_id", &v)),
		ActorEmail: strings.TrimSpace(q.Get("actor_email")),
	}
	f.DateFrom = queryDate(q, "date_from", false, &v)
	f.DateTo = queryDate(q, "date_to", true, &v)
	if err := v.Err(); err != nil {
		return auditdomain.Filter{}, err
	}
	return f, nil
}

func queryDate(q url.Values, key string, endOfDay bool, v *validation.Builder) time.Time {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return time.Time{}
	}
	t, err := jsontime.Parse(s)
	if err != nil {
		v.Add(key, "must be a date such as 2024-01-31")
		return time.Time{}
	}
	if endOfDay && len(s) == len("2006-01-02") {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t
}

// parseID reads a positive numeric route parameter.
func parseID(req *Request, key string) (int64, error) {
	id, err := strconv.ParseInt(req.Params[key], 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.New(key, "must be a positive number")
	}
	return id, nil
}

// parseDelta accepts "+2", "2" and "-1".
func parseDelta(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if err != nil {
		return 0, validation.New("delta_quantity", "must be a whole number such as +2 or -1")
	}
	return n, nil
}

// parseMoney accepts a dot or a comma as the decimal separator.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// withPage returns target with the page query parameter set.
func withPage(req *Request, page int) string {
	q := url.Values{}
	for k, vs := range req.Query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("page", strconv.Itoa(page))
	return req.Path + "?" + q.Encode()
}
