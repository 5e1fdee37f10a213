package audit

import (
	"strings"

	"numis/console/internal/audit/domain"
)

var fieldLabels = map[string]string{
	"quantity":           "Quantity",
	"year":               "Year",
	"country":            "Country",
	"face_value":         "Face value",
	"purchase_price":     "Purchase price",
	"estimated_value":    "Estimated value",
	"originality":        "Originality",
	"condition":          "Condition",
	"storage_location":   "Storage location",
	"category":           "Category",
	"acquisition_date":   "Acquisition date",
	"acquisition_source": "Acquisition source",
	"notes":              "Notes",
	"image_url_front":    "Front image",
	"image_url_back":     "Back image",
	"owner_id":           "Owner",
	"id":                 "Coin ID",
	"created_at":         "Created at",
	"updated_at":         "Updated at",
}

// Label returns the display label for a snapshot field, or the field name itself when unmapped.
func Label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// ActionLabel returns the upper-case display form of an audit action.
// adjust_in and adjust_out read as ADJUST IN and ADJUST OUT; unknown actions are upper-cased.
func ActionLabel(a domain.Action) string {
	switch a {
	case domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete, domain.ActionImport:
		return strings.ToUpper(string(a))
	case domain.ActionAdjustIn:
		return "ADJUST IN"
	case domain.ActionAdjustOut:
		return "ADJUST OUT"
	default:
		return strings.ToUpper(string(a))
	}
}

// ParseAction maps user input (e.g. "adjust-in", "Adjust In", "update") to an Action.
// The second return is false for unknown input.
func ParseAction(s string) (domain.Action, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch a := domain.Action(norm); a {
	case domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete,
		domain.ActionImport, domain.ActionAdjustIn, domain.ActionAdjustOut:
		return a, true
	}
	return "", false
}

// CoinTitle describes the coin a record refers to: "country • year • face value" when the coin
// is embedded, its id otherwise.
func CoinTitle(rec *domain.AuditLog) string {
	switch {
	case rec.Coin != nil:
		year := Placeholder
		if rec.Coin.Year != nil {
			year = domain.FormatNumber(float64(*rec.Coin.Year))
		}
		return rec.Coin.Country + " • " + year + " • " + rec.Coin.FaceValue
	case rec.CoinID != nil:
		return "Coin ID: " + domain.FormatNumber(float64(*rec.CoinID))
	default:
		return "Coin: " + Placeholder
	}
}
