package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"numis/console/internal/platform/jsontime"
	"numis/console/internal/platform/validation"
)

// Originality is whether a coin is a genuine strike.
type Originality string

const (
	OriginalityOriginal Originality = "original"
	OriginalityReplica  Originality = "replica"
	OriginalityUnknown  Originality = "unknown"
)

// ParseOriginality maps case-insensitive input to an Originality. The second return is false for
// anything other than original, replica or unknown.
func ParseOriginality(s string) (Originality, bool) {
	switch o := Originality(strings.ToLower(strings.TrimSpace(s))); o {
	case OriginalityOriginal, OriginalityReplica, OriginalityUnknown:
		return o, true
	}
	return "", false
}

// Normalize returns the canonical lower-case form; unrecognized values become unknown.
func (o Originality) Normalize() Originality {
	if v, ok := ParseOriginality(string(o)); ok {
		return v
	}
	return OriginalityUnknown
}

// Coin is one catalog entry. Money fields are nil when the backend has no value.
type Coin struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Quantity          int              `json:"quantity"`
	Year              int              `json:"year"`
	Country           string           `json:"country"`
	FaceValue         string           `json:"face_value"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	EstimatedValue    *decimal.Decimal `json:"estimated_value"`
	Originality       Originality      `json:"originality"`
	Condition         string           `json:"condition"`
	StorageLocation   string           `json:"storage_location"`
	Category          string           `json:"category"`
	AcquisitionDate   jsontime.Time    `json:"acquisition_date"`
	AcquisitionSource string           `json:"acquisition_source"`
	Notes             string           `json:"notes"`
	ImageURLFront     string           `json:"image_url_front"`
	ImageURLBack      string           `json:"image_url_back"`
	OwnerID           int64            `json:"owner_id"`
	CreatedAt         jsontime.Time    `json:"created_at"`
	UpdatedAt         jsontime.Time    `json:"updated_at"`
}

// Input is the body of create (POST) and partial update (PATCH). Nil fields are not sent.
type Input struct {
	Title             *string          `json:"title,omitempty"`
	Quantity          *int             `json:"quantity,omitempty"`
	Year              *int             `json:"year,omitempty"`
	Country           *string          `json:"country,omitempty"`
	FaceValue         *string          `json:"face_value,omitempty"`
	PurchasePrice     *decimal.Decimal `json:"-"`
	EstimatedValue    *decimal.Decimal `json:"-"`
	Originality       *Originality     `json:"originality,omitempty"`
	Condition         *string          `json:"condition,omitempty"`
	StorageLocation   *string          `json:"storage_location,omitempty"`
	Category          *string          `json:"category,omitempty"`
	AcquisitionDate   *jsontime.Time   `json:"acquisition_date,omitempty"`
	AcquisitionSource *string          `json:"acquisition_source,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// MarshalJSON sends prices as JSON numbers; decimal's own encoding quotes them.
func (in Input) MarshalJSON() ([]byte, error) {
	type alias Input
	return json.Marshal(struct {
		alias
		PurchasePrice  *json.Number `json:"purchase_price,omitempty"`
		EstimatedValue *json.Number `json:"estimated_value,omitempty"`
	}{alias(in), number(in.PurchasePrice), number(in.EstimatedValue)})
}

func number(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := json.Number(d.String())
	return &n
}

// Limits enforced by the backend schema.
const (
	maxShortText = 100
	maxLongText  = 200
)

// ValidateCreate checks a new coin: country, face value and a positive year are required.
// When Title is empty it is derived from country, face value and year.
func (in *Input) ValidateCreate() error {
	var v validation.Builder
	v.Require("country", deref(in.Country))
	v.Require("face_value", deref(in.FaceValue))
	if in.Year == nil || *in.Year <= 0 {
		v.Add("year", "is required")
	}
	in.validateCommon(&v)
	if err := v.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(deref(in.Title)) == "" {
		t := strings.TrimSpace(*in.Country) + " " + strings.TrimSpace(*in.FaceValue) + " " + strconv.Itoa(*in.Year)
		in.Title = &t
	}
	return nil
}

// ValidateUpdate checks a partial update: fields that are set must be valid, and required fields
// cannot be blanked.
func (in *Input) ValidateUpdate() error {
	var v validation.Builder
	if in.Country != nil {
		v.Require("country", *in.Country)
	}
	if in.FaceValue != nil {
		v.Require("face_value", *in.FaceValue)
	}
	if in.Year != nil {
		v.Check(*in.Year > 0, "year", "must be positive")
	}
	in.validateCommon(&v)
	return v.Err()
}

func (in *Input) validateCommon(v *validation.Builder) {
	if in.Quantity != nil {
		v.Check(*in.Quantity >= 1, "quantity", "must be at least 1")
	}
	if in.PurchasePrice != nil {
		v.Check(!in.PurchasePrice.IsNegative(), "purchase_price", "cannot be negative")
	}
	if in.EstimatedValue != nil {
		v.Check(!in.EstimatedValue.IsNegative(), "estimated_value", "cannot be negative")
	}
	if in.Originality != nil {
		_, ok := ParseOriginality(string(*in.Originality))
		v.Check(ok, "originality", "must be original, replica or unknown")
	}
	for _, f := range []struct {
		field string
		value *string
		max   int
	}{
		{"title", in.Title, maxShortText},
		{"country", in.Country, maxShortText},
		{"face_value", in.FaceValue, maxShortText},
		{"condition", in.Condition, maxShortText},
		{"category", in.Category, maxShortText},
		{"storage_location", in.StorageLocation, maxLongText},
		{"acquisition_source", in.AcquisitionSource, maxLongText},
	} {
		if f.value != nil && len([]rune(*f.value)) > f.max {
			v.Add(f.field, "is too long")
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Adjustment changes a coin's quantity by Delta, with an optional note for the audit trail.
type Adjustment struct {
	Delta int    `json:"delta_quantity"`
	Note  string `json:"note,omitempty"`
}

// Validate rejects a zero delta before it is sent.
func (a Adjustment) Validate() error {
	if a.Delta == 0 {
		return validation.New("delta_quantity", "must not be zero")
	}
	return nil
}

// Filter narrows a coin listing. Zero fields are not sent.
type Filter struct {
	Page        int
	PageSize    int
	Country     string
	YearFrom    int
	YearTo      int
	Originality Originality
	Search      string
}

// Default and maximum page sizes of the listing endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one page of coins.
type Page struct {
	Data []Coin   `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PageMeta mirrors the backend pagination block.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// ImportResult is the answer of a bulk import.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Errors   int `json:"errors"`
}

// ExportFormat is the body format of an export.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// Export is a downloaded catalog dump.
type Export struct {
	Format   ExportFormat
	Filename string
	Body     []byte
}
