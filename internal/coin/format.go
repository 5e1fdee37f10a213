// Package coin holds presentation rules shared by the gallery, the coin detail and the admin views.
package coin

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"numis/console/internal/coin/domain"
)

// Placeholder stands in for absent values.
const Placeholder = "—"

// Presenter formats coins for display.
type Presenter struct {
	// AssetRoot is the server root relative image paths resolve against.
	AssetRoot string
	Symbol    string
	printer   *message.Printer
	scale     int
	// decimalSep is the locale's decimal separator.
	decimalSep string
}

// NewPresenter returns a Presenter for locale tag and ISO 4217 currency code. An unknown currency
// falls back to two decimal places.
func NewPresenter(assetRoot string, tag language.Tag, currencyCode, symbol string) *Presenter {
	scale := 2
	if unit, err := currency.ParseISO(currencyCode); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
	}
	printer := message.NewPrinter(tag)
	sep := strings.Trim(printer.Sprint(number.Decimal(1.5, number.Scale(1))), "15")
	if sep == "" {
		sep = "."
	}
	return &Presenter{
		AssetRoot:  strings.TrimRight(assetRoot, "/"),
		Symbol:     symbol,
		printer:    printer,
		scale:      scale,
		decimalSep: sep,
	}
}

// Money renders d as symbol plus a locale-formatted amount with the currency's scale,
// e.g. "R$ 1.234,50" for pt-BR. Nil renders the placeholder.
func (p *Presenter) Money(d *decimal.Decimal) string {
	if d == nil {
		return Placeholder
	}
	return p.MoneyValue(*d)
}

// MoneyValue is Money for a non-nil amount. Digits come from the decimal itself; only grouping
// and the separator are the locale's.
func (p *Presenter) MoneyValue(d decimal.Decimal) string {
	fixed := d.StringFixed(int32(p.scale))
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	amount := whole
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		amount = p.printer.Sprint(number.Decimal(n))
	}
	if frac != "" {
		amount += p.decimalSep + frac
	}
	amount = sign + amount
	if p.Symbol == "" {
		return amount
	}
	return p.Symbol + " " + amount
}

// Count renders an integer with the locale's grouping.
func (p *Presenter) Count(n int) string {
	return p.printer.Sprint(number.Decimal(n))
}

// ImageURL resolves a stored image reference. Empty values and the literal "string" (a schema
// placeholder the backend sometimes stores) yield "".
func (p *Presenter) ImageURL(ref string) string {
	return ResolveImageURL(p.AssetRoot, ref)
}

// ResolveImageURL is ImageURL without a Presenter.
func ResolveImageURL(assetRoot, ref string) string {
	v := strings.TrimSpace(ref)
	if v == "" || strings.EqualFold(v, "string") {
		return ""
	}
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	return strings.TrimRight(assetRoot, "/") + "/" + strings.TrimLeft(v, "/")
}

// OriginalityLabel returns Original, Replica or Unknown. Other non-empty values are shown as is.
func OriginalityLabel(o domain.Originality) string {
	switch domain.Originality(strings.ToLower(string(o))) {
	case domain.OriginalityOriginal:
		return "Original"
	case domain.OriginalityReplica:
		return "Replica"
	case domain.OriginalityUnknown:
		return "Unknown"
	}
	if o == "" {
		return Placeholder
	}
	return string(o)
}

// Availability is "N available" for a positive quantity, else "Unavailable".
func Availability(quantity int) string {
	if quantity > 0 {
		return strconv.Itoa(quantity) + " available"
	}
	return "Unavailable"
}

// Title is the coin's title, or "country face value" when it has none.
func Title(c *domain.Coin) string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	parts := make([]string, 0, 2)
	for _, s := range []string{c.Country, c.FaceValue} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "Coin " + strconv.FormatInt(c.ID, 10)
	}
	return strings.Join(parts, " ")
}

// Year renders a positive year, else the placeholder.
func Year(y int) string {
	if y <= 0 {
		return Placeholder
	}
	return strconv.Itoa(y)
}

// Text returns s, or the placeholder when blank.
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
