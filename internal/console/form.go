package console

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	coindomain "numis/console/internal/coin/domain"
	coinrepo "numis/console/internal/coin/repository"
	"numis/console/internal/platform/jsontime"
	"numis/console/internal/platform/validation"
)

// clearValue typed into an edit prompt blanks an optional text field.
const clearValue = "-"

// coinForm prompts for the fields of a coin. For edits, current holds the stored coin: blank
// answers keep its value and are not sent.
type coinForm struct {
	scr     *Screen
	current *coindomain.Coin
	v       validation.Builder
	err     error
}

func (f *coinForm) ask(label, current string) (string, bool) {
	if f.err != nil {
		return "", false
	}
	if f.current != nil && current != "" {
		label += " [" + current + "]"
	}
	ans, err := f.scr.In.Line(label)
	if err != nil {
		f.err = err
		return "", false
	}
	ans = strings.TrimSpace(ans)
	return ans, ans != ""
}

func (f *coinForm) text(label, current string) *string {
	ans, ok := f.ask(label, current)
	if !ok {
		return nil
	}
	if ans == clearValue && f.current != nil {
		ans = ""
	}
	return &ans
}

func (f *coinForm) integer(field, label string, current int) *int {
	cur := ""
	if current > 0 {
		cur = strconv.Itoa(current)
	}
	ans, ok := f.ask(label, cur)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(ans)
	if err != nil {
		f.v.Add(field, "must be a whole number")
		return nil
	}
	return &n
}

func (f *coinForm) money(field, label string, current *decimal.Decimal) *decimal.Decimal {
	cur := ""
	if current != nil {
		cur = current.String()
	}
	ans, ok := f.ask(label, cur)
	if !ok {
		return nil
	}
	d, err := parseMoney(ans)
	if err != nil {
		f.v.Add(field, "must be an amount such as 12.50")
		return nil
	}
	return &d
}

func (f *coinForm) date(field, label string, current jsontime.Time) *jsontime.Time {
	cur := ""
	if !current.IsZero() {
		cur = current.Time.Format("2006-01-02")
	}
	ans, ok := f.ask(label, cur)
	if !ok {
		return nil
	}
	t, err := jsontime.Parse(ans)
	if err != nil {
		f.v.Add(field, "must be a date such as 2024-01-31")
		return nil
	}
	return &jsontime.Time{Time: t}
}

func (f *coinForm) originality(current coindomain.Originality) *coindomain.Originality {
	ans, ok := f.ask("Originality (original/replica/unknown)", string(current))
	if !ok {
		return nil
	}
	o, valid := coindomain.ParseOriginality(ans)
	if !valid {
		f.v.Add("originality", "must be original, replica or unknown")
		return nil
	}
	return &o
}

// read collects an Input. Parse problems are reported together as one validation error.
func (f *coinForm) read() (coindomain.Input, error) {
	c := f.current
	if c == nil {
		c = &coindomain.Coin{}
	}
	in := coindomain.Input{
		Country:           f.text("Country", c.Country),
		FaceValue:         f.text("Face value", c.FaceValue),
		Year:              f.integer("year", "Year", c.Year),
		Title:             f.text("Title (blank to derive)", c.Title),
		Quantity:          f.integer("quantity", "Quantity", c.Quantity),
		Originality:       f.originality(c.Originality),
		Condition:         f.text("Condition", c.Condition),
		Category:          f.text("Category", c.Category),
		PurchasePrice:     f.money("purchase_price", "Purchase price", c.PurchasePrice),
		EstimatedValue:    f.money("estimated_value", "Estimated value", c.EstimatedValue),
		AcquisitionDate:   f.date("acquisition_date", "Acquisition date", c.AcquisitionDate),
		AcquisitionSource: f.text("Acquisition source", c.AcquisitionSource),
		StorageLocation:   f.text("Storage location", c.StorageLocation),
		Notes:             f.text("Notes", c.Notes),
	}
	if f.err != nil {
		return coindomain.Input{}, f.err
	}
	if err := f.v.Err(); err != nil {
		return coindomain.Input{}, err
	}
	return in, nil
}

// images asks for optional front and back image files. The returned close releases them.
func (f *coinForm) images() (front, back *coinrepo.Image, closeAll func(), err error) {
	var files []*os.File
	closeAll = func() {
		for _, fh := range files {
			_ = fh.Close()
		}
	}
	open := func(label, field string) (*coinrepo.Image, error) {
		ans, err := f.scr.In.Line(label)
		if err != nil {
			return nil, err
		}
		p := strings.TrimSpace(ans)
		if p == "" {
			return nil, nil
		}
		fh, err := os.Open(p)
		if err != nil {
			return nil, validation.New(field, "cannot open "+p)
		}
		files = append(files, fh)
		return &coinrepo.Image{Filename: filepath.Base(p), Content: fh}, nil
	}
	if front, err = open("Front image file (optional)", "front_image"); err != nil {
		closeAll()
		return nil, nil, func() {}, err
	}
	if back, err = open("Back image file (optional)", "back_image"); err != nil {
		closeAll()
		return nil, nil, func() {}, err
	}
	return front, back, closeAll, nil
}
