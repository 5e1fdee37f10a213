package console

import (
	"context"
	"strconv"
	"strings"

	"numis/console/internal/coin"
	coindomain "numis/console/internal/coin/domain"
	coinservice "numis/console/internal/coin/service"
)

const adminCoinsPath = "/admin/coins"

// dashboardView shows the collection overview at /admin/dashboard.
type dashboardView struct {
	summaries Summaries
}

func (v *dashboardView) Serve(ctx context.Context, _ *Request, scr *Screen) error {
	s, err := v.summaries.Summary(ctx)
	if err != nil {
		return err
	}
	p := scr.Present
	scr.Heading("Dashboard")
	scr.Field("Coins", p.Count(s.TotalCoins))
	scr.Field("Countries", p.Count(s.TotalCountries))
	scr.Field("Originals", p.Count(s.TotalOriginals))
	scr.Field("Replicas", p.Count(s.TotalReplicas))
	scr.Field("Unknown", p.Count(s.Unknown()))
	scr.Field("Estimated value", p.MoneyValue(s.TotalEstimatedValue))

	if len(s.ByCountry) > 0 {
		scr.Println("\nBy country")
		rows := make([][]string, 0, len(s.ByCountry))
		for _, c := range s.ByCountry {
			rows = append(rows, []string{coin.Text(c.Country), p.Count(c.Count)})
		}
		scr.Table([]string{"COUNTRY", "COINS"}, rows)
	}
	if len(s.ByYear) > 0 {
		scr.Println("\nBy year")
		rows := make([][]string, 0, len(s.ByYear))
		for _, y := range s.ByYear {
			rows = append(rows, []string{coin.Year(y.Year), p.Count(y.Count)})
		}
		scr.Table([]string{"YEAR", "COINS"}, rows)
	}
	if len(s.ByOriginality) > 0 {
		scr.Println("\nBy originality")
		rows := make([][]string, 0, len(s.ByOriginality))
		for _, o := range s.ByOriginality {
			rows = append(rows, []string{coin.OriginalityLabel(o.Originality), p.Count(o.Count)})
		}
		scr.Table([]string{"ORIGINALITY", "COINS"}, rows)
	}
	return nil
}

// coinsView lists coins for management at /admin/coins.
type coinsView struct {
	coins CoinManager
}

func (v *coinsView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	f, err := coinFilter(req.Query)
	if err != nil {
		return err
	}
	page, err := v.coins.List(ctx, f)
	if err != nil {
		return err
	}
	p := scr.Present
	scr.Heading("Manage coins")
	if len(page.Data) == 0 {
		scr.Notice("No coins yet. Add one with: open /admin/coins/new")
		return nil
	}
	rows := make([][]string, 0, len(page.Data))
	for i := range page.Data {
		c := &page.Data[i]
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			coin.Title(c),
			coin.Year(c.Year),
			coin.OriginalityLabel(c.Originality),
			strconv.Itoa(c.Quantity),
			p.Money(c.PurchasePrice),
			p.Money(c.EstimatedValue),
		})
	}
	scr.Table([]string{"ID", "COIN", "YEAR", "ORIGINALITY", "QTY", "PURCHASE", "ESTIMATED"}, rows)
	pageFooter(scr, req, page.Meta)
	scr.Println("Actions: /admin/coins/new, /admin/coins/edit/<id>, /admin/coins/adjust/<id>,")
	scr.Println("         /admin/coins/delete/<id>, /admin/coins/import, /admin/coins/export")
	return nil
}

// coinFormView creates (/admin/coins/new) or edits (/admin/coins/edit/:id) a coin.
type coinFormView struct {
	coins CoinManager
	edit  bool
}

func (v *coinFormView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	form := &coinForm{scr: scr}
	var id int64
	if v.edit {
		var err error
		if id, err = parseID(req, "id"); err != nil {
			return err
		}
		c, ok, err := loadCoin(ctx, v.coins, id, scr)
		if !ok {
			return err
		}
		form.current = c
		scr.Heading("Edit " + coin.Title(c))
		scr.Println("Leave a field blank to keep it, or enter - to clear it.")
	} else {
		scr.Heading("New coin")
		scr.Println("Country, face value and year are required.")
	}

	in, err := form.read()
	if err != nil {
		return err
	}
	// Validate before asking for files so a bad form costs no uploads.
	if v.edit {
		err = in.ValidateUpdate()
	} else {
		err = in.ValidateCreate()
	}
	if err != nil {
		return err
	}
	front, back, closeFiles, err := form.images()
	if err != nil {
		return err
	}
	defer closeFiles()

	var saved *coindomain.Coin
	if v.edit {
		saved, err = v.coins.Update(ctx, id, in, front, back)
	} else {
		saved, err = v.coins.Create(ctx, in, front, back)
	}
	if err != nil {
		return err
	}
	scr.Notice("Saved " + coin.Title(saved) + " (#" + strconv.FormatInt(saved.ID, 10) + ").")
	scr.RedirectReplace(adminCoinsPath)
	return nil
}

// coinDeleteView removes a coin after confirmation at /admin/coins/delete/:id.
type coinDeleteView struct {
	coins CoinManager
}

func (v *coinDeleteView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	id, err := parseID(req, "id")
	if err != nil {
		return err
	}
	c, ok, err := loadCoin(ctx, v.coins, id, scr)
	if !ok {
		return err
	}
	scr.Heading("Delete coin")
	ok, err = Confirm(scr.In, "Delete "+coin.Title(c)+"? This cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		scr.Notice("Kept.")
		scr.RedirectReplace(adminCoinsPath)
		return nil
	}
	if err := v.coins.Delete(ctx, id); err != nil {
		return err
	}
	scr.Notice("Deleted " + coin.Title(c) + ".")
	scr.RedirectReplace(adminCoinsPath)
	return nil
}

// coinAdjustView changes a coin's quantity at /admin/coins/adjust/:id.
type coinAdjustView struct {
	coins CoinManager
}

func (v *coinAdjustView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	id, err := parseID(req, "id")
	if err != nil {
		return err
	}
	c, ok, err := loadCoin(ctx, v.coins, id, scr)
	if !ok {
		return err
	}
	scr.Heading("Adjust quantity")
	scr.Field("Coin", coin.Title(c))
	scr.Field("Quantity", strconv.Itoa(c.Quantity))
	raw, err := scr.In.Line("Change (e.g. +2 or -1)")
	if err != nil {
		return err
	}
	delta, err := parseDelta(raw)
	if err != nil {
		return err
	}
	note, err := scr.In.Line("Note (optional)")
	if err != nil {
		return err
	}
	updated, err := v.coins.Adjust(ctx, id, coindomain.Adjustment{Delta: delta, Note: note})
	if err != nil {
		return err
	}
	scr.Notice("Quantity of " + coin.Title(updated) + " is now " + strconv.Itoa(updated.Quantity) + ".")
	return nil
}

// coinImportView uploads a bulk file at /admin/coins/import. ?file= skips the prompt.
type coinImportView struct {
	coins CoinManager
}

func (v *coinImportView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	scr.Heading("Import coins")
	path := strings.TrimSpace(req.Query.Get("file"))
	if path == "" {
		ans, err := scr.In.Line("File (.json or .csv)")
		if err != nil {
			return err
		}
		path = strings.TrimSpace(ans)
	}
	if path == "" {
		scr.Notice("Nothing imported.")
		return nil
	}
	res, err := v.coins.ImportFile(ctx, path)
	if err != nil {
		return err
	}
	scr.Notice("Imported " + scr.Present.Count(res.Inserted) + " coins.")
	if res.Errors > 0 {
		scr.Error(scr.Present.Count(res.Errors) + " rows could not be imported.")
	}
	return nil
}

// coinExportView writes the catalog to a file at /admin/coins/export. ?format= and ?dir= skip
// the prompts.
type coinExportView struct {
	coins CoinManager
}

func (v *coinExportView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	scr.Heading("Export coins")
	raw := req.Query.Get("format")
	if raw == "" {
		ans, err := scr.In.Line("Format (json/csv) [json]")
		if err != nil {
			return err
		}
		raw = ans
	}
	if strings.TrimSpace(raw) == "" {
		raw = string(coindomain.ExportJSON)
	}
	format, err := coinservice.ParseExportFormat(raw)
	if err != nil {
		return err
	}
	dir := req.Query.Get("dir")
	if dir == "" {
		ans, err := scr.In.Line("Directory [.]")
		if err != nil {
			return err
		}
		dir = strings.TrimSpace(ans)
	}
	if dir == "" {
		dir = "."
	}
	path, err := v.coins.ExportTo(ctx, format, dir)
	if err != nil {
		return err
	}
	scr.Notice("Wrote " + path)
	return nil
}

// loadCoin fetches a coin for an admin action. A missing coin is reported and sends the user
// back to the list; ok is false whenever the caller should stop.
func loadCoin(ctx context.Context, coins Catalog, id int64, scr *Screen) (*coindomain.Coin, bool, error) {
	c, err := coins.Get(ctx, id)
	if err != nil {
		if IsEmptyState(err) {
			scr.Notice("Coin #" + strconv.FormatInt(id, 10) + " was not found.")
			scr.RedirectReplace(adminCoinsPath)
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}
