package console

import (
	"context"
	"strconv"

	"numis/console/internal/coin"
	coindomain "numis/console/internal/coin/domain"
)

// galleryView is the public coin listing at /.
type galleryView struct {
	coins Catalog
}

func (v *galleryView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	f, err := coinFilter(req.Query)
	if err != nil {
		return err
	}
	page, err := v.coins.List(ctx, f)
	if err != nil {
		return err
	}
	scr.Heading("Coin gallery")
	if len(page.Data) == 0 {
		scr.Notice("No coins match these filters.")
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
			coin.Availability(c.Quantity),
		})
	}
	scr.Table([]string{"ID", "COIN", "YEAR", "ORIGINALITY", "AVAILABILITY"}, rows)
	pageFooter(scr, req, page.Meta)
	scr.Println("Open a coin with: open /coins/<id>")
	return nil
}

// coinView is the public coin detail at /coins/:id.
type coinView struct {
	coins Catalog
}

func (v *coinView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	id, err := parseID(req, "id")
	if err != nil {
		return err
	}
	c, err := v.coins.Get(ctx, id)
	if err != nil {
		if IsEmptyState(err) {
			scr.Heading("Coin")
			scr.Notice("This coin does not exist or was removed.")
			return nil
		}
		return err
	}
	renderCoin(scr, c)
	return nil
}

func renderCoin(scr *Screen, c *coindomain.Coin) {
	p := scr.Present
	scr.Heading(coin.Title(c))
	scr.Field("Country", coin.Text(c.Country))
	scr.Field("Face value", coin.Text(c.FaceValue))
	scr.Field("Year", coin.Year(c.Year))
	scr.Field("Originality", coin.OriginalityLabel(c.Originality))
	scr.Field("Condition", coin.Text(c.Condition))
	scr.Field("Category", coin.Text(c.Category))
	scr.Field("Availability", coin.Availability(c.Quantity))
	scr.Field("Purchase price", p.Money(c.PurchasePrice))
	scr.Field("Estimated value", p.Money(c.EstimatedValue))
	scr.Field("Acquired", c.AcquisitionDate.Format("2006-01-02"))
	scr.Field("Source", coin.Text(c.AcquisitionSource))
	scr.Field("Storage", coin.Text(c.StorageLocation))
	scr.Field("Notes", coin.Text(c.Notes))
	scr.Field("Front image", coin.Text(p.ImageURL(c.ImageURLFront)))
	scr.Field("Back image", coin.Text(p.ImageURL(c.ImageURLBack)))
}

func pageFooter(scr *Screen, req *Request, m coindomain.PageMeta) {
	printPager(scr, req, m.Page, m.TotalPages, m.TotalItems)
}

func printPager(scr *Screen, req *Request, page, pages, total int) {
	scr.Printf("\nPage %d of %d (%s total)\n", page, max(pages, 1), scr.Present.Count(total))
	if page > 1 {
		scr.Println("Previous: open " + withPage(req, page-1))
	}
	if page < pages {
		scr.Println("Next:     open " + withPage(req, page+1))
	}
}
