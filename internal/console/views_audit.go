package console

import (
	"context"
	"strconv"
	"strings"

	"numis/console/internal/audit"
	auditservice "numis/console/internal/audit/service"
)

// auditView lists audit records with their field changes at /admin/audit-logs.
type auditView struct {
	trail AuditTrail
}

func (v *auditView) Serve(ctx context.Context, req *Request, scr *Screen) error {
	f, err := auditFilter(req.Query)
	if err != nil {
		return err
	}
	page, err := v.trail.List(ctx, f)
	if err != nil {
		return err
	}
	scr.Heading("Audit log")
	if len(page.Entries) == 0 {
		scr.Notice("No audit records match these filters.")
		return nil
	}
	for i := range page.Entries {
		renderAuditEntry(scr, &page.Entries[i])
	}
	printPager(scr, req, page.Meta.Page, page.Meta.TotalPages, page.Meta.TotalItems)
	return nil
}

func renderAuditEntry(scr *Screen, e *auditservice.Entry) {
	rec := &e.Record
	actor := rec.ActorEmail
	if actor == "" && rec.ActorUserID != nil {
		actor = "user " + strconv.FormatInt(*rec.ActorUserID, 10)
	}
	scr.Printf("\n#%d  %s  %s  %s\n", rec.ID, rec.CreatedAt.Format(scr.DateLayout), audit.ActionLabel(rec.Action), audit.FormatText(actor))
	scr.Field("Coin", audit.CoinTitle(rec))
	if rec.DeltaQuantity != nil {
		d := strconv.Itoa(*rec.DeltaQuantity)
		if *rec.DeltaQuantity > 0 {
			d = "+" + d
		}
		scr.Field("Quantity change", d)
	}
	if strings.TrimSpace(rec.Note) != "" {
		scr.Field("Note", rec.Note)
	}
	if len(e.Changes) == 0 {
		return
	}
	rows := make([][]string, 0, len(e.Changes))
	for _, c := range e.Changes {
		rows = append(rows, []string{
			audit.Label(c.Field),
			oneLine(audit.Format(c.Before)),
			oneLine(audit.Format(c.After)),
		})
	}
	scr.Table([]string{"  FIELD", "BEFORE", "AFTER"}, indent(rows))
}

// oneLine flattens indented JSON so table columns stay aligned.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func indent(rows [][]string) [][]string {
	for _, r := range rows {
		if len(r) > 0 {
			r[0] = "  " + r[0]
		}
	}
	return rows
}
