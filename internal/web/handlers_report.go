package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/ledgerio/internal/core"
	"github.com/JonMunkholm/ledgerio/internal/export"
	"github.com/JonMunkholm/ledgerio/internal/logging"
	"github.com/JonMunkholm/ledgerio/internal/report"
	"github.com/go-chi/chi/v5"
)

// parseFilter reads the shared report query parameters.
func (s *Server) parseFilter(r *http.Request) (report.Filter, error) {
	q := r.URL.Query()

	dates, err := report.ParseDateRange(q.Get("startDate"), q.Get("endDate"), s.reports.Location())
	if err != nil {
		return report.Filter{}, err
	}
	groupBy, err := report.ParseGroupBy(q.Get("groupBy"))
	if err != nil {
		return report.Filter{}, err
	}
	lowStock, _ := strconv.ParseBool(q.Get("lowStock"))

	return report.Filter{
		OwnerID:  core.OwnerIDFromContext(r.Context()),
		Range:    dates,
		GroupBy:  groupBy,
		Category: q.Get("category"),
		LowStock: lowStock,
	}, nil
}

// handleReport serves JSON aggregations.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := s.parseFilter(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	ctx := r.Context()
	var result any
	switch name {
	case "sales":
		result, err = s.reports.Sales(ctx, f)
	case "expenses":
		result, err = s.reports.Expenses(ctx, f)
	case "profit-loss":
		result, err = s.reports.ProfitLoss(ctx, f)
	case "inventory":
		result, err = s.reports.Inventory(ctx, f)
	case "dashboard":
		result, err = s.reports.Dashboard(ctx, f)
	case "revenue-trend":
		result, err = s.reports.RevenueTrend(ctx, f.OwnerID)
	default:
		err = fmt.Errorf("%w: %s", report.ErrUnknownReport, name)
	}
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, result)
}

// handleExport renders a report document as csv, pdf or xlsx.
// The document is rendered into memory first so a failure still produces
// a JSON error instead of a truncated download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	f, err := s.parseFilter(r)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	doc, err := s.reports.Document(r.Context(), name, f)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	now := s.now()
	var buf bytes.Buffer
	err = export.Render(&buf, doc.Table, format, export.Options{
		Title:       doc.Title,
		GeneratedAt: now.In(s.reports.Location()),
		CompressPDF: s.cfg.Report.CompressPDF,
	})
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	logging.FromContext(r.Context()).Info("report exported",
		"report", name,
		"format", string(format),
		"rows", len(doc.Table.Rows),
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(doc.Name, format, now)))
	w.Write(buf.Bytes())
}
