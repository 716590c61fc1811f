package export

import (
	"fmt"
	"time"

	"brewboard/internal/core"
)

// Report is the aggregate summary written to a spreadsheet: the metric
// cards plus the three tables people actually forward around.
type Report struct {
	GeneratedAt time.Time
	Source      string
	Metrics     core.Metrics
	ByProduct   *core.Table
	ByWeekday   *core.Table
	ByMonth     *core.Table
}

// BuildReport aggregates the filtered dataset into an exportable report.
// ErrNoData propagates when the criteria match nothing.
func BuildReport(ds *core.Dataset, criteria core.Criteria) (*Report, error) {
	rows := core.Filter(ds, criteria)

	metrics, err := core.Summarize(rows)
	if err != nil {
		return nil, err
	}

	byProduct, err := core.SumBy(rows, core.GroupProduct)
	if err != nil {
		return nil, err
	}
	byWeekday, err := core.SumBy(rows, core.GroupWeekday)
	if err != nil {
		return nil, err
	}
	byMonth, err := core.SumBy(rows, core.GroupMonth)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt: time.Now(),
		Source:      ds.Source,
		Metrics:     metrics,
		ByProduct:   byProduct,
		ByWeekday:   byWeekday,
		ByMonth:     byMonth,
	}, nil
}

// Rows renders the report as spreadsheet rows.
func (r *Report) Rows() [][]interface{} {
	out := [][]interface{}{
		{"Coffee sales report", r.GeneratedAt.Format("2006-01-02 15:04")},
		{"Source", r.Source},
		{},
		{"Total sales", core.Money{Cents: r.Metrics.TotalCents}.String()},
		{"Transactions", r.Metrics.Transactions},
		{"Average ticket", core.Money{Cents: r.Metrics.AvgTicketCents}.String()},
		{"Most popular product", r.Metrics.TopProduct},
	}
	out = appendTable(out, "Sales by product", r.ByProduct)
	out = appendTable(out, "Sales by weekday", r.ByWeekday)
	out = appendTable(out, "Sales by month", r.ByMonth)
	return out
}

func appendTable(out [][]interface{}, title string, table *core.Table) [][]interface{} {
	out = append(out, []interface{}{}, []interface{}{title})
	for _, row := range table.Rows {
		out = append(out, []interface{}{row.Key, core.Money{Cents: row.Value}.String()})
	}
	return out
}

// A1Range returns the sheet-qualified range covering the report.
func (r *Report) A1Range(sheetName string) string {
	return fmt.Sprintf("%s!A1", sheetName)
}
