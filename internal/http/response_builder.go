package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"brewboard/internal/core"
	applog "brewboard/internal/log"
)

// ChartResponse is the JSON envelope for every chart endpoint. NoData
// distinguishes "nothing matched" from an actual failure; the frontend
// renders a placeholder instead of an empty axis.
type ChartResponse struct {
	Chart  string     `json:"chart"`
	Agg    string     `json:"agg"`
	Split  string     `json:"split,omitempty"`
	NoData bool       `json:"no_data"`
	Rows   []ChartRow `json:"rows,omitempty"`
}

type ChartRow struct {
	Key   string  `json:"key"`
	Group string  `json:"group,omitempty"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Count int64   `json:"count"`
}

// MetricsResponse carries the dashboard's scalar cards.
type MetricsResponse struct {
	NoData       bool   `json:"no_data"`
	Total        string `json:"total,omitempty"`
	TotalCents   int64  `json:"total_cents,omitempty"`
	Transactions int    `json:"transactions,omitempty"`
	AvgTicket    string `json:"avg_ticket,omitempty"`
	TopProduct   string `json:"top_product,omitempty"`
}

// FiltersResponse describes the selectable filter space for the UI.
type FiltersResponse struct {
	Presets    []core.Preset `json:"presets"`
	MinDate    string        `json:"min_date"`
	MaxDate    string        `json:"max_date"`
	Cities     []string      `json:"cities"`
	Products   []string      `json:"products"`
	TimesOfDay []string      `json:"times_of_day"`
	Payments   []string      `json:"payments"`
}

func buildChartResponse(chart string, table *core.Table) ChartResponse {
	resp := ChartResponse{
		Chart: chart,
		Agg:   string(table.Agg),
		Split: string(table.Split),
		Rows:  make([]ChartRow, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		resp.Rows = append(resp.Rows, ChartRow{
			Key:   row.Key,
			Group: row.Group,
			Value: chartValue(table.Agg, row.Value),
			Label: chartLabel(table.Agg, row.Value),
			Count: row.Count,
		})
	}
	return resp
}

// chartValue converts cents to currency units for the money aggregates;
// counts pass through unchanged.
func chartValue(agg core.AggFunc, value int64) float64 {
	if agg == core.AggCount {
		return float64(value)
	}
	return core.Money{Cents: value}.Float()
}

func chartLabel(agg core.AggFunc, value int64) string {
	if agg == core.AggCount {
		return strconv.FormatInt(value, 10)
	}
	return core.Money{Cents: value}.String()
}

func buildMetricsResponse(m core.Metrics) MetricsResponse {
	return MetricsResponse{
		Total:        core.Money{Cents: m.TotalCents}.String(),
		TotalCents:   m.TotalCents,
		Transactions: m.Transactions,
		AvgTicket:    core.Money{Cents: m.AvgTicketCents}.String(),
		TopProduct:   m.TopProduct,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors onto HTTP statuses. ErrNoData is not an
// error at this layer and never reaches here; callers answer 200 with a
// no_data envelope instead.
func writeError(w http.ResponseWriter, r *http.Request, logger *applog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal error"
	switch {
	case errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, core.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
		message = "dataset unavailable"
	case errors.Is(err, core.ErrSchemaMismatch):
		message = "dataset schema mismatch"
	}

	if status >= 500 {
		logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldRequestID, RequestID(r.Context()),
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
	}
	writeJSON(w, status, map[string]string{"error": message})
}
