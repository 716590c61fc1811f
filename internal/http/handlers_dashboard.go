package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brewboard/internal/core"
	applog "brewboard/internal/log"
)

// chartKeys maps URL chart names onto grouping dimensions. The name is
// the contract with the frontend; the key drives the aggregation.
var chartKeys = map[string]core.GroupKey{
	"sales-by-product":        core.GroupProduct,
	"sales-by-hour":           core.GroupHour,
	"sales-by-time-of-day":    core.GroupTimeOfDay,
	"sales-by-weekday":        core.GroupWeekday,
	"sales-by-month":          core.GroupMonth,
	"sales-by-payment-method": core.GroupPayment,
	"sales-by-city":           core.GroupCity,
	"daily-revenue":           core.GroupDay,
	"monthly-revenue":         core.GroupMonthYear,
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", map[string]string{
		"Title": "Coffee Sales Dashboard",
	}); err != nil {
		s.logger.ErrorContext(r.Context(), "Template render failed", applog.FieldError, err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady answers 200 only when the dataset actually loads, so
// orchestration doesn't route traffic at an empty dashboard.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ds, err := s.source.Load(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rows":   ds.Len(),
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	ds, err := s.source.Load(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, FiltersResponse{
		Presets:    core.Presets,
		MinDate:    ds.MinDate.Format("2006-01-02"),
		MaxDate:    ds.MaxDate.Format("2006-01-02"),
		Cities:     ds.Cities(),
		Products:   ds.Products(),
		TimesOfDay: core.TimeOfDayOrder,
		Payments:   ds.Payments(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ds, err := s.source.Load(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	query, err := ParseChartQuery(r.URL.Query(), ds, s.now())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	key := "metrics|" + cacheKey(query, ds)
	if resp, ok := s.metricsCache.Get(key); ok {
		s.logger.DebugContext(r.Context(), "Metrics served from cache", applog.FieldCacheHit, true)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	metrics, err := core.Summarize(core.Filter(ds, query.Criteria))
	if errors.Is(err, core.ErrNoData) {
		writeJSON(w, http.StatusOK, MetricsResponse{NoData: true})
		return
	}
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	resp := buildMetricsResponse(metrics)
	s.metricsCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	chart := chi.URLParam(r, "chart")
	groupKey, ok := chartKeys[chart]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown chart " + chart})
		return
	}

	ds, err := s.source.Load(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	query, err := ParseChartQuery(r.URL.Query(), ds, s.now())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	key := chart + "|" + cacheKey(query, ds)
	if resp, ok := s.chartCache.Get(key); ok {
		s.logger.DebugContext(r.Context(), "Chart served from cache",
			applog.FieldChart, chart, applog.FieldCacheHit, true)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	table, err := core.Aggregate(core.Filter(ds, query.Criteria), groupKey, query.Split, query.Agg)
	if errors.Is(err, core.ErrNoData) {
		resp := ChartResponse{Chart: chart, Agg: string(query.Agg), NoData: true}
		s.chartCache.Set(key, resp)
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	resp := buildChartResponse(chart, table)
	s.chartCache.Set(key, resp)
	s.logger.DebugContext(r.Context(), "Chart computed",
		applog.FieldChart, chart, applog.FieldRows, len(resp.Rows))
	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh drops caches and reloads from the backing store.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.InvalidateData()
	ds, err := s.source.Load(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Dataset reloaded",
		applog.FieldSource, ds.Source,
		applog.FieldRows, ds.Len(),
		applog.FieldSkipped, ds.SkippedRows)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "refreshed",
		"rows":         ds.Len(),
		"skipped_rows": ds.SkippedRows,
	})
}

// cacheKey identifies a query against a specific dataset generation, so
// a reload never serves stale aggregates.
func cacheKey(q ChartQuery, ds *core.Dataset) string {
	return string(q.Agg) + "|" + string(q.Split) + "|" +
		q.Criteria.Fingerprint() + "|" +
		strconv.FormatInt(ds.LoadedAt.UnixNano(), 36)
}
