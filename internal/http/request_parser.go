package http

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"brewboard/internal/core"
)

// ErrBadRequest marks client-side parse and validation failures so the
// response layer can map them to 400.
var ErrBadRequest = errors.New("bad request")

var validate = validator.New()

// filterRequest is the raw query-string shape, validated before any
// interpretation happens.
type filterRequest struct {
	Preset string `validate:"omitempty,oneof=all last_7_days last_30_days this_month previous_month this_quarter previous_quarter this_year previous_year custom"`
	Start  string `validate:"omitempty,datetime=2006-01-02"`
	End    string `validate:"omitempty,datetime=2006-01-02"`
	Agg    string `validate:"omitempty,oneof=sum mean count"`
	Split  string `validate:"omitempty,oneof=city"`
}

// ChartQuery is a fully parsed and resolved chart request.
type ChartQuery struct {
	Criteria core.Criteria
	Preset   core.Preset
	Agg      core.AggFunc
	Split    core.GroupKey
}

// ParseChartQuery turns raw query params into resolved criteria. Preset
// windows resolve against today; custom and all resolve against the
// dataset's date bounds.
func ParseChartQuery(q url.Values, ds *core.Dataset, today time.Time) (ChartQuery, error) {
	req := filterRequest{
		Preset: q.Get("preset"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
		Agg:    q.Get("agg"),
		Split:  q.Get("split"),
	}
	if req.Preset == "" {
		req.Preset = string(core.PresetAll)
	}
	if req.Agg == "" {
		req.Agg = string(core.AggSum)
	}
	if err := validate.Struct(req); err != nil {
		return ChartQuery{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	out := ChartQuery{
		Preset: core.Preset(req.Preset),
		Agg:    core.AggFunc(req.Agg),
	}
	if req.Split != "" {
		out.Split = core.GroupCity
	}

	dateRange, err := resolveRange(out.Preset, req.Start, req.End, ds, today)
	if err != nil {
		return ChartQuery{}, err
	}
	out.Criteria = core.Criteria{
		Range:      dateRange,
		Cities:     selections(q, "city"),
		Products:   selections(q, "product"),
		TimesOfDay: selections(q, "time_of_day"),
		Payments:   selections(q, "payment"),
	}
	return out, nil
}

func resolveRange(preset core.Preset, start, end string, ds *core.Dataset, today time.Time) (*core.DateRange, error) {
	switch preset {
	case core.PresetAll:
		// Full dataset, no date predicate needed.
		return nil, nil
	case core.PresetCustom:
		if start == "" || end == "" {
			return nil, fmt.Errorf("%w: custom range needs start and end", ErrBadRequest)
		}
		from, _ := time.Parse("2006-01-02", start)
		to, _ := time.Parse("2006-01-02", end)
		if from.After(to) {
			return nil, fmt.Errorf("%w: start %s is after end %s", ErrBadRequest, start, end)
		}
		r := core.DateRange{Start: from, End: to}.Clamp(ds.MinDate, ds.MaxDate)
		return &r, nil
	default:
		r, err := core.ResolvePreset(preset, today)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return &r, nil
	}
}

// selections returns nil when the dimension is absent from the query and
// a non-nil slice of the provided values otherwise. The distinction
// matters: nil means "no filter", empty means "match nothing".
func selections(q url.Values, name string) []string {
	values, ok := q[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
