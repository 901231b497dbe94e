package engine

import (
	"fmt"

	"github.com/adscope/adscope-backend/internal/insights/types"
	"github.com/adscope/adscope-backend/pkg/enums"
)

// SeriesOptions parameterizes a daily aggregation pass.
type SeriesOptions struct {
	Compute ComputeOptions

	GroupKey enums.SeriesGroupKey

	// EndDate is the last day of the axis, formatted "YYYY-MM-DD".
	EndDate string

	// WindowDays is the trailing window length ending at EndDate.
	WindowDays int
}

// BuildDailySeries buckets ad-day rows onto a fixed trailing calendar axis
// and derives per-group, per-day rates. Days where a group contributed no
// rows carry nil, not zero, so the chart can show a gap instead of a dip.
func BuildDailySeries(rows []types.AdRow, opts SeriesOptions) (types.DailySeries, error) {
	axis, err := dateAxis(opts.EndDate, opts.WindowDays)
	if err != nil {
		return types.DailySeries{}, err
	}
	index := make(map[string]int, len(axis))
	for i, day := range axis {
		index[day] = i
	}

	groups := make(map[string]*seriesAccumulator)
	for _, row := range rows {
		day, ok := index[row.Date]
		if !ok {
			continue
		}
		key := row.AdID
		if opts.GroupKey == enums.SeriesGroupByAdName {
			key = row.AdName
		}
		acc, ok := groups[key]
		if !ok {
			acc = newSeriesAccumulator(key, len(axis))
			groups[key] = acc
		}
		acc.add(day, row, opts.Compute)
	}

	out := types.DailySeries{
		Axis:   axis,
		Groups: make(map[string]types.GroupSeries, len(groups)),
	}
	for key, acc := range groups {
		out.Groups[key] = acc.finish()
	}
	return out, nil
}

type dayTotals struct {
	seen             bool
	impressions      int64
	clicks           int64
	inlineLinkClicks int64
	landingPageViews int64
	plays            int64
	spend            float64
	results          float64
	hookWeighted     float64
	hookWeight       float64
}

type seriesAccumulator struct {
	key  string
	days []dayTotals
}

func newSeriesAccumulator(key string, n int) *seriesAccumulator {
	return &seriesAccumulator{key: key, days: make([]dayTotals, n)}
}

func (s *seriesAccumulator) add(day int, row types.AdRow, opts ComputeOptions) {
	t := &s.days[day]
	t.seen = true
	t.impressions += row.Impressions
	t.clicks += row.Clicks
	t.inlineLinkClicks += row.InlineLinkClicks
	t.landingPageViews += row.LPV
	t.plays += row.Plays
	t.spend += row.Spend
	t.results += row.ResultsFor(opts.ActionType)
	if row.Hook != nil {
		weight := float64(row.Plays)
		if weight <= 0 {
			weight = 1
		}
		t.hookWeighted += *row.Hook * weight
		t.hookWeight += weight
	}
}

func (s *seriesAccumulator) finish() types.GroupSeries {
	n := len(s.days)
	out := types.GroupSeries{
		Key:         s.key,
		Hook:        make([]*float64, n),
		CPR:         make([]*float64, n),
		CTR:         make([]*float64, n),
		ConnectRate: make([]*float64, n),
		PageConv:    make([]*float64, n),
		CPM:         make([]*float64, n),
	}
	for i := range s.days {
		t := s.days[i]
		if !t.seen {
			continue
		}
		if t.hookWeight > 0 {
			out.Hook[i] = ptr(t.hookWeighted / t.hookWeight)
		}
		if t.results > 0 {
			out.CPR[i] = ptr(t.spend / t.results)
		}
		if t.impressions > 0 {
			out.CTR[i] = ptr(float64(t.clicks) / float64(t.impressions))
			out.CPM[i] = ptr(t.spend * 1000 / float64(t.impressions))
		}
		if t.inlineLinkClicks > 0 {
			out.ConnectRate[i] = ptr(float64(t.landingPageViews) / float64(t.inlineLinkClicks))
		}
		if t.landingPageViews > 0 {
			out.PageConv[i] = ptr(t.results / float64(t.landingPageViews))
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }

// WindowStart returns the first day of a trailing window ending at endDate.
func WindowStart(endDate string, windowDays int) (string, error) {
	axis, err := dateAxis(endDate, windowDays)
	if err != nil {
		return "", err
	}
	return axis[0], nil
}

// dateAxis builds windowDays consecutive "YYYY-MM-DD" strings ending at
// endDate. The arithmetic is done on plain year/month/day fields so no
// timezone or DST rule can shift a day.
func dateAxis(endDate string, windowDays int) ([]string, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("window must span at least one day")
	}
	y, m, d, err := splitDate(endDate)
	if err != nil {
		return nil, err
	}

	axis := make([]string, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		axis[i] = fmt.Sprintf("%04d-%02d-%02d", y, m, d)
		y, m, d = prevDay(y, m, d)
	}
	return axis, nil
}

func splitDate(s string) (year, month, day int, err error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &year, &month, &day); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, month) {
		return 0, 0, 0, fmt.Errorf("invalid date %q", s)
	}
	return year, month, day, nil
}

func prevDay(y, m, d int) (int, int, int) {
	d--
	if d >= 1 {
		return y, m, d
	}
	m--
	if m < 1 {
		return y - 1, 12, 31
	}
	return y, m, daysInMonth(y, m)
}

func daysInMonth(y, m int) int {
	switch m {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
			return 29
		}
		return 28
	}
}
