package services

import (
	"context"
	"delivery-time-service/internal/domain"
	"delivery-time-service/internal/platform/obs"
	"delivery-time-service/internal/ports"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram bin counts shown on the dashboard.
const (
	DeliveryTimeBins    = 30
	DistanceBins        = 25
	PreparationTimeBins = 25
	headRows            = 5
)

// Numeric columns included in the correlation matrix.
var CorrelationColumns = []string{
	domain.ColDistanceKm,
	domain.ColPreparationTimeMin,
	domain.ColCourierExperienceYrs,
	domain.ColDeliveryTimeMin,
}

// EDA computes exploratory statistics over the delivery dataset.
type EDA struct {
	Source ports.DatasetSource
}

// Summary computes every statistic the dashboard presents.
func (s *EDA) Summary(ctx context.Context) (_ *domain.EDASummary, err error) {
	defer obs.Time(ctx, "eda.Summary")(&err)

	if s.Source == nil {
		return nil, errors.New("eda summary: dataset source is nil")
	}
	df := s.Source.Frame()
	if df.Nrow() == 0 {
		return nil, errors.New("eda summary: dataset is empty")
	}

	out := &domain.EDASummary{Overview: Overview(df, headRows)}

	hists := []struct {
		dst  *domain.Histogram
		col  string
		bins int
	}{
		{&out.DeliveryTime, domain.ColDeliveryTimeMin, DeliveryTimeBins},
		{&out.Distance, domain.ColDistanceKm, DistanceBins},
		{&out.PreparationTime, domain.ColPreparationTimeMin, PreparationTimeBins},
	}
	for _, h := range hists {
		if *h.dst, err = Histogram(df, h.col, h.bins); err != nil {
			return nil, fmt.Errorf("eda summary: %w", err)
		}
	}

	if out.ByWeather, err = BoxStatsBy(df, domain.ColWeather, domain.ColDeliveryTimeMin, stringsOf(domain.WeatherChoices)); err != nil {
		return nil, fmt.Errorf("eda summary: %w", err)
	}
	if out.ByTrafficLevel, err = BoxStatsBy(df, domain.ColTrafficLevel, domain.ColDeliveryTimeMin, stringsOf(domain.TrafficChoices)); err != nil {
		return nil, fmt.Errorf("eda summary: %w", err)
	}
	if out.ByTimeOfDay, err = MeanBy(df, domain.ColTimeOfDay, domain.ColDeliveryTimeMin, stringsOf(domain.TimeOfDayChoices)); err != nil {
		return nil, fmt.Errorf("eda summary: %w", err)
	}

	out.ExperienceScatter = pairs(df, domain.ColCourierExperienceYrs, domain.ColDeliveryTimeMin)
	if out.ExperienceTrend, err = Trend(out.ExperienceScatter, domain.ColCourierExperienceYrs, domain.ColDeliveryTimeMin); err != nil {
		return nil, fmt.Errorf("eda summary: %w", err)
	}

	if out.Correlation, err = Correlation(df, CorrelationColumns); err != nil {
		return nil, fmt.Errorf("eda summary: %w", err)
	}

	return out, nil
}

// Overview reports the dataset shape and its first n rows.
func Overview(df dataframe.DataFrame, n int) domain.DatasetOverview {
	n = min(n, df.Nrow())
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var head [][]string
	if n > 0 {
		// Records includes the header row.
		head = df.Subset(idx).Records()[1:]
	}

	return domain.DatasetOverview{
		Rows:    df.Nrow(),
		Columns: df.Ncol(),
		Names:   df.Names(),
		Head:    head,
	}
}

// Histogram splits the finite values of col into bins equal-width buckets
// spanning [min, max].
func Histogram(df dataframe.DataFrame, col string, bins int) (domain.Histogram, error) {
	if bins < 1 {
		return domain.Histogram{}, fmt.Errorf("histogram %s: bins must be positive", col)
	}

	x, err := finiteColumn(df, col)
	if err != nil {
		return domain.Histogram{}, fmt.Errorf("histogram: %w", err)
	}
	if len(x) == 0 {
		return domain.Histogram{}, fmt.Errorf("histogram %s: no values", col)
	}
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		hi = lo + 1
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram treats the last divider as exclusive.
	upper := dividers[bins]
	dividers[bins] = math.Nextafter(upper, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)

	out := domain.Histogram{Column: col, Bins: make([]domain.Bin, bins)}
	for i := range bins {
		out.Bins[i] = domain.Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	out.Bins[bins-1].Hi = upper
	return out, nil
}

// BoxStatsBy summarizes target per category of groupCol. Categories in
// order come first; any others found in the data follow alphabetically.
func BoxStatsBy(df dataframe.DataFrame, groupCol, target string, order []string) ([]domain.BoxStats, error) {
	cats, err := categories(df, groupCol, order)
	if err != nil {
		return nil, fmt.Errorf("box stats: %w", err)
	}

	out := make([]domain.BoxStats, 0, len(cats))
	for _, c := range cats {
		x, err := finiteColumn(filterEq(df, groupCol, c), target)
		if err != nil {
			return nil, fmt.Errorf("box stats %s=%s: %w", groupCol, c, err)
		}
		if len(x) == 0 {
			continue
		}
		sort.Float64s(x)

		out = append(out, domain.BoxStats{
			Category: c,
			Count:    len(x),
			Min:      x[0],
			Q1:       stat.Quantile(0.25, stat.Empirical, x, nil),
			Median:   stat.Quantile(0.5, stat.Empirical, x, nil),
			Q3:       stat.Quantile(0.75, stat.Empirical, x, nil),
			Max:      x[len(x)-1],
			Mean:     stat.Mean(x, nil),
		})
	}
	return out, nil
}

// MeanBy averages target per category of groupCol.
func MeanBy(df dataframe.DataFrame, groupCol, target string, order []string) ([]domain.GroupMean, error) {
	cats, err := categories(df, groupCol, order)
	if err != nil {
		return nil, fmt.Errorf("group mean: %w", err)
	}

	out := make([]domain.GroupMean, 0, len(cats))
	for _, c := range cats {
		x, err := finiteColumn(filterEq(df, groupCol, c), target)
		if err != nil {
			return nil, fmt.Errorf("group mean %s=%s: %w", groupCol, c, err)
		}
		if len(x) == 0 {
			continue
		}
		out = append(out, domain.GroupMean{Category: c, Count: len(x), Mean: stat.Mean(x, nil)})
	}
	return out, nil
}

// Trend fits an ordinary least squares line through the points.
func Trend(pts domain.Scatter, xName, yName string) (domain.Trendline, error) {
	if len(pts.X) < 2 {
		return domain.Trendline{}, fmt.Errorf("trend %s~%s: need at least 2 points, got %d", yName, xName, len(pts.X))
	}
	if floats.Min(pts.X) == floats.Max(pts.X) {
		return domain.Trendline{}, fmt.Errorf("trend %s~%s: %s is constant", yName, xName, xName)
	}

	alpha, beta := stat.LinearRegression(pts.X, pts.Y, nil, false)
	return domain.Trendline{
		X:         xName,
		Y:         yName,
		N:         len(pts.X),
		Intercept: alpha,
		Slope:     beta,
		RSquared:  stat.RSquared(pts.X, pts.Y, nil, alpha, beta),
	}, nil
}

// Correlation returns the Pearson correlation matrix of cols, using the
// rows where both columns of a pair are finite.
func Correlation(df dataframe.DataFrame, cols []string) (domain.CorrelationMatrix, error) {
	names := df.Names()
	for _, c := range cols {
		if !slices.Contains(names, c) {
			return domain.CorrelationMatrix{}, fmt.Errorf("correlation: missing column %q", c)
		}
	}

	m := domain.CorrelationMatrix{Columns: slices.Clone(cols), Values: make([][]float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
	}

	for i := range cols {
		for j := i; j < len(cols); j++ {
			if i == j {
				m.Values[i][j] = 1
				continue
			}
			p := pairs(df, cols[i], cols[j])
			r := math.NaN()
			if len(p.X) > 1 {
				r = stat.Correlation(p.X, p.Y, nil)
			}
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m, nil
}

func filterEq(df dataframe.DataFrame, col, value string) dataframe.DataFrame {
	return df.Filter(dataframe.F{
		Colname:    col,
		Comparator: series.Eq,
		Comparando: value,
	})
}

func categories(df dataframe.DataFrame, col string, order []string) ([]string, error) {
	if !slices.Contains(df.Names(), col) {
		return nil, fmt.Errorf("missing column %q", col)
	}

	s := df.Col(col)
	seen := map[string]struct{}{}
	var extra []string
	for i := range s.Len() {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if !slices.Contains(order, v) {
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)

	out := make([]string, 0, len(seen))
	for _, c := range order {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return append(out, extra...), nil
}

func finiteColumn(df dataframe.DataFrame, col string) ([]float64, error) {
	if !slices.Contains(df.Names(), col) {
		return nil, fmt.Errorf("missing column %q", col)
	}
	if df.Nrow() == 0 {
		return nil, nil
	}

	raw := df.Col(col).Float()
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Rows where both columns are finite.
func pairs(df dataframe.DataFrame, xCol, yCol string) domain.Scatter {
	xs := df.Col(xCol).Float()
	ys := df.Col(yCol).Float()

	var p domain.Scatter
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		p.X = append(p.X, x)
		p.Y = append(p.Y, y)
	}
	return p
}

func stringsOf[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
