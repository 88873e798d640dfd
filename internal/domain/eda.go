package domain

import (
	"encoding/json"
	"math"
)

// Columns of the historical dataset.
const (
	ColDeliveryTimeMin = "delivery_time_min"
	ColOrderID         = "order_id"
)

// Bin is one histogram bucket covering [Lo, Hi). The last bin also holds Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

type Histogram struct {
	Column string `json:"column"`
	Bins   []Bin  `json:"bins"`
}

// BoxStats summarizes the delivery-time distribution of one category.
type BoxStats struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
}

type GroupMean struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
}

// Trendline is an ordinary least squares fit of Y on X.
type Trendline struct {
	X         string  `json:"x"`
	Y         string  `json:"y"`
	N         int     `json:"n"`
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
}

// At evaluates the fitted line.
func (t Trendline) At(x float64) float64 { return t.Intercept + t.Slope*x }

type Scatter struct {
	X []float64
	Y []float64
}

// CorrelationMatrix holds pairwise Pearson coefficients; Values[i][j]
// correlates Columns[i] with Columns[j].
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// MarshalJSON writes undefined coefficients (constant columns) as null.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				vals[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, vals})
}

type DatasetOverview struct {
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Names   []string   `json:"names"`
	Head    [][]string `json:"head"`
}

// EDASummary is everything the dashboard shows about the dataset.
type EDASummary struct {
	Overview          DatasetOverview   `json:"overview"`
	DeliveryTime      Histogram         `json:"delivery_time"`
	Distance          Histogram         `json:"distance"`
	PreparationTime   Histogram         `json:"preparation_time"`
	ByWeather         []BoxStats        `json:"by_weather"`
	ByTrafficLevel    []BoxStats        `json:"by_traffic_level"`
	ByTimeOfDay       []GroupMean       `json:"by_time_of_day"`
	ExperienceTrend   Trendline         `json:"experience_trend"`
	ExperienceScatter Scatter           `json:"-"`
	Correlation       CorrelationMatrix `json:"correlation"`
}
