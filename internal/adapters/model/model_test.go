package model

import (
	"context"
	"delivery-time-service/internal/domain"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func loadTiny(t *testing.T) *Model {
	t.Helper()
	m, err := LoadFile(filepath.Join("testdata", "tiny_model.json"))
	if err != nil {
		t.Fatalf("load tiny model: %v", err)
	}
	return m
}

func TestLoadFile(t *testing.T) {
	m := loadTiny(t)

	if m.Version() != "test-1" {
		t.Errorf("version = %q, want test-1", m.Version())
	}
	if m.Trees() != 4 {
		t.Errorf("trees = %d, want 4", m.Trees())
	}
	if w := m.encoder.Width(); w != 17 {
		t.Errorf("encoded width = %d, want 17", w)
	}
}

func TestPredict(t *testing.T) {
	m := loadTiny(t)

	tests := []struct {
		name string
		req  domain.DeliveryRequest
		want float64
	}{
		{
			name: "form defaults",
			req:  domain.DefaultRequest(),
			want: 20 + 5 + 0 - 1 + 0,
		},
		{
			name: "long rainy trip with undefined experience",
			req: domain.DeliveryRequest{
				DistanceKm:           12,
				Weather:              domain.WeatherRainy,
				TrafficLevel:         domain.TrafficHigh,
				TimeOfDay:            domain.TimeNight,
				VehicleType:          domain.VehicleCar,
				PreparationTimeMin:   20,
				CourierExperienceYrs: 25,
			},
			want: 20 + 15 + 8 + 2.5 + 6,
		},
		{
			name: "newbie at split boundary",
			req: domain.DeliveryRequest{
				DistanceKm:           10,
				Weather:              domain.WeatherCloudy,
				TrafficLevel:         domain.TrafficLow,
				TimeOfDay:            domain.TimeMorning,
				VehicleType:          domain.VehicleBicycle,
				PreparationTimeMin:   5,
				CourierExperienceYrs: 0,
			},
			want: 20 + 15 + 0 + 3 + 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(context.Background(), domain.Derive(tt.req))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("prediction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredictUnknownCategory(t *testing.T) {
	m := loadTiny(t)

	req := domain.DefaultRequest()
	req.Weather = "Snowy"

	_, err := m.Predict(context.Background(), domain.Derive(req))
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Fatalf("expected unknown category error, got %v", err)
	}
}

func TestPredictCanceledContext(t *testing.T) {
	m := loadTiny(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Predict(ctx, domain.Derive(domain.DefaultRequest())); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEncoder(t *testing.T) {
	enc, err := NewEncoder([]FeatureSpec{
		{Column: domain.ColDistanceKm, Kind: KindNumeric},
		{Column: domain.ColWeather, Kind: KindOneHot, Categories: []string{"Clear", "Cloudy", "Rainy"}},
		{Column: domain.ColExperienceLevel, Kind: KindOrdinal, Categories: []string{"Newbie", "Intermediate", "Experienced", "Veteran"}},
	})
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}

	wantNames := []string{"distance_km", "weather_Clear", "weather_Cloudy", "weather_Rainy", "experience_level"}
	if got := enc.Names(); strings.Join(got, ",") != strings.Join(wantNames, ",") {
		t.Fatalf("names = %v, want %v", got, wantNames)
	}

	rec := domain.Derive(domain.DeliveryRequest{DistanceKm: 3.5, Weather: domain.WeatherCloudy, CourierExperienceYrs: 7})
	x, err := enc.Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []float64{3.5, 0, 1, 0, 2}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("x[%d] = %v, want %v (x=%v)", i, x[i], want[i], x)
		}
	}

	undefined := domain.Derive(domain.DeliveryRequest{DistanceKm: 1, Weather: domain.WeatherClear, CourierExperienceYrs: 30})
	x, err = enc.Encode(undefined)
	if err != nil {
		t.Fatalf("encode undefined tier: %v", err)
	}
	if !math.IsNaN(x[4]) {
		t.Fatalf("undefined tier encoded as %v, want NaN", x[4])
	}
}

func TestCompileRejectsBadArtifacts(t *testing.T) {
	leaf := func(id int, v float64) *Node { return &Node{NodeID: id, Leaf: &v} }
	features := []FeatureSpec{{Column: domain.ColDistanceKm, Kind: KindNumeric}}

	tests := []struct {
		name    string
		art     Artifact
		wantErr string
	}{
		{
			name:    "no version",
			art:     Artifact{Features: features, Trees: []*Node{leaf(0, 1)}},
			wantErr: "version is required",
		},
		{
			name:    "no trees",
			art:     Artifact{Version: "v", Features: features},
			wantErr: "no trees",
		},
		{
			name:    "unknown column",
			art:     Artifact{Version: "v", Features: []FeatureSpec{{Column: "tip_amount", Kind: KindNumeric}}, Trees: []*Node{leaf(0, 1)}},
			wantErr: "unknown column",
		},
		{
			name:    "onehot without categories",
			art:     Artifact{Version: "v", Features: []FeatureSpec{{Column: domain.ColWeather, Kind: KindOneHot}}, Trees: []*Node{leaf(0, 1)}},
			wantErr: "needs categories",
		},
		{
			name: "unknown split",
			art: Artifact{Version: "v", Features: features, Trees: []*Node{
				{NodeID: 0, Split: "weather_Clear", Yes: 1, No: 2, Missing: 1, Children: []*Node{leaf(1, 0), leaf(2, 1)}},
			}},
			wantErr: "does not name a feature",
		},
		{
			name: "split index out of range",
			art: Artifact{Version: "v", Features: features, Trees: []*Node{
				{NodeID: 0, Split: "f3", Yes: 1, No: 2, Missing: 1, Children: []*Node{leaf(1, 0), leaf(2, 1)}},
			}},
			wantErr: "out of range",
		},
		{
			name: "dangling branch",
			art: Artifact{Version: "v", Features: features, Trees: []*Node{
				{NodeID: 0, Split: "f0", Yes: 1, No: 5, Missing: 1, Children: []*Node{leaf(1, 0), leaf(2, 1)}},
			}},
			wantErr: "unknown node",
		},
		{
			name: "oversized nodeid",
			art: Artifact{Version: "v", Features: features, Trees: []*Node{
				{NodeID: 0, Split: "f0", Yes: 1, No: 1 << 62, Missing: 1, Children: []*Node{leaf(1, 0), leaf(1<<62, 1)}},
			}},
			wantErr: "out of range for 3 nodes",
		},
		{
			name: "sparse nodeids",
			art: Artifact{Version: "v", Features: features, Trees: []*Node{
				{NodeID: 0, Split: "f0", Yes: 1, No: 7, Missing: 1, Children: []*Node{leaf(1, 0), leaf(7, 1)}},
			}},
			wantErr: "nodeid 7 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.art)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLazyModelLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	lm := newLazyModel("testdata/tiny_model.json", func() (*Model, error) {
		calls.Add(1)
		return LoadFile(filepath.Join("testdata", "tiny_model.json"))
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := lm.Predict(context.Background(), domain.Derive(domain.DefaultRequest())); err != nil {
				t.Errorf("predict: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("loader called %d times, want 1", n)
	}
	if lm.Version() != "test-1" {
		t.Fatalf("version = %q, want test-1", lm.Version())
	}
}

func TestLazyModelKeepsLoadError(t *testing.T) {
	lm := NewLazyModel(filepath.Join(t.TempDir(), "missing.json"))

	for range 2 {
		if _, err := lm.Predict(context.Background(), domain.Derive(domain.DefaultRequest())); err == nil {
			t.Fatal("expected load error")
		}
	}
	if lm.Version() != "unavailable" {
		t.Fatalf("version = %q, want unavailable", lm.Version())
	}
}

func TestLazyModelOversizedNodeIDIsLoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	artifact := `{
  "version": "corrupt",
  "features": [{"column": "distance_km", "kind": "numeric"}],
  "trees": [
    {"nodeid": 0, "split": "f0", "split_condition": 1, "yes": 1, "no": 4611686018427387904, "missing": 1, "children": [
      {"nodeid": 1, "leaf": 0},
      {"nodeid": 4611686018427387904, "leaf": 1}
    ]}
  ]
}`
	if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	lm := NewLazyModel(path)
	_, err := lm.Predict(context.Background(), domain.Derive(domain.DefaultRequest()))
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("error = %v, want nodeid out of range", err)
	}
}
