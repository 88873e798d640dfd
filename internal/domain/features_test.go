package domain

import (
	"math"
	"testing"
)

func TestExperienceLevelFor(t *testing.T) {
	tests := []struct {
		years float64
		want  ExperienceLevel
	}{
		{0, ExperienceNewbie},
		{1.99, ExperienceNewbie},
		{2, ExperienceIntermediate},
		{4.5, ExperienceIntermediate},
		{5, ExperienceExperienced},
		{9.999, ExperienceExperienced},
		{10, ExperienceVeteran},
		{19.9, ExperienceVeteran},
		{20, ExperienceUndefined},
		{-0.5, ExperienceUndefined},
		{math.NaN(), ExperienceUndefined},
	}

	for _, tt := range tests {
		if got := ExperienceLevelFor(tt.years); got != tt.want {
			t.Errorf("ExperienceLevelFor(%v) = %q, want %q", tt.years, got, tt.want)
		}
	}
}

func TestExperienceTiersAreContiguous(t *testing.T) {
	for i := 1; i < len(ExperienceTiers); i++ {
		prev, cur := ExperienceTiers[i-1], ExperienceTiers[i]
		if prev.Max != cur.Min {
			t.Errorf("tier %q ends at %v but %q starts at %v", prev.Label, prev.Max, cur.Label, cur.Min)
		}
		if cur.Min >= cur.Max {
			t.Errorf("tier %q is empty: [%v, %v)", cur.Label, cur.Min, cur.Max)
		}
	}
}

func TestDeriveDefaultScenario(t *testing.T) {
	req := DeliveryRequest{
		DistanceKm:           5.2,
		Weather:              WeatherClear,
		TrafficLevel:         TrafficMedium,
		TimeOfDay:            TimeLunch,
		VehicleType:          VehicleMotorbike,
		PreparationTimeMin:   15.0,
		CourierExperienceYrs: 2.0,
	}

	rec := Derive(req)

	if rec.DeliveryRequest != req {
		t.Fatalf("original fields changed: got %+v, want %+v", rec.DeliveryRequest, req)
	}
	if want := 15.0 / 6.2; rec.PrepToDelivRatio != want {
		t.Errorf("prep_to_deliv_ratio = %v, want %v", rec.PrepToDelivRatio, want)
	}
	if math.Abs(rec.PrepToDelivRatio-2.4194) > 1e-4 {
		t.Errorf("prep_to_deliv_ratio = %v, want ~2.4194", rec.PrepToDelivRatio)
	}
	if rec.SpeedKmPerMin != 0.325 {
		t.Errorf("speed_km_per_min = %v, want 0.325", rec.SpeedKmPerMin)
	}
	if rec.ExperienceLevel != ExperienceIntermediate {
		t.Errorf("experience_level = %q, want Intermediate", rec.ExperienceLevel)
	}
}

func TestDeriveRatios(t *testing.T) {
	tests := []struct {
		distance, prep float64
	}{
		{0.1, 1},
		{0, 10},
		{12.5, 0},
		{100, 120},
		{-0.5, 0},
	}

	for _, tt := range tests {
		rec := Derive(DeliveryRequest{DistanceKm: tt.distance, PreparationTimeMin: tt.prep})
		if want := tt.prep / (tt.distance + 1); !sameFloat(rec.PrepToDelivRatio, want) {
			t.Errorf("distance=%v prep=%v: ratio = %v, want %v", tt.distance, tt.prep, rec.PrepToDelivRatio, want)
		}
		if want := tt.distance / (tt.prep + 1); !sameFloat(rec.SpeedKmPerMin, want) {
			t.Errorf("distance=%v prep=%v: speed = %v, want %v", tt.distance, tt.prep, rec.SpeedKmPerMin, want)
		}
	}
}

func TestDeriveVeteranBoundary(t *testing.T) {
	rec := Derive(DeliveryRequest{DistanceKm: 3, PreparationTimeMin: 10, CourierExperienceYrs: 10.0})
	if rec.ExperienceLevel != ExperienceVeteran {
		t.Fatalf("experience_level = %q, want Veteran", rec.ExperienceLevel)
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	req := DefaultRequest()
	first := Derive(req)
	second := Derive(req)
	if first != second {
		t.Fatalf("Derive not deterministic: %+v vs %+v", first, second)
	}
}

func TestAugmentedRecordValue(t *testing.T) {
	rec := Derive(DefaultRequest())

	for _, col := range RecordColumns {
		if _, ok := rec.Value(col); !ok {
			t.Errorf("column %q not exposed", col)
		}
	}
	if _, ok := rec.Value("delivery_time_min"); ok {
		t.Errorf("target column must not be part of the record")
	}

	v, _ := rec.Value(ColExperienceLevel)
	if v != "Intermediate" {
		t.Errorf("experience_level value = %v, want Intermediate", v)
	}
}

func sameFloat(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
