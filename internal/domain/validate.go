package domain

import (
	"fmt"
	"math"
	"slices"
)

// Bounds enforced by the dashboard form controls.
const (
	MinDistanceKm           = 0.1
	MaxDistanceKm           = 100.0
	MinPreparationTimeMin   = 1.0
	MaxPreparationTimeMin   = 120.0
	MinCourierExperienceYrs = 0.0
	MaxCourierExperienceYrs = 20.0
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate applies the same constraints as the form controls.
// Derive does not call it; callers at the input boundary do.
func (r DeliveryRequest) Validate() error {
	if err := checkRange(ColDistanceKm, r.DistanceKm, MinDistanceKm, MaxDistanceKm); err != nil {
		return err
	}
	if !slices.Contains(WeatherChoices, r.Weather) {
		return &ValidationError{Field: ColWeather, Reason: fmt.Sprintf("%q is not one of %v", r.Weather, WeatherChoices)}
	}
	if !slices.Contains(TrafficChoices, r.TrafficLevel) {
		return &ValidationError{Field: ColTrafficLevel, Reason: fmt.Sprintf("%q is not one of %v", r.TrafficLevel, TrafficChoices)}
	}
	if !slices.Contains(TimeOfDayChoices, r.TimeOfDay) {
		return &ValidationError{Field: ColTimeOfDay, Reason: fmt.Sprintf("%q is not one of %v", r.TimeOfDay, TimeOfDayChoices)}
	}
	if !slices.Contains(VehicleChoices, r.VehicleType) {
		return &ValidationError{Field: ColVehicleType, Reason: fmt.Sprintf("%q is not one of %v", r.VehicleType, VehicleChoices)}
	}
	if err := checkRange(ColPreparationTimeMin, r.PreparationTimeMin, MinPreparationTimeMin, MaxPreparationTimeMin); err != nil {
		return err
	}
	if err := checkRange(ColCourierExperienceYrs, r.CourierExperienceYrs, MinCourierExperienceYrs, MaxCourierExperienceYrs); err != nil {
		return err
	}
	return nil
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%g is outside [%g, %g]", v, lo, hi)}
	}
	return nil
}
