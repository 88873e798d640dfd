package domain

import "fmt"

type Weather string

const (
	WeatherClear  Weather = "Clear"
	WeatherCloudy Weather = "Cloudy"
	WeatherRainy  Weather = "Rainy"
)

type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "Low"
	TrafficMedium TrafficLevel = "Medium"
	TrafficHigh   TrafficLevel = "High"
)

type TimeOfDay string

const (
	TimeMorning TimeOfDay = "Morning"
	TimeLunch   TimeOfDay = "Lunch"
	TimeEvening TimeOfDay = "Evening"
	TimeNight   TimeOfDay = "Night"
)

type VehicleType string

const (
	VehicleMotorbike VehicleType = "Motorbike"
	VehicleCar       VehicleType = "Car"
	VehicleBicycle   VehicleType = "Bicycle"
)

// Choices offered by the dashboard form, in display order.
var (
	WeatherChoices   = []Weather{WeatherClear, WeatherCloudy, WeatherRainy}
	TrafficChoices   = []TrafficLevel{TrafficLow, TrafficMedium, TrafficHigh}
	TimeOfDayChoices = []TimeOfDay{TimeMorning, TimeLunch, TimeEvening, TimeNight}
	VehicleChoices   = []VehicleType{VehicleMotorbike, VehicleCar, VehicleBicycle}
)

// Raw delivery conditions entered by a user.
// A DeliveryRequest is built fresh for every prediction and never mutated.
type DeliveryRequest struct {
	DistanceKm           float64
	Weather              Weather
	TrafficLevel         TrafficLevel
	TimeOfDay            TimeOfDay
	VehicleType          VehicleType
	PreparationTimeMin   float64
	CourierExperienceYrs float64
}

// DefaultRequest returns the values the dashboard form starts with.
func DefaultRequest() DeliveryRequest {
	return DeliveryRequest{
		DistanceKm:           5.2,
		Weather:              WeatherClear,
		TrafficLevel:         TrafficMedium,
		TimeOfDay:            TimeLunch,
		VehicleType:          VehicleMotorbike,
		PreparationTimeMin:   15.0,
		CourierExperienceYrs: 2.0,
	}
}

func (r DeliveryRequest) String() string {
	return fmt.Sprintf(
		"distance_km=%g weather=%s traffic_level=%s time_of_day=%s vehicle_type=%s preparation_time_min=%g courier_experience_yrs=%g",
		r.DistanceKm, r.Weather, r.TrafficLevel, r.TimeOfDay, r.VehicleType, r.PreparationTimeMin, r.CourierExperienceYrs,
	)
}
