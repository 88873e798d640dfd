package domain

// Column names of the augmented record, in the order the model was trained with.
const (
	ColDistanceKm           = "distance_km"
	ColWeather              = "weather"
	ColTrafficLevel         = "traffic_level"
	ColTimeOfDay            = "time_of_day"
	ColVehicleType          = "vehicle_type"
	ColPreparationTimeMin   = "preparation_time_min"
	ColCourierExperienceYrs = "courier_experience_yrs"
	ColPrepToDelivRatio     = "prep_to_deliv_ratio"
	ColSpeedKmPerMin        = "speed_km_per_min"
	ColExperienceLevel      = "experience_level"
)

var RecordColumns = []string{
	ColDistanceKm,
	ColWeather,
	ColTrafficLevel,
	ColTimeOfDay,
	ColVehicleType,
	ColPreparationTimeMin,
	ColCourierExperienceYrs,
	ColPrepToDelivRatio,
	ColSpeedKmPerMin,
	ColExperienceLevel,
}

// A DeliveryRequest plus the features derived from it.
// This is the exact shape handed to the model.
type AugmentedRecord struct {
	DeliveryRequest
	PrepToDelivRatio float64
	SpeedKmPerMin    float64
	ExperienceLevel  ExperienceLevel
}

// Derive computes the ratio features and experience tier for req.
// It performs no validation; the +1 offsets keep both denominators
// non-zero for every value the form allows.
func Derive(req DeliveryRequest) AugmentedRecord {
	return AugmentedRecord{
		DeliveryRequest:  req,
		PrepToDelivRatio: req.PreparationTimeMin / (req.DistanceKm + 1),
		SpeedKmPerMin:    req.DistanceKm / (req.PreparationTimeMin + 1),
		ExperienceLevel:  ExperienceLevelFor(req.CourierExperienceYrs),
	}
}

// Value returns the record column by name: float64 for numeric columns,
// string for categorical ones.
func (r AugmentedRecord) Value(column string) (any, bool) {
	switch column {
	case ColDistanceKm:
		return r.DistanceKm, true
	case ColWeather:
		return string(r.Weather), true
	case ColTrafficLevel:
		return string(r.TrafficLevel), true
	case ColTimeOfDay:
		return string(r.TimeOfDay), true
	case ColVehicleType:
		return string(r.VehicleType), true
	case ColPreparationTimeMin:
		return r.PreparationTimeMin, true
	case ColCourierExperienceYrs:
		return r.CourierExperienceYrs, true
	case ColPrepToDelivRatio:
		return r.PrepToDelivRatio, true
	case ColSpeedKmPerMin:
		return r.SpeedKmPerMin, true
	case ColExperienceLevel:
		return string(r.ExperienceLevel), true
	}
	return nil, false
}
