package handlers

import (
	"delivery-time-service/internal/api/dto"
	"delivery-time-service/internal/domain"
)

func toDomainRequest(req dto.PredictRequest) domain.DeliveryRequest {
	return domain.DeliveryRequest{
		DistanceKm:           req.DistanceKm,
		Weather:              domain.Weather(req.Weather),
		TrafficLevel:         domain.TrafficLevel(req.TrafficLevel),
		TimeOfDay:            domain.TimeOfDay(req.TimeOfDay),
		VehicleType:          domain.VehicleType(req.VehicleType),
		PreparationTimeMin:   req.PreparationTimeMin,
		CourierExperienceYrs: req.CourierExperienceYrs,
	}
}

func toRecordResponse(r domain.AugmentedRecord) dto.RecordResponse {
	return dto.RecordResponse{
		DistanceKm:           r.DistanceKm,
		Weather:              string(r.Weather),
		TrafficLevel:         string(r.TrafficLevel),
		TimeOfDay:            string(r.TimeOfDay),
		VehicleType:          string(r.VehicleType),
		PreparationTimeMin:   r.PreparationTimeMin,
		CourierExperienceYrs: r.CourierExperienceYrs,
		PrepToDelivRatio:     r.PrepToDelivRatio,
		SpeedKmPerMin:        r.SpeedKmPerMin,
		ExperienceLevel:      string(r.ExperienceLevel),
	}
}
