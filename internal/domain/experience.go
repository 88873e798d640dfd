package domain

type ExperienceLevel string

const (
	ExperienceNewbie       ExperienceLevel = "Newbie"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceExperienced  ExperienceLevel = "Experienced"
	ExperienceVeteran      ExperienceLevel = "Veteran"

	// ExperienceUndefined is returned for years outside every tier.
	ExperienceUndefined ExperienceLevel = ""
)

// ExperienceTier is a half-open range of courier experience: [Min, Max).
type ExperienceTier struct {
	Min   float64
	Max   float64
	Label ExperienceLevel
}

// ExperienceTiers must match the bins the model was trained with.
// Ordered ascending; boundaries belong to the upper tier.
var ExperienceTiers = []ExperienceTier{
	{Min: 0, Max: 2, Label: ExperienceNewbie},
	{Min: 2, Max: 5, Label: ExperienceIntermediate},
	{Min: 5, Max: 10, Label: ExperienceExperienced},
	{Min: 10, Max: 20, Label: ExperienceVeteran},
}

// ExperienceLevelFor returns the tier containing years, or ExperienceUndefined.
func ExperienceLevelFor(years float64) ExperienceLevel {
	for _, t := range ExperienceTiers {
		if years >= t.Min && years < t.Max {
			return t.Label
		}
	}
	return ExperienceUndefined
}
