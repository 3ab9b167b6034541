package services

import "field-schedule-service/internal/domain"

// WeatherProfile describes how sensitive a task category is to weather.
type WeatherProfile struct {
	IsOutdoor       bool
	SensitiveToRain bool
	SensitiveToWind bool
	WindMaxMPH      float64
	PrecipProbMax   float64
}

// Threshold constants live here, and only here, so they can become
// per-building configuration later without touching the scoring code.
const (
	defaultWindMaxMPH    = 25.0
	defaultPrecipProbMax = 0.3

	// Precipitation probability at or above this is treated as heavy
	// rain regardless of the category's own threshold.
	heavyRainProb = 0.6

	hotMaxF  = 95.0
	coldMinF = 32.0
)

// profiles maps task categories to their weather sensitivity. Categories
// absent from the table default to indoor/insensitive so an unknown task
// is never wrongly flagged as weather-blocked.
var profiles = map[domain.Category]WeatherProfile{
	domain.CategoryGarden: {
		IsOutdoor:       true,
		SensitiveToRain: true,
		SensitiveToWind: true,
		WindMaxMPH:      defaultWindMaxMPH,
		PrecipProbMax:   defaultPrecipProbMax,
	},
	domain.CategoryExterior: {
		IsOutdoor:       true,
		SensitiveToRain: true,
		SensitiveToWind: true,
		WindMaxMPH:      defaultWindMaxMPH,
		PrecipProbMax:   defaultPrecipProbMax,
	},
	domain.CategoryWindow: {
		IsOutdoor:       true,
		SensitiveToRain: true,
		SensitiveToWind: true,
		WindMaxMPH:      20.0, // ladder work tolerates less wind
		PrecipProbMax:   defaultPrecipProbMax,
	},
	domain.CategorySanitation: {
		IsOutdoor:       true,
		SensitiveToRain: true,
		SensitiveToWind: false,
		WindMaxMPH:      defaultWindMaxMPH,
		PrecipProbMax:   defaultPrecipProbMax,
	},
	domain.CategoryTrashArea: {
		IsOutdoor:       true,
		SensitiveToRain: true,
		SensitiveToWind: false,
		WindMaxMPH:      defaultWindMaxMPH,
		PrecipProbMax:   0.5, // short exposure, tolerates drizzle
	},
	domain.CategoryCompliance: {
		// Outdoor, but compliance stops are locked and never reordered;
		// the profile only drives advisory chips.
		IsOutdoor:       true,
		SensitiveToRain: false,
		SensitiveToWind: false,
		WindMaxMPH:      defaultWindMaxMPH,
		PrecipProbMax:   defaultPrecipProbMax,
	},
}

// ProfileFor resolves the weather profile for a task category.
func ProfileFor(category domain.Category) WeatherProfile {
	if p, ok := profiles[category]; ok {
		return p
	}
	// Conservative default: indoor and insensitive.
	return WeatherProfile{}
}
