package weather

import (
	"strings"
	"time"
)

// Condition is the weather group reported by the data source ("weather[0].main").
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionSnow         Condition = "Snow"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionHaze         Condition = "Haze"
	ConditionDust         Condition = "Dust"
	ConditionSmoke        Condition = "Smoke"
)

var knownConditions = []Condition{
	ConditionClear, ConditionClouds, ConditionRain, ConditionDrizzle, ConditionSnow,
	ConditionThunderstorm, ConditionMist, ConditionFog, ConditionHaze, ConditionDust, ConditionSmoke,
}

// ParseCondition matches s case-insensitively against the known groups.
// Unknown values are kept verbatim so counting still works on them.
func ParseCondition(s string) Condition {
	for _, c := range knownConditions {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	return Condition(s)
}

// Lower returns the lowercase name used for scene and theme selection.
func (c Condition) Lower() string {
	return strings.ToLower(string(c))
}

// TimeOfDay is either day or night.
type TimeOfDay string

const (
	Day   TimeOfDay = "day"
	Night TimeOfDay = "night"
)

// Location represents a logical place for which we track weather.
type Location struct {
	City     string   `json:"city"`
	Country  string   `json:"country,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Timezone int      `json:"timezoneOffset,omitempty"` // seconds east of UTC
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return strings.ToLower(l.City) + ":" + strings.ToLower(l.Country)
}

// Query returns the "city,country" form accepted by the weather APIs.
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// ForecastSample is one forecast observation. Text is the timestamp exactly as
// the source delivered it ("2006-01-02 15:04:05"); grouping works on it.
type ForecastSample struct {
	Timestamp     time.Time `json:"timestamp"`
	Text          string    `json:"dtTxt"`
	Temperature   float64   `json:"temperatureC"`
	FeelsLike     float64   `json:"feelsLikeC"`
	TempMin       float64   `json:"tempMinC"`
	TempMax       float64   `json:"tempMaxC"`
	Pressure      float64   `json:"pressureHpa"`
	Humidity      float64   `json:"humidityPercent"`
	WindSpeed     float64   `json:"windSpeed"`
	WindDirection int       `json:"windDeg"`
	Condition     Condition `json:"condition"`
	Icon          string    `json:"icon"`
	Description   string    `json:"description"`
}

// DailySummary is derived from the samples of one calendar day.
type DailySummary struct {
	Date              string           `json:"date"`
	Samples           []ForecastSample `json:"samples"`
	AvgTemp           float64          `json:"avgTempC"`
	MinTemp           float64          `json:"minTempC"`
	MaxTemp           float64          `json:"maxTempC"`
	AvgHumidity       float64          `json:"avgHumidityPercent"`
	AvgWindSpeed      float64          `json:"avgWindSpeed"`
	DominantCondition Condition        `json:"dominantCondition"`
	Representative    ForecastSample   `json:"representative"`
	Midday            ForecastSample   `json:"midday"`
}

// AggregateClassification is the window-level view used to pick a scene.
type AggregateClassification struct {
	DominantCondition Condition `json:"dominantCondition"`
	TimeOfDay         TimeOfDay `json:"timeOfDay"`
}

// WeatherSnapshot is the current conditions for a location.
type WeatherSnapshot struct {
	Location    Location  `json:"location"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Temperature float64   `json:"temperatureC"`
	FeelsLike   float64   `json:"feelsLikeC"`
	TempMin     float64   `json:"tempMinC"`
	TempMax     float64   `json:"tempMaxC"`
	Humidity    float64   `json:"humidityPercent"`
	Pressure    float64   `json:"pressureHpa"`
	WindSpeed   float64   `json:"windSpeed"`
	WindDeg     int       `json:"windDeg"`
	Visibility  int       `json:"visibilityM"`
	Condition   Condition `json:"condition"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	Provider    string    `json:"provider"`
}

// TimeOfDayAt reports day when at lies between sunrise and sunset.
// Without sun times it falls back to the clock hour rule.
func (s WeatherSnapshot) TimeOfDayAt(at time.Time) TimeOfDay {
	if s.Sunrise.IsZero() || s.Sunset.IsZero() {
		return timeOfDayFromClock(at)
	}
	if at.After(s.Sunrise) && at.Before(s.Sunset) {
		return Day
	}
	return Night
}

// ForecastResult is the forecast delivered by a provider.
type ForecastResult struct {
	Location Location         `json:"location"`
	Samples  []ForecastSample `json:"samples"`
	Provider string           `json:"provider"`
	Fetched  time.Time        `json:"fetchedAt"`
}

// ForecastView bundles the raw forecast with its derived values.
type ForecastView struct {
	ForecastResult
	Days           []DailySummary          `json:"days"`
	Classification AggregateClassification `json:"classification"`
	Fallback       bool                    `json:"fallback"`
}

// Dashboard is everything the home page shows for a city.
type Dashboard struct {
	Current   WeatherSnapshot `json:"current"`
	TimeOfDay TimeOfDay       `json:"timeOfDay"`
	Forecast  ForecastView    `json:"forecast"`
	Fallback  bool            `json:"fallback"`
}
