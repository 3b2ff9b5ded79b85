package weather

// Forecast is one daily forecast entry from the weather API.
type Forecast struct {
	Summary  string  `json:"summary"`
	TempMin  float64 `json:"temperatureMin"`
	TempMax  float64 `json:"temperatureMax"`
	Humidity float64 `json:"humidity"`
	// Icon is the condition code, one of the ten known values or free-form
	// for future codes the API may add.
	Icon string `json:"icon"`
}

// DefaultIconImage backs every condition code the catalog does not know.
const DefaultIconImage = "https://cdn.eventbuddy.app/weather/default.png"

// iconImages maps the ten known condition codes onto display assets.
var iconImages = map[string]string{
	"clear-day":           "https://cdn.eventbuddy.app/weather/clear-day.png",
	"clear-night":         "https://cdn.eventbuddy.app/weather/clear-night.png",
	"rain":                "https://cdn.eventbuddy.app/weather/rain.png",
	"snow":                "https://cdn.eventbuddy.app/weather/snow.png",
	"sleet":               "https://cdn.eventbuddy.app/weather/sleet.png",
	"wind":                "https://cdn.eventbuddy.app/weather/wind.png",
	"fog":                 "https://cdn.eventbuddy.app/weather/fog.png",
	"cloudy":              "https://cdn.eventbuddy.app/weather/cloudy.png",
	"partly-cloudy-day":   "https://cdn.eventbuddy.app/weather/partly-cloudy-day.png",
	"partly-cloudy-night": "https://cdn.eventbuddy.app/weather/partly-cloudy-night.png",
}

// IconImage resolves a condition code to its display asset, falling back to
// the generic image for unrecognized codes.
func IconImage(code string) string {
	if img, ok := iconImages[code]; ok {
		return img
	}
	return DefaultIconImage
}
