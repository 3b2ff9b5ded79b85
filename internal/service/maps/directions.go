package maps

import (
	"net/url"
	"strings"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

const directionsBase = "https://www.google.com/maps/dir/"

// travelModes maps the dialog's travel-mode choices onto the maps URL
// parameter. "No Matter" leaves the mode to the maps product's default.
var travelModes = map[string]string{
	"driving":   "driving",
	"walking":   "walking",
	"bicycling": "bicycling",
	"transit":   "transit",
}

// TravelModeChoices lists the options offered by the itinerary dialog.
func TravelModeChoices() []string {
	return []string{"Driving", "Walking", "Bicycling", "Transit", "No Matter"}
}

// DirectionsLink builds a clickable maps URL from an origin and destination
// address plus an optional travel mode. The link is rendered, never fetched.
func DirectionsLink(origin, destination, travelMode string) string {
	params := url.Values{}
	params.Set("api", "1")
	params.Set("origin", origin)
	params.Set("destination", destination)

	mode := strings.ToLower(strings.TrimSpace(travelMode))
	if !convo.IsNoMatter(mode) {
		if normalized, ok := travelModes[mode]; ok {
			params.Set("travelmode", normalized)
		}
	}

	return directionsBase + "?" + params.Encode()
}
