// Package weather reports the latest surface observation for a city from the
// FMI open data WFS.
package weather

import (
	"context"
	"fmt"
	"strings"

	"daybrief/internal/agent"
	"daybrief/internal/observability"
)

const (
	paramTemperature = "t2m"
	paramWindSpeed   = "ws_10min"
)

type Tool struct {
	fmi         *FMIClient
	defaultCity string
	log         *observability.Logger
}

func New(fmi *FMIClient, defaultCity string) *Tool {
	return &Tool{
		fmi:         fmi,
		defaultCity: defaultCity,
		log:         observability.Component("tools.weather"),
	}
}

func (t *Tool) Name() string { return "weather" }

// Run fetches observations for the requested place (request hint, else the
// configured default city) and summarizes the newest reading. Fetch and
// parse failures come back as a friendly string, not an error: a broken
// weather feed should not fail the whole prompt.
func (t *Tool) Run(ctx context.Context, req agent.Request) (string, error) {
	city := strings.TrimSpace(req.Place)
	if city == "" {
		city = t.defaultCity
	}

	obs, err := t.fmi.CityObservations(ctx, city)
	if err != nil {
		t.log.Warn(ctx, "observation fetch failed", "city", city, observability.AttrErr(err))
		return fmt.Sprintf("Weather error: %v", err), nil
	}

	latest, ok := latestFor(obs, city)
	if !ok {
		return fmt.Sprintf("No weather data found for %s", city), nil
	}

	temp, hasTemp := latest.Values[paramTemperature]
	wind, hasWind := latest.Values[paramWindSpeed]
	if !hasTemp && !hasWind {
		return fmt.Sprintf("No weather data found for %s", city), nil
	}

	when := latest.Time.Format("2006-01-02 15:04")
	switch {
	case hasTemp && hasWind:
		return fmt.Sprintf("Temperature in %s is %.1f °C, wind speed is %.1f m/s recorded at %s", city, temp, wind, when), nil
	case hasTemp:
		return fmt.Sprintf("Temperature in %s is %.1f °C recorded at %s", city, temp, when), nil
	default:
		return fmt.Sprintf("Wind speed in %s is %.1f m/s recorded at %s", city, wind, when), nil
	}
}

// latestFor picks the newest observation from a station whose name contains
// the city; when no station name matches, the newest observation overall.
func latestFor(obs []Observation, city string) (Observation, bool) {
	lowered := strings.ToLower(city)

	var best Observation
	found := false
	for _, o := range obs {
		if !strings.Contains(strings.ToLower(o.Station), lowered) {
			continue
		}
		if !found || o.Time.After(best.Time) {
			best, found = o, true
		}
	}
	if found {
		return best, true
	}
	for _, o := range obs {
		if !found || o.Time.After(best.Time) {
			best, found = o, true
		}
	}
	return best, found
}
