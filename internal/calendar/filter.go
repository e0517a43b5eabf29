package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// Filter returns the events prefs asks to see, sorted by time and converted
// to the preferred time zone. An empty currency list matches every currency.
func Filter(events []models.EconomicEvent, prefs models.CalendarPreferences, now time.Time) []models.EconomicEvent {
	loc, err := time.LoadLocation(prefs.TimeZone)
	if err != nil || prefs.TimeZone == "" {
		loc = time.UTC
	}

	currencies := make(map[string]bool, len(prefs.Currencies))
	for _, c := range prefs.Currencies {
		currencies[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	minRank := prefs.MinImpact.Rank()

	out := make([]models.EconomicEvent, 0, len(events))
	for _, ev := range events {
		if len(currencies) > 0 && !currencies[strings.ToUpper(ev.Currency)] {
			continue
		}
		if ev.Impact.Rank() < minRank {
			continue
		}
		if prefs.HidePast && ev.Time.Before(now) {
			continue
		}
		ev.Time = ev.Time.In(loc)
		out = append(out, ev)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
