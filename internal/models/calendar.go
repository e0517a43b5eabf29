package models

import (
	"strings"
	"time"
)

// Impact is the expected market impact of an economic event.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

var impactRanks = map[Impact]int{ImpactLow: 1, ImpactMedium: 2, ImpactHigh: 3}

// Rank orders impacts; unknown values rank below low.
func (i Impact) Rank() int {
	return impactRanks[Impact(strings.ToLower(string(i)))]
}

// EconomicEvent is one entry of the economic calendar feed.
type EconomicEvent struct {
	Title    string    `json:"title"`
	Currency string    `json:"currency"`
	Impact   Impact    `json:"impact"`
	Time     time.Time `json:"time"`
	Forecast string    `json:"forecast,omitempty"`
	Previous string    `json:"previous,omitempty"`
	Actual   string    `json:"actual,omitempty"`
}

// CalendarPreferences controls which events the calendar view shows.
type CalendarPreferences struct {
	Currencies []string `json:"currencies"`
	MinImpact  Impact   `json:"minImpact" validate:"impact"`
	HidePast   bool     `json:"hidePast"`
	TimeZone   string   `json:"timeZone" validate:"required,timezone"`
}

// DefaultCalendarPreferences shows every medium and high impact event in UTC.
func DefaultCalendarPreferences() CalendarPreferences {
	return CalendarPreferences{
		Currencies: []string{},
		MinImpact:  ImpactMedium,
		HidePast:   false,
		TimeZone:   "UTC",
	}
}

// Validate checks impact and time zone.
func (c CalendarPreferences) Validate() error {
	return validateStruct(c)
}
