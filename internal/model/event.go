package model

import "time"

// EventCategory classifies a market event by its commercial character.
type EventCategory string

const (
	EventNationalHoliday   EventCategory = "national_holiday"
	EventReligiousFestival EventCategory = "religious_festival"
	EventCommercialEvent   EventCategory = "commercial_event"
)

// MarketEvent is a candidate calendar event supplied to the event scout.
// Multi-day events carry an EndDate; qualification keys on StartDate only.
type MarketEvent struct {
	Name      string        `json:"name" yaml:"name"`
	Category  EventCategory `json:"category,omitempty" yaml:"category,omitempty"`
	StartDate time.Time     `json:"start_date" yaml:"start_date"`
	EndDate   time.Time     `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Region    string        `json:"region,omitempty" yaml:"region,omitempty"`
}

// QualifiedEvent is a market event that passed the nationwide-impact test,
// annotated with whole days until its start from the reference date.
type QualifiedEvent struct {
	MarketEvent
	DaysRemaining int `json:"days_remaining"`
}
