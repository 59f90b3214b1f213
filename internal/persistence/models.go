package persistence

import (
	"encoding/json"
	"time"
)

// Volunteer is one weekly writing shift, claimed or open. Dates carry day
// precision; optional profile fields are empty strings when unset.
type Volunteer struct {
	ID                    int64
	Name                  string // Discord display name of the claimant
	VolunteerName         string // preferred byline, may differ from Name
	ReminderDate          time.Time
	DueDate               time.Time
	Taken                 bool
	Timezone              string
	SocialMediaHandle     string
	PreferredReminderTime string // "HH:MM" local to Timezone
	Organization          string
	OrganizationLink      string
}

// VolunteerProfile holds the operator-editable profile fields of a
// volunteer. Empty fields are left unchanged by updates.
type VolunteerProfile struct {
	VolunteerName         string
	SocialMediaHandle     string
	PreferredReminderTime string
	Organization          string
	OrganizationLink      string
}

// CacheEntry is a cached upstream response keyed by name and pinned to the
// commit it was derived from.
type CacheEntry struct {
	Key       string
	Value     string
	CommitSHA string
	UpdatedAt time.Time
}

// WeeklyReport is a stored summary of merged pull-request activity for one
// week. PRData holds the raw per-PR payload as JSON.
type WeeklyReport struct {
	ID                    int64
	StartDate             time.Time
	EndDate               time.Time
	TotalPRs              int
	FirstTimeContributors int
	Synopsis              string
	DateRange             string // humanized, e.g. "August 18th to August 24th"
	PRData                json.RawMessage
	CreatedAt             time.Time
}
