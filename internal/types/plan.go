package types

import (
	"time"

	"github.com/google/uuid"
)

// ActivityItem is a single recommended activity inside a plan section.
type ActivityItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Timing      string `json:"timing,omitempty"`
	Note        string `json:"note,omitempty"`
}

// PlanSummary condenses the weather context the plan was built from.
type PlanSummary struct {
	Conditions   string `json:"conditions"`
	TempRangeC   string `json:"temp_range_c"`
	TempRangeF   string `json:"temp_range_f"`
	PrecipChance string `json:"precip_chance"`
}

// ActivityPlan is the validated output of the activity synthesizer. Plans are
// built per request and never persisted; the ID exists so a response can be
// correlated with its log lines.
type ActivityPlan struct {
	ID          uuid.UUID      `json:"id"`
	Summary     PlanSummary    `json:"summary"`
	Morning     []ActivityItem `json:"morning"`
	Afternoon   []ActivityItem `json:"afternoon"`
	Indoor      []ActivityItem `json:"indoor"`
	Warnings    []string       `json:"warnings"`
	GeneratedAt time.Time      `json:"generated_at"`
}
