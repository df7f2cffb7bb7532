// Package model defines the canonical demo-request entities shared across
// the ingestion pipeline, the override store, and the HTTP surface.
package model

import "time"

// LeadStatus is the canonical lifecycle stage of a demo request.
type LeadStatus string

const (
	StatusPlanned     LeadStatus = "demo_planned"
	StatusRescheduled LeadStatus = "demo_rescheduled"
	StatusCancelled   LeadStatus = "demo_cancelled"
	StatusGiven       LeadStatus = "demo_given"
)

// Source tags which origin sheet a record came from. It only affects
// record-id prefixing, never behavior.
type Source string

const (
	SourceDemoSchedule   Source = "demo_schedule"
	SourceKitchenRequest Source = "kitchen_request"
)

// DemoRecord is the canonical demo-request entity produced by the
// ingestion pipeline. Records are rebuilt fresh on every pass; the only
// identity that survives across passes is the Identity key.
type DemoRecord struct {
	ID              string     `json:"id"`
	Source          Source     `json:"source"`
	ClientName      string     `json:"client_name"`
	ClientEmail     string     `json:"client_email"`
	ClientMobile    string     `json:"client_mobile"`
	LeadStatus      LeadStatus `json:"lead_status"`
	DemoDate        string     `json:"demo_date"` // YYYY-MM-DD
	DemoTime        string     `json:"demo_time"` // H:MM AM/PM
	SalesRep        string     `json:"sales_rep,omitempty"`
	Assignee        string     `json:"assignee"`
	Recipes         []string   `json:"recipes,omitempty"`
	AssignedTeam    int        `json:"assigned_team,omitempty"` // 1-5, 0 = unassigned
	AssignedSlot    string     `json:"assigned_slot,omitempty"`
	AssignedMembers []string   `json:"assigned_members,omitempty"`
	MediaLink       string     `json:"media_link,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	PreviousStatus  LeadStatus `json:"previous_status,omitempty"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
}

// Identity returns the dedup/merge key for the record.
func (r *DemoRecord) Identity() Identity {
	return NewIdentity(r.ClientName, r.ClientEmail, r.ClientMobile)
}

// Override is a backend-persisted edit to a demo request. Its recipes and
// notes take precedence over the spreadsheet-sourced values for the same
// identity. Overrides outlive the spreadsheet rows that spawned them.
type Override struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	Source    Source    `json:"source,omitempty"`
	Recipes   []string  `json:"recipes,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
