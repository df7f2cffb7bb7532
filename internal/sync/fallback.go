package sync

import "github.com/kitchenops/demosync/internal/model"

// FallbackRecords returns the static sample data callers show when every
// fetch strategy for every sheet has been exhausted. It mirrors the shape
// of live data so dashboards stay renderable while the sheet is
// unreachable.
func FallbackRecords() []*model.DemoRecord {
	return []*model.DemoRecord{
		{
			ID:              "demo_schedule-0",
			Source:          model.SourceDemoSchedule,
			ClientName:      "Spice Garden Hotel",
			ClientEmail:     "events@spicegarden.example",
			ClientMobile:    "9876500001",
			LeadStatus:      model.StatusPlanned,
			DemoDate:        "2026-09-03",
			DemoTime:        "11:00 AM",
			SalesRep:        "sam",
			Assignee:        "pat",
			Recipes:         []string{"Paneer Tikka", "Veg Biryani"},
			AssignedTeam:    2,
			AssignedSlot:    "11:00 AM - 1:00 PM",
			AssignedMembers: []string{"Kishore", "Lakshmi"},
			Notes:           "Kishore, Lakshmi | 11:00 AM - 1:00 PM",
		},
		{
			ID:           "demo_schedule-1",
			Source:       model.SourceDemoSchedule,
			ClientName:   "Blue Lotus Caterers",
			ClientEmail:  "hello@bluelotus.example",
			ClientMobile: "9876500002",
			LeadStatus:   model.StatusGiven,
			DemoDate:     "2026-08-28",
			DemoTime:     "3:00 PM",
			SalesRep:     "sam",
			Assignee:     "pat",
			Recipes:      []string{"Masala Dosa"},
		},
		{
			ID:           "kitchen_request-0",
			Source:       model.SourceKitchenRequest,
			ClientName:   "Riverside Banquets",
			ClientEmail:  "kitchen@riverside.example",
			ClientMobile: "9876500003",
			LeadStatus:   model.StatusPlanned,
			DemoDate:     "2026-09-05",
			DemoTime:     "10:00 AM",
			Assignee:     "ravi",
			Recipes:      []string{"Gulab Jamun", "Naan"},
		},
	}
}
