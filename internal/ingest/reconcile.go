package ingest

import (
	"time"

	"github.com/kitchenops/demosync/internal/model"
)

// Reconcile folds an ordered list of transformed records into one record
// per client identity. Later occurrences update earlier ones but keep the
// first occurrence's position and ID; a lead-status change between
// occurrences is stamped into PreviousStatus/StatusChangedAt so the
// transition survives the merge.
func Reconcile(records []*model.DemoRecord, now time.Time) []*model.DemoRecord {
	out := make([]*model.DemoRecord, 0, len(records))
	index := make(map[model.Identity]int, len(records))

	for _, rec := range records {
		id := rec.Identity()
		pos, seen := index[id]
		if !seen {
			index[id] = len(out)
			out = append(out, rec)
			continue
		}
		out[pos] = mergeOccurrence(out[pos], rec, now)
	}
	return out
}

func mergeOccurrence(prev, next *model.DemoRecord, now time.Time) *model.DemoRecord {
	merged := *next
	merged.ID = prev.ID
	merged.Source = prev.Source

	if next.LeadStatus != prev.LeadStatus {
		merged.PreviousStatus = prev.LeadStatus
		t := now
		merged.StatusChangedAt = &t
	} else {
		merged.PreviousStatus = prev.PreviousStatus
		merged.StatusChangedAt = prev.StatusChangedAt
	}
	return &merged
}
