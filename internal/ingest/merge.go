package ingest

import (
	"sort"

	"github.com/kitchenops/demosync/internal/model"
)

// MergeOverrides applies backend-stored user edits on top of freshly
// fetched records. Stored recipes and notes win when non-empty; every
// other field comes from the fetch. Records without a stored counterpart
// pass through unchanged. Overrides whose identity no longer appears in
// the fetch are not emitted here — see Orphans.
func MergeOverrides(fetched []*model.DemoRecord, stored map[model.Identity]model.Override) []*model.DemoRecord {
	out := make([]*model.DemoRecord, 0, len(fetched))
	for _, rec := range fetched {
		ov, ok := stored[rec.Identity()]
		if !ok {
			out = append(out, rec)
			continue
		}
		merged := *rec
		if len(ov.Recipes) > 0 {
			merged.Recipes = append([]string(nil), ov.Recipes...)
		}
		if ov.Notes != "" {
			merged.Notes = ov.Notes
		}
		out = append(out, &merged)
	}
	return out
}

// Orphans returns stored overrides whose identity is absent from the
// fetched set. They stay in the store until explicitly cleared; callers
// surface them separately for manual reconciliation.
func Orphans(fetched []*model.DemoRecord, stored map[model.Identity]model.Override) []model.Override {
	live := make(map[model.Identity]struct{}, len(fetched))
	for _, rec := range fetched {
		live[rec.Identity()] = struct{}{}
	}
	var orphans []model.Override
	for id, ov := range stored {
		if _, ok := live[id]; !ok {
			orphans = append(orphans, ov)
		}
	}
	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].Identity.String() < orphans[j].Identity.String()
	})
	return orphans
}
