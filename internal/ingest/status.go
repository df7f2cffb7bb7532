package ingest

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/kitchenops/demosync/internal/model"
)

// statusSynonyms maps collapsed lowercase cell values to canonical lead
// statuses. Typos and historical spellings accumulate here.
var statusSynonyms = map[string]model.LeadStatus{
	"demo_planned":     model.StatusPlanned,
	"demo planned":     model.StatusPlanned,
	"planned":          model.StatusPlanned,
	"scheduled":        model.StatusPlanned,
	"demo scheduled":   model.StatusPlanned,
	"demo_rescheduled": model.StatusRescheduled,
	"demo rescheduled": model.StatusRescheduled,
	"rescheduled":      model.StatusRescheduled,
	"reschedule":       model.StatusRescheduled,
	"postponed":        model.StatusRescheduled,
	"demo_cancelled":   model.StatusCancelled,
	"demo cancelled":   model.StatusCancelled,
	"demo canceled":    model.StatusCancelled,
	"cancelled":        model.StatusCancelled,
	"canceled":         model.StatusCancelled,
	"cancel":           model.StatusCancelled,
	"demo_given":       model.StatusGiven,
	"demo given":       model.StatusGiven,
	"given":            model.StatusGiven,
	"completed":        model.StatusGiven,
	"complete":         model.StatusGiven,
	"done":             model.StatusGiven,
}

// NormalizeStatus maps a free-text lead-status cell to the canonical set.
// It is total and deliberately lossy: empty or unrecognized input yields
// StatusPlanned so a malformed cell never aborts ingestion of its row.
func NormalizeStatus(raw string) model.LeadStatus {
	key := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if key == "" {
		return model.StatusPlanned
	}
	if status, ok := statusSynonyms[key]; ok {
		return status
	}
	if looksLikePersonName(key) {
		// A bare name in the status column usually means the columns
		// shifted upstream. The default is the same either way; this
		// only aids diagnosis.
		zap.L().Debug("status cell looks like a person name, possible column misalignment",
			zap.String("value", raw),
		)
	}
	return model.StatusPlanned
}

func looksLikePersonName(s string) bool {
	if len(s) < 2 || len(s) > 50 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
