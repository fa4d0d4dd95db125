package session

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
)

func Convert(r Record) Session {
	start, end := r.Start.Ptr(), r.End.Ptr()
	var duration time.Duration
	if start != nil && end != nil && end.After(*start) {
		duration = end.Sub(*start)
	}
	return Session{
		ID:             r.ID,
		Name:           r.Name,
		DeploymentID:   core.RefID(r.Deployment),
		DeploymentName: core.RefName(r.Deployment),
		ProjectID:      core.RefID(r.Project),
		Start:          start,
		End:            end,
		Duration:       duration,
		NumCaptures:    r.CapturesCount,
		NumDetections:  r.DetectionsCount,
		NumOccurrences: r.OccurrencesCount,
		NumTaxa:        r.TaxaCount,
		DateSpan:       core.FormatDateSpan(start, end),
		DurationLabel:  core.FormatDuration(duration),
		CapturesLabel:  core.FormatCount(r.CapturesCount, "capture"),
	}
}
