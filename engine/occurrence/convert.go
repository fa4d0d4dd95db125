package occurrence

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/engine/taxa"
)

func Convert(r Record) Occurrence {
	first := r.FirstAppearance.Ptr()
	o := Occurrence{
		ID:                      r.ID,
		SessionID:               core.RefID(r.Event),
		SessionName:             core.RefName(r.Event),
		DeploymentID:            core.RefID(r.Deployment),
		DeploymentName:          core.RefName(r.Deployment),
		ProjectID:               core.RefID(r.Project),
		DeterminationScore:      r.DeterminationScore,
		Verified:                r.Verified,
		FirstAppearance:         first,
		NumDetections:           r.DetectionsCount,
		NumIdentifications:      r.IdentificationsCount,
		DeterminationScoreLabel: core.FormatScore(r.DeterminationScore),
		DateLabel:               core.FormatDateTime(first),
		DetectionsLabel:         core.FormatCount(r.DetectionsCount, "detection"),
	}
	if d := r.Determination; d != nil {
		o.DeterminationID = d.ID
		o.DeterminationName = d.Name
		o.DeterminationRank = taxa.ParseRank(d.Rank)
	}
	if r.DurationSeconds != nil {
		d := time.Duration(*r.DurationSeconds * float64(time.Second))
		o.Duration = &d
		o.DurationLabel = core.FormatDuration(d)
	}
	return o
}
