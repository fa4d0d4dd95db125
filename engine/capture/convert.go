package capture

import "github.com/fieldnet/fieldnet/engine/core"

func Convert(r Record) Capture {
	ts := r.Timestamp.Ptr()
	return Capture{
		ID:              r.ID,
		URL:             r.URL,
		Width:           r.Width,
		Height:          r.Height,
		Timestamp:       ts,
		DeploymentID:    core.RefID(r.Deployment),
		DeploymentName:  core.RefName(r.Deployment),
		SessionID:       core.RefID(r.Event),
		NumDetections:   r.DetectionsCount,
		Starred:         r.Starred,
		TimeLabel:       core.FormatDateTime(ts),
		DetectionsLabel: core.FormatCount(r.DetectionsCount, "detection"),
	}
}
