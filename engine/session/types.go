package session

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
)

// Record is the backend shape of one monitoring session. The backend calls
// sessions events.
type Record struct {
	ID               core.ID         `json:"id"`
	Name             string          `json:"name"`
	Deployment       *core.Ref       `json:"deployment"`
	Project          *core.Ref       `json:"project"`
	Start            *core.Timestamp `json:"start"`
	End              *core.Timestamp `json:"end"`
	CapturesCount    *int            `json:"captures_count"`
	DetectionsCount  *int            `json:"detections_count"`
	OccurrencesCount *int            `json:"occurrences_count"`
	TaxaCount        *int            `json:"taxa_count"`
}

// Session is one night (or other continuous period) of captures from a deployment.
type Session struct {
	ID             core.ID
	Name           string
	DeploymentID   core.ID
	DeploymentName string
	ProjectID      core.ID
	Start          *time.Time
	End            *time.Time
	Duration       time.Duration
	NumCaptures    *int
	NumDetections  *int
	NumOccurrences *int
	NumTaxa        *int

	DateSpan      string
	DurationLabel string
	CapturesLabel string
}
