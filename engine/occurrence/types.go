package occurrence

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/engine/taxa"
)

// Record is the backend shape of one occurrence: a single individual tracked
// across one or more detections.
type Record struct {
	ID                   core.ID         `json:"id"`
	Event                *core.Ref       `json:"event"`
	Deployment           *core.Ref       `json:"deployment"`
	Project              *core.Ref       `json:"project"`
	Determination        *taxa.Brief     `json:"determination"`
	DeterminationScore   *float64        `json:"determination_score"`
	Verified             bool            `json:"determination_verified"`
	FirstAppearance      *core.Timestamp `json:"first_appearance_timestamp"`
	DurationSeconds      *float64        `json:"duration"`
	DetectionsCount      *int            `json:"detections_count"`
	IdentificationsCount *int            `json:"identifications_count"`
}

type Occurrence struct {
	ID                 core.ID
	SessionID          core.ID
	SessionName        string
	DeploymentID       core.ID
	DeploymentName     string
	ProjectID          core.ID
	DeterminationID    core.ID
	DeterminationName  string
	DeterminationRank  taxa.Rank
	DeterminationScore *float64
	Verified           bool
	FirstAppearance    *time.Time
	Duration           *time.Duration
	NumDetections      *int
	NumIdentifications *int

	DeterminationScoreLabel string
	DateLabel               string
	DurationLabel           string
	DetectionsLabel         string
}
