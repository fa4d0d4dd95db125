package capture

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
)

// Record is the backend shape of one captured image.
type Record struct {
	ID              core.ID         `json:"id"`
	URL             string          `json:"url"`
	Width           *int            `json:"width"`
	Height          *int            `json:"height"`
	Timestamp       *core.Timestamp `json:"timestamp"`
	Deployment      *core.Ref       `json:"deployment"`
	Event           *core.Ref       `json:"event"`
	DetectionsCount *int            `json:"detections_count"`
	Starred         bool            `json:"is_starred"`
}

type Capture struct {
	ID             core.ID
	URL            string
	Width          *int
	Height         *int
	Timestamp      *time.Time
	DeploymentID   core.ID
	DeploymentName string
	SessionID      core.ID
	NumDetections  *int
	Starred        bool

	TimeLabel       string
	DetectionsLabel string
}
