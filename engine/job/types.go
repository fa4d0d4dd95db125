package job

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
)

// Status is the backend job status, lower case.
type Status string

const (
	StatusCreated   Status = "created"
	StatusQueued    Status = "queued"
	StatusPending   Status = "pending"
	StatusStarted   Status = "started"
	StatusRunning   Status = "running"
	StatusRetry     Status = "retry"
	StatusCanceling Status = "canceling"
	StatusRevoked   Status = "revoked"
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
)

// Record is the backend shape of one processing job.
type Record struct {
	ID                    core.ID         `json:"id"`
	Name                  string          `json:"name"`
	Status                string          `json:"status"`
	Progress              *float64        `json:"progress"`
	Project               *core.Ref       `json:"project"`
	Deployment            *core.Ref       `json:"deployment"`
	Pipeline              *core.Ref       `json:"pipeline"`
	SourceImageCollection *core.Ref       `json:"source_image_collection"`
	CreatedAt             *core.Timestamp `json:"created_at"`
	StartedAt             *core.Timestamp `json:"started_at"`
	FinishedAt            *core.Timestamp `json:"finished_at"`
}

type Job struct {
	ID             core.ID
	Name           string
	Status         Status
	Progress       *float64
	ProjectID      core.ID
	DeploymentID   core.ID
	DeploymentName string
	PipelineID     core.ID
	PipelineName   string
	CollectionID   core.ID
	CreatedAt      *time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time

	StatusLabel   string
	ProgressLabel string
	ElapsedLabel  string
	CanStart      bool
	CanCancel     bool
	CanRetry      bool
}

// Input is the create payload.
type Input struct {
	Name                    string  `json:"name"                                 validate:"required,max=255"`
	ProjectID               core.ID `json:"project_id"                           validate:"required"`
	PipelineID              core.ID `json:"pipeline_id,omitempty"`
	DeploymentID            core.ID `json:"deployment_id,omitempty"`
	SourceImageCollectionID core.ID `json:"source_image_collection_id,omitempty"`
	Delay                   int     `json:"delay,omitempty"                      validate:"gte=0"`
	StartNow                bool    `json:"start_now,omitempty"`
}
