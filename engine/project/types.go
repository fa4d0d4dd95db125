package project

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
)

// Record is the backend shape of one project.
type Record struct {
	ID               core.ID         `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Image            string          `json:"image"`
	Owner            *core.Ref       `json:"owner"`
	DeploymentsCount *int            `json:"deployments_count"`
	CreatedAt        *core.Timestamp `json:"created_at"`
	UpdatedAt        *core.Timestamp `json:"updated_at"`
}

type Project struct {
	ID             core.ID
	Name           string
	Description    string
	Image          string
	OwnerID        core.ID
	OwnerName      string
	NumDeployments *int
	CreatedAt      *time.Time
	UpdatedAt      *time.Time

	DeploymentsLabel string
	CreatedLabel     string
}

// Input is the create payload.
type Input struct {
	Name        string `json:"name"                  validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// Patch is the partial update payload; nil members are left unchanged.
type Patch struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}
