package deployment

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
)

// Record is the backend shape of one deployment.
type Record struct {
	ID               core.ID         `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Project          *core.Ref       `json:"project"`
	ResearchSite     *core.Ref       `json:"research_site"`
	Device           *core.Ref       `json:"device"`
	Latitude         *float64        `json:"latitude"`
	Longitude        *float64        `json:"longitude"`
	EventsCount      *int            `json:"events_count"`
	CapturesCount    *int            `json:"captures_count"`
	OccurrencesCount *int            `json:"occurrences_count"`
	TaxaCount        *int            `json:"taxa_count"`
	FirstDate        *core.Timestamp `json:"first_date"`
	LastDate         *core.Timestamp `json:"last_date"`
	CreatedAt        *core.Timestamp `json:"created_at"`
	UpdatedAt        *core.Timestamp `json:"updated_at"`
}

// Deployment is a monitoring station placement as presented to callers.
type Deployment struct {
	ID               core.ID
	Name             string
	Description      string
	ProjectID        core.ID
	ResearchSiteID   core.ID
	ResearchSiteName string
	DeviceID         core.ID
	DeviceName       string
	Latitude         *float64
	Longitude        *float64
	NumEvents        *int
	NumCaptures      *int
	NumOccurrences   *int
	NumTaxa          *int
	FirstDate        *time.Time
	LastDate         *time.Time
	CreatedAt        *time.Time
	UpdatedAt        *time.Time

	Location         string
	CapturesLabel    string
	OccurrencesLabel string
	DateSpan         string
}

// Input is the create payload.
type Input struct {
	ProjectID      core.ID  `json:"project_id"                validate:"required"`
	Name           string   `json:"name"                      validate:"required,max=255"`
	Description    string   `json:"description,omitempty"`
	ResearchSiteID core.ID  `json:"research_site_id,omitempty"`
	DeviceID       core.ID  `json:"device_id,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"        validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude,omitempty"       validate:"omitempty,gte=-180,lte=180"`
}

// Patch is the partial update payload; nil members are left unchanged.
type Patch struct {
	Name           *string  `json:"name,omitempty"             validate:"omitempty,min=1,max=255"`
	Description    *string  `json:"description,omitempty"`
	ResearchSiteID *core.ID `json:"research_site_id,omitempty"`
	DeviceID       *core.ID `json:"device_id,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"         validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude,omitempty"        validate:"omitempty,gte=-180,lte=180"`
}
