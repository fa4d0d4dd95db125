package species

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/engine/taxa"
)

// Record is the backend shape of one species row: a taxon with per-project
// observation statistics.
type Record struct {
	ID               core.ID         `json:"id"`
	Name             string          `json:"name"`
	Rank             string          `json:"rank"`
	Parent           *taxa.Brief     `json:"parent"`
	OccurrencesCount *int            `json:"occurrences_count"`
	DetectionsCount  *int            `json:"detections_count"`
	Score            *float64        `json:"best_determination_score"`
	LastDetected     *core.Timestamp `json:"last_detected"`
	CoverImageURL    string          `json:"cover_image_url"`
}

type Species struct {
	ID             core.ID
	Name           string
	Rank           taxa.Rank
	ParentID       core.ID
	ParentName     string
	NumOccurrences *int
	NumDetections  *int
	Score          *float64
	LastDetected   *time.Time
	ImageURL       string

	RankLabel         string
	OccurrencesLabel  string
	ScoreLabel        string
	LastDetectedLabel string
}
