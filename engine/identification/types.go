package identification

import (
	"time"

	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/engine/taxa"
)

// Record is the backend shape of one human identification of an occurrence.
type Record struct {
	ID         core.ID         `json:"id"`
	Occurrence *core.Ref       `json:"occurrence"`
	Taxon      *taxa.Brief     `json:"taxon"`
	User       *core.Ref       `json:"user"`
	Comment    string          `json:"comment"`
	Withdrawn  bool            `json:"withdrawn"`
	CreatedAt  *core.Timestamp `json:"created_at"`
}

type Identification struct {
	ID           core.ID
	OccurrenceID core.ID
	TaxonID      core.ID
	TaxonName    string
	TaxonRank    taxa.Rank
	UserID       core.ID
	UserName     string
	Comment      string
	Withdrawn    bool
	CreatedAt    *time.Time

	CreatedLabel string
}

// Input is the create payload. Agreeing with a prediction is expressed by
// passing the predicted taxon.
type Input struct {
	OccurrenceID core.ID `json:"occurrence_id" validate:"required"`
	TaxonID      core.ID `json:"taxon_id"      validate:"required"`
	Comment      string  `json:"comment,omitempty" validate:"max=1000"`
}
