package identification

import (
	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/engine/taxa"
)

func Convert(r Record) Identification {
	created := r.CreatedAt.Ptr()
	i := Identification{
		ID:           r.ID,
		OccurrenceID: core.RefID(r.Occurrence),
		UserID:       core.RefID(r.User),
		UserName:     core.RefName(r.User),
		Comment:      r.Comment,
		Withdrawn:    r.Withdrawn,
		CreatedAt:    created,
		CreatedLabel: core.FormatDateTime(created),
	}
	if t := r.Taxon; t != nil {
		i.TaxonID = t.ID
		i.TaxonName = t.Name
		i.TaxonRank = taxa.ParseRank(t.Rank)
	}
	return i
}
