package deployment

import "github.com/fieldnet/fieldnet/engine/core"

// Convert maps a backend record to a Deployment.
func Convert(r Record) Deployment {
	first, last := r.FirstDate.Ptr(), r.LastDate.Ptr()
	return Deployment{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		ProjectID:        core.RefID(r.Project),
		ResearchSiteID:   core.RefID(r.ResearchSite),
		ResearchSiteName: core.RefName(r.ResearchSite),
		DeviceID:         core.RefID(r.Device),
		DeviceName:       core.RefName(r.Device),
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		NumEvents:        r.EventsCount,
		NumCaptures:      r.CapturesCount,
		NumOccurrences:   r.OccurrencesCount,
		NumTaxa:          r.TaxaCount,
		FirstDate:        first,
		LastDate:         last,
		CreatedAt:        r.CreatedAt.Ptr(),
		UpdatedAt:        r.UpdatedAt.Ptr(),
		Location:         core.FormatCoordinates(r.Latitude, r.Longitude),
		CapturesLabel:    core.FormatCount(r.CapturesCount, "capture"),
		OccurrencesLabel: core.FormatCount(r.OccurrencesCount, "occurrence"),
		DateSpan:         core.FormatDateSpan(first, last),
	}
}
