package species

import (
	"github.com/fieldnet/fieldnet/engine/core"
	"github.com/fieldnet/fieldnet/engine/taxa"
)

func Convert(r Record) Species {
	rank := taxa.ParseRank(r.Rank)
	last := r.LastDetected.Ptr()
	s := Species{
		ID:                r.ID,
		Name:              r.Name,
		Rank:              rank,
		NumOccurrences:    r.OccurrencesCount,
		NumDetections:     r.DetectionsCount,
		Score:             r.Score,
		LastDetected:      last,
		ImageURL:          r.CoverImageURL,
		RankLabel:         rank.Label(),
		OccurrencesLabel:  core.FormatCount(r.OccurrencesCount, "occurrence"),
		ScoreLabel:        core.FormatScore(r.Score),
		LastDetectedLabel: core.FormatDate(last),
	}
	if r.Parent != nil {
		s.ParentID = r.Parent.ID
		s.ParentName = r.Parent.Name
	}
	return s
}
