package taxa

import "github.com/fieldnet/fieldnet/engine/core"

func Convert(r Record) Taxon {
	rank := ParseRank(r.Rank)
	t := Taxon{
		ID:               r.ID,
		Name:             r.Name,
		Rank:             rank,
		NumOccurrences:   r.OccurrencesCount,
		Score:            r.Score,
		RankLabel:        rank.Label(),
		OccurrencesLabel: core.FormatCount(r.OccurrencesCount, "occurrence"),
		ScoreLabel:       core.FormatScore(r.Score),
	}
	if r.Parent != nil {
		t.ParentID = r.Parent.ID
		t.ParentName = r.Parent.Name
	}
	if len(r.Parents) > 0 {
		t.Parents = make([]Parent, len(r.Parents))
		for i, p := range r.Parents {
			t.Parents[i] = Parent{ID: p.ID, Name: p.Name, Rank: ParseRank(p.Rank)}
		}
	}
	return t
}
