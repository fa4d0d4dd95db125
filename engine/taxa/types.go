package taxa

import "github.com/fieldnet/fieldnet/engine/core"

// Brief is the nested {id, name, rank} shape used wherever a taxon is
// referenced from another record.
type Brief struct {
	ID   core.ID `json:"id"`
	Name string  `json:"name"`
	Rank string  `json:"rank"`
}

// Record is the backend shape of one taxon.
type Record struct {
	ID               core.ID  `json:"id"`
	Name             string   `json:"name"`
	Rank             string   `json:"rank"`
	Parent           *Brief   `json:"parent"`
	Parents          []Brief  `json:"parents"`
	OccurrencesCount *int     `json:"occurrences_count"`
	Score            *float64 `json:"best_determination_score"`
}

// Parent is one ancestor of a taxon.
type Parent struct {
	ID   core.ID
	Name string
	Rank Rank
}

type Taxon struct {
	ID             core.ID
	Name           string
	Rank           Rank
	ParentID       core.ID
	ParentName     string
	Parents        []Parent
	NumOccurrences *int
	Score          *float64

	RankLabel        string
	OccurrencesLabel string
	ScoreLabel       string
}

func (t *Taxon) lineageRanks() []Rank {
	seen := make(map[Rank]struct{}, len(t.Parents)+1)
	ranks := make([]Rank, 0, len(t.Parents)+1)
	add := func(r Rank) {
		if r == "" {
			return
		}
		if _, ok := seen[r]; ok {
			return
		}
		seen[r] = struct{}{}
		ranks = append(ranks, r)
	}
	for _, p := range t.Parents {
		add(p.Rank)
	}
	add(t.Rank)
	return ranks
}
