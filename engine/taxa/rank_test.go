package taxa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lineage(rank Rank, parents ...Rank) Taxon {
	t := Taxon{Rank: rank}
	for _, p := range parents {
		t.Parents = append(t.Parents, Parent{Rank: p})
	}
	return t
}

func TestCommonRanks(t *testing.T) {
	t.Run("Should keep ranks shared by every taxon in canonical order", func(t *testing.T) {
		list := []Taxon{
			lineage(RankSpecies, RankGenus, RankFamily, RankOrder, RankKingdom),
			lineage(RankGenus, RankSubfamily, RankFamily, RankOrder, RankKingdom),
			lineage(RankFamily, RankSuperfamily, RankOrder, RankKingdom),
		}
		assert.Equal(t, []Rank{RankKingdom, RankOrder, RankFamily}, CommonRanks(list))
	})

	t.Run("Should place unknown ranks after known ones", func(t *testing.T) {
		list := []Taxon{
			lineage(RankSpecies, "SUBSPECIES_GROUP", RankGenus),
			lineage(RankSpecies, RankGenus, "SUBSPECIES_GROUP"),
		}
		assert.Equal(t, []Rank{RankGenus, RankSpecies, "SUBSPECIES_GROUP"}, CommonRanks(list))
	})

	t.Run("Should return nothing for an empty list", func(t *testing.T) {
		assert.Nil(t, CommonRanks(nil))
	})
}

func TestRank(t *testing.T) {
	t.Run("Should normalize and label ranks", func(t *testing.T) {
		assert.Equal(t, RankSuperfamily, ParseRank(" superfamily "))
		assert.Equal(t, "Superfamily", RankSuperfamily.Label())
		assert.Equal(t, "", Rank("").Label())
	})
}

func TestConvert(t *testing.T) {
	t.Run("Should map parents and derive labels", func(t *testing.T) {
		score := 0.914
		count := 3
		tx := Convert(Record{
			ID:               "77",
			Name:             "Noctua pronuba",
			Rank:             "species",
			Parent:           &Brief{ID: "70", Name: "Noctua", Rank: "GENUS"},
			Parents:          []Brief{{ID: "1", Name: "Lepidoptera", Rank: "ORDER"}, {ID: "70", Name: "Noctua", Rank: "genus"}},
			OccurrencesCount: &count,
			Score:            &score,
		})
		assert.Equal(t, RankSpecies, tx.Rank)
		assert.Equal(t, "Species", tx.RankLabel)
		assert.Equal(t, "Noctua", tx.ParentName)
		assert.Equal(t, []Parent{{ID: "1", Name: "Lepidoptera", Rank: RankOrder}, {ID: "70", Name: "Noctua", Rank: RankGenus}}, tx.Parents)
		assert.Equal(t, "3 occurrences", tx.OccurrencesLabel)
		assert.Equal(t, "0.91", tx.ScoreLabel)
	})
}
