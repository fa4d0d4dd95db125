package taxa

import (
	"slices"
	"strings"
)

// Rank is a taxonomic rank as the backend spells it: upper case.
type Rank string

const (
	RankKingdom     Rank = "KINGDOM"
	RankPhylum      Rank = "PHYLUM"
	RankClass       Rank = "CLASS"
	RankOrder       Rank = "ORDER"
	RankSuperfamily Rank = "SUPERFAMILY"
	RankFamily      Rank = "FAMILY"
	RankSubfamily   Rank = "SUBFAMILY"
	RankTribe       Rank = "TRIBE"
	RankSubtribe    Rank = "SUBTRIBE"
	RankGenus       Rank = "GENUS"
	RankSpecies     Rank = "SPECIES"
)

// Ranks lists the known ranks from broadest to narrowest.
var Ranks = []Rank{
	RankKingdom,
	RankPhylum,
	RankClass,
	RankOrder,
	RankSuperfamily,
	RankFamily,
	RankSubfamily,
	RankTribe,
	RankSubtribe,
	RankGenus,
	RankSpecies,
}

// ParseRank normalizes the case of raw.
func ParseRank(raw string) Rank {
	return Rank(strings.ToUpper(strings.TrimSpace(raw)))
}

// Label renders "Superfamily" for SUPERFAMILY.
func (r Rank) Label() string {
	if r == "" {
		return ""
	}
	lower := strings.ToLower(string(r))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// index orders unknown ranks after every known one.
func (r Rank) index() int {
	if i := slices.Index(Ranks, r); i >= 0 {
		return i
	}
	return len(Ranks)
}

func compareRanks(a, b Rank) int {
	if d := a.index() - b.index(); d != 0 {
		return d
	}
	return strings.Compare(string(a), string(b))
}

// CommonRanks returns the ranks present in the lineage of every taxon,
// broadest first. An empty list has no common ranks.
func CommonRanks(taxa []Taxon) []Rank {
	if len(taxa) == 0 {
		return nil
	}
	counts := make(map[Rank]int)
	for i := range taxa {
		for _, r := range taxa[i].lineageRanks() {
			counts[r]++
		}
	}
	common := make([]Rank, 0, len(counts))
	for r, n := range counts {
		if n == len(taxa) {
			common = append(common, r)
		}
	}
	slices.SortFunc(common, compareRanks)
	return common
}
