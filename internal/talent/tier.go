package talent

import "github.com/yoockh/talentscope/internal/models"

const (
	TierElite = "elite"
	TierTop   = "top"

	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// Tier badges a rank score: elite >= 0.8, top >= 0.6, otherwise none.
func Tier(rank float64) string {
	switch {
	case rank >= 0.8:
		return TierElite
	case rank >= 0.6:
		return TierTop
	default:
		return ""
	}
}

func CompletionBand(completion float64) string {
	switch {
	case completion >= 0.8:
		return BandHigh
	case completion >= 0.6:
		return BandMedium
	default:
		return BandLow
	}
}

// Annotate sets the display badges on a copy of items.
func Annotate(items []models.SearchResultItem) []models.SearchResultItem {
	out := make([]models.SearchResultItem, len(items))
	for i, it := range items {
		it.Tier = Tier(it.RankScore)
		it.CompletionBand = CompletionBand(it.Completion)
		out[i] = it
	}
	return out
}
