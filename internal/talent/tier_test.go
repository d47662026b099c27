package talent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yoockh/talentscope/internal/models"
)

func TestTierAndBand(t *testing.T) {
	assert.Equal(t, TierElite, Tier(0.8))
	assert.Equal(t, TierTop, Tier(0.79))
	assert.Equal(t, TierTop, Tier(0.6))
	assert.Empty(t, Tier(0.59))

	assert.Equal(t, BandHigh, CompletionBand(0.8))
	assert.Equal(t, BandMedium, CompletionBand(0.6))
	assert.Equal(t, BandLow, CompletionBand(0.2))
}

func TestAnnotateCopies(t *testing.T) {
	in := []models.SearchResultItem{{ID: "1", RankScore: 0.9, Completion: 0.65}}
	out := Annotate(in)

	assert.Equal(t, TierElite, out[0].Tier)
	assert.Equal(t, BandMedium, out[0].CompletionBand)
	assert.Empty(t, in[0].Tier)
}
