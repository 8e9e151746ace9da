package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMatchesQuery(t *testing.T) {
	results := Search("carbohydrate", Filter{})
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	results := Search("HRV METRICS", Filter{})
	require.Len(t, results, 1)
	assert.Equal(t, TopicRecovery, results[0].Topic)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	results := Search("", Filter{})
	assert.Len(t, results, 3)
}

func TestSearchFiltersByTopic(t *testing.T) {
	results := Search("", Filter{Topic: TopicBiomechanics})
	require.Len(t, results, 1)
	assert.Equal(t, "3", results[0].ID)
}

func TestSearchFiltersBySourceType(t *testing.T) {
	results := Search("", Filter{SourceType: SourcePeerReviewed})
	require.Len(t, results, 2)
	for _, a := range results {
		assert.Equal(t, SourcePeerReviewed, a.SourceType)
	}
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, Search("swimming", Filter{}))
	assert.Empty(t, Search("carbohydrate", Filter{Topic: TopicRecovery}))
}

func TestSearchOrderedByRelevance(t *testing.T) {
	results := Search("", Filter{})
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Relevance, results[i].Relevance)
	}
}

func TestFuelingRecommendation(t *testing.T) {
	rec := FuelingRecommendation()
	assert.Equal(t, 92, rec.Confidence)
	require.Len(t, rec.Evidence, 2)
	assert.Contains(t, rec.Evidence[0].Citation, "Burke")
}
