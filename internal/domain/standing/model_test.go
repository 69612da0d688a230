package standing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRerank_DensePositions(t *testing.T) {
	t.Parallel()

	rows := []Standing{
		{TeamID: "PAN", Position: 4, Won: 10},
		{TeamID: "MAD", Position: 1, Won: 14},
		{TeamID: "OLY", Position: 0, Won: 9},
		{TeamID: "BAR", Position: 2, Won: 12, PointsFor: 900, PointsAgainst: 850},
	}

	ranked := Rerank(rows)

	require.Len(t, ranked, 4)
	assert.Equal(t, []string{"MAD", "BAR", "PAN", "OLY"}, teamIDs(ranked))
	for i, row := range ranked {
		assert.Equal(t, i+1, row.Position)
	}
	assert.Equal(t, 50, ranked[1].PointsDiff)
	require.NoError(t, ValidatePositions(ranked))
	assert.Equal(t, 4, rows[0].Position)
}

func TestRerank_TieBreaksOnWinsThenDiff(t *testing.T) {
	t.Parallel()

	rows := []Standing{
		{TeamID: "B", Position: 1, Won: 5, PointsDiff: 10},
		{TeamID: "A", Position: 1, Won: 5, PointsDiff: 20},
		{TeamID: "C", Position: 1, Won: 6, PointsDiff: -3},
	}

	assert.Equal(t, []string{"C", "A", "B"}, teamIDs(Rerank(rows)))
}

func TestValidatePositions(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePositions(nil))
	assert.Error(t, ValidatePositions([]Standing{{TeamID: "A", Position: 1}, {TeamID: "B", Position: 1}}))
	assert.Error(t, ValidatePositions([]Standing{{TeamID: "A", Position: 2}}))
	assert.Error(t, ValidatePositions([]Standing{{Position: 1}}))
}

func teamIDs(rows []Standing) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.TeamID)
	}
	return out
}
