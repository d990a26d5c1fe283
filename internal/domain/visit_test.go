package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/countdown-service/internal/domain"
)

func TestAggregateVisits(t *testing.T) {
	visits := []domain.Visit{
		{IP: "10.0.0.1", Timestamp: "2025-06-01T10:00:00Z"},
		{IP: "10.0.0.2", Timestamp: "2025-06-01T11:00:00Z"},
		{IP: "10.0.0.1", Timestamp: "2025-06-01T12:00:00Z"},
		{IP: "10.0.0.1", Timestamp: "2025-06-01T09:00:00Z"},
	}

	summaries := domain.AggregateVisits(visits)
	require.Len(t, summaries, 2)

	// First-seen order is preserved.
	require.Equal(t, "10.0.0.1", summaries[0].IP)
	require.Equal(t, 3, summaries[0].VisitCount)
	require.Equal(t, "2025-06-01T09:00:00Z", summaries[0].FirstVisit)
	require.Equal(t, "2025-06-01T12:00:00Z", summaries[0].LastVisit)

	require.Equal(t, "10.0.0.2", summaries[1].IP)
	require.Equal(t, 1, summaries[1].VisitCount)
}

func TestAggregateVisits_Empty(t *testing.T) {
	require.Empty(t, domain.AggregateVisits(nil))
}
