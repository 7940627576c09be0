package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// FilterMode selects the ordering of the client list. Despite the name it
// never hides clients; every mode is a full re-sort of the search result.
type FilterMode string

const (
	FilterAll        FilterMode = "all"
	FilterHighPoints FilterMode = "highPoints"
	FilterLoyal      FilterMode = "loyal"
	FilterNew        FilterMode = "new"
)

// ParseFilterMode maps a query parameter to a FilterMode. Unknown values are FilterAll.
func ParseFilterMode(s string) FilterMode {
	switch FilterMode(strings.TrimSpace(s)) {
	case FilterHighPoints:
		return FilterHighPoints
	case FilterLoyal:
		return FilterLoyal
	case FilterNew:
		return FilterNew
	default:
		return FilterAll
	}
}

// Label is the list heading shown for the mode.
func (m FilterMode) Label() string {
	switch m {
	case FilterHighPoints:
		return "High Points Clients"
	case FilterLoyal:
		return "Loyal Clients"
	case FilterNew:
		return "New Clients"
	default:
		return "Clients"
	}
}

// MatchesQuery reports whether query is empty or a case-insensitive substring
// of the client's name, email or phone.
func MatchesQuery(c models.Client, query string) bool {
	if query == "" {
		return true
	}
	return utils.ContainsFold(c.Name, query) ||
		utils.ContainsFold(c.Email, query) ||
		utils.ContainsFold(c.Phone, query)
}

// FilterClients applies the search, then sorts by the mode's key in descending
// order. The sort is stable, so equal keys keep their input order. The input
// slice is not modified.
func FilterClients(clients []models.Client, query string, mode FilterMode) []models.Client {
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if MatchesQuery(c, query) {
			out = append(out, c)
		}
	}

	switch mode {
	case FilterLoyal:
		slices.SortStableFunc(out, func(a, b models.Client) int {
			return cmp.Compare(b.TotalVisits, a.TotalVisits)
		})
	case FilterNew:
		slices.SortStableFunc(out, func(a, b models.Client) int {
			return parseCreated(b.DateCreated).Compare(parseCreated(a.DateCreated))
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Client) int {
			return cmp.Compare(b.Points, a.Points)
		})
	}
	return out
}

// parseCreated reads a creation date; unparsable values sort as the zero time,
// i.e. last in the "new" ordering.
func parseCreated(s string) time.Time {
	t, err := time.Parse(utils.DateLayout, utils.DateOnly(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// ComputeStats aggregates the full collection. AveragePoints is rounded half
// up (floor(x + 0.5)) and is 0 for an empty collection.
func ComputeStats(clients []models.Client) models.ClientStats {
	stats := models.ClientStats{TotalClients: len(clients)}
	for _, c := range clients {
		stats.TotalPoints += int64(c.Points)
		stats.TotalVisits += int64(c.TotalVisits)
	}
	if stats.TotalClients > 0 {
		avg := decimal.NewFromInt(stats.TotalPoints).
			Div(decimal.NewFromInt(int64(stats.TotalClients))).
			Add(decimal.NewFromFloat(0.5)).
			Floor()
		stats.AveragePoints = avg.IntPart()
	}
	return stats
}

// VisitTier buckets a visit count into the badge shown next to a client.
func VisitTier(visits int) string {
	switch {
	case visits >= 15:
		return "success"
	case visits >= 10:
		return "primary"
	case visits >= 5:
		return "warning"
	default:
		return "default"
	}
}

// ToRows decorates clients with their visit tier.
func ToRows(clients []models.Client) []models.ClientRow {
	rows := make([]models.ClientRow, len(clients))
	for i, c := range clients {
		rows[i] = models.ClientRow{Client: c, VisitTier: VisitTier(c.TotalVisits)}
	}
	return rows
}
