package models

// ClientStats aggregates the whole client collection, regardless of any
// search or filter applied to the list.
type ClientStats struct {
	TotalClients  int   `json:"totalClients"`
	TotalPoints   int64 `json:"totalPoints"`
	TotalVisits   int64 `json:"totalVisits"`
	AveragePoints int64 `json:"averagePoints"`
}

// ClientRow is a client as shown in the list, with its visit badge.
type ClientRow struct {
	Client
	VisitTier string `json:"visitTier"`
}
