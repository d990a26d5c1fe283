package domain

// Visit is a single recorded page view.
type Visit struct {
	ID        string `json:"id"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
	UserAgent string `json:"userAgent"`
}

// VisitSummary aggregates all visits from one IP.
type VisitSummary struct {
	IP         string `json:"ip"`
	FirstVisit string `json:"firstVisit"`
	LastVisit  string `json:"lastVisit"`
	VisitCount int    `json:"visitCount"`
}

// MaxStoredVisits caps the visit log; older entries are dropped first.
const MaxStoredVisits = 1000

// AggregateVisits folds the raw log into per-IP summaries.
func AggregateVisits(visits []Visit) []VisitSummary {
	byIP := make(map[string]*VisitSummary)
	order := make([]string, 0)
	for _, v := range visits {
		summary, ok := byIP[v.IP]
		if !ok {
			byIP[v.IP] = &VisitSummary{IP: v.IP, FirstVisit: v.Timestamp, LastVisit: v.Timestamp, VisitCount: 1}
			order = append(order, v.IP)
			continue
		}
		summary.VisitCount++
		if v.Timestamp > summary.LastVisit {
			summary.LastVisit = v.Timestamp
		}
		if v.Timestamp < summary.FirstVisit {
			summary.FirstVisit = v.Timestamp
		}
	}

	summaries := make([]VisitSummary, 0, len(byIP))
	for _, ip := range order {
		summaries = append(summaries, *byIP[ip])
	}
	return summaries
}
