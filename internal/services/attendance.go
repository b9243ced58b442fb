package services

import "github.com/joshua-takyi/festa/internal/models"

// AttendanceSummary is derived from a snapshot of Guest records and is never
// stored.
type AttendanceSummary struct {
	Responses     int `json:"responses"`
	Confirmed     int `json:"confirmed"`
	Declined      int `json:"declined"`
	TotalAdults   int `json:"total_adults"`
	TotalChildren int `json:"total_children"`
}

// AggregateAttendance counts confirmed guests and sums head counts over
// confirmed guests only.
func AggregateAttendance(guests []*models.Guest) AttendanceSummary {
	var s AttendanceSummary
	for _, g := range guests {
		if g == nil {
			continue
		}
		s.Responses++
		if !g.WillAttend {
			s.Declined++
			continue
		}
		s.Confirmed++
		s.TotalAdults += g.AdultsCount
		s.TotalChildren += g.ChildrenCount
	}
	return s
}
