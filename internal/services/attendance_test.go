package services

import (
	"testing"

	"github.com/joshua-takyi/festa/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAggregateAttendance(t *testing.T) {
	tests := []struct {
		name   string
		guests []*models.Guest
		want   AttendanceSummary
	}{
		{
			name: "empty",
			want: AttendanceSummary{},
		},
		{
			name: "declined guests contribute nothing",
			guests: []*models.Guest{
				{Name: "Ana", WillAttend: true, AdultsCount: 2, ChildrenCount: 1},
				{Name: "Bia", WillAttend: false, AdultsCount: 3, ChildrenCount: 2},
			},
			want: AttendanceSummary{Responses: 2, Confirmed: 1, Declined: 1, TotalAdults: 2, TotalChildren: 1},
		},
		{
			name: "sums confirmed only",
			guests: []*models.Guest{
				{Name: "Ana", WillAttend: true, AdultsCount: 1},
				{Name: "Bia", WillAttend: true, AdultsCount: 2, ChildrenCount: 3},
				{Name: "Carla", WillAttend: false, AdultsCount: 1},
				nil,
			},
			want: AttendanceSummary{Responses: 3, Confirmed: 2, Declined: 1, TotalAdults: 3, TotalChildren: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateAttendance(tt.guests))
		})
	}
}

func TestAggregateAttendanceIgnoresDeclinedCounts(t *testing.T) {
	base := []*models.Guest{{Name: "Ana", WillAttend: true, AdultsCount: 2, ChildrenCount: 1}}
	before := AggregateAttendance(base)

	after := AggregateAttendance(append(base, &models.Guest{Name: "X", WillAttend: false, AdultsCount: 9, ChildrenCount: 9}))
	assert.Equal(t, before.TotalAdults, after.TotalAdults)
	assert.Equal(t, before.TotalChildren, after.TotalChildren)
	assert.Equal(t, before.Confirmed, after.Confirmed)
}
