package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderStatusTransitions(t *testing.T) {
	for _, from := range ProviderStatuses {
		for _, to := range ProviderStatuses {
			assert.Equal(t, from != to, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, ProviderStatusPending.CanTransitionTo("suspended"))
	assert.True(t, ProviderStatus("legacy").CanTransitionTo(ProviderStatusApproved))
}

func TestParseProviderStatus(t *testing.T) {
	s, ok := ParseProviderStatus(" Approved ")
	assert.True(t, ok)
	assert.Equal(t, ProviderStatusApproved, s)

	_, ok = ParseProviderStatus("banned")
	assert.False(t, ok)
}

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusActive, true},
		{AppointmentStatusActive, AppointmentStatusCompleted, true},
		{AppointmentStatusActive, AppointmentStatusCancelled, true},
		{AppointmentStatusCompleted, AppointmentStatusDisputed, true},
		{AppointmentStatusDisputed, AppointmentStatusResolved, true},
		{AppointmentStatusResolved, AppointmentStatusDisputed, true},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
		{AppointmentStatusRejected, AppointmentStatusConfirmed, false},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatus("archived"), AppointmentStatusCancelled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNormalizeAppointmentStatus(t *testing.T) {
	assert.Equal(t, AppointmentStatusConfirmed, NormalizeAppointmentStatus("scheduled"))
	assert.Equal(t, AppointmentStatusActive, NormalizeAppointmentStatus("in-progress"))
	assert.Equal(t, AppointmentStatusActive, NormalizeAppointmentStatus("in_progress"))
	assert.Equal(t, AppointmentStatusCancelled, NormalizeAppointmentStatus("canceled"))
	assert.Equal(t, AppointmentStatusDisputed, NormalizeAppointmentStatus("Disputed"))
	assert.Equal(t, AppointmentStatus("On Hold"), NormalizeAppointmentStatus("On Hold"))
}

func TestAppointmentFilterByStatus(t *testing.T) {
	items := []Appointment{{ID: "a1", Status: AppointmentStatusCancelled}}
	f := AppointmentFilter{Status: AppointmentStatusPending}

	var out []Appointment
	for _, a := range items {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	assert.Empty(t, out)
}

func TestAppointmentFilterSearch(t *testing.T) {
	a := Appointment{Username: "Ayesha Khan", ProviderName: "Dr. Ali", Service: "Nursing", DestinationAddress: "Gulberg, Lahore"}
	assert.True(t, AppointmentFilter{Search: "lahore"}.Matches(a))
	assert.True(t, AppointmentFilter{Search: "AYESHA"}.Matches(a))
	assert.False(t, AppointmentFilter{Search: "karachi"}.Matches(a))
}

func TestSummarizeAppointments(t *testing.T) {
	items := []Appointment{
		{Date: "2024-05-01", Status: AppointmentStatusCompleted, Cost: 1500, UserID: "u1"},
		{Date: "2024-05-02", Status: AppointmentStatusPending, Cost: 900, UserID: "u2"},
		{Date: "2024-05-03", Status: AppointmentStatusCompleted, Cost: 500, UserID: "u1"},
		{Date: "2024-04-30", Status: AppointmentStatusCancelled, Cost: 700},
	}
	s := SummarizeAppointments(items, "2024-05-02")

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, 1, s.Upcoming)
	assert.Equal(t, 2000.0, s.CompletedRevenue)
	assert.Equal(t, 2, s.ByStatus["completed"])
	assert.Equal(t, 2, s.ActivePatients)
}

func TestProviderFilter(t *testing.T) {
	p := ServiceProvider{Name: "Sara", Email: "sara@clinic.pk", Services: []string{"Physiotherapy"}, Status: ProviderStatusPending}
	assert.True(t, ProviderFilter{Search: "physio"}.Matches(p))
	assert.True(t, ProviderFilter{Status: ProviderStatusPending}.Matches(p))
	assert.False(t, ProviderFilter{Status: ProviderStatusApproved}.Matches(p))
}

func TestServiceFormDefaults(t *testing.T) {
	f := ServiceForm{Name: "Nursing"}.WithDefaults()
	assert.Equal(t, "#000000", f.Color)
	assert.Equal(t, "#FFFFFF", f.BgColor)
}

func TestUnavailableWeek(t *testing.T) {
	w := UnavailableWeek()
	for _, day := range Weekdays {
		d := w.Day(day)
		assert.False(t, d.IsAvailable)
		assert.NotNil(t, d.TimeWindows)
		assert.Empty(t, d.TimeWindows)
	}
	assert.Nil(t, w.Day("someday"))
}
