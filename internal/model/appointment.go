package model

import (
	"slices"
	"strings"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusActive    AppointmentStatus = "active"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusDisputed  AppointmentStatus = "disputed"
	AppointmentStatusResolved  AppointmentStatus = "resolved"
)

var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusActive,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusRejected,
	AppointmentStatusDisputed,
	AppointmentStatusResolved,
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusConfirmed,
		AppointmentStatusActive,
		AppointmentStatusRejected,
		AppointmentStatusCancelled,
	},
	AppointmentStatusConfirmed: {AppointmentStatusActive, AppointmentStatusCancelled},
	AppointmentStatusActive:    {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted: {AppointmentStatusDisputed},
	AppointmentStatusDisputed:  {AppointmentStatusResolved},
	AppointmentStatusResolved:  {AppointmentStatusDisputed},
}

// legacyAppointmentStatuses maps labels written by older clients.
var legacyAppointmentStatuses = map[string]AppointmentStatus{
	"scheduled":   AppointmentStatusConfirmed,
	"in-progress": AppointmentStatusActive,
	"in_progress": AppointmentStatusActive,
	"canceled":    AppointmentStatusCancelled,
}

// NormalizeAppointmentStatus maps a stored label onto the canonical set.
// Unrecognised labels are returned verbatim.
func NormalizeAppointmentStatus(raw string) AppointmentStatus {
	label := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := legacyAppointmentStatuses[label]; ok {
		return mapped
	}
	if status := AppointmentStatus(label); status.Known() {
		return status
	}
	return AppointmentStatus(raw)
}

func (s AppointmentStatus) Known() bool {
	return slices.Contains(AppointmentStatuses, s)
}

func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	return slices.Contains(appointmentTransitions[s], to)
}

// NextStatuses returns a copy of the statuses reachable from s.
func (s AppointmentStatus) NextStatuses() []AppointmentStatus {
	return slices.Clone(appointmentTransitions[s])
}

type Appointment struct {
	ID                 string            `json:"$id"`
	CreatedAt          string            `json:"$createdAt,omitempty"`
	UpdatedAt          string            `json:"$updatedAt,omitempty"`
	UserID             string            `json:"userId"`
	ProviderID         string            `json:"providerId"`
	Username           string            `json:"username"`
	ProviderName       string            `json:"providerName"`
	UserImageURL       string            `json:"userImageURL"`
	ProviderImageURL   string            `json:"providerImageURL"`
	Service            string            `json:"service"`
	Date               string            `json:"date"`
	StartTime          string            `json:"startTime"`
	EndTime            string            `json:"endTime"`
	Duration           int               `json:"duration"`
	Notes              string            `json:"notes"`
	Status             AppointmentStatus `json:"status"`
	Cost               float64           `json:"cost"`
	DestinationAddress string            `json:"destinationAddress"`
	HasReview          bool              `json:"hasReview"`
}

type AppointmentFilter struct {
	Status AppointmentStatus `form:"status"`
	Date   string            `form:"date"`
	Search string            `form:"search"`
}

// Matches applies exact status and date filters and a case-insensitive
// search over patient, provider, service and address.
func (f AppointmentFilter) Matches(a Appointment) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return containsFold(a.Username, term) ||
		containsFold(a.ProviderName, term) ||
		containsFold(a.Service, term) ||
		containsFold(a.DestinationAddress, term)
}

type AppointmentSummary struct {
	Total            int            `json:"total"`
	Today            int            `json:"today"`
	Upcoming         int            `json:"upcoming"`
	CompletedRevenue float64        `json:"completedRevenue"`
	ActivePatients   int            `json:"activePatients"`
	ByStatus         map[string]int `json:"byStatus"`
}

// SummarizeAppointments counts appointments relative to today (YYYY-MM-DD).
// ActivePatients is the number of distinct non-empty user ids.
func SummarizeAppointments(items []Appointment, today string) AppointmentSummary {
	summary := AppointmentSummary{
		Total:    len(items),
		ByStatus: make(map[string]int),
	}
	patients := make(map[string]struct{})
	for _, a := range items {
		summary.ByStatus[string(a.Status)]++
		if a.UserID != "" {
			patients[a.UserID] = struct{}{}
		}
		switch {
		case a.Date == today:
			summary.Today++
		case a.Date > today:
			summary.Upcoming++
		}
		if a.Status == AppointmentStatusCompleted {
			summary.CompletedRevenue += a.Cost
		}
	}
	summary.ActivePatients = len(patients)
	return summary
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}
