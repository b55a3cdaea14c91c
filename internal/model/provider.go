package model

import (
	"slices"
	"strings"
)

type ProviderStatus string

const (
	ProviderStatusPending  ProviderStatus = "pending"
	ProviderStatusApproved ProviderStatus = "approved"
	ProviderStatusRejected ProviderStatus = "rejected"
)

var ProviderStatuses = []ProviderStatus{
	ProviderStatusPending,
	ProviderStatusApproved,
	ProviderStatusRejected,
}

func ParseProviderStatus(s string) (ProviderStatus, bool) {
	status := ProviderStatus(strings.ToLower(strings.TrimSpace(s)))
	return status, status.Valid()
}

func (s ProviderStatus) Valid() bool {
	return slices.Contains(ProviderStatuses, s)
}

// CanTransitionTo reports whether an admin may move a provider from s to to.
// Any known status may move to any other known status; a provider carrying
// an unrecognised label may be moved to any known status.
func (s ProviderStatus) CanTransitionTo(to ProviderStatus) bool {
	return to.Valid() && s != to
}

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DaySchedule struct {
	IsAvailable bool         `json:"isAvailable"`
	TimeWindows []TimeWindow `json:"timeWindows"`
}

// Weekdays lists the availability keys in display order.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type Availability struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// Day returns the schedule for a weekday key, or nil for unknown keys.
func (a *Availability) Day(name string) *DaySchedule {
	switch name {
	case "monday":
		return &a.Monday
	case "tuesday":
		return &a.Tuesday
	case "wednesday":
		return &a.Wednesday
	case "thursday":
		return &a.Thursday
	case "friday":
		return &a.Friday
	case "saturday":
		return &a.Saturday
	case "sunday":
		return &a.Sunday
	}
	return nil
}

// UnavailableWeek is the all-unavailable availability with empty window lists.
func UnavailableWeek() Availability {
	var a Availability
	for _, day := range Weekdays {
		a.Day(day).TimeWindows = []TimeWindow{}
	}
	return a
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

type Review struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	UserImage string `json:"userImage"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Date      string `json:"date"`
}

type LicenseInfo struct {
	LicenseNumber    string `json:"licenseNumber"`
	IssuingAuthority string `json:"issuingAuthority"`
	IssueDate        string `json:"issueDate"`
	ExpiryDate       string `json:"expiryDate"`
	LicenseImageURL  string `json:"licenseImageUrl"`
}

type ServiceProvider struct {
	ID             string         `json:"$id"`
	CreatedAt      string         `json:"$createdAt,omitempty"`
	UpdatedAt      string         `json:"$updatedAt,omitempty"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Gender         string         `json:"gender"`
	ImageURL       string         `json:"imageUrl"`
	Services       []string       `json:"services"`
	Rating         float64        `json:"rating"`
	ReviewCount    int            `json:"reviewCount"`
	Phone          string         `json:"phone"`
	Experience     int            `json:"experience"`
	About          string         `json:"about"`
	Availability   Availability   `json:"availability"`
	Address        string         `json:"address"`
	CNIC           []string       `json:"cnic"`
	Gallery        []string       `json:"gallery"`
	Certifications []string       `json:"certifications"`
	SocialLinks    []SocialLink   `json:"socialLinks"`
	ReviewList     []Review       `json:"reviewList"`
	LicenseInfo    LicenseInfo    `json:"licenseInfo"`
	Status         ProviderStatus `json:"status"`
}

type ProviderFilter struct {
	Status ProviderStatus `form:"status"`
	Search string         `form:"search"`
}

// Matches applies the status filter and a case-insensitive search over
// name, email and offered services.
func (f ProviderFilter) Matches(p ServiceProvider) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	if containsFold(p.Name, term) || containsFold(p.Email, term) {
		return true
	}
	for _, s := range p.Services {
		if containsFold(s, term) {
			return true
		}
	}
	return false
}

type UpdateProviderStatusRequest struct {
	Status ProviderStatus `json:"status" binding:"required,providerstatus"`
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
