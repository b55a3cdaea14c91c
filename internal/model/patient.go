package model

import "strings"

// UserModel is a patient account created by the patient-facing app.
type UserModel struct {
	ID           string `json:"$id"`
	CreatedAt    string `json:"$createdAt,omitempty"`
	ProfileImage string `json:"profileImage"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DateOfBirth  string `json:"dateOfBirth"`
	Gender       string `json:"gender"`
}

func (u UserModel) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type PatientFilter struct {
	Search string `form:"search"`
}

func (f PatientFilter) Matches(u UserModel) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return containsFold(u.FullName(), term) || containsFold(u.Email, term)
}
