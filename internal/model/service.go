package model

import "strings"

// Service is a catalog entry. Color and BgColor hold the stored 0xAARRGGBB form.
type Service struct {
	ID        string `json:"$id"`
	CreatedAt string `json:"$createdAt,omitempty"`
	Name      string `json:"name"`
	Service   string `json:"service"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	BgColor   string `json:"bgColor"`
}

// ServiceForm is the editable view of a Service with #RRGGBB web colors.
type ServiceForm struct {
	Name    string `json:"name" binding:"required,max=120"`
	Service string `json:"service" binding:"required,max=120"`
	Icon    string `json:"icon" binding:"required"`
	Color   string `json:"color" binding:"omitempty,webcolor"`
	BgColor string `json:"bgColor" binding:"omitempty,webcolor"`
}

const (
	DefaultServiceColor   = "#000000"
	DefaultServiceBgColor = "#FFFFFF"
)

// WithDefaults fills empty colors the way a new form starts out.
func (f ServiceForm) WithDefaults() ServiceForm {
	if f.Color == "" {
		f.Color = DefaultServiceColor
	}
	if f.BgColor == "" {
		f.BgColor = DefaultServiceBgColor
	}
	return f
}

type ServiceFilter struct {
	Search string `form:"search"`
}

func (f ServiceFilter) Matches(s Service) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return containsFold(s.Name, term) || containsFold(s.Service, term)
}
