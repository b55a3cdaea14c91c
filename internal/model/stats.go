package model

import "time"

type BucketUsage struct {
	FilesCount   int   `json:"filesCount"`
	TotalStorage int64 `json:"totalStorage"`
}

type DashboardStats struct {
	Date              string            `json:"date"`
	TodayAppointments int               `json:"todayAppointments"`
	TotalPatients     int               `json:"totalPatients"`
	TotalProviders    int               `json:"totalProviders"`
	PendingProviders  int               `json:"pendingProviders"`
	PendingList       []ServiceProvider `json:"pendingList"`
	Storage           BucketUsage       `json:"storage"`
}

// StatsState mirrors the collection snapshot for the dashboard aggregate.
type StatsState struct {
	Stats     *DashboardStats `json:"stats,omitempty"`
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
	FetchedAt time.Time       `json:"fetchedAt,omitempty"`
}
