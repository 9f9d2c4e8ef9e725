package model

import "time"

// Complaint is a report filed by a person against an ad. Complaints are
// listed and removed by administrators only.
type Complaint struct {
	ID       uint64    `json:"id"`
	PersonID uint64    `json:"personId"`
	AdID     uint64    `json:"adId"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
}
