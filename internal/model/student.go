package model

import "time"

// StudentStatus enumerates student record states.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "Active"
	StudentStatusInactive StudentStatus = "Inactive"
)

// Student is the relational student entity. It is bridged to the
// authenticated identity by display name only (the local part of the
// account's email address) — a deliberately weak join kept for
// compatibility with the existing data.
type Student struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	RollNum   string        `json:"roll_num"`
	Status    StudentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
