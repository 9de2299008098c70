package model

import "time"

// CheckEvent is published on the check-event stream after every bill check.
type CheckEvent struct {
	ID             string           `json:"id"`
	CustomerNumber string           `json:"customerNumber"`
	Success        bool             `json:"success"`
	Message        string           `json:"message,omitempty"`
	Result         *BillCheckResult `json:"result,omitempty"`
	CheckedAt      time.Time        `json:"checkedAt"`
}
