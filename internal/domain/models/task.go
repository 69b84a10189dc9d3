package models

import "time"

// Task is a Wrike task. Title and BriefDescription are stored truncated
// to fit the 254-char columns inherited from the original schema.
type Task struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	BriefDescription string     `json:"brief_description"`
	Importance       string     `json:"importance"`
	Permalink        string     `json:"permalink"`
	Scope            string     `json:"scope"`
	CreatedDate      *time.Time `json:"created_date"`
	UpdatedDate      *time.Time `json:"updated_date"`
	CompletedDate    *time.Time `json:"completed_date"`
}
