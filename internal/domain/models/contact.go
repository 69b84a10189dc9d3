package models

import "strings"

// Contact is a Wrike user or group; the source of record for assignees.
type Contact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Type      string `json:"type"`
	Deleted   bool   `json:"deleted"`
}

// DisplayName returns the contact's full name for report labels.
func (c *Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
