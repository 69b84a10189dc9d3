package models

// CustomField is an extensible named attribute defined in Wrike and
// attachable to folders and tasks. The ID is Wrike's identifier verbatim.
type CustomField struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Deleted bool   `json:"deleted"`
}
