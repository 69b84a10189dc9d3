package models

import "time"

// Folder is a Wrike folder or project. Project folders additionally carry
// status and scheduling dates, supplied by the nested "project" object in
// the API payload; plain folders leave those fields empty.
//
// Parent membership is a DAG, not a tree: a folder may sit under several
// parents at once (e.g. both a country folder and a category folder).
type Folder struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Scope         string     `json:"scope"`
	Permalink     string     `json:"permalink"`
	Status        string     `json:"status"`
	CreatedDate   *time.Time `json:"created_date"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	CompletedDate *time.Time `json:"completed_date"`
}

// FolderRef is a lightweight (id, title) pair used by report grouping.
type FolderRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
