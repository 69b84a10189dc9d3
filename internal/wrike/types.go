package wrike

// Raw records as returned by the Wrike v4 API. Only the attributes the
// sync consumes are declared; this is the static field-mapping surface
// per entity, replacing any runtime schema introspection.

// CustomFieldRecord is one entry from GET /customfields.
type CustomFieldRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ContactRecord is one entry from GET /contacts.
type ContactRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Type      string `json:"type"`
	Deleted   bool   `json:"deleted"`
}

// CustomFieldValue pairs a custom field id with its value on the owning
// folder or task.
type CustomFieldValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// ProjectInfo is the nested "project" object on folder records. Its
// presence marks the folder as a project; it supplies status, scheduling
// dates and the owner ids mapped to assignee relations.
type ProjectInfo struct {
	AuthorID       string   `json:"authorId"`
	OwnerIDs       []string `json:"ownerIds"`
	Status         string   `json:"status"`
	CreatedDate    string   `json:"createdDate"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	CompletedDate  string   `json:"completedDate"`
}

// FolderRecord is one entry from the folder/project listings. The flat
// tree listing omits ParentIDs and CustomFields.
type FolderRecord struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Scope        string             `json:"scope"`
	Permalink    string             `json:"permalink"`
	ParentIDs    []string           `json:"parentIds"`
	Project      *ProjectInfo       `json:"project"`
	CustomFields []CustomFieldValue `json:"customFields"`
}

// TaskRecord is one entry from the paginated GET /tasks. ParentIDs are
// the task's containing folders, ResponsibleIDs its assignees.
type TaskRecord struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Status           string             `json:"status"`
	BriefDescription string             `json:"briefDescription"`
	Importance       string             `json:"importance"`
	Permalink        string             `json:"permalink"`
	Scope            string             `json:"scope"`
	CreatedDate      string             `json:"createdDate"`
	UpdatedDate      string             `json:"updatedDate"`
	CompletedDate    string             `json:"completedDate"`
	ParentIDs        []string           `json:"parentIds"`
	ResponsibleIDs   []string           `json:"responsibleIds"`
	CustomFields     []CustomFieldValue `json:"customFields"`
}
