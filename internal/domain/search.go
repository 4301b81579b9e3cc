package domain

// SearchPagination describes the lead page of a global search.
type SearchPagination struct {
	HasMore bool `json:"hasMore"`
	Page    int  `json:"page"`
	Total   int  `json:"total"`
}

// SearchSegment is a segment hit.
type SearchSegment struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LeadCount   int    `json:"leadCount"`
}

// SearchTask is a task hit with the owning lead's name.
type SearchTask struct {
	ID           string     `json:"_id"`
	Title        string     `json:"title"`
	Status       TaskStatus `json:"status"`
	LeadID       string     `json:"leadId"`
	BusinessName string     `json:"businessName"`
}

// SearchResult is the global search response.
type SearchResult struct {
	Segments   []SearchSegment  `json:"segments"`
	Tasks      []SearchTask     `json:"tasks"`
	Leads      []*Lead          `json:"leads"`
	Pagination SearchPagination `json:"pagination"`
}
