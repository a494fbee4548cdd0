package category

// Category groups complaints by topic. FacultyID is the assigned owner; it
// stays nil until assignment and can be set at most once.
type Category struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	FacultyID *int64 `json:"faculty_id"`
}

// Patch carries the optional fields of a partial update. Nil means "leave
// unchanged".
type Patch struct {
	Title     *string
	FacultyID *int64
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.FacultyID == nil
}

// Page is the paginated listing envelope.
type Page struct {
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	Categories  []*Category `json:"categories"`
}
