package report

// ListOptions provides filtering options for listing reports.
type ListOptions struct {
	UserID *int64
	// Since keeps reports dated on or after this YYYY-MM-DD date.
	Since string
	// Date keeps reports dated exactly on this YYYY-MM-DD date.
	Date   string
	Limit  int
	Offset int
}
