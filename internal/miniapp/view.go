package miniapp

// Field identifies an input that can carry a validation error.
type Field string

const (
	FieldProject Field = "project"
	FieldAbbr    Field = "abbr"
	FieldFull    Field = "full"
)

// StatsContent is what the statistics page shows.
type StatsContent struct {
	TotalHours   float64
	TotalReports int
	ByProject    map[string]float64
	// Placeholder is set when no statistics were supplied at launch.
	Placeholder bool
}

// View renders controller state. Every Render call replaces what the
// previous call drew.
type View interface {
	SetTheme(t Theme)
	SetAdmin(admin bool)
	RenderCatalog(cards []Card)
	RenderProjectList(rows []Row)
	RenderQuantity(display string, shortcuts []Shortcut)
	RenderSummary(s Summary)
	RenderPreview(p Preview)
	ShowFieldError(field Field, message string)
	ClearFieldError(field Field)
	ShowPage(page PageID)
	ShowStats(stats StatsContent)
	LoadAdminReport(location string)
	ScrollTop()
}
