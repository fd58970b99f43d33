// Package tui hosts the mini-app in a terminal: a bubbletea program plays
// the platform, drawing what the controller renders and delivering the
// payload to the bot backend.
package tui

import (
	"maps"

	"github.com/rpggio/timesheet/internal/miniapp"
)

// Screen is the terminal implementation of miniapp.View. It only records
// what the controller asked to show; Model.View draws it.
type Screen struct {
	theme       miniapp.Theme
	admin       bool
	cards       []miniapp.Card
	rows        []miniapp.Row
	quantity    string
	shortcuts   []miniapp.Shortcut
	summary     miniapp.Summary
	preview     miniapp.Preview
	errors      map[miniapp.Field]string
	page        miniapp.PageID
	stats       miniapp.StatsContent
	adminReport string
	offset      int
}

// NewScreen creates an empty screen.
func NewScreen() *Screen {
	return &Screen{errors: map[miniapp.Field]string{}, page: miniapp.PageHome}
}

func (s *Screen) SetTheme(t miniapp.Theme) { s.theme = t }

func (s *Screen) SetAdmin(admin bool) { s.admin = admin }

func (s *Screen) RenderCatalog(cards []miniapp.Card) { s.cards = cards }

func (s *Screen) RenderProjectList(rows []miniapp.Row) { s.rows = rows }

func (s *Screen) RenderQuantity(display string, shortcuts []miniapp.Shortcut) {
	s.quantity = display
	s.shortcuts = shortcuts
}

func (s *Screen) RenderSummary(summary miniapp.Summary) { s.summary = summary }

func (s *Screen) RenderPreview(p miniapp.Preview) { s.preview = p }

func (s *Screen) ShowFieldError(field miniapp.Field, message string) { s.errors[field] = message }

func (s *Screen) ClearFieldError(field miniapp.Field) { delete(s.errors, field) }

func (s *Screen) ShowPage(page miniapp.PageID) { s.page = page }

func (s *Screen) ShowStats(stats miniapp.StatsContent) {
	stats.ByProject = maps.Clone(stats.ByProject)
	s.stats = stats
}

func (s *Screen) LoadAdminReport(location string) { s.adminReport = location }

// ScrollTop resets the viewport offset.
func (s *Screen) ScrollTop() { s.offset = 0 }

// Scroll moves the viewport by delta lines, never above the top.
func (s *Screen) Scroll(delta int) {
	s.offset = max(0, s.offset+delta)
}

// Page returns the page last shown.
func (s *Screen) Page() miniapp.PageID { return s.page }

// FieldError returns the message shown next to field, if any.
func (s *Screen) FieldError(field miniapp.Field) string { return s.errors[field] }

var _ miniapp.View = (*Screen)(nil)
