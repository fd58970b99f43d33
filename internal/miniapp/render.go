package miniapp

import (
	"strings"

	"github.com/rpggio/timesheet/internal/domain/project"
)

// Card is one selectable project tile.
type Card struct {
	Abbr     string
	Full     string
	Selected bool
}

// Cards builds one card per project in catalog order.
func Cards(catalog project.Catalog, selected *project.Project) []Card {
	cards := make([]Card, 0, len(catalog))
	for _, p := range catalog {
		cards = append(cards, Card{
			Abbr:     p.Abbr,
			Full:     p.Full,
			Selected: selected != nil && p.Abbr == selected.Abbr && p.Full == selected.Full,
		})
	}
	return cards
}

// Row is one line of the read-only project listing.
type Row struct {
	Abbr string
	Full string
}

// Label renders the row as "ABBR - Full name".
func (r Row) Label() string {
	return r.Abbr + " - " + r.Full
}

// ListRows builds the administrative project listing.
func ListRows(catalog project.Catalog) []Row {
	rows := make([]Row, 0, len(catalog))
	for _, p := range catalog {
		rows = append(rows, Row{Abbr: p.Abbr, Full: p.Full})
	}
	return rows
}

// Preview placeholders for an incomplete new project.
const (
	PreviewAbbrPlaceholder = "АББ"
	PreviewFullPlaceholder = "Полное название"
)

// Preview is the live card of a project being registered.
type Preview struct {
	Visible bool
	Abbr    string
	Full    string
}

// NewProjectPreview shows the preview while either input is non-empty.
func NewProjectPreview(abbr, full string) Preview {
	abbr = strings.TrimSpace(abbr)
	full = strings.TrimSpace(full)
	if abbr == "" && full == "" {
		return Preview{}
	}
	p := Preview{Visible: true, Abbr: abbr, Full: full}
	if p.Abbr == "" {
		p.Abbr = PreviewAbbrPlaceholder
	}
	if p.Full == "" {
		p.Full = PreviewFullPlaceholder
	}
	return p
}
