package project

import "strings"

// Catalog is an ordered list of projects. Order is display order.
type Catalog []Project

// DemoCatalog is shown when launch parameters carry no usable catalog.
func DemoCatalog() Catalog {
	return Catalog{
		{Abbr: "РС", Full: "Разработка сайта"},
		{Abbr: "МРК", Full: "Маркетинг"},
		{Abbr: "КП", Full: "Клиентская поддержка"},
		{Abbr: "ДЗ", Full: "Дизайн"},
		{Abbr: "ТСТ", Full: "Тестирование"},
	}
}

// DefaultCatalog seeds an empty project store.
func DefaultCatalog() Catalog {
	return Catalog{
		{Abbr: "РС", Full: "Разработка сайта"},
		{Abbr: "МРК", Full: "Маркетинг"},
		{Abbr: "КП", Full: "Клиентская поддержка"},
	}
}

// Find returns the project with the given abbreviation, compared case-insensitively.
func (c Catalog) Find(abbr string) (Project, bool) {
	for _, p := range c {
		if strings.EqualFold(p.Abbr, abbr) {
			return p, true
		}
	}
	return Project{}, false
}

// FindDuplicate returns the first entry whose abbreviation or full name
// collides case-insensitively with the given values.
func (c Catalog) FindDuplicate(abbr, full string) (Project, bool) {
	for _, p := range c {
		if strings.EqualFold(p.Abbr, abbr) || strings.EqualFold(p.Full, full) {
			return p, true
		}
	}
	return Project{}, false
}

// Filter keeps the entries whose abbreviation is listed in abbrs, in catalog order.
func (c Catalog) Filter(abbrs []string) Catalog {
	keep := make(map[string]struct{}, len(abbrs))
	for _, a := range abbrs {
		keep[a] = struct{}{}
	}
	var out Catalog
	for _, p := range c {
		if _, ok := keep[p.Abbr]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Abbrs lists the abbreviations in catalog order.
func (c Catalog) Abbrs() []string {
	out := make([]string, 0, len(c))
	for _, p := range c {
		out = append(out, p.Abbr)
	}
	return out
}
