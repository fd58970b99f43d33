package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/timesheet/internal/miniapp"
)

type styles struct {
	header   lipgloss.Style
	strong   lipgloss.Style
	card     lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	active   lipgloss.Style
	muted    lipgloss.Style
	failure  lipgloss.Style
	summary  lipgloss.Style
}

func newStyles(theme miniapp.Theme) styles {
	accent := lipgloss.Color("#2481cc")
	return styles{
		header: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Background())).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1),
		strong:   lipgloss.NewStyle().Bold(true),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		selected: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1).Bold(true),
		cursor:   lipgloss.NewStyle().Foreground(accent),
		active:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#999999")),
		failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")),
		summary:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false).PaddingTop(1),
	}
}

var pageTitles = map[miniapp.PageID]string{
	miniapp.PageHome:          "Учёт времени",
	miniapp.PageReport:        "Отчёт о работе",
	miniapp.PageProjects:      "Новый проект",
	miniapp.PageStats:         "Моя статистика",
	miniapp.PageAdminStats:    "Статистика сотрудников",
	miniapp.PageAdminProjects: "Все проекты",
}

var pageHelp = map[miniapp.PageID]string{
	miniapp.PageHome:     "↑/↓ выбор · enter открыть · q выход",
	miniapp.PageReport:   "↑/↓ проект · enter выбрать · ←/→ часы · 1-4 быстрый выбор · c комментарий · s отправить · esc назад",
	miniapp.PageProjects: "a ввод · tab следующее поле · enter/s отправить · esc назад",
}

func (m Model) View() string {
	if m.done {
		reply, _ := m.host.Reply()
		return plainText(reply.Text) + "\n"
	}

	s := m.styles
	page := m.screen.Page()
	title := pageTitles[page]
	if title == "" {
		title = string(page)
	}

	var b strings.Builder
	b.WriteString(s.header.Render(title))
	if m.screen.admin {
		b.WriteString(" " + s.muted.Render("администратор"))
	}
	b.WriteString("\n\n")

	var body []string
	switch page {
	case miniapp.PageHome:
		body = m.homeLines()
	case miniapp.PageReport:
		body = m.reportLines()
	case miniapp.PageProjects:
		body = m.registrationLines()
	case miniapp.PageAdminProjects:
		body = m.projectListLines()
	case miniapp.PageStats:
		body = m.statsLines()
	case miniapp.PageAdminStats:
		body = m.adminStatsLines()
	}
	if off := m.screen.offset; off > 0 && off < len(body) {
		body = body[off:]
	}
	b.WriteString(strings.Join(body, "\n"))

	if m.err != nil {
		b.WriteString("\n\n" + s.failure.Render("⚠ "+m.err.Error()))
	}
	help := pageHelp[page]
	if help == "" {
		help = "↑/↓ прокрутка · esc назад"
	}
	b.WriteString("\n\n" + s.muted.Render(help) + "\n")
	return b.String()
}

func (m Model) homeLines() []string {
	var lines []string
	for i, item := range m.menuItems() {
		lines = append(lines, m.pointer(i)+item.label)
	}
	return lines
}

func (m Model) reportLines() []string {
	s := m.styles
	var lines []string
	if msg := m.screen.FieldError(miniapp.FieldProject); msg != "" {
		lines = append(lines, s.failure.Render(msg))
	}
	for i, c := range m.screen.cards {
		style := s.card
		if c.Selected {
			style = s.selected
		}
		lines = append(lines, m.pointer(i)+style.Render(c.Abbr+"  "+c.Full))
	}

	lines = append(lines, "", "Часы: "+s.strong.Render(m.screen.quantity))
	var shortcuts []string
	for i, sc := range m.screen.shortcuts {
		label := fmt.Sprintf("%d:%s", i+1, miniapp.FormatQuantity(sc.Value))
		if sc.Active {
			shortcuts = append(shortcuts, s.active.Render(label))
		} else {
			shortcuts = append(shortcuts, s.muted.Render(label))
		}
	}
	lines = append(lines, strings.Join(shortcuts, " "))
	lines = append(lines, "", "Комментарий: "+m.comment.View())

	if sum := m.screen.summary; sum.Visible {
		lines = append(lines, s.summary.Render(fmt.Sprintf("%s · %s\n%s", sum.Project, sum.Quantity, sum.Comment)))
	}
	return lines
}

func (m Model) registrationLines() []string {
	s := m.styles
	lines := []string{"Аббревиатура: " + m.abbr.View()}
	if msg := m.screen.FieldError(miniapp.FieldAbbr); msg != "" {
		lines = append(lines, s.failure.Render("  "+msg))
	}
	lines = append(lines, "Название:     "+m.full.View())
	if msg := m.screen.FieldError(miniapp.FieldFull); msg != "" {
		lines = append(lines, s.failure.Render("  "+msg))
	}
	if p := m.screen.preview; p.Visible {
		lines = append(lines, "", s.card.Render(p.Abbr+"  "+p.Full))
	}
	return lines
}

func (m Model) projectListLines() []string {
	if len(m.screen.rows) == 0 {
		return []string{m.styles.muted.Render("Проектов нет")}
	}
	lines := make([]string, 0, len(m.screen.rows))
	for _, r := range m.screen.rows {
		lines = append(lines, r.Label())
	}
	return lines
}

func (m Model) statsLines() []string {
	st := m.screen.stats
	if st.Placeholder {
		return []string{m.styles.muted.Render("Статистика появится после первого отчёта")}
	}
	lines := []string{
		fmt.Sprintf("Всего часов: %s", miniapp.FormatQuantity(st.TotalHours)),
		fmt.Sprintf("Отчётов: %d", st.TotalReports),
		"",
	}
	return append(lines, byProject(st.ByProject)...)
}

func (m Model) adminStatsLines() []string {
	lines := []string{m.styles.muted.Render("Отчёт: " + m.screen.adminReport)}
	lc := m.ctrl.Payload()
	if lc == nil || lc.AdminStats == nil {
		return append(lines, m.styles.muted.Render("Нет данных"))
	}
	st := lc.AdminStats
	lines = append(lines,
		fmt.Sprintf("Всего часов: %s · отчётов: %d", miniapp.FormatQuantity(st.TotalHours), st.TotalReports),
		"",
	)
	for _, e := range st.Employees {
		lines = append(lines, fmt.Sprintf("%s: %s (%d)", e.Name, miniapp.FormatQuantity(e.Hours), e.Reports))
	}
	lines = append(lines, "")
	lines = append(lines, byProject(st.Projects)...)
	if len(st.RecentReports) > 0 {
		lines = append(lines, "", m.styles.strong.Render("Последние отчёты"))
	}
	for _, r := range st.RecentReports {
		lines = append(lines, fmt.Sprintf("%s %s %s · %s · %s", r.Date, r.Time, r.Employee, r.Project, miniapp.FormatQuantity(r.Hours)))
	}
	return lines
}

func byProject(hours map[string]float64) []string {
	names := make([]string, 0, len(hours))
	for name := range hours {
		names = append(names, name)
	}
	slices.Sort(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s: %s", name, miniapp.FormatQuantity(hours[name])))
	}
	return lines
}

func (m Model) pointer(i int) string {
	if i == m.cursor {
		return m.styles.cursor.Render("› ")
	}
	return "  "
}

var htmlTags = strings.NewReplacer("<b>", "", "</b>", "", "<i>", "", "</i>", "")

// plainText strips the bot's HTML markup for the terminal.
func plainText(s string) string {
	return htmlTags.Replace(s)
}
