package miniapp

import (
	"errors"
	"testing"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	sent    [][]byte
	closed  int
	haptics []Haptic
	theme   Theme
	sendErr error
}

func (b *fakeBridge) SendData(data []byte) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, data)
	return nil
}

func (b *fakeBridge) Close() error { b.closed++; return nil }
func (b *fakeBridge) Haptic(h Haptic) { b.haptics = append(b.haptics, h) }
func (b *fakeBridge) Theme() Theme { return b.theme }
func (b *fakeBridge) lastHaptic() Haptic {
	if len(b.haptics) == 0 {
		return ""
	}
	return b.haptics[len(b.haptics)-1]
}

type fakeView struct {
	theme       Theme
	admin       bool
	cards       []Card
	rows        []Row
	quantity    string
	shortcuts   []Shortcut
	summary     Summary
	preview     Preview
	fieldErrors map[Field]string
	page        PageID
	pagesShown  []PageID
	stats       *StatsContent
	adminReport string
	scrolls     int
}

func newFakeView() *fakeView {
	return &fakeView{fieldErrors: map[Field]string{}}
}

func (v *fakeView) SetTheme(t Theme) { v.theme = t }
func (v *fakeView) SetAdmin(admin bool) { v.admin = admin }
func (v *fakeView) RenderCatalog(cards []Card) { v.cards = cards }
func (v *fakeView) RenderProjectList(rows []Row) { v.rows = rows }
func (v *fakeView) RenderSummary(s Summary) { v.summary = s }
func (v *fakeView) RenderPreview(p Preview) { v.preview = p }
func (v *fakeView) ClearFieldError(field Field) { delete(v.fieldErrors, field) }
func (v *fakeView) LoadAdminReport(location string) { v.adminReport = location }
func (v *fakeView) ScrollTop() { v.scrolls++ }
func (v *fakeView) ShowFieldError(f Field, msg string) { v.fieldErrors[f] = msg }

func (v *fakeView) RenderQuantity(display string, shortcuts []Shortcut) {
	v.quantity = display
	v.shortcuts = shortcuts
}

func (v *fakeView) ShowPage(page PageID) {
	v.page = page
	v.pagesShown = append(v.pagesShown, page)
}

func (v *fakeView) ShowStats(stats StatsContent) { v.stats = &stats }

func newTestController(t *testing.T, catalog project.Catalog) (*Controller, *fakeView, *fakeBridge) {
	t.Helper()
	view := newFakeView()
	bridge := &fakeBridge{}
	c := NewController(LaunchContext{Catalog: catalog}, view, bridge, Options{})
	c.Start()
	return c, view, bridge
}

var errSend = errors.New("host unavailable")

func requireNoPayload(t *testing.T, b *fakeBridge) {
	t.Helper()
	require.Empty(t, b.sent)
	require.Zero(t, b.closed)
}
