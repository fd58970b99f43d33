package miniapp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/timesheet/internal/domain/project"
	"github.com/rpggio/timesheet/internal/launch"
)

// DefaultAdminReportLocation is the embedded admin statistics resource.
const DefaultAdminReportLocation = "admin_stats.html"

// Options configures a Controller.
type Options struct {
	AdminReportLocation string
	Logger              *slog.Logger
}

// Controller owns the session state and reacts to user events.
type Controller struct {
	view   View
	bridge Bridge
	logger *slog.Logger

	launch      LaunchContext
	adminReport string

	draft   Draft
	nav     *Navigator
	newAbbr string
	newFull string
	closed  bool
}

// NewController creates a controller for one session.
func NewController(lc LaunchContext, view View, bridge Bridge, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.AdminReportLocation == "" {
		opts.AdminReportLocation = DefaultAdminReportLocation
	}
	return &Controller{
		view:        view,
		bridge:      bridge,
		logger:      opts.Logger,
		launch:      lc,
		adminReport: opts.AdminReportLocation,
		draft:       NewDraft(),
		nav:         NewNavigator(PageHome),
	}
}

// Start draws the initial state on the home page.
func (c *Controller) Start() {
	c.view.SetTheme(c.bridge.Theme())
	c.view.SetAdmin(c.launch.IsAdmin)
	c.renderCatalog()
	c.view.RenderProjectList(ListRows(c.launch.Catalog))
	c.renderQuantity()
	c.view.RenderSummary(c.draft.Summary())
	c.view.RenderPreview(NewProjectPreview(c.newAbbr, c.newFull))
	c.view.ShowPage(c.nav.Current())
}

// IsAdmin reports the admin flag resolved at launch.
func (c *Controller) IsAdmin() bool { return c.launch.IsAdmin }

// Catalog returns the project catalog of the session.
func (c *Controller) Catalog() project.Catalog { return c.launch.Catalog }

// Draft returns a copy of the report draft.
func (c *Controller) Draft() Draft { return c.draft }

// Page returns the visible page.
func (c *Controller) Page() PageID { return c.nav.Current() }

// Payload returns the full launch payload, if one was supplied.
func (c *Controller) Payload() *launch.Payload { return c.launch.Payload }

// Closed reports whether a payload was sent and the session ended.
func (c *Controller) Closed() bool { return c.closed }

// NewProjectInput returns the current registration inputs.
func (c *Controller) NewProjectInput() (abbr, full string) { return c.newAbbr, c.newFull }

// SelectProject selects the catalog entry at index.
func (c *Controller) SelectProject(index int) error {
	if c.closed {
		return ErrSessionClosed
	}
	if index < 0 || index >= len(c.launch.Catalog) {
		return fmt.Errorf("%w: index %d", ErrUnknownProject, index)
	}
	c.draft.Select(c.launch.Catalog[index])
	c.view.ClearFieldError(FieldProject)
	c.renderCatalog()
	c.view.RenderSummary(c.draft.Summary())
	c.bridge.Haptic(HapticImpactLight)
	return nil
}

// SetQuantity updates the quantity from the continuous control.
func (c *Controller) SetQuantity(v float64) {
	if c.closed {
		return
	}
	c.draft.SetQuantity(v)
	c.renderQuantity()
	c.view.RenderSummary(c.draft.Summary())
}

// PickShortcut updates the quantity from a quick-select button.
func (c *Controller) PickShortcut(v float64) {
	if c.closed {
		return
	}
	c.SetQuantity(v)
	c.bridge.Haptic(HapticImpactLight)
}

// SetComment stores the comment text.
func (c *Controller) SetComment(text string) {
	if c.closed {
		return
	}
	c.draft.SetComment(text)
	c.view.RenderSummary(c.draft.Summary())
}

// SetNewAbbr stores the abbreviation input, upper-cased as typed.
func (c *Controller) SetNewAbbr(text string) string {
	if c.closed {
		return c.newAbbr
	}
	c.newAbbr = strings.ToUpper(text)
	c.view.RenderPreview(NewProjectPreview(c.newAbbr, c.newFull))
	return c.newAbbr
}

// SetNewFull stores the full name input.
func (c *Controller) SetNewFull(text string) {
	if c.closed {
		return
	}
	c.newFull = text
	c.view.RenderPreview(NewProjectPreview(c.newAbbr, c.newFull))
}

// GoTo navigates forward to page.
func (c *Controller) GoTo(page PageID) {
	if c.closed {
		return
	}
	c.nav.GoTo(page)
	c.show(page)
}

// Back returns to the previous page, or home when there is none.
func (c *Controller) Back() {
	if c.closed {
		return
	}
	c.show(c.nav.Back())
}

// SubmitReport sends the report and closes the session. Without a selected
// project it shows the error and sends nothing.
func (c *Controller) SubmitReport() error {
	if c.closed {
		return ErrSessionClosed
	}
	payload, err := BuildReport(c.draft)
	if err != nil {
		c.view.ShowFieldError(FieldProject, Message(err))
		c.bridge.Haptic(HapticError)
		return err
	}
	if err := c.send(payload); err != nil {
		return err
	}
	c.logger.Info("report submitted", "project", payload.ProjectAbbr, "hours", payload.Hours)
	return nil
}

// SubmitNewProject sends the registration and closes the session. Every
// failed check is shown at once and nothing is sent.
func (c *Controller) SubmitNewProject() error {
	if c.closed {
		return ErrSessionClosed
	}
	c.view.ClearFieldError(FieldAbbr)
	c.view.ClearFieldError(FieldFull)

	payload, err := BuildNewProject(c.newAbbr, c.newFull, c.launch.Catalog)
	if err != nil {
		if verrs, ok := project.AsValidationErrors(err); ok {
			for _, fe := range verrs {
				c.view.ShowFieldError(viewField(fe.Field), Message(fe.Err))
			}
		}
		c.bridge.Haptic(HapticError)
		return err
	}
	if err := c.send(payload); err != nil {
		return err
	}
	c.logger.Info("project registration submitted", "abbr", payload.Abbr)
	return nil
}

func (c *Controller) send(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := c.bridge.SendData(data); err != nil {
		return fmt.Errorf("sending payload: %w", err)
	}
	c.closed = true
	if err := c.bridge.Close(); err != nil {
		return fmt.Errorf("closing session: %w", err)
	}
	return nil
}

func (c *Controller) show(page PageID) {
	c.view.ShowPage(page)
	switch page {
	case PageStats:
		c.view.ShowStats(c.stats())
	case PageAdminStats:
		c.view.LoadAdminReport(c.adminReport)
	}
	c.bridge.Haptic(HapticImpactLight)
	c.view.ScrollTop()
}

func (c *Controller) stats() StatsContent {
	if c.launch.Payload == nil {
		return StatsContent{ByProject: map[string]float64{}, Placeholder: true}
	}
	s := c.launch.Payload.UserStats
	byProject := s.ByProject
	if byProject == nil {
		byProject = map[string]float64{}
	}
	return StatsContent{TotalHours: s.TotalHours, TotalReports: s.TotalReports, ByProject: byProject}
}

func (c *Controller) renderCatalog() {
	c.view.RenderCatalog(Cards(c.launch.Catalog, c.draft.Selected))
}

func (c *Controller) renderQuantity() {
	c.view.RenderQuantity(FormatQuantity(c.draft.Quantity), c.draft.Shortcuts())
}

func viewField(f project.Field) Field {
	if f == project.FieldFull {
		return FieldFull
	}
	return FieldAbbr
}
