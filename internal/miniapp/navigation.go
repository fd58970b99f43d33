package miniapp

// PageID names a page of the mini-app. The set is open; these are the
// pages the controller attaches behaviour to.
type PageID string

const (
	PageHome          PageID = "home"
	PageReport        PageID = "report"
	PageProjects      PageID = "projects"
	PageStats         PageID = "stats"
	PageAdminStats    PageID = "admin-stats"
	PageAdminProjects PageID = "admin-projects"
)

// Navigator tracks the visible page and the back history.
type Navigator struct {
	home    PageID
	current PageID
	history []PageID
}

// NewNavigator starts on the home page with an empty history.
func NewNavigator(home PageID) *Navigator {
	return &Navigator{home: home, current: home}
}

// GoTo pushes the current page and makes page current.
func (n *Navigator) GoTo(page PageID) {
	if n.current != "" {
		n.history = append(n.history, n.current)
	}
	n.current = page
}

// Back pops the history and returns the new current page. With an empty
// history it returns to the home page. Nothing is pushed either way.
func (n *Navigator) Back() PageID {
	if len(n.history) == 0 {
		n.current = n.home
		return n.current
	}
	last := len(n.history) - 1
	n.current = n.history[last]
	n.history = n.history[:last]
	return n.current
}

// Current returns the visible page.
func (n *Navigator) Current() PageID {
	return n.current
}

// History returns a copy of the back stack, oldest first.
func (n *Navigator) History() []PageID {
	return append([]PageID(nil), n.history...)
}
