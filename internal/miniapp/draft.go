package miniapp

import (
	"math"
	"strconv"

	"github.com/rpggio/timesheet/internal/domain/project"
)

// Quantity bounds of the hours control.
const (
	DefaultQuantity = 4.0
	MinQuantity     = 0.5
	MaxQuantity     = 12.0
	QuantityStep    = 0.5
)

// NoCommentPlaceholder is shown in the summary when the comment is empty.
const NoCommentPlaceholder = "Без комментария"

// QuickQuantities are the quick-select shortcut values.
var QuickQuantities = []float64{1, 2, 4, 8}

// Draft is the report being composed.
type Draft struct {
	Selected *project.Project
	Quantity float64
	Comment  string
}

// NewDraft returns an empty draft with the default quantity.
func NewDraft() Draft {
	return Draft{Quantity: DefaultQuantity}
}

// Select replaces the current selection.
func (d *Draft) Select(p project.Project) {
	d.Selected = &p
}

// SetQuantity stores v snapped to the step grid and clamped to the bounds,
// and returns the stored value. NaN leaves the quantity unchanged.
func (d *Draft) SetQuantity(v float64) float64 {
	if math.IsNaN(v) {
		return d.Quantity
	}
	v = math.Round(v/QuantityStep) * QuantityStep
	d.Quantity = math.Min(MaxQuantity, math.Max(MinQuantity, v))
	return d.Quantity
}

// SetComment stores the raw comment text.
func (d *Draft) SetComment(text string) {
	d.Comment = text
}

// Shortcut is a quick-select quantity button.
type Shortcut struct {
	Value  float64
	Active bool
}

// Shortcuts returns the quick-select buttons. A button is active only when
// its value equals the quantity exactly.
func (d Draft) Shortcuts() []Shortcut {
	out := make([]Shortcut, len(QuickQuantities))
	for i, v := range QuickQuantities {
		out[i] = Shortcut{Value: v, Active: v == d.Quantity}
	}
	return out
}

// Summary is the report preview shown under the form.
type Summary struct {
	Visible  bool
	Project  string
	Quantity string
	Comment  string
}

// Summary derives the preview. It stays hidden until a project is selected.
func (d Draft) Summary() Summary {
	if d.Selected == nil {
		return Summary{}
	}
	comment := d.Comment
	if comment == "" {
		comment = NoCommentPlaceholder
	}
	return Summary{
		Visible:  true,
		Project:  d.Selected.Full,
		Quantity: FormatQuantity(d.Quantity),
		Comment:  comment,
	}
}

// FormatQuantity renders hours the way the form displays them, e.g. "2.5 ч".
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " ч"
}
