package miniapp

// Haptic is a feedback signal requested from the host.
type Haptic string

const (
	HapticImpactLight Haptic = "impact_light"
	HapticSuccess     Haptic = "success"
	HapticError       Haptic = "error"
)

// DefaultBgColor is used when the host supplies no theme.
const DefaultBgColor = "#ffffff"

// Theme carries the host's colour parameters.
type Theme struct {
	BgColor string
}

// Background returns the background colour, falling back to DefaultBgColor.
func (t Theme) Background() string {
	if t.BgColor == "" {
		return DefaultBgColor
	}
	return t.BgColor
}

// Bridge is the host platform as seen by the mini-app.
type Bridge interface {
	// SendData delivers the result payload to the bot.
	SendData(data []byte) error
	// Close ends the session.
	Close() error
	Haptic(h Haptic)
	Theme() Theme
}
