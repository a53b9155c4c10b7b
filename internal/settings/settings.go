// Package settings holds the display configuration knobs. They are read
// on every feed request so edits take effect on the next poll; nothing
// here is cached.
package settings

// Default values applied when no settings row exists yet.
const (
	DefaultPresenceTimeout = 14400 // seconds; four hours of scan decay
	DefaultRefreshInterval = 30    // seconds between display polls
)

// Settings is the single display configuration document.
type Settings struct {
	// PresenceTimeout is the scan-decay window in seconds.
	PresenceTimeout int `json:"presence_timeout"`
	// RefreshInterval is the display poll interval in seconds. Consumed
	// only by the display page; the feed itself does no scheduling.
	RefreshInterval int `json:"refresh_interval"`
	// CodeWord gates the display page URL. Empty disables the gate.
	CodeWord string `json:"code_word"`
	// BackgroundImageURL and CustomCSS style the display page.
	BackgroundImageURL string `json:"background_image_url"`
	CustomCSS          string `json:"custom_css"`
}

// Defaults returns the out-of-the-box settings.
func Defaults() Settings {
	return Settings{
		PresenceTimeout: DefaultPresenceTimeout,
		RefreshInterval: DefaultRefreshInterval,
	}
}

// Normalize fills zero or negative knobs with defaults so a partial
// update can never wedge the display into a zero timeout or poll storm.
func (s Settings) Normalize() Settings {
	if s.PresenceTimeout <= 0 {
		s.PresenceTimeout = DefaultPresenceTimeout
	}
	if s.RefreshInterval <= 0 {
		s.RefreshInterval = DefaultRefreshInterval
	}
	return s
}
