// Package pages renders the landing and game screens as templ components.
package pages

import (
	"fmt"

	"github.com/a-h/templ"
)

// Notice is the empty-name notification shown after a rejected start.
type Notice struct {
	Message string
}

// LandingView feeds the landing screen.
type LandingView struct {
	Title        string
	Name         string // entered text, echoed back unchanged
	NoticeMode   string // "alert" or "inline"
	EmptyMessage string
	Notice       *Notice
	StartPath    string
}

// GameView feeds the game screen.
type GameView struct {
	Title       string
	PlayerName  string
	DefaultName string
	Element     string
	Widget      templ.Component

	// PresencePath is empty when the presence channel is disabled.
	PresencePath    string
	HeartbeatMillis int64
}

// Greeting is the game screen header, e.g. "Improv Battle - Welcome, Zoe!".
func Greeting(title, name string) string {
	return fmt.Sprintf("%s - Welcome, %s!", title, name)
}
