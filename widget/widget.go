// Package widget mounts the external voice agent on the game page.
//
// The agent bundle owns the audio session, the speech pipeline and the game
// master dialogue. This package only renders the element it attaches to and
// hands it the player name.
package widget

import (
	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/wfunc/improvbattle/markup"
)

// VoiceAgent renders the voice agent for one player.
type VoiceAgent interface {
	Mount(playerName string) templ.Component
}

// Embed renders a custom element plus the module script that upgrades it.
type Embed struct {
	ScriptURL string
	Element   string
	NewID     func() string
}

func NewEmbed(scriptURL, element string) *Embed {
	return &Embed{
		ScriptURL: scriptURL,
		Element:   element,
		NewID:     uuid.NewString,
	}
}

func (e *Embed) Mount(playerName string) templ.Component {
	el := markup.El(e.Element, []markup.Attr{
		markup.A("id", e.Element+"-"+e.NewID()),
		markup.A("class", "voice-agent"),
		markup.A("player-name", playerName),
		markup.A("data-player-name", playerName),
	})
	if e.ScriptURL == "" {
		return el
	}
	return templ.Join(el, markup.El("script", []markup.Attr{markup.A("type", "module"), markup.A("src", e.ScriptURL)}))
}
