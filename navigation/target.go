// Package navigation builds the URL that moves a player from the landing page to the game page.
package navigation

import (
	"net/url"
	"strings"

	"github.com/wfunc/improvbattle/player"
)

const (
	LandingPath = "/"
	StartPath   = "/start"
	GamePath    = "/game"
)

// Target returns /game?name=<encoded name>.
func Target(name player.Name) string {
	return GamePath + "?" + player.QueryKey + "=" + EncodeComponent(name.String())
}

// EncodeComponent percent-encodes s for use as a single query value. Spaces
// become %20 rather than '+', matching browser component encoding.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
