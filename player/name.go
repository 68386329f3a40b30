// Package player holds the player name threaded from the landing page into the game page.
package player

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// DefaultName is shown when the game page is opened without a name.
const DefaultName Name = "Player"

// QueryKey is the query parameter carrying the name between the two pages.
const QueryKey = "name"

var ErrEmptyName = errors.New("player name is required")

// Name is the user-entered identity string. It is never trimmed or
// normalized; trimming only decides whether it is empty.
type Name string

func (n Name) String() string {
	return string(n)
}

// blank matches what the browser's String.prototype.trim strips, which
// includes the byte order mark.
func blank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Validate reports ErrEmptyName when raw is empty or whitespace only.
func Validate(raw string) (Name, error) {
	if strings.TrimFunc(raw, blank) == "" {
		return "", ErrEmptyName
	}
	return Name(raw), nil
}

// FromQuery resolves the name from a request query, falling back to DefaultName.
// No validation is applied to whatever arrives.
func FromQuery(q url.Values) Name {
	if v := q.Get(QueryKey); v != "" {
		return Name(v)
	}
	return DefaultName
}
