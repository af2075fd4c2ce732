package render

import (
	"strings"

	"github.com/muesli/termenv"
)

// ProfileFor picks a colour profile from a terminal type and environment,
// for sessions where the terminal cannot be probed (e.g. SSH).
func ProfileFor(term string, environ []string) termenv.Profile {
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == "COLORTERM" {
			if v == "truecolor" || v == "24bit" {
				return termenv.TrueColor
			}
		}
	}
	switch {
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "truecolor") || strings.Contains(term, "direct"):
		return termenv.TrueColor
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}
