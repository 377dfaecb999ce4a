package tail

import (
	"strings"

	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/Iron-Ham/ringtail/internal/logging"
	"github.com/gobwas/glob"
)

// Filter decides which lines are retained.
//
// Lines that parse as slog JSON are matched on their msg field and checked
// against the minimum level. Other lines are matched as a whole and are
// never dropped by the level check.
type Filter struct {
	pattern  glob.Glob
	minLevel string
}

// NewFilter compiles a glob match pattern and records the minimum level.
// An empty match accepts every line; an empty level disables level
// filtering.
func NewFilter(match, minLevel string) (*Filter, error) {
	f := &Filter{}
	if match != "" {
		g, err := glob.Compile(match)
		if err != nil {
			return nil, errors.NewValidationError("cannot compile match pattern").
				WithField("match").
				WithValue(match).
				WithCause(errors.Join(errors.ErrInvalidPattern, err))
		}
		f.pattern = g
	}
	if minLevel != "" {
		f.minLevel = logging.ParseLevel(minLevel)
	}
	return f, nil
}

// Keep reports whether text passes the filter.
func (f *Filter) Keep(text string) bool {
	if f.pattern == nil && f.minLevel == "" {
		return true
	}

	subject := text
	if looksLikeJSON(text) {
		if entry, err := logging.ParseEntry(text); err == nil {
			if !entry.AtLeast(f.minLevel) {
				return false
			}
			subject = entry.Message
		}
	}

	if f.pattern == nil {
		return true
	}
	return f.pattern.Match(subject)
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "{")
}
