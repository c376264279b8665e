package cli

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"todolist/internal/api"
	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/validation"
)

// displayTimeFormat is used for every timestamp printed by the CLI
const displayTimeFormat = "2006-01-02 15:04"

var shorthandPattern = regexp.MustCompile(`^(\d+)(m|h|d|w|mo|y)$`)

// App holds what the command handlers share
type App struct {
	api    api.API
	config *config.Config
	out    io.Writer
	now    func() time.Time
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(a api.API, cfg *config.Config, out io.Writer, now func() time.Time) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if now == nil {
		now = time.Now
	}
	return &App{
		api:    a,
		config: cfg,
		out:    out,
		now:    now,
	}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// parseTimeShorthand parses time shorthand like "30m", "2h", "1d", etc.
func parseTimeShorthand(shorthand string) (time.Duration, error) {
	matches := shorthandPattern.FindStringSubmatch(shorthand)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: %s", shorthand)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in time format: %s", shorthand)
	}

	unit := matches[2]
	var unitDuration time.Duration

	switch unit {
	case "m":
		unitDuration = time.Minute
	case "h":
		unitDuration = time.Hour
	case "d":
		unitDuration = 24 * time.Hour
	case "w":
		unitDuration = 7 * 24 * time.Hour
	case "mo":
		unitDuration = 30 * 24 * time.Hour
	case "y":
		unitDuration = 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid time unit: %s", unit)
	}

	if value > math.MaxInt64/int64(unitDuration) {
		return 0, fmt.Errorf("time value too large: %s", shorthand)
	}

	return time.Duration(value) * unitDuration, nil
}

// parseDeadline accepts a shorthand offset from now ("2d"), an RFC 3339
// timestamp, "2006-01-02 15:04" or "2006-01-02" in local time.
func parseDeadline(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if shorthandPattern.MatchString(value) {
		d, err := parseTimeShorthand(value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid deadline %q: %w", value, err)
		}
		return now.Add(d), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{displayTimeFormat, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid deadline %q: use 2d, 2006-01-02, \"2006-01-02 15:04\" or RFC 3339", value)
}

// parseID reads a positional ID; name is the label used in messages, such as "task id"
func parseID(value, name string) (int64, error) {
	id, err := validation.ParseID(strings.ReplaceAll(name, " ", "_"), value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

func domainStatus(raw string) domain.Status {
	return domain.Status(strings.TrimSpace(raw))
}
