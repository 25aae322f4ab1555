package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration wraps time.Duration so it can be decoded from a TOML string via
// encoding.TextUnmarshaler, which github.com/BurntSushi/toml honours for any
// field type that implements it. Accepts Go's own duration syntax ("5m",
// "90s") as well as the ISO-8601 form names for pipeline.phase-timeout
// ("PT5M").
type Duration struct {
	time.Duration
}

var _ interface {
	UnmarshalText([]byte) error
	MarshalText() ([]byte, error)
} = (*Duration)(nil)

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if strings.HasPrefix(s, "PT") || strings.HasPrefix(s, "pt") {
		parsed, err := parseISO8601Duration(s)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// parseISO8601Duration parses the small subset of ISO-8601 durations used
// for pipeline.phase-timeout: "PT" followed by an optional hour count ("H"),
// minute count ("M"), and second count ("S"), e.g. "PT5M", "PT1H30M".
func parseISO8601Duration(s string) (time.Duration, error) {
	s = strings.ToUpper(s)
	if !strings.HasPrefix(s, "PT") {
		return 0, fmt.Errorf("config: invalid ISO-8601 duration %q", s)
	}
	s = s[2:]

	var total time.Duration
	var numBuf strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			numBuf.WriteRune(r)
		case r == 'H' || r == 'M' || r == 'S':
			if numBuf.Len() == 0 {
				return 0, fmt.Errorf("config: invalid ISO-8601 duration %q", s)
			}
			val, err := strconv.ParseFloat(numBuf.String(), 64)
			if err != nil {
				return 0, fmt.Errorf("config: invalid ISO-8601 duration %q: %w", s, err)
			}
			numBuf.Reset()
			switch r {
			case 'H':
				total += time.Duration(val * float64(time.Hour))
			case 'M':
				total += time.Duration(val * float64(time.Minute))
			case 'S':
				total += time.Duration(val * float64(time.Second))
			}
		default:
			return 0, fmt.Errorf("config: invalid ISO-8601 duration character %q in %q", r, s)
		}
	}
	if numBuf.Len() > 0 {
		return 0, fmt.Errorf("config: trailing unparsed duration component in %q", s)
	}
	return total, nil
}
