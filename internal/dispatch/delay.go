package dispatch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Delay parsing errors. Both mention "delay" so scheduling failures surface a
// recognizable cause to callers.
var (
	ErrInvalidDelayFormat = errors.New(`invalid delay format, expected "<number><s|m|h|d>" e.g. "30s", "5m", "2h", "1d"`)
	ErrInvalidDelayValue  = errors.New("invalid delay value: must be greater than zero")
)

// delayPattern accepts lowercase unit suffixes only.
var delayPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// Delay is a normalized deferral: a positive magnitude and a fixed unit.
type Delay struct {
	Magnitude int64
	Unit      byte // one of 's', 'm', 'h', 'd'
}

// ParseDelay parses a human-readable delay string like "30s", "5m", "2h" or
// "1d". No upper bound is enforced here; the queue backend may impose one.
func ParseDelay(raw string) (Delay, error) {
	m := delayPattern.FindStringSubmatch(raw)
	if m == nil {
		return Delay{}, ErrInvalidDelayFormat
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Delay{}, ErrInvalidDelayFormat
	}
	if n == 0 {
		return Delay{}, ErrInvalidDelayValue
	}
	return Delay{Magnitude: n, Unit: m[2][0]}, nil
}

// String renders the delay back to its textual wire form.
func (d Delay) String() string {
	return fmt.Sprintf("%d%c", d.Magnitude, d.Unit)
}

// Duration converts the delay to a time.Duration.
func (d Delay) Duration() time.Duration {
	n := time.Duration(d.Magnitude)
	switch d.Unit {
	case 's':
		return n * time.Second
	case 'm':
		return n * time.Minute
	case 'h':
		return n * time.Hour
	case 'd':
		return n * 24 * time.Hour
	}
	return 0
}
