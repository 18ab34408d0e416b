package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime est une heure de la journée, en minutes depuis minuit (heure locale du jour de programme).
type ClockTime int

const minutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("invalid clock time")

// ParseClock accepte "20:15", "8:05", "20.15", "20:15 Uhr" et une plage "20:15 - 21:45"
// (seule la borne de début est retenue).
func ParseClock(text string) (ClockTime, error) {
	s := strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
	if i := strings.IndexAny(s, "-–"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "Uhr"), "uhr"))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidClock)
	}

	sep := strings.IndexAny(s, ":.")
	if sep <= 0 || sep > 2 || len(s)-sep-1 != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	h, err := strconv.Atoi(s[:sep])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	m, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, text)
	}
	return ClockTime(h*60 + m), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On renvoie l'instant correspondant sur le jour donné, dans la location de ce jour.
func (c ClockTime) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, c.Hour(), c.Minute(), 0, 0, day.Location())
}

func (c ClockTime) Valid() bool {
	return c >= 0 && c < minutesPerDay
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
