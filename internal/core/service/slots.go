package service

import (
	"fmt"
	"strconv"
	"strings"

	"dentistimo/internal/core/domain"
)

// SkipPolicy marks the recurring breaks an office observes. Hours in
// SkipFullHour produce no slots at all, hours in SkipFirstHalf drop only
// the first half-hour slot of that hour.
type SkipPolicy struct {
	SkipFullHour  map[int]struct{}
	SkipFirstHalf map[int]struct{}
}

// DefaultSkipPolicy blocks the 12:00-13:00 lunch hour entirely and the
// 10:00-10:30 fika break.
func DefaultSkipPolicy() SkipPolicy {
	return SkipPolicy{
		SkipFullHour:  map[int]struct{}{12: {}},
		SkipFirstHalf: map[int]struct{}{10: {}},
	}
}

// CandidateSlots expands an opening interval "HH:MM-HH:MM" into the
// theoretical half-hour slots of that day, in ascending order. Only the
// hour components are considered; the minute components of the interval
// are ignored. Slot hours are not zero-padded ("8:00-8:30").
func CandidateSlots(interval string, policy SkipPolicy) ([]string, error) {
	opening, closing, err := parseInterval(interval)
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, 2*(closing-opening))

	for i := opening; i < closing; i++ {
		if _, skip := policy.SkipFullHour[i]; skip {
			continue
		}

		if _, skip := policy.SkipFirstHalf[i]; !skip {
			slots = append(slots, fmt.Sprintf("%d:00-%d:30", i, i))
		}

		slots = append(slots, fmt.Sprintf("%d:30-%d:00", i, i+1))
	}

	return slots, nil
}

// AvailableSlots removes every candidate slot whose start time is fully
// booked on the given date. A start time is fully booked when the number
// of reservations at that time reaches the office capacity. Ordering is
// preserved and the result only shrinks, so filtering an already filtered
// sequence is a no-op.
func AvailableSlots(candidates []string, reservations []domain.Reservation, capacity int, date string) []string {
	busy := make(map[int]int)

	for _, reservation := range reservations {
		day, clock, ok := strings.Cut(reservation.Time, " ")
		if !ok || day != date {
			continue
		}

		minute, err := parseClock(clock)
		if err != nil {
			continue
		}

		busy[minute]++
	}

	saturated := make(map[int]struct{})
	for minute, count := range busy {
		if count >= capacity {
			saturated[minute] = struct{}{}
		}
	}

	available := make([]string, 0, len(candidates))

	for _, slot := range candidates {
		start, _, ok := strings.Cut(slot, "-")
		if ok {
			if minute, err := parseClock(start); err == nil {
				if _, full := saturated[minute]; full {
					continue
				}
			}
		}

		available = append(available, slot)
	}

	return available
}

func parseInterval(interval string) (int, int, error) {
	from, to, ok := strings.Cut(interval, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid opening interval %q", interval)
	}

	opening, err := parseHour(from)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid opening hour in %q: %w", interval, err)
	}

	closing, err := parseHour(to)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid closing hour in %q: %w", interval, err)
	}

	if closing <= opening {
		return 0, 0, fmt.Errorf("closing hour not after opening hour in %q", interval)
	}

	return opening, closing, nil
}

func parseHour(clock string) (int, error) {
	hour, _, _ := strings.Cut(strings.TrimSpace(clock), ":")
	return strconv.Atoi(hour)
}

// parseClock converts "H:MM" or "HH:MM" to minutes of the day, so that
// the zero-padded times written by the booking subsystem compare equal
// to the unpadded slot start times.
func parseClock(clock string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time of day %q", clock)
	}

	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}

	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}

	return hour*60 + minute, nil
}
