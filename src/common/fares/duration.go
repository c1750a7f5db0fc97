package fares

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	hourMinPattern = regexp.MustCompile(`(?i)^\s*(?:(\d+)\s*h)?\s*(?:(\d+)\s*min)?\s*$`)
	isoHours       = regexp.MustCompile(`(\d+)H`)
	isoMinutes     = regexp.MustCompile(`(\d+)M`)
)

// ParseDurationMinutes parses the two duration formats the providers emit:
// "2h 33min" (either field may be absent) and ISO-style "PT2H30M" tokens.
// Unparseable input yields 0.
func ParseDurationMinutes(duration string) int {
	if m := hourMinPattern.FindStringSubmatch(duration); m != nil && (m[1] != "" || m[2] != "") {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return hours*60 + minutes
	}

	hours := 0
	if m := isoHours.FindStringSubmatch(duration); m != nil {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes := 0
	if m := isoMinutes.FindStringSubmatch(duration); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}
	return hours*60 + minutes
}

// ParseClockDuration parses "HH:MM" durations ("02:30" -> 150).
func ParseClockDuration(duration string) int {
	parts := strings.Split(duration, ":")
	if len(parts) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}
