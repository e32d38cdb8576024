package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// operatingDayFormat is the 8-digit calendar date the source renders with
// CONVERT style 112.
const operatingDayFormat = "20060102"

// timeStringToSeconds converts an HH:MM:SS offset from the operating day's
// midnight to seconds. The hour field may exceed 23: a journey on service
// day D departing 25:30:00 leaves at 01:30 on the civil day after D.
func timeStringToSeconds(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("time %q is not in HH:MM:SS format", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("invalid hours in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid seconds in %q", s)
	}
	return hours*3600 + minutes*60 + seconds, nil
}

// startDateTime combines an operating day and a start time offset into an
// absolute UTC instant in ISO-8601 form.
func startDateTime(operatingDay, startTime string) (string, error) {
	day, err := time.Parse(operatingDayFormat, operatingDay)
	if err != nil {
		return "", fmt.Errorf("parsing operating day %q: %w", operatingDay, err)
	}
	offset, err := timeStringToSeconds(startTime)
	if err != nil {
		return "", err
	}
	return day.Add(time.Duration(offset) * time.Second).Format(time.RFC3339), nil
}
