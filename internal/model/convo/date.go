package convo

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedDate flags a date reply the preference dialog must re-prompt on.
var ErrMalformedDate = fmt.Errorf("date must look like dd/mm/yyyy")

// ParseDate converts a dd/mm/yyyy reply into the machine form the events API
// consumes, e.g. "25/12/2023" -> "2023-12-25T13:00:00". The reply must split
// into exactly three numeric parts and name a real calendar day.
func ParseDate(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return "", ErrMalformedDate
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return "", ErrMalformedDate
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return "", ErrMalformedDate
	}

	return fmt.Sprintf("%04d-%02d-%02dT13:00:00", year, month, day), nil
}
