package services

import (
	"strings"
	"time"
)

const naiveTimeLayout = "2006-01-02T15:04:05"

// parseFlexibleTime reads an ISO timestamp and returns the instant in UTC.
// Strings carrying no offset are interpreted in loc (the deployment's
// default local zone) before conversion; everything stored or compared
// downstream is UTC.
func parseFlexibleTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(naiveTimeLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
