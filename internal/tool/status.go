package tool

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusValid        = "Valid"
	StatusExpiringSoon = "Expiring Soon"
	StatusExpired      = "Expired"
	StatusUnknown      = "Unknown"
)

const (
	DefaultValidityMonths = 12
	DaysPerMonth          = 30
	ExpiringSoonDays      = 90
	ExpiryDateLayout      = "2006-01-02"
)

// Accepted calibration date layouts. Layouts without a zone parse as UTC.
var calibrationDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

var errUnparseableDate = errors.New("unrecognised calibration date")

// ParseCalibrationDate accepts a bare date or an ISO timestamp.
func ParseCalibrationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range calibrationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparseableDate
}

// ComputeStatus derives the calibration status and expiry date at now.
// A month counts as 30 days. A missing or unparseable date gives Unknown and
// no expiry.
func ComputeStatus(calibrationDate *string, validityMonths int, now time.Time) (string, *string) {
	if calibrationDate == nil || strings.TrimSpace(*calibrationDate) == "" {
		return StatusUnknown, nil
	}

	cal, err := ParseCalibrationDate(*calibrationDate)
	if err != nil {
		return StatusUnknown, nil
	}

	expiry := cal.AddDate(0, 0, validityMonths*DaysPerMonth)
	expiryStr := expiry.Format(ExpiryDateLayout)

	days := floorDays(expiry.Sub(now.UTC()))
	switch {
	case days < 0:
		return StatusExpired, &expiryStr
	case days <= ExpiringSoonDays:
		return StatusExpiringSoon, &expiryStr
	default:
		return StatusValid, &expiryStr
	}
}

// floorDays counts whole days, rounding towards negative infinity.
func floorDays(d time.Duration) int64 {
	const day = 24 * time.Hour
	days := int64(d / day)
	if d%day != 0 && d < 0 {
		days--
	}
	return days
}
