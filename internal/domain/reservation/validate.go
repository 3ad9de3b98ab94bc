package reservation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxDaysAhead bounds how far in advance a table can be booked.
	MaxDaysAhead = 30

	FirstHour = 11
	LastHour  = 22

	MinGuests = 1
	MaxGuests = 10

	minNameLen  = 2
	minPhoneLen = 10
	dateLayout  = "2006-01-02"
	timeLayout  = "15:04"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// Today returns midnight of now's calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}

// ValidateField returns the message for the first rule value breaks, or "" when
// value is acceptable. today must be a midnight as returned by Today.
func ValidateField(f Field, value string, today time.Time) string {
	switch f {
	case FirstName:
		return validateName("First", value)
	case LastName:
		return validateName("Last", value)
	case Email:
		return validateEmail(value)
	case Phone:
		return validatePhone(value)
	case Date:
		return validateDate(value, today)
	case Time:
		return validateTime(value)
	case Guests:
		return validateGuests(value)
	case OccasionField:
		if !Occasion(value).Valid() {
			return "Please select an occasion"
		}
	}
	return ""
}

func validateName(label, value string) string {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return label + " name is required"
	case utf8.RuneCountInString(v) < minNameLen:
		return label + " name must be at least 2 characters"
	case !namePattern.MatchString(v):
		return label + " name can only contain letters and spaces"
	}
	return ""
}

func validateEmail(value string) string {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return "Email is required"
	case !emailPattern.MatchString(v):
		return "Please enter a valid email address"
	}
	return ""
}

func validatePhone(value string) string {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return "Phone number is required"
	case !phonePattern.MatchString(v):
		return "Please enter a valid phone number"
	case countDigits(value) < minPhoneLen:
		return "Phone number must be at least 10 digits"
	}
	return ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func validateDate(value string, today time.Time) string {
	if value == "" {
		return "Date is required"
	}
	d, err := ParseDate(value, today.Location())
	if err != nil {
		return "Please enter a valid date"
	}
	if d.Before(today) {
		return "Date cannot be in the past"
	}
	if d.After(today.AddDate(0, 0, MaxDaysAhead)) {
		return "Reservations can only be made up to 30 days in advance"
	}
	return ""
}

// ParseDate parses a YYYY-MM-DD form value as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(dateLayout, strings.TrimSpace(value), loc)
}

// Only the hour is checked, so off-grid values such as "11:15" or "22:30" pass.
func validateTime(value string) string {
	if value == "" {
		return "Time is required"
	}
	hour, _, _ := strings.Cut(strings.TrimSpace(value), ":")
	h, err := strconv.Atoi(hour)
	if err != nil || h < FirstHour || h > LastHour {
		return "Reservations are available between 11:00 AM and 10:00 PM"
	}
	return ""
}

func validateGuests(value string) string {
	if value == "" {
		return "Number of guests is required"
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	switch {
	case err != nil || n < MinGuests:
		return "At least 1 guest is required"
	case n > MaxGuests:
		return "Maximum 10 guests per reservation"
	}
	return ""
}
