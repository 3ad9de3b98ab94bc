package reservation

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
)

// Draft is the in-progress form: raw values as entered plus per-field errors.
// A field is invalid iff Errors has an entry for it.
type Draft struct {
	Values map[Field]string
	Errors map[Field]string
}

func NewDraft() Draft {
	return Draft{
		Values: make(map[Field]string, len(AllFields)),
		Errors: make(map[Field]string),
	}
}

func (d Draft) Get(f Field) string {
	return d.Values[f]
}

// Set stores value and revalidates f alone; other entries of Errors are untouched.
func (d *Draft) Set(f Field, value string, today time.Time) {
	if d.Values == nil || d.Errors == nil {
		*d = d.Clone()
	}
	d.Values[f] = value
	if msg := ValidateField(f, value, today); msg != "" {
		d.Errors[f] = msg
	} else {
		delete(d.Errors, f)
	}
}

// ValidateAll replaces Errors with the failures of every required field.
func (d *Draft) ValidateAll(today time.Time) bool {
	errs := make(map[Field]string)
	for _, f := range RequiredFields {
		if msg := ValidateField(f, d.Values[f], today); msg != "" {
			errs[f] = msg
		}
	}
	d.Errors = errs
	return len(errs) == 0
}

func (d Draft) Valid() bool {
	return len(d.Errors) == 0
}

// Clone returns a deep copy; nil maps come back empty.
func (d Draft) Clone() Draft {
	c := NewDraft()
	maps.Copy(c.Values, d.Values)
	maps.Copy(c.Errors, d.Errors)
	return c
}

// Reservation converts the draft into its typed form. Callers run ValidateAll first;
// the conversion itself only fails on values no validator would accept.
func (d *Draft) Reservation(loc *time.Location) (Reservation, error) {
	date, err := ParseDate(d.Get(Date), loc)
	if err != nil {
		return Reservation{}, fmt.Errorf("date: %w", err)
	}
	guests, err := strconv.Atoi(strings.TrimSpace(d.Get(Guests)))
	if err != nil {
		return Reservation{}, fmt.Errorf("guests: %w", err)
	}
	return Reservation{
		FirstName:       strings.TrimSpace(d.Get(FirstName)),
		LastName:        strings.TrimSpace(d.Get(LastName)),
		Email:           strings.TrimSpace(d.Get(Email)),
		Phone:           strings.TrimSpace(d.Get(Phone)),
		Date:            date,
		Time:            strings.TrimSpace(d.Get(Time)),
		Guests:          guests,
		Occasion:        Occasion(d.Get(OccasionField)),
		SpecialRequests: strings.TrimSpace(d.Get(SpecialRequests)),
	}, nil
}
