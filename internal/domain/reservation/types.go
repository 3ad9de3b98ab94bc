package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field names one input of the reservation form.
type Field string

const (
	FirstName       Field = "firstName"
	LastName        Field = "lastName"
	Email           Field = "email"
	Phone           Field = "phone"
	Date            Field = "date"
	Time            Field = "time"
	Guests          Field = "guests"
	OccasionField   Field = "occasion"
	SpecialRequests Field = "specialRequests"
)

// RequiredFields are checked at submit time, in form order.
var RequiredFields = []Field{FirstName, LastName, Email, Phone, Date, Time, Guests, OccasionField}

// AllFields is RequiredFields plus the optional free-text field.
var AllFields = append(append([]Field(nil), RequiredFields...), SpecialRequests)

var ErrUnknownField = errors.New("unknown field")

// ParseField maps a form input name onto a Field.
func ParseField(name string) (Field, error) {
	for _, f := range AllFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

type Occasion string

const (
	Birthday    Occasion = "birthday"
	Anniversary Occasion = "anniversary"
	Business    Occasion = "business"
	DateNight   Occasion = "date"
	Celebration Occasion = "celebration"
	Other       Occasion = "other"
)

// Occasions is the closed set offered by the form, in display order.
var Occasions = []Occasion{Birthday, Anniversary, Business, DateNight, Celebration, Other}

func (o Occasion) Valid() bool {
	for _, v := range Occasions {
		if v == o {
			return true
		}
	}
	return false
}

func (o Occasion) Label() string {
	switch o {
	case Birthday:
		return "Birthday"
	case Anniversary:
		return "Anniversary"
	case Business:
		return "Business"
	case DateNight:
		return "Date Night"
	case Celebration:
		return "Celebration"
	case Other:
		return "Other"
	}
	return string(o)
}

// Reservation is a fully validated draft, typed for the backend.
type Reservation struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Date            time.Time // midnight in the restaurant's location
	Time            string    // HH:MM
	Guests          int
	Occasion        Occasion
	SpecialRequests string
}

type Confirmation struct {
	Code      string
	CreatedAt time.Time
}

// Backend accepts a structurally valid reservation and reports success or a
// descriptive failure.
type Backend interface {
	Reserve(ctx context.Context, r Reservation) (Confirmation, error)
}

// Stored is a reservation as persisted by a listing-capable backend.
type Stored struct {
	ID int64
	Reservation
	Confirmation string
	CreatedAt    time.Time
}

// Lister is implemented by backends that can show stored reservations to staff.
// GetByConfirmation returns internaltypes.ErrNotFound for unknown codes.
type Lister interface {
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Stored, error)
	GetByConfirmation(ctx context.Context, code string) (Stored, error)
}

// NewConfirmationCode returns a short human-readable reference such as "LL-1A2B3C4D".
func NewConfirmationCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "LL-" + id[:8]
}
