package booking

import (
	"strconv"

	"github.com/example/littlelemon/internal/domain/reservation"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// View is everything the presentation layer needs to render the form.
type View struct {
	Values       map[reservation.Field]string `json:"values"`
	Errors       map[reservation.Field]string `json:"errors"`
	Status       Status                       `json:"status"`
	Confirmation string                       `json:"confirmation,omitempty"`
	MinDate      string                       `json:"minDate"`
	MaxDate      string                       `json:"maxDate"`
}

// Submitting reports whether the submit button should be disabled.
func (v View) Submitting() bool { return v.Status.State == Submitting }

func (v View) Succeeded() bool { return v.Status.State == Succeeded }

func (v View) Value(f string) string { return v.Values[reservation.Field(f)] }

func (v View) Error(f string) string { return v.Errors[reservation.Field(f)] }

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()
	d := c.draft.Clone()
	today := c.today()
	return View{
		Values:       d.Values,
		Errors:       d.Errors,
		Status:       c.statusLocked(),
		Confirmation: c.confirmation,
		MinDate:      today.Format("2006-01-02"),
		MaxDate:      today.AddDate(0, 0, reservation.MaxDaysAhead).Format("2006-01-02"),
	}
}

// FormOptions are the selectable choices of the form, with display labels.
type FormOptions struct {
	Times     []Option `json:"times"`
	Guests    []Option `json:"guests"`
	Occasions []Option `json:"occasions"`
}

func NewFormOptions() FormOptions {
	var fo FormOptions
	for _, t := range reservation.TimeOptions() {
		fo.Times = append(fo.Times, Option{Value: t, Label: reservation.TimeLabel(t)})
	}
	for _, n := range reservation.GuestOptions() {
		fo.Guests = append(fo.Guests, Option{Value: strconv.Itoa(n), Label: reservation.GuestLabel(n)})
	}
	for _, o := range reservation.Occasions {
		fo.Occasions = append(fo.Occasions, Option{Value: string(o), Label: o.Label()})
	}
	return fo
}
