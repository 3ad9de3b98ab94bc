// Package booking drives the reservation form: per-field validation on input and
// the Idle -> Submitting -> Succeeded/Failed lifecycle on submit.
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/littlelemon/internal/domain/reservation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for _, v := range []State{Idle, Submitting, Succeeded, Failed} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

const (
	MsgInvalid = "Please correct the errors below and try again."
	MsgFailure = "Sorry, there was an error processing your reservation. Please try again."
	MsgSuccess = "Reservation confirmed! We look forward to seeing you."

	// DefaultSuccessDisplay is how long the confirmation banner stays up.
	DefaultSuccessDisplay = 5 * time.Second
)

// Submit outcomes reported to an Observer.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeInvalid   = "invalid"
	OutcomeIgnored   = "ignored"
)

type Status struct {
	State   State  `json:"state"`
	Message string `json:"message"`
}

// Observer receives submit outcomes and validation failures, typically for metrics.
type Observer interface {
	ObserveSubmit(outcome string, took time.Duration)
	ObserveFieldError(f reservation.Field)
}

type Options struct {
	Backend  reservation.Backend
	Location *time.Location
	Now      func() time.Time
	Observer Observer
	Logger   *slog.Logger

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider

	SuccessDisplay time.Duration
}

// Controller owns one visitor's draft and submission state. Methods are safe for
// concurrent use; the lock is never held across the backend call.
type Controller struct {
	backend reservation.Backend
	loc     *time.Location
	now     func() time.Time
	obs     Observer
	log     *slog.Logger
	tracer  trace.Tracer
	display time.Duration

	mu           sync.Mutex
	draft        reservation.Draft
	state        State
	message      string
	messageUntil time.Time
	confirmation string
	lastSeen     time.Time
	edits        map[reservation.Field]Edit
}

// Edit numbers a field change made by one loaded page. Seq grows with every edit on
// that page; a new Page starts the count over.
type Edit struct {
	Page string
	Seq  uint64
}

func New(opts Options) *Controller {
	c := &Controller{
		backend: opts.Backend,
		loc:     opts.Location,
		now:     opts.Now,
		obs:     opts.Observer,
		log:     opts.Logger,
		display: opts.SuccessDisplay,
		draft:   reservation.NewDraft(),
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	c.tracer = tp.Tracer("github.com/example/littlelemon/internal/booking")
	if c.backend == nil {
		c.backend = Simulated{Delay: DefaultSimulatedDelay}
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.obs == nil {
		c.obs = nopObserver{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.display <= 0 {
		c.display = DefaultSuccessDisplay
	}
	c.lastSeen = c.now()
	return c
}

func (c *Controller) today() time.Time {
	return reservation.Today(c.now(), c.loc)
}

// SetField stores value for the named field and revalidates that field only.
func (c *Controller) SetField(name, value string) error {
	f, err := reservation.ParseField(name)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()
	c.draft.Set(f, value, c.today())
	return nil
}

// SetFieldEdit is SetField for clients whose requests may arrive out of order. An
// edit from the same page that is not newer than the last one applied to the field
// is dropped and reported as false. A zero Edit always applies.
func (c *Controller) SetFieldEdit(name, value string, e Edit) (bool, error) {
	f, err := reservation.ParseField(name)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()
	if e != (Edit{}) {
		if prev, ok := c.edits[f]; ok && prev.Page == e.Page && e.Seq <= prev.Seq {
			return false, nil
		}
		if c.edits == nil {
			c.edits = make(map[reservation.Field]Edit)
		}
		c.edits[f] = e
	}
	c.draft.Set(f, value, c.today())
	return true, nil
}

// ValidateAll revalidates every required field and reports whether the draft is valid.
func (c *Controller) ValidateAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateAllLocked()
}

func (c *Controller) validateAllLocked() bool {
	if c.draft.ValidateAll(c.today()) {
		return true
	}
	for f := range c.draft.Errors {
		c.obs.ObserveFieldError(f)
	}
	return false
}

// Submit runs one submission attempt and returns the resulting status. A call made
// while another submission is in flight returns immediately without contacting the
// backend. Cancelling ctx does not abort a submission that has started.
func (c *Controller) Submit(ctx context.Context) Status {
	c.mu.Lock()
	start := c.now()
	c.lastSeen = start
	if c.state == Submitting {
		st := c.statusLocked()
		c.mu.Unlock()
		c.obs.ObserveSubmit(OutcomeIgnored, 0)
		return st
	}
	c.state = Submitting
	c.setMessageLocked("", 0)
	c.confirmation = ""

	if !c.validateAllLocked() {
		st := c.failLocked(MsgInvalid)
		c.mu.Unlock()
		c.obs.ObserveSubmit(OutcomeInvalid, c.now().Sub(start))
		return st
	}
	res, err := c.draft.Reservation(c.loc)
	if err != nil {
		c.log.Error("convert validated draft", "error", err)
		st := c.failLocked(MsgInvalid)
		c.mu.Unlock()
		c.obs.ObserveSubmit(OutcomeInvalid, c.now().Sub(start))
		return st
	}
	c.mu.Unlock()

	conf, err := c.reserve(context.WithoutCancel(ctx), res)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSeen = c.now()
	if err != nil {
		c.log.Warn("reservation backend failed", "error", err, "date", res.Date.Format("2006-01-02"), "guests", res.Guests)
		c.obs.ObserveSubmit(OutcomeFailed, c.now().Sub(start))
		return c.failLocked(MsgFailure)
	}
	c.log.Info("reservation confirmed", "confirmation", conf.Code, "date", res.Date.Format("2006-01-02"), "time", res.Time, "guests", res.Guests)
	c.state = Succeeded
	c.confirmation = conf.Code
	c.draft = reservation.NewDraft()
	c.setMessageLocked(MsgSuccess, c.display)
	c.obs.ObserveSubmit(OutcomeSucceeded, c.now().Sub(start))
	return c.statusLocked()
}

func (c *Controller) reserve(ctx context.Context, res reservation.Reservation) (reservation.Confirmation, error) {
	ctx, span := c.tracer.Start(ctx, "booking.Reserve", trace.WithAttributes(
		attribute.String("reservation.date", res.Date.Format("2006-01-02")),
		attribute.String("reservation.time", res.Time),
		attribute.Int("reservation.guests", res.Guests),
		attribute.String("reservation.occasion", string(res.Occasion)),
	))
	defer span.End()

	conf, err := c.backend.Reserve(ctx, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return reservation.Confirmation{}, err
	}
	span.SetAttributes(attribute.String("reservation.confirmation", conf.Code))
	return conf, nil
}

func (c *Controller) failLocked(msg string) Status {
	c.state = Failed
	c.setMessageLocked(msg, 0)
	return c.statusLocked()
}

// setMessageLocked sets the banner; a positive ttl clears it once the window passes.
func (c *Controller) setMessageLocked(msg string, ttl time.Duration) {
	c.message = msg
	c.messageUntil = time.Time{}
	if msg != "" && ttl > 0 {
		c.messageUntil = c.now().Add(ttl)
	}
}

func (c *Controller) statusLocked() Status {
	if !c.messageUntil.IsZero() && !c.now().Before(c.messageUntil) {
		c.message = ""
		c.messageUntil = time.Time{}
	}
	return Status{State: c.state, Message: c.message}
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// Draft returns a copy of the current values and errors.
func (c *Controller) Draft() reservation.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// idleSince reports when the controller was last used and whether it may be
// dropped; an in-flight submission keeps it alive.
func (c *Controller) idleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen, c.state != Submitting
}

type nopObserver struct{}

func (nopObserver) ObserveSubmit(string, time.Duration) {}
func (nopObserver) ObserveFieldError(reservation.Field) {}
