package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/littlelemon/internal/auth"
	"github.com/example/littlelemon/internal/booking"
	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/internaltypes"
	"github.com/example/littlelemon/internal/metrics"
	"github.com/example/littlelemon/internal/site"
)

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

type stubLister struct {
	from time.Time
	rows []reservation.Stored
}

func (s *stubLister) ListUpcoming(_ context.Context, from time.Time, _ int) ([]reservation.Stored, error) {
	s.from = from
	return s.rows, nil
}

func (s *stubLister) GetByConfirmation(_ context.Context, code string) (reservation.Stored, error) {
	for _, r := range s.rows {
		if r.Confirmation == code {
			return r, nil
		}
	}
	return reservation.Stored{}, internaltypes.ErrNotFound
}

type testEnv struct {
	srv      *httptest.Server
	client   *http.Client
	registry *booking.Registry
	lister   *stubLister
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := func() time.Time { return testNow }
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))

	registry := booking.NewRegistry(func() *booking.Controller {
		return booking.New(booking.Options{
			Backend:  booking.Simulated{},
			Location: time.UTC,
			Now:      now,
			Observer: m,
		})
	}, time.Hour, now)

	hash, err := auth.HashPassword("lemons")
	if err != nil {
		t.Fatal(err)
	}
	lister := &stubLister{rows: []reservation.Stored{{
		ID:           1,
		Confirmation: "LL-CAFEBABE",
		Reservation: reservation.Reservation{
			FirstName: "Tilly",
			LastName:  "Lemon",
			Date:      time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
			Time:      "19:30",
			Guests:    2,
			Occasion:  reservation.DateNight,
		},
	}}}

	s := &Server{
		Registry: registry,
		Sessions: NewSessions(bytes.Repeat([]byte("h"), 32), bytes.Repeat([]byte("b"), 32)),
		Content:  site.Default(),
		Metrics:  m,
		Gatherer: reg,
		Lister:   lister,
		Admin:    auth.Admin{Username: "adrian", PasswordHash: hash},
		Location: time.UTC,
		Now:      now,
	}
	h, err := s.Routes()
	if err != nil {
		t.Fatalf("Routes: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &testEnv{srv: srv, client: &http.Client{Jar: jar}, registry: registry, lister: lister}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	res, err := e.client.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	return res, string(b)
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) (*http.Response, booking.View) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	res, err := e.client.Post(e.srv.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer res.Body.Close()
	var v booking.View
	_ = json.NewDecoder(res.Body).Decode(&v)
	return res, v
}

func validForm() url.Values {
	return url.Values{
		"firstName":       {"Tilly"},
		"lastName":        {"Lemon"},
		"email":           {"tilly@example.com"},
		"phone":           {"(312) 555-0142"},
		"date":            {"2026-03-20"},
		"time":            {"19:30"},
		"guests":          {"2"},
		"occasion":        {"date"},
		"specialRequests": {"Window seat"},
	}
}

func TestHomeRendersSections(t *testing.T) {
	e := newTestEnv(t)
	res, body := e.get(t, "/")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	for _, want := range []string{
		"This Week's Specials",
		"Greek Salad",
		"What Our Customers Say",
		"Reserve a Table",
		`min="2026-03-14"`,
		`max="2026-04-13"`,
		"1:30 PM",
		"Date Night",
		"2395 Maldove Way",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestAnonymousViewsKeepNoState(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 20; i++ {
		res, err := http.Get(e.srv.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if len(res.Cookies()) != 0 {
			t.Fatalf("GET / issued a cookie: %v", res.Cookies())
		}
		res, err = http.Get(e.srv.URL + "/api/reservation")
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
	}
	if n := e.registry.Len(); n != 0 {
		t.Fatalf("registry len after anonymous views = %d, want 0", n)
	}

	e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: "firstName", Value: "Tilly"})
	if n := e.registry.Len(); n != 1 {
		t.Fatalf("registry len after first post = %d, want 1", n)
	}
	_, body := e.get(t, "/")
	if !strings.Contains(body, `value="Tilly"`) {
		t.Fatal("home page lost the draft started over the API")
	}
}

func TestFormPostRedirectsAndShowsConfirmation(t *testing.T) {
	e := newTestEnv(t)
	res, err := e.client.PostForm(e.srv.URL+"/reservations", validForm())
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()

	if res.Request.URL.Path != "/" {
		t.Fatalf("not redirected home: %s", res.Request.URL)
	}
	if !strings.Contains(string(body), booking.MsgSuccess) {
		t.Fatalf("success banner missing")
	}
	if strings.Contains(string(body), `value="Tilly"`) {
		t.Fatal("draft not reset after success")
	}
}

func TestFormPostInvalidKeepsValuesAndShowsErrors(t *testing.T) {
	e := newTestEnv(t)
	form := validForm()
	form.Set("email", "not-an-email")
	res, err := e.client.PostForm(e.srv.URL+"/reservations", form)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()

	page := string(body)
	for _, want := range []string{booking.MsgInvalid, "Please enter a valid email address", `value="Tilly"`} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestAPISetFieldReturnsFieldErrors(t *testing.T) {
	e := newTestEnv(t)

	res, v := e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: "guests", Value: "12"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if got := v.Errors[reservation.Guests]; got != "Maximum 10 guests per reservation" {
		t.Fatalf("guests error = %q", got)
	}
	if len(v.Errors) != 1 {
		t.Fatalf("errors = %v, want only guests", v.Errors)
	}

	_, v = e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: "guests", Value: "4"})
	if _, ok := v.Errors[reservation.Guests]; ok {
		t.Fatalf("guests error not cleared: %v", v.Errors)
	}
	if v.Values[reservation.Guests] != "4" {
		t.Fatalf("value not stored: %v", v.Values)
	}
}

func TestAPISetFieldIgnoresLateEdits(t *testing.T) {
	e := newTestEnv(t)
	e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: "email", Value: "tilly@example.com", Page: "pg", Seq: 5})
	res, v := e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: "email", Value: "tilly@", Page: "pg", Seq: 4})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if v.Values[reservation.Email] != "tilly@example.com" {
		t.Fatalf("late edit overwrote value: %v", v.Values)
	}
	if _, ok := v.Errors[reservation.Email]; ok {
		t.Fatalf("late edit left an error: %v", v.Errors)
	}
}

func TestAPISetFieldRejectsUnknownField(t *testing.T) {
	e := newTestEnv(t)
	res, _ := e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: "favouriteColour", Value: "green"})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestAPISubmitEmptyDraft(t *testing.T) {
	e := newTestEnv(t)
	_, v := e.postJSON(t, "/api/reservation/submit", nil)
	if v.Status.State != booking.Failed || v.Status.Message != booking.MsgInvalid {
		t.Fatalf("status = %+v", v.Status)
	}
	if len(v.Errors) != len(reservation.RequiredFields) {
		t.Fatalf("errors = %d, want %d", len(v.Errors), len(reservation.RequiredFields))
	}
}

func TestAPISubmitSuccess(t *testing.T) {
	e := newTestEnv(t)
	for name, vals := range validForm() {
		e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: name, Value: vals[0]})
	}
	_, v := e.postJSON(t, "/api/reservation/submit", nil)
	if v.Status.State != booking.Succeeded || v.Status.Message != booking.MsgSuccess {
		t.Fatalf("status = %+v", v.Status)
	}
	if !strings.HasPrefix(v.Confirmation, "LL-") {
		t.Fatalf("confirmation = %q", v.Confirmation)
	}
	if len(v.Values) != 0 {
		t.Fatalf("values not reset: %v", v.Values)
	}
}

func TestVisitorsAreIsolated(t *testing.T) {
	e := newTestEnv(t)
	e.postJSON(t, "/api/reservation/fields", setFieldRequest{Name: "firstName", Value: "Tilly"})

	jar, _ := cookiejar.New(nil)
	other := &testEnv{srv: e.srv, client: &http.Client{Jar: jar}}
	res, body := other.get(t, "/api/reservation")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if strings.Contains(body, "Tilly") {
		t.Fatal("second visitor sees the first visitor's draft")
	}
	if e.registry.Len() != 1 {
		t.Fatalf("registry len = %d, want 1", e.registry.Len())
	}
}

func TestAPIOptions(t *testing.T) {
	e := newTestEnv(t)
	_, body := e.get(t, "/api/reservation/options")
	var fo booking.FormOptions
	if err := json.Unmarshal([]byte(body), &fo); err != nil {
		t.Fatal(err)
	}
	if len(fo.Times) != 23 || fo.Times[0].Label != "11:00 AM" || fo.Times[22].Value != "22:00" {
		t.Fatalf("times = %+v", fo.Times)
	}
	if len(fo.Guests) != 10 || fo.Guests[0].Label != "1 Guest" {
		t.Fatalf("guests = %+v", fo.Guests)
	}
	if len(fo.Occasions) != 6 {
		t.Fatalf("occasions = %+v", fo.Occasions)
	}
}

func TestAdminRequiresCredentials(t *testing.T) {
	e := newTestEnv(t)
	res, _ := e.get(t, "/admin/reservations")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/admin/reservations?from=2026-03-15", nil)
	req.SetBasicAuth("adrian", "lemons")
	res, err := e.client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(string(body), "LL-CAFEBABE") || !strings.Contains(string(body), "7:30 PM") {
		t.Fatal("listing missing reservation")
	}
	if e.lister.from.Format("2006-01-02") != "2026-03-15" {
		t.Fatalf("from = %v", e.lister.from)
	}
	if !strings.Contains(string(body), "Signed in as <strong>adrian</strong>") {
		t.Fatal("listing does not name the signed-in staff member")
	}
}

func TestAdminReservationDetail(t *testing.T) {
	e := newTestEnv(t)
	fetch := func(path string, auth bool) (int, string) {
		t.Helper()
		req, _ := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
		if auth {
			req.SetBasicAuth("adrian", "lemons")
		}
		res, err := e.client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer res.Body.Close()
		b, _ := io.ReadAll(res.Body)
		return res.StatusCode, string(b)
	}

	if code, _ := fetch("/admin/reservations/LL-CAFEBABE", false); code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", code)
	}
	code, body := fetch("/admin/reservations/LL-CAFEBABE", true)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{"Reservation <code>LL-CAFEBABE</code>", "Tilly Lemon", "Date Night", "7:30 PM"} {
		if !strings.Contains(body, want) {
			t.Errorf("detail page missing %q", want)
		}
	}
	if code, _ := fetch("/admin/reservations/LL-NOPE", true); code != http.StatusNotFound {
		t.Fatalf("unknown code status = %d, want 404", code)
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	e := newTestEnv(t)
	res, body := e.get(t, "/healthz")
	if res.StatusCode != http.StatusOK || body != "ok\n" {
		t.Fatalf("healthz = %d %q", res.StatusCode, body)
	}

	e.postJSON(t, "/api/reservation/submit", nil)
	_, body = e.get(t, "/metrics")
	for _, want := range []string{
		`littlelemon_reservation_submissions_total{outcome="invalid"} 1`,
		`littlelemon_http_requests_total`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestStaticAssets(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/static/css/site.css", "/static/js/booking.js", "/static/img/greek-salad.svg"} {
		res, _ := e.get(t, path)
		if res.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, res.StatusCode)
		}
	}
}
