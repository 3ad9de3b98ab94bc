package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/littlelemon/internal/auth"
	"github.com/example/littlelemon/internal/booking"
	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/example/littlelemon/internal/internaltypes"
)

const maxBody = 64 << 10

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	c := s.viewController(r)
	s.render(w, "templates/home.html", http.StatusOK, pageData{
		Title:   s.Content.Name + " | " + s.Content.City,
		BaseURL: s.BaseURL,
		Site:    s.Content,
		Booking: c.Snapshot(),
		Options: s.options,
		Year:    s.Now().In(s.Location).Year(),
	})
}

// handleFormPost is the no-script path: apply every posted field, submit, then
// redirect back so a reload does not resubmit.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := s.controller(w, r)
	if err != nil {
		s.Logger.Error("visitor session", "error", err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	for _, f := range reservation.AllFields {
		if _, ok := r.PostForm[string(f)]; !ok {
			continue
		}
		if err := c.SetField(string(f), r.PostForm.Get(string(f))); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	c.Submit(r.Context())
	http.Redirect(w, r, "/#reservations", http.StatusSeeOther)
}

func (s *Server) handleAPISnapshot(w http.ResponseWriter, r *http.Request) {
	c := s.viewController(r)
	s.writeJSON(w, http.StatusOK, c.Snapshot())
}

type setFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`

	// Optional edit ordering from the page script.
	Page string `json:"page,omitempty"`
	Seq  uint64 `json:"seq,omitempty"`
}

func (s *Server) handleAPISetField(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c, err := s.controller(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	edit := booking.Edit{Page: req.Page, Seq: req.Seq}
	if _, err := c.SetFieldEdit(strings.TrimSpace(req.Name), req.Value, edit); err != nil {
		if errors.Is(err, reservation.ErrUnknownField) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	c, err := s.controller(w, r)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	c.Submit(r.Context())
	s.writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.options)
}

func (s *Server) handleAdminReservations(w http.ResponseWriter, r *http.Request) {
	from := reservation.Today(s.Now(), s.Location)
	if v := r.URL.Query().Get("from"); v != "" {
		d, err := reservation.ParseDate(v, s.Location)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		from = d
	}
	list, err := s.Lister.ListUpcoming(r.Context(), from, 200)
	if err != nil {
		s.Logger.Error("list reservations", "error", err)
		http.Error(w, "failed to load reservations", http.StatusInternalServerError)
		return
	}
	staff, _ := auth.AdminFromContext(r.Context())
	s.render(w, "templates/admin.html", http.StatusOK, pageData{
		Title:    "Upcoming reservations",
		Site:     s.Content,
		Year:     s.Now().In(s.Location).Year(),
		Upcoming: list,
		From:     from.Format("2006-01-02"),
		Staff:    staff,
	})
}

func (s *Server) handleAdminReservation(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	res, err := s.Lister.GetByConfirmation(r.Context(), code)
	if errors.Is(err, internaltypes.ErrNotFound) {
		http.Error(w, "reservation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.Logger.Error("get reservation", "confirmation", code, "error", err)
		http.Error(w, "failed to load reservation", http.StatusInternalServerError)
		return
	}
	staff, _ := auth.AdminFromContext(r.Context())
	s.render(w, "templates/admin.html", http.StatusOK, pageData{
		Title:  "Reservation " + res.Confirmation,
		Site:   s.Content,
		Year:   s.Now().In(s.Location).Year(),
		Detail: &res,
		Staff:  staff,
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

