package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_saas/internal/app"
	"hotel_saas/internal/domain"
)

const maxBody = 1 << 20

// Handlers groups the services behind the API. Nil services are not mounted.
type Handlers struct {
	Auth      *app.AuthService
	Admins    *app.Admins
	Tenants   *app.Records[domain.Tenant]
	Dashboard *app.DashboardService

	Rooms      *app.Entities[domain.Room]
	Facilities *app.Entities[domain.Facility]
	Services   *app.Entities[domain.Service]
	Customers  *app.Entities[domain.Customer]
	Bookings   *app.Entities[domain.Booking]
	Vouchers   *app.Entities[domain.Voucher]
	Promotions *app.Entities[domain.Promotion]
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/auth/login", h.login)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(Authenticate(h.Auth))
		r.Get("/auth/me", h.me)

		r.Group(func(r chi.Router) {
			r.Use(ResolveTenant)
			mountEntities(r, h.Rooms)
			mountEntities(r, h.Facilities)
			mountEntities(r, h.Services)
			mountEntities(r, h.Customers)
			mountEntities(r, h.Bookings)
			mountEntities(r, h.Vouchers)
			mountEntities(r, h.Promotions)
			if h.Dashboard != nil {
				r.Get("/dashboard", h.dashboard)
			}
		})

		if h.Tenants != nil {
			r.With(RequireRole(domain.RoleSuperAdmin)).Route("/tenants", func(r chi.Router) {
				mountRecords(r, h.Tenants)
			})
		}
		if h.Admins != nil {
			r.With(RequireRole(domain.RoleSuperAdmin, domain.RoleAdmin)).Route("/admins", h.mountAdmins)
		}
	})
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "record not found")
	case errors.As(err, &ve):
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation failed", Status: http.StatusUnprocessableEntity, Detail: ve.Reason, Field: ve.Field})
	case errors.Is(err, domain.ErrConstraint):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, app.ErrInvalidCredentials), errors.Is(err, app.ErrInvalidToken):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, app.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "not allowed for this account")
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// ---- request helpers ----

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func pageParams(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	q := r.URL.Query()
	var p domain.Page
	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid skip", "skip must be a non-negative integer")
			return p, false
		}
		p.Skip = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > domain.MaxLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return p, false
		}
		p.Limit = n
	}
	if s := q.Get("include_deleted"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid include_deleted", "include_deleted must be a boolean")
			return p, false
		}
		p.IncludeDeleted = b
	}
	return p.Normalize(), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

func decodeChanges(w http.ResponseWriter, r *http.Request) (domain.Changes, bool) {
	var ch domain.Changes
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&ch); err != nil || ch == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON object")
		return nil, false
	}
	return ch, true
}

// ---- tenant-owned collections ----

func mountEntities[E any](r chi.Router, s *app.Entities[E]) {
	if s == nil {
		return
	}
	r.Route("/"+s.Kind(), func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			p, ok := pageParams(w, r)
			if !ok {
				return
			}
			out, err := s.Page(r.Context(), tenantFrom(r.Context()), p)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			in := domain.New[E]()
			if !decodeBody(w, r, &in) {
				return
			}
			out, err := s.Create(r.Context(), tenantFrom(r.Context()), in, actorFrom(r.Context()).Username)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, out)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := idParam(w, r)
			if !ok {
				return
			}
			out, err := s.Get(r.Context(), id, tenantFrom(r.Context()))
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeWithETag(w, r, out)
		})
		r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := idParam(w, r)
			if !ok {
				return
			}
			ch, ok := decodeChanges(w, r)
			if !ok {
				return
			}
			out, err := s.Patch(r.Context(), id, tenantFrom(r.Context()), ch, actorFrom(r.Context()).Username)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := idParam(w, r)
			if !ok {
				return
			}
			out, err := s.Remove(r.Context(), id, tenantFrom(r.Context()), actorFrom(r.Context()).Username)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})
		r.Post("/{id}/restore", func(w http.ResponseWriter, r *http.Request) {
			id, ok := idParam(w, r)
			if !ok {
				return
			}
			out, err := s.Restore(r.Context(), id, tenantFrom(r.Context()), actorFrom(r.Context()).Username)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})
		r.Delete("/{id}/purge", func(w http.ResponseWriter, r *http.Request) {
			id, ok := idParam(w, r)
			if !ok {
				return
			}
			if !actorFrom(r.Context()).CanPurge() {
				writeError(w, r, app.ErrForbidden)
				return
			}
			out, err := s.HardDelete(r.Context(), id, tenantFrom(r.Context()))
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, out)
		})
	})
}

// ---- tenant-less records ----

func mountRecords[E any](r chi.Router, s *app.Records[E]) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		p, ok := pageParams(w, r)
		if !ok {
			return
		}
		out, err := s.Page(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		in := domain.New[E]()
		if !decodeBody(w, r, &in) {
			return
		}
		out, err := s.Create(r.Context(), in, actorFrom(r.Context()).Username)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	})
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := s.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeWithETag(w, r, out)
	})
	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		ch, ok := decodeChanges(w, r)
		if !ok {
			return
		}
		out, err := s.Patch(r.Context(), id, ch, actorFrom(r.Context()).Username)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := s.Remove(r.Context(), id, actorFrom(r.Context()).Username)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Post("/{id}/restore", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := s.Restore(r.Context(), id, actorFrom(r.Context()).Username)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Delete("/{id}/purge", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := s.HardDelete(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
}

// ---- auth ----

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	app.Token
	Admin domain.AdminUser `json:"admin"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Username == "" || in.Password == "" {
		writeProblemBody(w, problem{Type: "about:blank", Title: "Validation failed", Status: http.StatusUnprocessableEntity, Detail: "username and password are required"})
		return
	}
	tok, who, err := h.Auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: tok, Admin: who})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	a := actorFrom(r.Context())
	who, err := h.Auth.Me(r.Context(), a.Username)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "account is no longer active")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, who)
}

// ---- admins ----

type adminInput struct {
	domain.AdminUser
	Password string `json:"password"`
}

func (h *Handlers) mountAdmins(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		p, ok := pageParams(w, r)
		if !ok {
			return
		}
		out, err := h.Admins.Page(r.Context(), actorFrom(r.Context()), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		in := adminInput{AdminUser: domain.New[domain.AdminUser]()}
		if !decodeBody(w, r, &in) {
			return
		}
		out, err := h.Admins.Create(r.Context(), actorFrom(r.Context()), in.AdminUser, in.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	})
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := h.Admins.Get(r.Context(), actorFrom(r.Context()), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeWithETag(w, r, out)
	})
	r.Patch("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		ch, ok := decodeChanges(w, r)
		if !ok {
			return
		}
		out, err := h.Admins.Patch(r.Context(), actorFrom(r.Context()), id, ch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := h.Admins.Remove(r.Context(), actorFrom(r.Context()), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Post("/{id}/restore", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := h.Admins.Restore(r.Context(), actorFrom(r.Context()), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Delete("/{id}/purge", func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		out, err := h.Admins.HardDelete(r.Context(), actorFrom(r.Context()), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.Get(r.Context(), tenantFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
