package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pbaille/wellness/internal/companion"
	"github.com/pbaille/wellness/internal/crisis"
	"github.com/pbaille/wellness/internal/domain"
	"github.com/pbaille/wellness/internal/meditation"
	"github.com/pbaille/wellness/internal/metrics"
	"github.com/pbaille/wellness/internal/session"
	"github.com/pbaille/wellness/internal/store"
	"github.com/pbaille/wellness/internal/wellness"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles HTTP requests for the wellness tracker API
type Server struct {
	store     *store.Store
	svc       *wellness.Service
	crisis    *crisis.Support
	addr      string
	chatOpts  []companion.Option
	chatSetup func(session.Context) session.Context
}

// Option configures a Server
type Option func(*Server)

// WithCompanionOptions passes options to every companion client
func WithCompanionOptions(opts ...companion.Option) Option {
	return func(s *Server) { s.chatOpts = append(s.chatOpts, opts...) }
}

// WithCompanionDefaults fills provider and key when the session has none
func WithCompanionDefaults(provider, key string) Option {
	return func(s *Server) {
		s.chatSetup = func(c session.Context) session.Context {
			if !c.HasAPIKey() && key != "" {
				c.APIKey = key
				if provider != "" {
					c.Provider = provider
				}
			}
			return c
		}
	}
}

// New creates a new API server
func New(st *store.Store, svc *wellness.Service, addr string, opts ...Option) *Server {
	s := &Server{
		store:  st,
		svc:    svc,
		crisis: crisis.New(st),
		addr:   addr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with CORS and metrics applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Moods
	mux.HandleFunc("GET /moods", s.signedIn(s.listMoods))
	mux.HandleFunc("POST /moods", s.signedIn(s.addMood))
	mux.HandleFunc("DELETE /moods", s.signedIn(s.clearMoods))

	// Journal
	mux.HandleFunc("GET /journal", s.signedIn(s.listJournal))
	mux.HandleFunc("POST /journal", s.signedIn(s.addJournal))
	mux.HandleFunc("POST /journal/{id}/goals/{goalID}/toggle", s.signedIn(s.toggleGoal))

	// Derived views
	mux.HandleFunc("GET /progress", s.signedIn(s.progress))
	mux.HandleFunc("GET /analytics", s.signedIn(s.analytics))

	// Crisis support; the hotlines and plan stay readable while signed out
	mux.HandleFunc("GET /crisis", s.getCrisis)
	mux.HandleFunc("POST /crisis/contacts", s.signedIn(s.addContact))
	mux.HandleFunc("DELETE /crisis/contacts/{id}", s.signedIn(s.removeContact))
	mux.HandleFunc("POST /crisis/plan", s.signedIn(s.addPlanItem))
	mux.HandleFunc("DELETE /crisis/plan/{id}", s.signedIn(s.removePlanItem))

	// Meditation and chat
	mux.HandleFunc("GET /meditation/sessions", s.listSessions)
	mux.HandleFunc("POST /chat", s.signedIn(s.chat))

	// Session
	mux.HandleFunc("GET /session", s.getSession)
	mux.HandleFunc("POST /session/login", s.login)
	mux.HandleFunc("POST /session/logout", s.logout)

	// Health check and metrics
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return withMetrics(withCORS(mux))
}

// Run starts the HTTP server and shuts it down when ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// signedIn rejects requests with 401 while nobody is signed in
func (s *Server) signedIn(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, err := session.Load(r.Context(), s.store)
		if err != nil {
			writeFailure(w, err)
			return
		}
		if err := sc.Require(); err != nil {
			writeError(w, http.StatusUnauthorized, "please sign in first")
			return
		}
		h(w, r)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := s.svc.Moods(r.Context())
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	writeWithNotice(w, http.StatusOK, map[string]any{"moods": moods}, err)
}

func (s *Server) addMood(w http.ResponseWriter, r *http.Request) {
	var req wellness.MoodInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Intensity == 0 {
		req.Intensity = wellness.DefaultIntensity
	}

	entry, err := s.svc.LogMood(r.Context(), req)
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	recordsTotal.WithLabelValues("mood").Inc()
	writeWithNotice(w, http.StatusCreated, map[string]any{"entry": entry}, err)
}

func (s *Server) clearMoods(w http.ResponseWriter, r *http.Request) {
	err := s.svc.ClearMoods(r.Context())
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	writeWithNotice(w, http.StatusOK, map[string]any{"cleared": true}, err)
}

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Journal(r.Context())
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	writeWithNotice(w, http.StatusOK, map[string]any{"entries": entries}, err)
}

func (s *Server) addJournal(w http.ResponseWriter, r *http.Request) {
	var req wellness.JournalDraft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, unlocked, err := s.svc.SaveJournal(r.Context(), req)
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	recordsTotal.WithLabelValues("journal").Inc()
	trackUnlocked(unlocked)
	writeWithNotice(w, http.StatusCreated, map[string]any{"entry": entry, "unlocked": unlocked}, err)
}

func (s *Server) toggleGoal(w http.ResponseWriter, r *http.Request) {
	entry, unlocked, err := s.svc.ToggleGoal(r.Context(), r.PathValue("id"), r.PathValue("goalID"))
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	recordsTotal.WithLabelValues("goal").Inc()
	trackUnlocked(unlocked)
	writeWithNotice(w, http.StatusOK, map[string]any{"entry": entry, "unlocked": unlocked}, err)
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Progress(r.Context())
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	trackUnlocked(p.Unlocked)
	writeWithNotice(w, http.StatusOK, map[string]any{"progress": p}, err)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	window, err := metrics.ParseWindow(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.svc.Analytics(r.Context(), window)
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	writeWithNotice(w, http.StatusOK, map[string]any{"report": report}, err)
}

func (s *Server) getCrisis(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.crisis.Contacts(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	plan, err := s.crisis.Plan(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contacts": contacts, "plan": plan})
}

func (s *Server) addContact(w http.ResponseWriter, r *http.Request) {
	var req crisis.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := s.crisis.AddContact(r.Context(), req)
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	recordsTotal.WithLabelValues("contact").Inc()
	writeWithNotice(w, http.StatusCreated, map[string]any{"contact": contact}, err)
}

func (s *Server) removeContact(w http.ResponseWriter, r *http.Request) {
	err := s.crisis.RemoveContact(r.Context(), r.PathValue("id"))
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	writeWithNotice(w, http.StatusOK, map[string]any{"removed": true}, err)
}

func (s *Server) addPlanItem(w http.ResponseWriter, r *http.Request) {
	var req crisis.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := s.crisis.AddPlanItem(r.Context(), req)
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	recordsTotal.WithLabelValues("plan").Inc()
	writeWithNotice(w, http.StatusCreated, map[string]any{"item": item}, err)
}

func (s *Server) removePlanItem(w http.ResponseWriter, r *http.Request) {
	err := s.crisis.RemovePlanItem(r.Context(), r.PathValue("id"))
	if err != nil && !wellness.IsNotice(err) {
		writeFailure(w, err)
		return
	}
	writeWithNotice(w, http.StatusOK, map[string]any{"removed": true}, err)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": meditation.Sessions})
}

// ChatRequest is the request body for a chat turn
type ChatRequest struct {
	History []companion.Message `json:"history"`
	Message string              `json:"message"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sc, err := session.Load(r.Context(), s.store)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if s.chatSetup != nil {
		sc = s.chatSetup(sc)
	}

	client := companion.New(sc, s.chatOpts...)
	reply, err := client.Send(r.Context(), req.History, req.Message)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, companion.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, companion.ErrRateLimited), errors.Is(err, companion.ErrQuotaExceeded):
			status = http.StatusTooManyRequests
		}
		log.Printf("chat: %v", err)
		writeError(w, status, companion.FriendlyMessage(err, client.Provider()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sc, err := session.Load(r.Context(), s.store)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sc, "hasApiKey": sc.HasAPIKey()})
}

// LoginRequest is the request body for signing in
type LoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sc, err := session.Login(r.Context(), s.store, req.Email, req.Name)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sc})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(r.Context(), s.store); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

func trackUnlocked(unlocked []domain.Achievement) {
	for _, a := range unlocked {
		achievementsUnlocked.WithLabelValues(a.ID).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeWithNotice writes body, adding a "notice" field when err is a
// storage notice
func writeWithNotice(w http.ResponseWriter, status int, body map[string]any, err error) {
	if err != nil {
		storageNotices.Inc()
		body["notice"] = "Your data is kept for this session but could not be saved to disk."
	}
	writeJSON(w, status, body)
}

func writeFailure(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, wellness.ErrNotFound), errors.Is(err, crisis.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, crisis.ErrBuiltIn):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("api: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
