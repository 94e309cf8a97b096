package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/UnknownOlympus/hera/internal/client"
	"github.com/UnknownOlympus/hera/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hera/internal/metrics"
	"github.com/UnknownOlympus/hera/internal/models"
)

// RegisterData is the payload accepted by the registration endpoint.
// Email is optional and omitted from the request body when empty.
type RegisterData struct {
	Name     string `json:"Name"`
	LastName string `json:"LastName"`
	Password string `json:"Password"`
	Email    string `json:"Email,omitempty"`
}

// Session is the single source of truth for "who is logged in". It talks
// to the remote authentication endpoint, persists the resulting identity
// through a Store, and restores it on start. A Session starts in the
// loading state until Restore has run.
type Session struct {
	log     *slog.Logger
	client  *http.Client
	store   Store
	authURL string
	metrics *metrics.Metrics
	now     func() time.Time

	mu      sync.Mutex
	current *models.Identity
	loading bool
}

// NewSession creates a Session against the given authentication root URL.
func NewSession(log *slog.Logger, httpClient *http.Client, store Store, authURL string, mtr *metrics.Metrics) *Session {
	return &Session{
		log:     log,
		client:  httpClient,
		store:   store,
		authURL: authURL,
		metrics: mtr,
		now:     time.Now,
		loading: true,
	}
}

// Restore reads the persisted identity, if any, and installs it as the
// current one. A corrupt record is discarded and removed from storage.
// Restore never surfaces an error; it always leaves the session out of
// the loading state.
func (s *Session) Restore() {
	const opn = "Session.Restore"
	log := s.log.With(slog.String("op", opn))

	defer s.setLoading(false)

	identity, err := s.store.LoadIdentity()
	if err != nil {
		if !errors.Is(err, ErrNoIdentity) {
			log.Warn("Discarding unreadable persisted identity", sl.Err(err))
			if clearErr := s.store.Clear(); clearErr != nil {
				log.Error("Failed to clear corrupt session storage", sl.Err(clearErr))
			}
			s.countOp("restore", "discarded")
		}

		return
	}

	s.setCurrent(identity)
	s.countOp("restore", "success")
	log.Debug("Session restored", "email", identity.Email, "role", string(identity.Role))
}

// Login authenticates against the remote endpoint and installs the
// normalized identity as current. A non-success status fails with
// *AuthenticationError carrying the server message; transport and parse
// failures fail with *client.TransportError.
func (s *Session) Login(ctx context.Context, email, password string) (models.Identity, error) {
	const opn = "Session.Login"
	log := s.log.With(slog.String("op", opn))

	s.setLoading(true)
	defer s.setLoading(false)

	payload := map[string]string{"email": email, "password": password}

	status, body, err := s.postJSON(ctx, s.authURL+"/login", payload)
	if err != nil {
		s.countOp("login", "transport_error")
		return models.Identity{}, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		s.countOp("login", "rejected")
		return models.Identity{}, &AuthenticationError{
			StatusCode: status,
			Message:    envelopeMessage(body, defaultLoginMessage),
		}
	}

	var resp loginResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		s.countOp("login", "transport_error")
		return models.Identity{}, &client.TransportError{URL: s.authURL + "/login", Err: err}
	}

	identity, err := normalizeIdentity(resp, email, s.now)
	if err != nil {
		s.countOp("login", "bad_shape")
		return models.Identity{}, fmt.Errorf("failed to normalize login response: %w", err)
	}

	if err = s.persist(identity, resp.bearerToken()); err != nil {
		s.countOp("login", "store_error")
		return models.Identity{}, err
	}

	s.setCurrent(identity)
	s.countOp("login", "success")
	log.InfoContext(ctx, "Logged in", "email", identity.Email, "role", string(identity.Role))

	return identity, nil
}

// Register creates an account and installs the resulting identity as
// current. The identity is built from the submitted name fields plus any
// server-returned id; the role is fixed to employee.
func (s *Session) Register(ctx context.Context, data RegisterData) (models.Identity, error) {
	const opn = "Session.Register"
	log := s.log.With(slog.String("op", opn))

	s.setLoading(true)
	defer s.setLoading(false)

	status, body, err := s.postJSON(ctx, s.authURL+"/register", data)
	if err != nil {
		s.countOp("register", "transport_error")
		return models.Identity{}, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		s.countOp("register", "rejected")
		return models.Identity{}, &RegistrationError{
			StatusCode: status,
			Message:    envelopeMessage(body, defaultRegisterMessage),
		}
	}

	var resp loginResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		s.countOp("register", "transport_error")
		return models.Identity{}, &client.TransportError{URL: s.authURL + "/register", Err: err}
	}

	identifier := rawIDString(resp.ID, nil)
	if identifier == "" {
		identifier = rawIDString(resp.UserID, s.now)
	}

	identity := models.Identity{
		ID:    identifier,
		Name:  data.Name + " " + data.LastName,
		Email: data.Email,
		Role:  models.RoleEmployee,
	}

	if err = s.persist(identity, resp.bearerToken()); err != nil {
		s.countOp("register", "store_error")
		return models.Identity{}, err
	}

	s.setCurrent(identity)
	s.countOp("register", "success")
	log.InfoContext(ctx, "Registered new user", "name", identity.Name)

	return identity, nil
}

// Logout drops the current identity and clears both persisted slots,
// including the token slot even if no token was ever stored. It cannot fail.
func (s *Session) Logout() {
	const opn = "Session.Logout"
	log := s.log.With(slog.String("op", opn))

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		log.Error("Failed to clear session storage", sl.Err(err))
	}

	s.countOp("logout", "success")
	log.Debug("Logged out")
}

// Current returns the authenticated identity, if any.
func (s *Session) Current() (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.Identity{}, false
	}

	return *s.current, true
}

// IsAuthenticated reports whether an identity is installed.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// IsLoading reports whether a session operation is in flight or the
// initial restore has not completed yet.
func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) setCurrent(identity models.Identity) {
	s.mu.Lock()
	s.current = &identity
	s.mu.Unlock()
}

// persist writes the identity and, when the backend returned one, the
// bearer token to durable storage.
func (s *Session) persist(identity models.Identity, token string) error {
	if err := s.store.SaveIdentity(identity); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}

	if token != "" {
		if err := s.store.SaveToken(token); err != nil {
			return fmt.Errorf("failed to persist token: %w", err)
		}
	}

	return nil
}

func (s *Session) postJSON(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create new request %s: %w", endpoint, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", models.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, &client.TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &client.TransportError{URL: endpoint, Err: err}
	}

	return resp.StatusCode, body, nil
}

func (s *Session) countOp(operation, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SessionOps.WithLabelValues(operation, status).Inc()
}

// envelopeMessage extracts the `message` field from an error body,
// falling back to def when the body carries none.
func envelopeMessage(body []byte, def string) string {
	var envelope struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}

	return def
}
