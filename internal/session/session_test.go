package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnknownOlympus/hera/internal/client"
	"github.com/UnknownOlympus/hera/internal/models"
	"github.com/UnknownOlympus/hera/internal/session"
)

// mockRoundTripper helps to imitate errors on transport level.
type mockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func newTestSession(t *testing.T, authURL string) (*session.Session, string) {
	t.Helper()

	dir := filet.TmpDir(t, "")
	store, err := session.NewFileStore(dir)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.NewSession(logger, &http.Client{Timeout: 5 * time.Second}, store, authURL, nil)

	return sess, dir
}

func TestLogin_AdminShape(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "boss@hr.test", creds["email"])
		assert.Equal(t, "hunter2", creds["password"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"admin": {"id": 1, "Name": "Big", "LastName": "Boss", "Email": "boss@hr.test"}, "token": "tok-123"}`)
	}))
	defer server.Close()

	sess, dir := newTestSession(t, server.URL)

	identity, err := sess.Login(context.Background(), "boss@hr.test", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, identity.Role)
	assert.Equal(t, "Big Boss", identity.Name)
	assert.Equal(t, "1", identity.ID)
	assert.True(t, sess.IsAuthenticated())
	assert.False(t, sess.IsLoading())

	// Both slots must be persisted.
	raw, err := os.ReadFile(filepath.Join(dir, "identity.json"))
	require.NoError(t, err)
	var persisted models.Identity
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, identity, persisted)

	token, err := os.ReadFile(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.Equal(t, "tok-123", string(token))
}

func TestLogin_GenericShapeDefaultsRole(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"id": "u-7", "name": "Plain User", "access_token": "tok-456"}`)
	}))
	defer server.Close()

	sess, _ := newTestSession(t, server.URL)

	identity, err := sess.Login(context.Background(), "plain@hr.test", "pw")
	require.NoError(t, err)

	assert.Equal(t, models.RoleEmployee, identity.Role)
	assert.Equal(t, "plain@hr.test", identity.Email, "generic shape always uses the submitted email")
}

func TestLogin_Rejected(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message": "bad credentials"}`)
	}))
	defer server.Close()

	sess, _ := newTestSession(t, server.URL)

	_, err := sess.Login(context.Background(), "a@hr.test", "wrong")

	var authErr *session.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "bad credentials", authErr.Message)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.IsLoading(), "loading flag must be reset on the rejection path")
}

func TestLogin_RejectedWithoutMessage(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sess, _ := newTestSession(t, server.URL)

	_, err := sess.Login(context.Background(), "a@hr.test", "pw")

	var authErr *session.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "login failed", authErr.Message)
}

func TestLogin_TransportError(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	store, err := session.NewFileStore(dir)
	require.NoError(t, err)

	httpClient := &http.Client{Transport: &mockRoundTripper{
		RoundTripFunc: func(_ *http.Request) (*http.Response, error) {
			return nil, errors.New("simulated network error")
		},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.NewSession(logger, httpClient, store, "http://auth.test", nil)

	_, err = sess.Login(context.Background(), "a@hr.test", "pw")

	var terr *client.TransportError
	require.ErrorAs(t, err, &terr)
	assert.False(t, sess.IsLoading())
}

func TestLogin_UnknownShape(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"token": "only-a-token"}`)
	}))
	defer server.Close()

	sess, _ := newTestSession(t, server.URL)

	_, err := sess.Login(context.Background(), "a@hr.test", "pw")

	require.ErrorIs(t, err, session.ErrUnknownShape)
	assert.False(t, sess.IsAuthenticated())
}

func TestRegister_OmitsEmptyEmail(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(body, &fields))

		assert.Equal(t, "A", fields["Name"])
		assert.Equal(t, "B", fields["LastName"])
		assert.Equal(t, "x", fields["Password"])
		assert.NotContains(t, fields, "Email", "empty Email must be omitted from the request body")

		io.WriteString(w, `{"id": 31}`)
	}))
	defer server.Close()

	sess, _ := newTestSession(t, server.URL)

	identity, err := sess.Register(context.Background(), session.RegisterData{Name: "A", LastName: "B", Password: "x"})
	require.NoError(t, err)

	assert.Equal(t, "31", identity.ID)
	assert.Equal(t, "A B", identity.Name)
	assert.Equal(t, models.RoleEmployee, identity.Role)
	assert.True(t, sess.IsAuthenticated())
}

func TestRegister_Rejected(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"message": "email already in use"}`)
	}))
	defer server.Close()

	sess, _ := newTestSession(t, server.URL)

	_, err := sess.Register(context.Background(), session.RegisterData{
		Name: "A", LastName: "B", Password: "x", Email: "dup@hr.test",
	})

	var regErr *session.RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "email already in use", regErr.Message)
	assert.False(t, sess.IsLoading())
}

func TestRestore_PersistedIdentity(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	store, err := session.NewFileStore(dir)
	require.NoError(t, err)

	saved := models.Identity{ID: "5", Name: "Saved User", Email: "saved@hr.test", Role: models.RoleManager}
	require.NoError(t, store.SaveIdentity(saved))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.NewSession(logger, http.DefaultClient, store, "http://auth.test", nil)

	assert.True(t, sess.IsLoading(), "session starts in the loading state")

	sess.Restore()

	current, ok := sess.Current()
	require.True(t, ok)
	assert.Equal(t, saved, current)
	assert.False(t, sess.IsLoading())
}

func TestRestore_CorruptIdentity(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	store, err := session.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "identity.json"), []byte("{broken"), 0o600))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sess := session.NewSession(logger, http.DefaultClient, store, "http://auth.test", nil)

	sess.Restore()

	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.IsLoading())

	_, err = os.Stat(filepath.Join(dir, "identity.json"))
	assert.True(t, os.IsNotExist(err), "corrupt record must be removed from storage")
}

func TestLogout_ClearsBothSlots(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"admin": {"id": 1, "Name": "Big", "LastName": "Boss"}, "token": "tok"}`)
	}))
	defer server.Close()

	sess, dir := newTestSession(t, server.URL)

	_, err := sess.Login(context.Background(), "boss@hr.test", "pw")
	require.NoError(t, err)

	sess.Logout()

	assert.False(t, sess.IsAuthenticated())

	_, err = os.Stat(filepath.Join(dir, "identity.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "token"))
	assert.True(t, os.IsNotExist(err))

	// Logging out twice, or without a stored token, must still succeed.
	sess.Logout()
}
