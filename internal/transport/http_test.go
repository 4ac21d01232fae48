package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-tutoring/helpqueue/internal/domain/identity"
	"github.com/campus-tutoring/helpqueue/internal/domain/ticket"
)

type stubTickets struct {
	claimErr   error
	lastClaim  string
	lastTutor  string
	listResult []ticket.Ticket
}

func (s *stubTickets) Create(_ context.Context, req ticket.CreateRequest) (*ticket.Ticket, error) {
	if err := ticket.ValidateCreateInput(req); err != nil {
		return nil, err
	}
	return &ticket.Ticket{ID: "t1", Status: ticket.StatusNew}, nil
}

func (s *stubTickets) Claim(_ context.Context, id string, ident identity.Identity) (*ticket.Ticket, error) {
	if s.claimErr != nil {
		return nil, s.claimErr
	}
	s.lastClaim = id
	s.lastTutor = ident.DisplayName
	return &ticket.Ticket{ID: id, Status: ticket.StatusInProgress}, nil
}

func (s *stubTickets) Complete(_ context.Context, id string) (*ticket.Ticket, error) {
	return &ticket.Ticket{ID: id, Status: ticket.StatusComplete}, nil
}

func (s *stubTickets) CloseOut(_ context.Context, id string) (*ticket.Ticket, error) {
	return &ticket.Ticket{ID: id, Status: ticket.StatusClosed}, nil
}

func (s *stubTickets) UpdateNotes(_ context.Context, id, notes string) (*ticket.Ticket, error) {
	return &ticket.Ticket{ID: id, Notes: &notes}, nil
}

func (s *stubTickets) List(_ context.Context) ([]ticket.Ticket, error) {
	return s.listResult, nil
}

type stubLogins struct{}

func (s *stubLogins) Login(_ context.Context, username, password string) (string, error) {
	if username == "josh" && password == "hunter2" {
		return "signed-token", nil
	}
	return "", identity.ErrInvalidCredentials
}

func newTestRouter(tickets *stubTickets) http.Handler {
	verifier := &staticVerifier{ident: identity.Identity{UserID: "u1", DisplayName: "Josh", Role: identity.RoleTutor}}
	return NewServer(tickets, &stubLogins{}, verifier, nil)
}

func postJSON(t *testing.T, handler http.Handler, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHTTPServer_CreateTicket(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	rec := postJSON(t, handler, "/api/tickets", "", map[string]string{
		"studentName": "Ann",
		"className":   "CS 141",
		"problem":     "segfault",
		"stepsTaken":  "checked pointers",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "t1", resp["ticketId"])
}

func TestHTTPServer_CreateTicket_MissingField(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	rec := postJSON(t, handler, "/api/tickets", "", map[string]string{
		"studentName": "Ann",
		"className":   "CS 141",
		"problem":     "segfault",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "stepsTaken")
}

func TestHTTPServer_ListTickets(t *testing.T) {
	handler := newTestRouter(&stubTickets{listResult: []ticket.Ticket{{ID: "t2"}, {ID: "t1"}}})

	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var tickets []ticket.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tickets))
	require.Len(t, tickets, 2)
}

func TestHTTPServer_ListTickets_Empty(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Empty list serializes as [], not null
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestHTTPServer_Login(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	rec := postJSON(t, handler, "/api/login", "", map[string]string{
		"username": "josh",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "signed-token", resp["token"])
}

func TestHTTPServer_Login_BadCredentials(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	rec := postJSON(t, handler, "/api/login", "", map[string]string{
		"username": "josh",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPServer_Login_MissingFields(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	rec := postJSON(t, handler, "/api/login", "", map[string]string{"username": "josh"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPServer_Claim(t *testing.T) {
	tickets := &stubTickets{}
	handler := newTestRouter(tickets)

	rec := postJSON(t, handler, "/api/claim", "good-token", map[string]string{"ticketId": "t1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "t1", tickets.lastClaim)
	require.Equal(t, "Josh", tickets.lastTutor)
}

func TestHTTPServer_Claim_NoToken(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	rec := postJSON(t, handler, "/api/claim", "", map[string]string{"ticketId": "t1"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPServer_Claim_AlreadyClaimed(t *testing.T) {
	handler := newTestRouter(&stubTickets{claimErr: ticket.ErrAlreadyClaimed})

	rec := postJSON(t, handler, "/api/claim", "good-token", map[string]string{"ticketId": "t1"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Ticket not found or already claimed", resp["error"])
}

func TestHTTPServer_Claim_NotFound(t *testing.T) {
	handler := newTestRouter(&stubTickets{claimErr: ticket.ErrTicketNotFound})

	rec := postJSON(t, handler, "/api/claim", "good-token", map[string]string{"ticketId": "nope"})

	// Same status and body as already-claimed
	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Ticket not found or already claimed", resp["error"])
}

func TestHTTPServer_Health(t *testing.T) {
	handler := newTestRouter(&stubTickets{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
