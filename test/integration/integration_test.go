package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campus-tutoring/helpqueue/internal/domain/ticket"
	"github.com/campus-tutoring/helpqueue/internal/testserver"
)

func postJSON(t *testing.T, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createTicket(t *testing.T, baseURL string) string {
	t.Helper()
	resp, body := postJSON(t, baseURL+"/api/tickets", "", map[string]string{
		"studentName": "Ann",
		"className":   "CS 141",
		"problem":     "segfault",
		"stepsTaken":  "checked pointers",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["ticketId"].(string)
	require.NotEmpty(t, id)
	return id
}

func listTickets(t *testing.T, baseURL string) []ticket.Ticket {
	t.Helper()
	resp, err := http.Get(baseURL + "/api/tickets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tickets []ticket.Ticket
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tickets))
	return tickets
}

func TestTicketLifecycle(t *testing.T) {
	ts := testserver.New(t)
	token := ts.SeedUser(t, "josh", "hunter2", "Josh")

	id := createTicket(t, ts.Server.URL)

	tickets := listTickets(t, ts.Server.URL)
	require.Len(t, tickets, 1)
	require.Equal(t, ticket.StatusNew, tickets[0].Status)
	require.Nil(t, tickets[0].ClaimedBy)

	// Claim as Josh
	resp, _ := postJSON(t, ts.Server.URL+"/api/claim", token, map[string]string{"ticketId": id})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tickets = listTickets(t, ts.Server.URL)
	require.Equal(t, ticket.StatusInProgress, tickets[0].Status)
	require.NotNil(t, tickets[0].ClaimedBy)
	require.Equal(t, "Josh", *tickets[0].ClaimedBy)

	// A second tutor loses the claim and must not overwrite it
	token2 := ts.SeedUser(t, "mia", "s3cret", "Mia")
	resp, body := postJSON(t, ts.Server.URL+"/api/claim", token2, map[string]string{"ticketId": id})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Ticket not found or already claimed", body["error"])

	tickets = listTickets(t, ts.Server.URL)
	require.Equal(t, "Josh", *tickets[0].ClaimedBy)

	// Notes, then complete
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/tickets/%s/notes", ts.Server.URL, id),
		bytes.NewReader([]byte(`{"notes":"walked through gdb"}`)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	notesResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	notesResp.Body.Close()
	require.Equal(t, http.StatusOK, notesResp.StatusCode)

	resp, _ = postJSON(t, fmt.Sprintf("%s/api/tickets/%s/complete", ts.Server.URL, id), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tickets = listTickets(t, ts.Server.URL)
	require.Equal(t, ticket.StatusComplete, tickets[0].Status)
	require.NotNil(t, tickets[0].Notes)
	require.Equal(t, "walked through gdb", *tickets[0].Notes)
}

func TestTicketValidation(t *testing.T) {
	ts := testserver.New(t)

	resp, body := postJSON(t, ts.Server.URL+"/api/tickets", "", map[string]string{
		"studentName": "Ann",
		"className":   "CS 141",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotEmpty(t, body["error"])

	require.Empty(t, listTickets(t, ts.Server.URL))
}

func TestListOrdering(t *testing.T) {
	ts := testserver.New(t)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, createTicket(t, ts.Server.URL))
		time.Sleep(10 * time.Millisecond)
	}

	tickets := listTickets(t, ts.Server.URL)
	require.Len(t, tickets, 3)

	// Newest first
	require.Equal(t, ids[2], tickets[0].ID)
	require.Equal(t, ids[1], tickets[1].ID)
	require.Equal(t, ids[0], tickets[2].ID)
}

func TestLogin(t *testing.T) {
	ts := testserver.New(t)
	ts.SeedUser(t, "josh", "hunter2", "Josh")

	resp, body := postJSON(t, ts.Server.URL+"/api/login", "", map[string]string{
		"username": "josh",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["token"])

	// Wrong password and unknown user look identical
	resp, wrongPass := postJSON(t, ts.Server.URL+"/api/login", "", map[string]string{
		"username": "josh",
		"password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, unknownUser := postJSON(t, ts.Server.URL+"/api/login", "", map[string]string{
		"username": "ghost",
		"password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, wrongPass["error"], unknownUser["error"])
}

func TestClaimRequiresToken(t *testing.T) {
	ts := testserver.New(t)
	id := createTicket(t, ts.Server.URL)

	resp, _ := postJSON(t, ts.Server.URL+"/api/claim", "", map[string]string{"ticketId": id})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = postJSON(t, ts.Server.URL+"/api/claim", "garbage", map[string]string{"ticketId": id})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestConcurrentClaims races several tutors at the same ticket over HTTP and
// requires exactly one winner end to end.
func TestConcurrentClaims(t *testing.T) {
	ts := testserver.New(t)
	id := createTicket(t, ts.Server.URL)

	const tutors = 6
	tokens := make([]string, tutors)
	for i := range tokens {
		tokens[i] = ts.SeedUser(t,
			fmt.Sprintf("tutor%d", i), "pass", fmt.Sprintf("Tutor %d", i))
	}

	statuses := make([]int, tutors)
	var wg sync.WaitGroup
	for i := 0; i < tutors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			data, _ := json.Marshal(map[string]string{"ticketId": id})
			req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/api/claim", bytes.NewReader(data))
			if err != nil {
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+tokens[i])

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, code := range statuses {
		switch code {
		case http.StatusOK:
			winners++
		case http.StatusNotFound:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	require.Equal(t, 1, winners, "exactly one concurrent claim must succeed")

	tickets := listTickets(t, ts.Server.URL)
	require.Equal(t, ticket.StatusInProgress, tickets[0].Status)
	require.NotNil(t, tickets[0].ClaimedBy)
}
