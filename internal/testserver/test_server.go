package testserver

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-tutoring/helpqueue/internal/domain/identity"
	"github.com/campus-tutoring/helpqueue/internal/domain/ticket"
	"github.com/campus-tutoring/helpqueue/internal/sqlite"
	"github.com/campus-tutoring/helpqueue/internal/transport"
)

// TestServer is an in-process instance of the full service backed by a
// throwaway database.
type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	Tickets    *ticket.Service
	Identities *identity.Service
}

// New starts a test server. The returned server has no accounts; use SeedUser
// to provision one.
func New(t *testing.T) *TestServer {
	t.Helper()

	// A file-backed database so concurrent requests share one database
	// through the connection pool.
	db, err := sqlite.New(filepath.Join(t.TempDir(), "helpqueue.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ticketRepo := sqlite.NewTicketRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	codec := identity.NewTokenCodec([]byte("test-secret"))
	identitySvc := identity.NewService(userRepo, codec, nil)
	ticketSvc := ticket.NewService(ticketRepo, nil)

	server := httptest.NewServer(transport.NewServer(ticketSvc, identitySvc, identitySvc, nil))

	ts := &TestServer{
		Server:     server,
		DB:         db,
		Tickets:    ticketSvc,
		Identities: identitySvc,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// SeedUser creates a tutor account and returns a valid bearer token for it.
func (ts *TestServer) SeedUser(t *testing.T, username, password, displayName string) string {
	t.Helper()

	ctx := context.Background()
	_, err := ts.Identities.Register(ctx, username, password, displayName, identity.RoleTutor)
	require.NoError(t, err)

	token, err := ts.Identities.Login(ctx, username, password)
	require.NoError(t, err)
	return token
}
