package mockbackend

import (
	"context"
	"net/http/httptest"
)

// TestServer is a running demo backend on a loopback port.
type TestServer struct {
	*httptest.Server
	Handler *Handler
	repo    *Repository
}

// StartTestServer seeds a private database and serves it with httptest.
func StartTestServer(ctx context.Context) (*TestServer, error) {
	repo, err := OpenRepository(ctx)
	if err != nil {
		return nil, err
	}
	h := NewHandler(repo)
	return &TestServer{Server: httptest.NewServer(NewRouter(h)), Handler: h, repo: repo}, nil
}

// Close stops the server and releases the database.
func (s *TestServer) Close() {
	s.Server.Close()
	_ = s.repo.Close()
}
