// Package mock provides test doubles for the Pega access layer.
//
// PegaServer is a fake case-management platform served by httptest. It
// implements the client-credentials token endpoint, GET /casetypes and
// POST /cases, validates bearer tokens it issued, and counts requests per
// endpoint so tests can prove a cached token avoided a network call:
//
//	srv := mock.NewPegaServer(mock.PegaServerConfig{
//	    ExpiresIn: 120,
//	    CaseTypes: []map[string]any{{"name": "Home Loan", "ID": "H-1"}},
//	})
//	defer srv.Close()
//
//	srv.SetTokenResponse(http.StatusUnauthorized, `{"error":"invalid_client"}`)
//	srv.SetDelay(2 * time.Second)
//
// MockClock is a manually advanced clock for token-expiry tests.
package mock
