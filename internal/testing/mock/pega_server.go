package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/amribhatt/pega/internal/api"
)

const (
	// TokenPath is the client-credentials token endpoint served by PegaServer.
	TokenPath = "/prweb/PRRestService/oauth2/v1/token"

	// DefaultAppAlias is the application alias used when none is configured.
	DefaultAppAlias = "TestApp"
)

// PegaServerConfig configures the fake platform.
type PegaServerConfig struct {
	// ClientID and ClientSecret are the accepted credentials.
	// Defaults: "test-client" / "test-secret".
	ClientID     string
	ClientSecret string

	// AppAlias is substituted into the application API path.
	AppAlias string

	// ExpiresIn is returned as expires_in on successful token requests.
	// Zero omits the field so clients fall back to their default.
	ExpiresIn int

	// CaseTypes is returned as the caseTypes array of GET /casetypes.
	CaseTypes []map[string]any

	// CreatedCaseID is returned as ID on POST /cases. Default "C-1".
	CreatedCaseID string
}

// cannedResponse overrides an endpoint's normal behaviour.
type cannedResponse struct {
	status int
	body   string
}

// PegaServer is a fake case-management platform backed by httptest.
//
// It issues opaque bearer tokens for the client-credentials grant, rejects
// API calls without a token it issued, and records how often each endpoint
// was hit so tests can assert on caching.
type PegaServer struct {
	config PegaServerConfig
	server *httptest.Server

	mu            sync.Mutex
	issued        map[string]bool
	tokenSeq      int
	tokenCalls    int
	caseTypeCalls int
	createCalls   int
	lastCaseType  string
	lastRequestID string
	lastForm      map[string]string
	delay         time.Duration
	overrides     map[string]*cannedResponse
}

// NewPegaServer starts a fake platform. Call Close when done.
func NewPegaServer(config PegaServerConfig) *PegaServer {
	if config.ClientID == "" {
		config.ClientID = "test-client"
	}
	if config.ClientSecret == "" {
		config.ClientSecret = "test-secret"
	}
	if config.AppAlias == "" {
		config.AppAlias = DefaultAppAlias
	}
	if config.CreatedCaseID == "" {
		config.CreatedCaseID = "C-1"
	}

	s := &PegaServer{
		config:    config,
		issued:    make(map[string]bool),
		overrides: make(map[string]*cannedResponse),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(TokenPath, s.handleToken)
	mux.HandleFunc(s.APIPath()+"/casetypes", s.handleCaseTypes)
	mux.HandleFunc(s.APIPath()+"/cases", s.handleCreateCase)

	s.server = httptest.NewServer(mux)
	return s
}

// URL returns the base URL of the fake platform.
func (s *PegaServer) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *PegaServer) Close() {
	s.server.Close()
}

// ClientID returns the accepted client ID.
func (s *PegaServer) ClientID() string {
	return s.config.ClientID
}

// ClientSecret returns the accepted client secret.
func (s *PegaServer) ClientSecret() string {
	return s.config.ClientSecret
}

// AppAlias returns the application alias in the API path.
func (s *PegaServer) AppAlias() string {
	return s.config.AppAlias
}

// APIPath returns the application API path, without host.
func (s *PegaServer) APIPath() string {
	return fmt.Sprintf("/prweb/app/%s/api/application/v2", s.config.AppAlias)
}

// SetTokenResponse makes the token endpoint answer with status and body.
func (s *PegaServer) SetTokenResponse(status int, body string) {
	s.setOverride("token", status, body)
}

// SetCaseTypesResponse makes GET /casetypes answer with status and body.
func (s *PegaServer) SetCaseTypesResponse(status int, body string) {
	s.setOverride("casetypes", status, body)
}

// SetCreateCaseResponse makes POST /cases answer with status and body.
func (s *PegaServer) SetCreateCaseResponse(status int, body string) {
	s.setOverride("cases", status, body)
}

// SetCaseTypes replaces the case types served on success.
func (s *PegaServer) SetCaseTypes(caseTypes []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.CaseTypes = caseTypes
}

// SetDelay delays every response by d, or until the client gives up.
func (s *PegaServer) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// RevokeAll invalidates every issued token.
func (s *PegaServer) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = make(map[string]bool)
}

// TokenRequests returns how many token requests were received.
func (s *PegaServer) TokenRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenCalls
}

// CaseTypesRequests returns how many GET /casetypes requests were received.
func (s *PegaServer) CaseTypesRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caseTypeCalls
}

// CreateCaseRequests returns how many POST /cases requests were received.
func (s *PegaServer) CreateCaseRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls
}

// LastCaseTypeID returns the caseTypeID of the most recent POST /cases.
func (s *PegaServer) LastCaseTypeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCaseType
}

// LastRequestID returns the X-Request-ID of the most recent API call.
func (s *PegaServer) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequestID
}

// LastTokenForm returns the form fields of the most recent token request.
func (s *PegaServer) LastTokenForm() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	form := make(map[string]string, len(s.lastForm))
	for k, v := range s.lastForm {
		form[k] = v
	}
	return form
}

func (s *PegaServer) setOverride(endpoint string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.overrides, endpoint)
		return
	}
	s.overrides[endpoint] = &cannedResponse{status: status, body: body}
}

// wait applies the configured delay. It returns false if the client went away.
func (s *PegaServer) wait(r *http.Request) bool {
	s.mu.Lock()
	d := s.delay
	s.mu.Unlock()

	if d <= 0 {
		return true
	}
	select {
	case <-time.After(d):
		return true
	case <-r.Context().Done():
		return false
	}
}

func (s *PegaServer) override(endpoint string) *cannedResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overrides[endpoint]
}

func writeCanned(w http.ResponseWriter, c *cannedResponse) {
	if strings.HasPrefix(strings.TrimSpace(c.body), "{") {
		w.Header().Set("Content-Type", api.MediaTypeJSON)
	} else {
		w.Header().Set("Content-Type", "text/plain")
	}
	w.WriteHeader(c.status)
	_, _ = io.WriteString(w, c.body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", api.MediaTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *PegaServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.tokenCalls++
	s.lastForm = map[string]string{
		"grant_type":    r.PostForm.Get("grant_type"),
		"client_id":     r.PostForm.Get("client_id"),
		"client_secret": r.PostForm.Get("client_secret"),
	}
	s.mu.Unlock()

	if !s.wait(r) {
		return
	}
	if c := s.override("token"); c != nil {
		writeCanned(w, c)
		return
	}

	if r.PostForm.Get("grant_type") != "client_credentials" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "unsupported_grant_type",
			"error_description": "only client_credentials is supported",
		})
		return
	}
	if r.PostForm.Get("client_id") != s.config.ClientID || r.PostForm.Get("client_secret") != s.config.ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":             "invalid_client",
			"error_description": "Client authentication failed",
		})
		return
	}

	s.mu.Lock()
	s.tokenSeq++
	token := fmt.Sprintf("token-%d", s.tokenSeq)
	s.issued[token] = true
	expiresIn := s.config.ExpiresIn
	s.mu.Unlock()

	resp := map[string]any{
		"access_token": token,
		"token_type":   "bearer",
	}
	if expiresIn != 0 {
		resp["expires_in"] = expiresIn
	}
	writeJSON(w, http.StatusOK, resp)
}

// authorized checks the bearer token and records the request ID.
func (s *PegaServer) authorized(r *http.Request) bool {
	token := ExtractBearerToken(r.Header.Get("Authorization"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRequestID = r.Header.Get(api.RequestIDHeader)
	return token != "" && s.issued[token]
}

func (s *PegaServer) handleCaseTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	s.caseTypeCalls++
	s.mu.Unlock()

	if !s.wait(r) {
		return
	}
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"errorDetails": "invalid token"})
		return
	}
	if c := s.override("casetypes"); c != nil {
		writeCanned(w, c)
		return
	}

	s.mu.Lock()
	caseTypes := s.config.CaseTypes
	s.mu.Unlock()
	if caseTypes == nil {
		caseTypes = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"caseTypes": caseTypes})
}

func (s *PegaServer) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		CaseTypeID string `json:"caseTypeID"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	s.createCalls++
	s.lastCaseType = body.CaseTypeID
	s.mu.Unlock()

	if !s.wait(r) {
		return
	}
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"errorDetails": "invalid token"})
		return
	}
	if c := s.override("cases"); c != nil {
		writeCanned(w, c)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"ID": s.config.CreatedCaseID})
}

// ExtractBearerToken returns the token from an "Authorization: Bearer <t>" value.
func ExtractBearerToken(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(prefix):])
}
