package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTransportError_ConnectionRefused(t *testing.T) {
	// Grab a free port and close it so the dial is refused.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = http.Get("http://" + addr)
	require.Error(t, err)

	f := FromTransportError(err, 30*time.Second, "Connection error")
	assert.Equal(t, KindConnectionError, f.Kind)
	assert.Contains(t, f.Detail, "Connection error: cannot connect to Pega")
	assert.NotEmpty(t, f.Advice())
}

func TestFromTransportError_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := client.Get(srv.URL)
	require.Error(t, err)

	f := FromTransportError(err, 50*time.Millisecond, "Error getting case types")
	assert.Equal(t, KindTimeout, f.Kind)
	assert.Contains(t, f.Detail, "timed out after 50ms")
}

func TestFromTransportError_ContextDeadline(t *testing.T) {
	err := fmt.Errorf("request: %w", context.DeadlineExceeded)

	f := FromTransportError(err, 30*time.Second, "Authentication error")
	assert.Equal(t, KindTimeout, f.Kind)
	assert.Contains(t, f.Detail, "30s")
}

func TestFromTransportError_DNS(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "pega.invalid", IsNotFound: true}

	f := FromTransportError(err, time.Second, "Connection error")
	assert.Equal(t, KindConnectionError, f.Kind)
	assert.Contains(t, f.Detail, "pega.invalid")
}

func TestFromTransportError_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := http.Get(srv.URL)
	require.Error(t, err)

	f := FromTransportError(err, time.Second, "Connection error")
	assert.Equal(t, KindConnectionError, f.Kind)
	assert.Contains(t, f.Detail, "TLS verification failed")
}

func TestFromTransportError_Other(t *testing.T) {
	f := FromTransportError(errors.New("unsupported protocol scheme \"ftp\""), time.Second, "Connection error")
	assert.Equal(t, KindUnknownAuthError, f.Kind)
}
