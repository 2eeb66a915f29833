package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/orgsync/pkg/api"
)

func TestGetBlob_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, pkgapi.BlobPath, r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		w.Header().Set(pkgapi.HeaderETag, "rev-abc")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"sequence":3}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.GetBlob(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "rev-abc", got.Revision)
	assert.JSONEq(t, `{"sequence":3}`, string(got.Payload))
}

func TestGetBlob_StatusMapping(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		status  int
	}{
		{ErrBlobNotFound, "404 maps to not found", http.StatusNotFound},
		{ErrAuthExpired, "401 maps to auth expired", http.StatusUnauthorized},
		{ErrRateLimited, "403 maps to rate limited", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.GetBlob(context.Background(), "token-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPutBlob_SendsIfMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "rev-old", r.Header.Get(pkgapi.HeaderIfMatch))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(pkgapi.PutBlobResponse{Revision: "rev-new", Sequence: 5})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.PutBlob(context.Background(), "token-1", []byte(`{"sequence":5}`), "rev-old")
	require.NoError(t, err)
	assert.Equal(t, "rev-new", resp.Revision)
	assert.Equal(t, int64(5), resp.Sequence)
}

func TestPutBlob_FirstWriteOmitsIfMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header[pkgapi.HeaderIfMatch]
		assert.False(t, present, "If-Match must be absent on first write")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(pkgapi.PutBlobResponse{Revision: "rev-1", Sequence: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.PutBlob(context.Background(), "token-1", []byte(`{"sequence":1}`), "")
	require.NoError(t, err)
	assert.Equal(t, "rev-1", resp.Revision)
}

func TestPutBlob_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.PutBlob(context.Background(), "token-1", []byte(`{}`), "stale-rev")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req pkgapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "someuser", req.Username)

		_ = json.NewEncoder(w).Encode(pkgapi.TokenResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresIn:    900,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Login(context.Background(), pkgapi.LoginRequest{Username: "someuser", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
}

func TestDoRequest_UnauthorizedMapsToAuthExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Refresh(context.Background(), pkgapi.RefreshRequest{RefreshToken: "stale"})
	assert.ErrorIs(t, err, ErrAuthExpired)
}
