package agent

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPyLoadClient_AddPackage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/addPackage", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)

		_, _ = w.Write([]byte(`"42"`))
	}))
	defer server.Close()

	client := NewPyLoadClient(server.URL, "admin", "secret", testLogger())
	id, err := client.AddPackage(context.Background(), "Show Name - S01E02", []string{"http://dl/x.mkv"})
	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestPyLoadClient_AddPackage_NoURLs(t *testing.T) {
	client := NewPyLoadClient("http://localhost:1", "u", "p", testLogger())
	_, err := client.AddPackage(context.Background(), "empty", nil)
	require.Error(t, err)
}

func TestPyLoadClient_AddPackage_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewPyLoadClient(server.URL, "u", "wrong", testLogger())
	_, err := client.AddPackage(context.Background(), "p", []string{"http://dl/x"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPyLoadClient_PackageStatus_Finished(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getPackageData/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"links":[
			{"name":"a.mkv","status":0},
			{"name":"b.mkv","status":0}
		]}`))
	}))
	defer server.Close()

	client := NewPyLoadClient(server.URL, "u", "p", testLogger())
	status, err := client.PackageStatus(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, PackageFinished, status.State)
	require.Len(t, status.Files, 2)
	assert.True(t, status.Files[0].Finished)
}

func TestPyLoadClient_PackageStatus_Downloading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"links":[
			{"name":"a.mkv","status":0},
			{"name":"b.mkv","status":13}
		]}`))
	}))
	defer server.Close()

	client := NewPyLoadClient(server.URL, "u", "p", testLogger())
	status, err := client.PackageStatus(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, PackageDownloading, status.State)
}

func TestPyLoadClient_PackageStatus_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewPyLoadClient(server.URL, "u", "p", testLogger())
	status, err := client.PackageStatus(context.Background(), "42")
	require.NoError(t, err, "unknown package is a state, not an error")
	assert.Equal(t, PackageNotFound, status.State)
}

func TestPyLoadClient_DeletePackage_AlreadyGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewPyLoadClient(server.URL, "u", "p", testLogger())
	err := client.DeletePackage(context.Background(), "42")
	assert.NoError(t, err)
}
