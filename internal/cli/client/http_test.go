package client

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_SendsBearerUserID(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"data":{"ok":true}}`))
	}))
	defer srv.Close()

	c, err := NewAPIClientWithConfig("alice", srv.URL)
	require.NoError(t, err)

	resp, err := c.Get("/documents")
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, "Bearer alice", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"only the owner can delete a document"}`))
	}))
	defer srv.Close()

	c, err := NewAPIClientWithConfig("bob", srv.URL)
	require.NoError(t, err)

	_, err = c.Delete("/documents/report.txt")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "only the owner")
}

func TestAPIClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c, err := NewAPIClientWithConfig("alice", srv.URL)
	require.NoError(t, err)

	_, err = c.Get("/search")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "upstream unavailable")
}

func TestNewAPIClientWithCmd_EnvCascade(t *testing.T) {
	t.Setenv(envUserID, "env-user")
	t.Setenv(envAPIURL, "http://env:8080")

	c, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "env-user", c.userID)
	assert.Equal(t, "http://env:8080", c.baseURL)
}

func TestNewAPIClientWithCmd_GlobalConfigFallback(t *testing.T) {
	t.Setenv(envUserID, "")
	t.Setenv(envAPIURL, "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	oldGetConfigDir := getConfigDirFunc
	oldGetConfigPath := getConfigPathFunc
	getConfigDirFunc = func() (string, error) {
		return tmpDir, nil
	}
	getConfigPathFunc = func() (string, error) {
		return configPath, nil
	}
	defer func() {
		getConfigDirFunc = oldGetConfigDir
		getConfigPathFunc = oldGetConfigPath
	}()

	require.NoError(t, SaveGlobalConfig(&GlobalConfig{UserID: "config-user", APIURL: "http://cfg:8080"}))

	c, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, "config-user", c.userID)
	assert.Equal(t, "http://cfg:8080", c.baseURL)
}

func TestNewAPIClientWithCmd_MissingUserID(t *testing.T) {
	t.Setenv(envUserID, "")
	t.Setenv(envAPIURL, "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	oldGetConfigPath := getConfigPathFunc
	getConfigPathFunc = func() (string, error) {
		return configPath, nil
	}
	defer func() { getConfigPathFunc = oldGetConfigPath }()

	_, err := NewAPIClientWithCmd(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docvault init")
}

func TestNewAPIClientWithCmd_DefaultURL(t *testing.T) {
	t.Setenv(envUserID, "alice")
	t.Setenv(envAPIURL, "")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	oldGetConfigPath := getConfigPathFunc
	getConfigPathFunc = func() (string, error) {
		return configPath, nil
	}
	defer func() { getConfigPathFunc = oldGetConfigPath }()

	c, err := NewAPIClientWithCmd(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, c.baseURL)
}
