package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/repobundle/repotree"
)

func newTestServer(t *testing.T, tree treeResponse) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/git/trees/main", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") != "1" {
			http.Error(w, "expected recursive listing", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(tree)
	})
	mux.HandleFunc("/blobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.github.raw+json" {
			http.Error(w, "expected raw accept header", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("blob content"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("test-token", nil)
	client.BaseURL = server.URL
	return server, client
}

func TestListEntries(t *testing.T) {
	require := require.New(t)

	server, client := newTestServer(t, treeResponse{
		SHA: "root-sha",
		Tree: []treeEntry{
			{Path: "src", Type: "tree", SHA: "s1"},
			{Path: "src/main.go", Type: "blob", SHA: "s2", URL: "/blobs/s2"},
			{Path: "README.md", Type: "blob", SHA: "s3", URL: "/blobs/s3"},
		},
	})
	_ = server

	entries, err := client.ListEntries(context.Background(), "owner", "repo", "main", "")
	require.NoError(err)
	require.Len(entries, 3)

	assert.Equal(t, repotree.KindTree, entries[0].Kind)
	assert.Equal(t, "src/main.go", entries[1].Path)
	assert.Equal(t, repotree.KindBlob, entries[1].Kind)
	assert.Equal(t, "s2", entries[1].Ref.SHA)
}

func TestListEntriesSubpath(t *testing.T) {
	require := require.New(t)

	_, client := newTestServer(t, treeResponse{
		Tree: []treeEntry{
			{Path: "src", Type: "tree", SHA: "s1"},
			{Path: "src/main.go", Type: "blob", SHA: "s2"},
			{Path: "docs/guide.md", Type: "blob", SHA: "s3"},
		},
	})

	entries, err := client.ListEntries(context.Background(), "owner", "repo", "main", "src/")
	require.NoError(err)
	require.Len(entries, 1)
	assert.Equal(t, "main.go", entries[0].Path)
}

func TestListEntriesEmpty(t *testing.T) {
	_, client := newTestServer(t, treeResponse{})

	_, err := client.ListEntries(context.Background(), "owner", "repo", "main", "")
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestListEntriesTruncated(t *testing.T) {
	_, client := newTestServer(t, treeResponse{
		Truncated: true,
		Tree:      []treeEntry{{Path: "a.txt", Type: "blob", SHA: "s1"}},
	})

	_, err := client.ListEntries(context.Background(), "owner", "repo", "main", "")
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestListEntriesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient("", nil)
	client.BaseURL = server.URL

	_, err := client.ListEntries(context.Background(), "owner", "repo", "main", "")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestFetchContent(t *testing.T) {
	require := require.New(t)

	server, client := newTestServer(t, treeResponse{})

	body, contentType, err := client.FetchContent(context.Background(), repotree.ContentRef{
		SHA: "s2",
		URL: server.URL + "/blobs/s2",
	})
	require.NoError(err)
	assert.Equal(t, "blob content", string(body))
	assert.Equal(t, "text/plain", contentType)
}

func TestFetchContentEmptyURL(t *testing.T) {
	client := NewClient("", nil)
	_, _, err := client.FetchContent(context.Background(), repotree.ContentRef{SHA: "s"})
	assert.Error(t, err)
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(treeResponse{
			Tree: []treeEntry{{Path: "a.txt", Type: "blob", SHA: "s1"}},
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient("secret", nil)
	client.BaseURL = server.URL

	_, err := client.ListEntries(context.Background(), "owner", "repo", "main", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}
