package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/config"
	"github.com/Stella-Kiarie/Cyber-Bullying-Detection/internal/shared/testutil"
)

func fakeYouTube(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("videoId") {
		case "vid1":
			w.Write([]byte(`{"items":[{"snippet":{"topLevelComment":{"snippet":{"textDisplay":"wewe ni mjinga"}}}}]}`))
		case "vid2":
			w.Write([]byte(`{"items":[{"snippet":{"topLevelComment":{"snippet":{"textDisplay":"poa sana, asante"}}}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":404,"message":"video not found"}}`))
		}
	}))
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Telemetry.EnableMetrics = false
	return cfg
}

func TestRun_WritesCommentsCSV(t *testing.T) {
	srv := fakeYouTube(t)
	defer srv.Close()
	base := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)

	var out bytes.Buffer
	err := run(context.Background(), testConfig(), []string{
		"-api-key", "k",
		"-endpoint", srv.URL + "/",
		"-base", base,
		"-video", "vid1,vid2",
		"-out", "data/raw/comments.csv",
	}, &out, logger)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(base, "data", "raw", "comments.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\uFEFF")), "\n")
	assert.Equal(t, []string{"comment_text", "wewe ni mjinga", `"poa sana, asante"`}, lines)

	assert.Contains(t, out.String(), "vid1: 1 comments (1 pages)")
	assert.Contains(t, out.String(), "Saved 2 comments")
}

func TestRun_Append(t *testing.T) {
	srv := fakeYouTube(t)
	defer srv.Close()
	base := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)

	for _, video := range []string{"vid1", "vid2"} {
		err := run(context.Background(), testConfig(), []string{
			"-api-key", "k", "-endpoint", srv.URL + "/", "-base", base,
			"-video", video, "-out", "data/raw/comments.csv", "-append",
		}, &bytes.Buffer{}, logger)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(base, "data", "raw", "comments.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{"comment_text", "wewe ni mjinga", `"poa sana, asante"`}, lines)
}

func TestRun_Errors(t *testing.T) {
	srv := fakeYouTube(t)
	defer srv.Close()
	logger, _ := testutil.NewTestLogger(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no videos", []string{"-api-key", "k"}, "no video ids"},
		{"no key", []string{"-video", "vid1"}, "api key"},
		{"unknown video", []string{"-api-key", "k", "-endpoint", srv.URL + "/", "-base", t.TempDir(), "-video", "nope"}, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), testConfig(), tt.args, &bytes.Buffer{}, logger)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVideoList(t *testing.T) {
	var v videoList
	require.NoError(t, v.Set("a, b"))
	require.NoError(t, v.Set("c"))
	assert.Equal(t, []string{"a", "b", "c"}, []string(v))
	assert.Equal(t, "a,b,c", v.String())
}
