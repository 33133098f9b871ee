package serializer

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"manifest.json", FormatJSON},
		{"compose.yaml", FormatYAML},
		{"compose.yml", FormatYAML},
		{"COMPOSE.YML", FormatYAML},
		{"noext", FormatYAML},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatFromPath(tc.path), "path %s", tc.path)
	}
}

func TestReaderDeserializeJSON(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader(`{"name":"gateway","count":3}`))
	require.NoError(t, err)

	var got sample
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "gateway", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestReaderDeserializeYAML(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("name: gateway\ntags: [edge, proxy]\n"))
	require.NoError(t, err)

	var got sample
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "gateway", got.Name)
	assert.Equal(t, []string{"edge", "proxy"}, got.Tags)
}

func TestReaderRejectsTableFormat(t *testing.T) {
	_, err := NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)
}

func TestNewFileReaderMissingFile(t *testing.T) {
	_, err := NewFileReader(FormatYAML, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: frontend\ncount: 1\n"), 0o600))

	got, err := FromFile[sample](path)
	require.NoError(t, err)
	assert.Equal(t, "frontend", got.Name)
	assert.Equal(t, 1, got.Count)
}

func TestFromFileRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"name":"remote"}`))
	}))
	defer srv.Close()

	r, err := NewFileReader(FormatJSON, srv.URL)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	var got sample
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "remote", got.Name)
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusTeapot, map[string]string{"status": "steeping"})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "steeping")
}
