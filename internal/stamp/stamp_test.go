package stamp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_PrependsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements-frozen.txt")
	body := "alpha==1.0.0\nbeta==2.3.1\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	require.NoError(t, File(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Header+body, string(got))
}

func TestFile_PreservesBytesExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements-frozen.txt")
	// CRLF line endings and a stray NUL must survive untouched.
	body := []byte("alpha==1.0.0\r\nbeta==2.3.1\x00\r\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	require.NoError(t, File(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append([]byte(Header), body...), got)
}

func TestFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements-frozen.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	require.NoError(t, File(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Header, string(got))
}

func TestFile_MissingFile(t *testing.T) {
	err := File(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
