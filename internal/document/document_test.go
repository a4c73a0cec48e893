package document

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/resume-scorer/internal/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	src := BufferSource("cv.txt", []byte("\xef\xbb\xbfJane\n\n  Go   developer \n12\n"))

	text, err := Extract(context.Background(), src)

	require.NoError(t, err)
	assert.Equal(t, "Jane\nGo developer", text)
}

func TestExtractHTML(t *testing.T) {
	page := `<html><head><style>.x{}</style><script>var a=1</script></head><body>` +
		`<h1>Data Engineer</h1><p>Required: Python, SQL.</p><ul><li>AWS</li><li>Docker</li></ul></body></html>`

	text, err := Extract(context.Background(), BufferSource("job.html", []byte(page)))

	require.NoError(t, err)
	assert.Equal(t, "Data Engineer\nRequired: Python, SQL.\nAWS\nDocker", text)
}

func TestExtractDocx(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Skills</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc>
        <w:tc><w:p></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Senior</w:t></w:r><w:r><w:tab/><w:t>Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := Extract(context.Background(), BufferSource("cv.docx", docx(t, body)))

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer\nSkills | Go", text)
}

func TestExtractDocxWithoutBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract(context.Background(), BufferSource("cv.docx", buf.Bytes()))

	assert.ErrorIs(t, err, fault.ErrInputUnavailable)
	assert.ErrorContains(t, err, "no word/document.xml")
}

func TestExtractFailuresAreInputErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   Source
		cause error
	}{
		{name: "unsupported", src: BufferSource("cv.rtf", []byte("{\\rtf1}")), cause: ErrUnsupported},
		{name: "missing file", src: FileSource(filepath.Join(t.TempDir(), "missing.txt")), cause: fs.ErrNotExist},
		{name: "broken pdf", src: BufferSource("cv.pdf", []byte("not a pdf"))},
		{name: "broken docx", src: BufferSource("cv.docx", []byte("not a zip"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(context.Background(), tt.src)

			require.Error(t, err)
			assert.ErrorIs(t, err, fault.ErrInputUnavailable)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestURLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/42" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("<html><body><p>Go developer</p><p>Kubernetes</p></body></html>"))
		_ = gz.Close()
	}))
	t.Cleanup(srv.Close)

	src := URLSource(srv.URL+"/jobs/42", nil)
	assert.Empty(t, src.Extension())

	text, err := Extract(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "Go developer\nKubernetes", text)
	assert.Equal(t, ".html", src.Extension())
	assert.Equal(t, srv.URL+"/jobs/42", DisplayName(src))

	_, err = Extract(context.Background(), URLSource(srv.URL+"/missing", nil))
	assert.ErrorIs(t, err, fault.ErrInputUnavailable)
	assert.ErrorContains(t, err, "bad status: 404")
}

func TestInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Resume.MD")
	require.NoError(t, os.WriteFile(path, []byte("# Jane"), 0o600))

	info, err := Info(FileSource(path))
	require.NoError(t, err)
	assert.Equal(t, FileInfo{Name: "Resume.MD", Size: 6, Extension: ".md"}, info)

	info, err = Info(BufferSource("upload.pdf", []byte("abc")))
	require.NoError(t, err)
	assert.Equal(t, FileInfo{Name: "upload.pdf", Size: 3, Extension: ".pdf"}, info)

	_, err = Info(FileSource(filepath.Join(t.TempDir(), "nope.txt")))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSaveText(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "extracted")

	path, err := SaveText(dir, "/uploads/jane.doe.pdf", "Jane\nGo")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jane.doe.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane\nGo", string(data))
}

func docx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
