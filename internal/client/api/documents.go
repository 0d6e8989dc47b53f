package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/themisai/themis/internal/client/models"
)

// Upload is one file queued for the documents endpoint.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// FileUpload describes a local file. The file is opened only when the upload
// is sent.
func FileUpload(path string) (Upload, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Upload{}, err
	}
	if st.IsDir() {
		return Upload{}, fmt.Errorf("%s is a directory", path)
	}
	return Upload{
		Name: filepath.Base(path),
		Size: st.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// BytesUpload wraps in-memory content.
func BytesUpload(name string, data []byte) Upload {
	return Upload{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// UploadDocuments sends all files in one multipart request under the
// repeated field "files".
func (c *Client) UploadDocuments(ctx context.Context, files []Upload) (models.UploadResult, error) {
	var out models.UploadResult

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		if err := writePart(w, f); err != nil {
			return out, &Error{Kind: KindUnknown, Message: "read " + f.Name, Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return out, &Error{Kind: KindUnknown, Message: "encode upload", Err: err}
	}

	in := &body{r: &buf, contentType: w.FormDataContentType()}
	err := c.do(ctx, http.MethodPost, "/documents/upload", nil, in, &out)
	return out, err
}

func writePart(w *multipart.Writer, f Upload) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	part, err := w.CreateFormFile("files", f.Name)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, rc)
	return err
}
