package analyticsapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/patrickwarner/campaigninsight/internal/models"
)

// multipartForm accumulates fields and files, remembering the first write
// error so callers can build the form without checking every step.
type multipartForm struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newMultipartForm() *multipartForm {
	f := &multipartForm{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *multipartForm) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *multipartForm) optionalFloat(name string, v *float64) {
	if v != nil {
		f.field(name, formatFloat(*v))
	}
}

func (f *multipartForm) optionalInt(name string, v *int) {
	if v != nil {
		f.field(name, strconv.Itoa(*v))
	}
}

func (f *multipartForm) file(name string, u models.Upload) {
	if f.err != nil {
		return
	}
	filename := u.Filename
	if filename == "" {
		filename = "upload"
	}
	part, err := f.w.CreateFormFile(name, filename)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(u.Data)
}

func (f *multipartForm) close() error {
	if f.err != nil {
		return f.err
	}
	return f.w.Close()
}

func (c *Client) postMultipart(ctx context.Context, op operation, path string, form *multipartForm, out any) error {
	if err := form.close(); err != nil {
		return wrapError(op.Verb, fmt.Errorf("build form: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &form.buf)
	if err != nil {
		return wrapError(op.Verb, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", form.w.FormDataContentType())
	return c.do(op, req, out)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
