package weconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/pkg/errors"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody assembles a form of an optional JSON part and an optional file part
type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody() *multipartBody {
	m := &multipartBody{}
	m.writer = multipart.NewWriter(&m.buf)
	return m
}

func (m *multipartBody) addJSON(field string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, quoteEscaper.Replace(field)))
	h.Set("Content-Type", "application/json")
	part, err := m.writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func (m *multipartBody) addFile(field string, photo *entities.Photo) error {
	if photo == nil {
		return nil
	}
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(photo.Filename)))
	h.Set("Content-Type", contentType)
	part, err := m.writer.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(photo.Data)
	return err
}

func (c *HTTPClient) sendMultipart(ctx context.Context, method, path string, form *multipartBody, out interface{}, fallback string) error {
	if err := form.writer.Close(); err != nil {
		return errors.NewInternalError("encode multipart body", err)
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        form.buf.Bytes(),
		contentType: form.writer.FormDataContentType(),
		fallback:    fallback,
	}, out)
}
