package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
)

// Upload is a spreadsheet to import. TableName is optional; the backend derives
// one from the filename when it is empty.
type Upload struct {
	Filename  string
	Content   io.Reader
	TableName string
}

// UploadSpreadsheet sends the file as multipart field "file", plus "table_name"
// when set.
func (s *Service) UploadSpreadsheet(ctx context.Context, u Upload) (*model.UploadResult, error) {
	name := filepath.Base(strings.TrimSpace(u.Filename))
	if name == "" || name == "." {
		return nil, apperrors.ValidationField("file", "file is required")
	}
	if !model.IsSpreadsheet(name) {
		return nil, apperrors.ValidationField("file", "invalid file format, use .xlsx or .xls")
	}
	if u.Content == nil {
		return nil, apperrors.ValidationField("file", "file content is required")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create form file")
	}
	if _, err := io.Copy(part, u.Content); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "read upload content")
	}
	if u.TableName != "" {
		if err := mw.WriteField("table_name", u.TableName); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "write table_name field")
		}
	}
	if err := mw.Close(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "close multipart body")
	}

	var out model.UploadResult
	req := apiclient.Request{
		Method: http.MethodPost,
		Path:   "/upload/excel",
		Header: http.Header{"Content-Type": []string{mw.FormDataContentType()}},
		Body:   &body,
	}
	if err := s.client.DoJSON(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	return &out, nil
}
