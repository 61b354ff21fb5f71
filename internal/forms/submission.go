package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

// Upload is one file attached to a form.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Submission is a validated form ready to be sent to the backend.
type Submission struct {
	Fields map[string]any
	Files  []Upload
	// Removed maps a removal field (removeUrls, removedMediaIds) to the
	// saved assets the admin cleared without replacing.
	Removed map[string][]string
}

func (s *Submission) HasFile(field string) bool {
	for _, f := range s.Files {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (s *Submission) addRemoved(field string, vals ...string) {
	if s.Removed == nil {
		s.Removed = map[string][]string{}
	}
	for _, v := range vals {
		if v == "" || contains(s.Removed[field], v) {
			continue
		}
		s.Removed[field] = append(s.Removed[field], v)
	}
}

// Encode builds a multipart body when files are attached, JSON otherwise.
func (s *Submission) Encode() (*domain.Body, error) {
	if len(s.Files) == 0 {
		payload := make(map[string]any, len(s.Fields)+len(s.Removed))
		for k, v := range s.Fields {
			payload[k] = v
		}
		for k, v := range s.Removed {
			payload[k] = v
		}
		return domain.JSONBody(payload)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, k := range sortedKeys(s.Fields) {
		val, err := formValue(s.Fields[k])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		if err := mw.WriteField(k, val); err != nil {
			return nil, err
		}
	}
	for _, k := range sortedKeys(s.Removed) {
		for _, v := range s.Removed[k] {
			if err := mw.WriteField(k+"[]", v); err != nil {
				return nil, err
			}
		}
	}
	for _, f := range s.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(f.Filename)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return &domain.Body{ContentType: mw.FormDataContentType(), Data: buf.Bytes()}, nil
}

// formValue flattens one payload value into a multipart text field.
func formValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool, float64, int, int64:
		return fmt.Sprint(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
