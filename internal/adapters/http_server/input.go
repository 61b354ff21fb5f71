package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/forms"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/media"
)

const (
	maxJSONBody   = 1 << 20
	maxFormMemory = 32 << 20
)

// readInput accepts a JSON body, or a multipart body with a "data" part
// holding the JSON fields, file parts named after the asset field, and
// "remove" values naming assets the admin cleared.
func readInput(r *http.Request) (forms.Input, error) {
	in := forms.Input{Parent: r.URL.Query().Get("parent")}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody+1))
		if err != nil {
			return in, err
		}
		if len(data) > maxJSONBody {
			return in, fmt.Errorf("body larger than %d bytes", maxJSONBody)
		}
		var extra struct {
			Remove []string `json:"remove"`
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &extra); err != nil {
				return in, fmt.Errorf("invalid JSON: %w", err)
			}
		}
		in.Data, in.Remove = data, extra.Remove
		return in, nil
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return in, fmt.Errorf("invalid multipart body: %w", err)
	}
	mf := r.MultipartForm
	if vals := mf.Value["data"]; len(vals) > 0 {
		in.Data = []byte(vals[0])
	}
	in.Remove = append(in.Remove, mf.Value["remove"]...)

	fields := make([]string, 0, len(mf.File))
	for f := range mf.File {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, fh := range mf.File[field] {
			if fh.Size > media.MaxUploadBytes {
				return in, fmt.Errorf("%s: file larger than 10 MB", field)
			}
			f, err := fh.Open()
			if err != nil {
				return in, err
			}
			data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
			f.Close()
			if err != nil {
				return in, err
			}
			in.Files = append(in.Files, forms.Upload{
				Field:       field,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}
	return in, nil
}
