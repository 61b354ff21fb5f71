package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/media"
)

func (h *Handlers) mediaPreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+1<<20)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	width := limitWidth(r)
	th, err := media.Preview(file, width)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		writeProblem(w, http.StatusRequestEntityTooLarge, "Upload Too Large", err.Error())
		return
	case errors.Is(err, media.ErrNotImage):
		writeProblem(w, http.StatusUnsupportedMediaType, "Unsupported Media", "file is not a supported image")
		return
	case err != nil:
		writeError(w, r, err, "could not build preview")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("X-Image-Width", strconv.Itoa(th.Width))
	w.Header().Set("X-Image-Height", strconv.Itoa(th.Height))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(th.JPEG); err != nil {
		log.Error().Err(err).Msg("failed to write preview")
	}
}

func limitWidth(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && n > 0 && n <= 1200 {
		return n
	}
	return 300
}

func (h *Handlers) youtubeID(w http.ResponseWriter, r *http.Request) {
	id, ok := media.YouTubeID(r.URL.Query().Get("url"))
	if !ok {
		writeProblemBody(w, problem{
			Status: http.StatusUnprocessableEntity,
			Title:  "Validation Failed",
			Detail: "not a YouTube link",
			Errors: map[string]string{"url": "youtube"},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "watchUrl": media.WatchURL(id)})
}
