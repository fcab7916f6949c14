package audio

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	audioService "github.com/solacehq/solace/backend/internal/service/audio"
	"github.com/solacehq/solace/backend/pkg/utils"
)

// maxUploadBytes caps inbound audio uploads at 25MB, matching the
// transcription API's own limit.
const maxUploadBytes = 25 << 20

// Handler serves transcription, synthesis and the audio file cache.
type Handler struct {
	audioSvc *audioService.Service
}

// New creates the audio handler.
func New(audioSvc *audioService.Service) *Handler {
	return &Handler{audioSvc: audioSvc}
}

// RegisterRoutes wires the audio endpoints onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/audio/transcribe", h.handleTranscribe)
	r.Post("/audio/synthesize", h.handleSynthesize)
	r.Get("/audio/voices", h.handleVoices)
	r.Get("/audio/file/{fileID}", h.handleGetFile)
	r.Delete("/audio/file/{fileID}", h.handleDeleteFile)
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	transcript := h.audioSvc.Transcribe(r.Context(), data, header.Filename, r.FormValue("language"))
	utils.RespondJSON(w, http.StatusOK, transcript)
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text  string `json:"text"`
		Voice string `json:"voice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	synthesis := h.audioSvc.Synthesize(r.Context(), payload.Text, payload.Voice)
	utils.RespondJSON(w, http.StatusOK, synthesis)
}

func (h *Handler) handleVoices(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"voices": h.audioSvc.Voices()})
}

func (h *Handler) handleGetFile(w http.ResponseWriter, r *http.Request) {
	path, ok := h.audioSvc.FilePath(chi.URLParam(r, "fileID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "audio file not found")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

func (h *Handler) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if !h.audioSvc.DeleteFile(chi.URLParam(r, "fileID")) {
		utils.RespondError(w, http.StatusNotFound, "audio file not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
