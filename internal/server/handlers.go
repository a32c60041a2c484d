package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/vision"
)

// Client-facing messages. Internal error text never reaches the response body.
const (
	msgNoImage          = "No image provided"
	msgTooLarge         = "File too large (max 5MB)"
	msgBadType          = "Invalid file type (JPEG/PNG only)"
	msgInvalidImage     = "Invalid image file"
	msgNoFace           = "No face detected"
	msgDetectionFailed  = "Emotion detection failed"
	msgInvalidEmotion   = "Invalid emotion"
	msgRecommendFailed  = "Failed to get music recommendations"
	multipartOverhead   = 1 << 20
	multipartMaxMemory  = 8 << 20
	defaultUploadField  = "image"
	serviceName         = "moodmix"
)

// ImageDecoder turns uploaded bytes into a pixel buffer.
type ImageDecoder interface {
	Decode(data []byte, contentType string, size int64) (*vision.ImageBuffer, error)
	MaxBytes() int64
}

// EmotionAnalyzer locates and classifies a face.
type EmotionAnalyzer interface {
	Analyze(ctx context.Context, buf *vision.ImageBuffer) (vision.Analysis, error)
}

// Recommender maps a display emotion to tracks.
type Recommender interface {
	Recommend(ctx context.Context, label string) (*models.Recommendation, error)
}

// Recorder persists served recommendations.
type Recorder interface {
	Record(ctx context.Context, rec *models.Recommendation) (int, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

type emotionResponse struct {
	Emotion string `json:"emotion"`
}

// DetectHandler serves POST /api/detect-emotion.
type DetectHandler struct {
	decoder  ImageDecoder
	analyzer EmotionAnalyzer
	field    string
	logger   *log.Logger
}

// NewDetectHandler creates a DetectHandler reading the upload from field (default "image").
func NewDetectHandler(decoder ImageDecoder, analyzer EmotionAnalyzer, field string, logger *log.Logger) *DetectHandler {
	if field == "" {
		field = defaultUploadField
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &DetectHandler{decoder: decoder, analyzer: analyzer, field: field, logger: logger}
}

func (h *DetectHandler) Routes() []string {
	return []string{"/api/detect-emotion"}
}

func (h *DetectHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, contentType, size, err := h.readUpload(w, r)
	if err != nil {
		h.logger.Warn("rejected upload", "error", err)
		writeError(w, http.StatusBadRequest, uploadMessage(err))
		return
	}

	buf, err := h.decoder.Decode(data, contentType, size)
	if err != nil {
		h.logger.Warn("rejected image", "error", err, "content_type", contentType, "size", size)
		writeError(w, http.StatusBadRequest, uploadMessage(err))
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), buf)
	if err != nil {
		h.logger.Error("emotion detection failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgDetectionFailed)
		return
	}
	if !analysis.FaceFound {
		writeError(w, http.StatusBadRequest, msgNoFace)
		return
	}

	writeJSON(w, http.StatusOK, emotionResponse{Emotion: string(analysis.Emotion)})
}

// readUpload extracts the file part without reading more than the size ceiling.
func (h *DetectHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, int64, error) {
	limit := h.decoder.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, "", 0, fmt.Errorf("%w: request body exceeds %d bytes", shared.ErrPayloadTooLarge, tooBig.Limit)
		}
		return nil, "", 0, fmt.Errorf("%w: %v", shared.ErrMissingUpload, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(h.field)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: %v", shared.ErrMissingUpload, err)
	}
	defer file.Close()

	if header.Size > limit {
		return nil, "", 0, fmt.Errorf("%w: %d bytes", shared.ErrPayloadTooLarge, header.Size)
	}

	data, err := readLimited(file, limit)
	if err != nil {
		return nil, "", 0, err
	}
	return data, header.Header.Get("Content-Type"), header.Size, nil
}

func readLimited(file multipart.File, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMissingUpload, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: upload exceeds %d bytes", shared.ErrPayloadTooLarge, limit)
	}
	return data, nil
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrPayloadTooLarge):
		return msgTooLarge
	case errors.Is(err, shared.ErrUnsupportedMediaType):
		return msgBadType
	case errors.Is(err, shared.ErrInvalidImage):
		return msgInvalidImage
	default:
		return msgNoImage
	}
}

// RecommendHandler serves GET /api/recommendations/{emotion}.
type RecommendHandler struct {
	recommender Recommender
	recorder    Recorder
	logger      *log.Logger
}

// NewRecommendHandler creates a RecommendHandler. recorder may be nil to disable history.
func NewRecommendHandler(recommender Recommender, recorder Recorder, logger *log.Logger) *RecommendHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RecommendHandler{recommender: recommender, recorder: recorder, logger: logger}
}

func (h *RecommendHandler) Routes() []string {
	return []string{"/api/recommendations/{emotion}"}
}

func (h *RecommendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	label := r.PathValue("emotion")
	rec, err := h.recommender.Recommend(r.Context(), label)
	switch {
	case errors.Is(err, shared.ErrUnsupportedEmotion):
		writeError(w, http.StatusBadRequest, msgInvalidEmotion)
		return
	case errors.Is(err, shared.ErrNoRecommendation):
		writeError(w, http.StatusNotFound, fmt.Sprintf("No music recommendations for %s", label))
		return
	case err != nil:
		h.logger.Error("recommendation failed", "emotion", label, "error", err)
		writeError(w, http.StatusInternalServerError, msgRecommendFailed)
		return
	}

	if h.recorder != nil {
		if n, err := h.recorder.Record(r.Context(), rec); err != nil {
			h.logger.Warn("failed to record recommendation", "emotion", label, "error", err)
		} else {
			h.logger.Debug("recorded recommendation", "emotion", label, "rows", n)
		}
	}

	writeJSON(w, http.StatusOK, rec)
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": serviceName})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"Internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
