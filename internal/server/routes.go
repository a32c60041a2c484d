package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Deps are the collaborators the HTTP service needs. Recorder may be nil.
type Deps struct {
	Decoder     ImageDecoder
	Analyzer    EmotionAnalyzer
	Recommender Recommender
	Recorder    Recorder
	UploadField string
	Timeout     time.Duration
	Logger      *log.Logger
}

// NewRouter registers every endpoint on a [BasicRouter] behind [DefaultMiddleware].
func NewRouter(deps Deps) *BasicRouter {
	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(DefaultMiddleware(shared.WithLogger(logger, "component", "http"), deps.Timeout)...)

	router.Handle(http.MethodGet, "/health", http.HandlerFunc(Health))
	router.Handler(NewDetectHandler(deps.Decoder, deps.Analyzer, deps.UploadField, shared.WithLogger(logger, "handler", "detect")))
	router.Handler(NewRecommendHandler(deps.Recommender, deps.Recorder, shared.WithLogger(logger, "handler", "recommend")))

	return router
}
