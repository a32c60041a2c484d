package vision

import (
	"context"
	"fmt"
	"image"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// FaceLocator finds a face in a buffer. ok is false when there is none; that is not an error.
type FaceLocator interface {
	Locate(ctx context.Context, buf *ImageBuffer) (region image.Rectangle, ok bool, err error)
}

// EmotionClassifier labels the face inside region.
type EmotionClassifier interface {
	Classify(ctx context.Context, buf *ImageBuffer, region image.Rectangle) (models.Emotion, error)
}

// Analysis is the outcome of one classification. Emotion is empty when FaceFound is false.
type Analysis struct {
	FaceFound bool
	Region    image.Rectangle
	Emotion   models.Emotion
}

// Analyzer composes a [FaceLocator] and an [EmotionClassifier]. It holds no per-request state.
type Analyzer struct {
	locator    FaceLocator
	classifier EmotionClassifier
	logger     *log.Logger
}

// NewAnalyzer creates an Analyzer. A nil logger falls back to [shared.NewLogger].
func NewAnalyzer(locator FaceLocator, classifier EmotionClassifier, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Analyzer{locator: locator, classifier: classifier, logger: logger}
}

// Analyze locates a face and classifies it.
func (a *Analyzer) Analyze(ctx context.Context, buf *ImageBuffer) (Analysis, error) {
	if buf == nil || buf.Width <= 0 || buf.Height <= 0 || len(buf.Pix) != buf.Width*buf.Height*Channels {
		return Analysis{}, fmt.Errorf("%w: malformed image buffer", shared.ErrClassification)
	}

	region, ok, err := a.locator.Locate(ctx, buf)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: face detection: %v", shared.ErrClassification, err)
	}
	if !ok {
		a.logger.Debug("no face detected", "width", buf.Width, "height", buf.Height)
		return Analysis{}, nil
	}

	emotion, err := a.classifier.Classify(ctx, buf, region)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", shared.ErrClassification, err)
	}
	if !emotion.Valid() {
		return Analysis{}, fmt.Errorf("%w: classifier returned unknown label %q", shared.ErrClassification, emotion)
	}

	a.logger.Debug("classified face", "region", region.String(), "emotion", emotion)
	return Analysis{FaceFound: true, Region: region, Emotion: emotion}, nil
}
