package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Upload validation errors. Each of these wraps [ErrValidation].
	ErrValidation           = fmt.Errorf("invalid upload")
	ErrMissingUpload        = fmt.Errorf("%w: no image provided", ErrValidation)
	ErrPayloadTooLarge      = fmt.Errorf("%w: payload too large", ErrValidation)
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrValidation)
	ErrInvalidImage         = fmt.Errorf("%w: invalid image", ErrValidation)

	// Detection errors
	ErrNoFaceDetected = fmt.Errorf("no face detected")
	ErrClassification = fmt.Errorf("emotion classification failed")
	ErrModelLoad      = fmt.Errorf("failed to load model assets")

	// Catalog errors
	ErrAuthFailed = fmt.Errorf("authentication failed")
	ErrUpstream   = fmt.Errorf("upstream catalog error")
	ErrTimeout    = fmt.Errorf("operation timed out")

	// Recommendation errors
	ErrUnsupportedEmotion        = fmt.Errorf("unsupported emotion")
	ErrNoRecommendation          = fmt.Errorf("no recommendation configured")
	ErrRecommendationUnavailable = fmt.Errorf("recommendation unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
