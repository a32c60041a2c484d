// Package vision turns an uploaded still image into one emotion label.
//
// # Pipeline
//
//	Decoder.Decode  ->  ImageBuffer  ->  Analyzer.Analyze  ->  Analysis
//	                                      |- FaceLocator.Locate
//	                                      |- EmotionClassifier.Classify
//
// [Decoder] validates size and media type before touching pixel data, so an oversized or mistyped upload never
// reaches detection.
//
// [FaceLocator] and [EmotionClassifier] are interfaces; the OpenCV implementation lives in the opencv subpackage
// and is constructed once at startup. This package keeps the deterministic parts that do not need OpenCV:
// face selection ([SelectFace]), tensor preparation ([Normalize], [TensorShape], [TensorBytes]) and score decoding
// ([ArgMax]).
//
// # Face selection
//
// When the detector reports several faces, the first one in detector order is used. The order is whatever the
// cascade produces; no largest-face or most-central heuristic is applied.
//
// # Errors
//
// Decoder failures wrap [shared.ErrValidation]. "No face" is not an error: [Analysis.FaceFound] is false.
// Anything that goes wrong inside detection or inference wraps [shared.ErrClassification].
package vision
