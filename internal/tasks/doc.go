// Package tasks turns a recognised emotion into catalog tracks.
//
// # Recommendation
//
// [Recommender.Recommend] validates a display label, looks up the configured
// playlist, acquires a catalog token and fetches the playlist's tracks:
//
//  1. label not one of Happy, Sad, Neutral, Angry, Surprise, Fear : [shared.ErrUnsupportedEmotion]
//  2. no playlist configured for the label : [shared.ErrNoRecommendation]
//  3. token or playlist failure : [shared.ErrRecommendationUnavailable], with the cause kept in the chain
//
// A successful result always carries a non-nil track slice, possibly empty.
//
// # Bulk Export
//
// [Recommender.BulkExport] fetches every configured emotion through a rate
// limited worker pool and writes each result with the formatter package,
// reporting [ProgressUpdate] values on a non-blocking channel.
package tasks
