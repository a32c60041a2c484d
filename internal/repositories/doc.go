// Package repositories implements SQLite persistence for recommendation history.
//
// [RecommendationRepository] implements models.Repository[*models.SongRecommendation]
// and stores one row per track served for an emotion. Rows are ordered newest first.
// Empty album cover and preview URLs are stored as NULL.
package repositories
