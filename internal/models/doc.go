// Package models defines the domain vocabulary shared by the detection and recommendation pipelines.
//
// The package contains three groups of types:
//
// 1. Emotion labels
//   - [Emotion] : one label from the classifier's closed set, in model output order ([Labels])
//   - [DisplayEmotions] : the capitalized subset used for playlist lookup
//
// 2. Catalog data transfer objects, normalized from upstream JSON
//   - [Track], [Artist], [Album], [Image]
//   - [Recommendation] : a display label paired with its tracks
//
// 3. Persistent entities
//   - [SongRecommendation] : one recommended track served to a client, stored for history
//
// Persistent entities implement [Model]; [Repository] describes CRUD access to them.
package models
