// Package services talks to the music catalog.
//
// # Tokens
//
// A [TokenProvider] yields a bearer token for catalog calls. [ClientCredentials]
// performs a fresh client-credentials exchange on every call; [CachedToken]
// reuses the last token until it is about to expire.
//
// # Playlists
//
// A [PlaylistFetcher] lists a playlist's tracks. [SpotifyCatalog] reads the
// Spotify Web API and normalizes each item into a [models.Track], dropping
// entries whose track is missing or null. [CachedCatalog] puts a Redis cache in
// front of any fetcher.
//
// # Transport
//
// [NewHTTPClient] builds the outbound client shared by both: a per-request
// timeout, a token-bucket rate limit, and bounded retries on transport errors,
// 429 and 5xx responses.
//
// # Error Handling
//
//   - [shared.ErrAuthFailed] : the token endpoint rejected the exchange or returned no token
//   - [shared.ErrUpstream] : the playlist endpoint failed or returned an unexpected body
package services
