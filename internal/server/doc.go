// Package server provides HTTP routing, middleware, and the JSON handlers for emotion detection and playlist recommendations.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// chi's request id, real ip, recoverer and timeout middleware plug in directly, see [DefaultMiddleware].
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Endpoints
//
//   - POST /api/detect-emotion : multipart upload in field "image", answers {"emotion": "..."}
//   - GET /api/recommendations/{emotion} : answers {"emotion": "...", "tracks": [...]}
//   - GET /health : liveness
//
// Every failure is answered as {"error": "..."}. Handlers map error kinds from the shared package to
// status codes; raw error text is logged, never returned.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
