// Package server provides HTTP routing, middleware, and the JSON handlers of the catalog API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally, so routes are method-qualified patterns with
// wildcards. Middleware wraps the mux as a whole; unmatched requests and CORS preflights pass through it too.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Catalog Endpoints
//
// [CatalogHandler] serves songs and playlists under the configured prefix (default /api/v1):
//
//	GET    /songs[?filter=text]
//	POST   /songs
//	PATCH  /songs/{songId}
//	DELETE /songs/{songId}
//	GET    /playlists
//	GET    /playlists/{id}
//	POST   /playlists
//	PATCH  /playlists/{playlistId}/songs/{songId}
//
// Path ids that are not integers are rejected with 400. Catalog errors map to 400, 404 and 409 via [StatusFor];
// every error body has the shape {"message": "..."}.
//
// # Middleware
//
// [Defaults] builds the stack used by the server: [RequestID], [Logger], [Recover], [CORS] and [RateLimit].
//
// # Lifecycle
//
// [Server] serves until its context is cancelled and then shuts down gracefully within the configured timeout.
package server
