// Package services defines the [Service] interface for the catalog operations and implements it over HTTP.
//
// # Service Interface
//
// [Service] is satisfied both by the in-process catalog.Service and by [CatalogClient], so CLI commands and
// background tasks work the same against a local store or a remote server.
//
// # Raw API Access
//
// [APIService] performs raw JSON requests relative to a base URL and returns an [APIResponse] with the status,
// headers and body. Non-2xx statuses are data at this level.
//
// # Catalog Client
//
// [CatalogClient] builds on [APIService], encoding inputs and decoding models.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which carries the server's message and status. It unwraps to
// [shared.ErrAPIRequest] and matches the catalog sentinels by status:
//   - 400 : [shared.ErrValidation]
//   - 404 : [shared.ErrNotFound]
//   - 409 : [shared.ErrConflict]
//   - 429, 503 : [shared.ErrServiceUnavailable]
//
// Transport failures wrap [shared.ErrServiceUnavailable].
package services
