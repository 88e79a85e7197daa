// Package ghapi maps GitHub v3 REST resources onto lazily loaded Go values.
//
// # Overview
//
// A Client is the API gateway: it resolves relative urls against the API
// root, adds authentication and content-type headers, validates response
// status codes and tracks the X-RateLimit-* headers. Once a response
// reports zero remaining requests, further calls fail with a
// *RateLimitError until ResetRateLimit is called.
//
//	client, err := ghapi.New(&ghapi.Config{Token: os.Getenv("GITHUB_TOKEN")})
//	if err != nil { log.Fatal(err) }
//
// # Entities
//
// An Entity is a resource described by a Schema. Fields present in the
// payload it was built from are served without a request; reading any
// other declared field loads the full resource once:
//
//	user, _ := client.NewEntity(userSchema, map[string]any{"url": "users/octocat"})
//	name, err := user.GetString(ctx, "name") // GET users/octocat
//
// Writable fields are changed with Set and sent back with Save, which
// PATCHes only the modified fields.
//
// # Collections
//
// A Collection is a read-only view over a paged list endpoint. Items are
// addressed by absolute index; the page holding an item is fetched on first
// access and the total is discovered from the Link header:
//
//	issues := client.NewCollection("repos/octocat/hello/issues", issueSchema, nil)
//	for issue, err := range issues.All(ctx) { ... }
//
// # Schemas
//
// Schemas are field tables registered in a Registry. Resolve binds the
// type tags of nested resources before any entity is built. The resources
// package declares the GitHub schemas.
//
// # Concurrency
//
// A Client and the entities and collections built from it share mutable
// state (rate limit, last response headers, caches) and are not safe for
// concurrent use. Use one Client per goroutine or synchronise externally.
package ghapi
