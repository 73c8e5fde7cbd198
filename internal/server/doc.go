// Package server exposes news and volunteer lookups over HTTP.
//
// Routes are served by gin. Listing responses are cached in memory for the
// configured TTL; lookups always read the datasets fresh. Errors are returned
// as {"detail": "..."} with a status derived from the error kind: retrieval
// and data source failures are 503, missing article content is 404 and a
// broken dataset schema is 500.
package server
