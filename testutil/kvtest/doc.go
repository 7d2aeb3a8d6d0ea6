// Package kvtest runs an in-memory fake of the kvrest HTTP service for
// tests. It honors the same wire contract as the hosted service: API-KEY
// authentication, buckets addressed as /{bucket}, values as /{bucket}/{key},
// the POST /buckets listing and the MASTER-API-KEY admin routes, which are
// served from the root rather than under the base path.
//
// Every request is recorded, and raw responses can be injected per route to
// exercise empty, non-JSON or error bodies:
//
//	srv := kvtest.NewServer(kvtest.Options{APIKey: "test-key"})
//	testutil.T(t).Setup(srv)
//	srv.Respond(http.MethodGet, "/b/k", http.StatusOK, "not json")
//
//	client, _ := kvrest.New(kvrest.Config{APIKey: "test-key", BaseURL: srv.BaseURL()})
package kvtest
