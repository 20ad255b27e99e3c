// Package api is the typed HTTP client for the BRAIN training service.
//
// A Client is built from resolved settings and issues authenticated,
// request-ID-tagged calls against the v1 REST surface: validate, brain
// CRUD, project push/pull (multipart), training control, and simulator
// queries. Rate-limited responses are retried with exponential backoff;
// authentication failures are returned immediately as *AuthError.
package api
