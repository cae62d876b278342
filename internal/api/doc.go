// Package api implements the request gateway to the two backend services:
// the identity service (accounts, roles, balances, airlines) and the
// flight-operations service (flights, bookings, ratings, reports).
//
// # Overview
//
// Both backends are reached over authenticated HTTP with JSON bodies. Each
// backend gets its own Client built by NewClient from a base URL, but both
// share one Policy: the credential store the bearer token is read from, the
// process-wide unauthorized hook, and the underlying http.Client.
//
// # Request interception
//
// Every outgoing request reads the persisted token and, when present,
// attaches it:
//
//	Authorization: Bearer <token>
//
// A missing token is not an error at this layer: login and register are
// unauthenticated endpoints.
//
// # 401 handling
//
// Any HTTP 401 response, from either backend, on any call:
//
//  1. clears the persisted credential,
//  2. fires Policy.OnUnauthorized (the UI navigates to the login view),
//  3. returns the error to the caller.
//
// The side effect is global and unconditional. A 401 on an unrelated
// background poll logs the user out; that is intended behavior, not a bug.
//
// # Retries
//
// None. Retry policy, where it exists, belongs to callers.
//
// # Errors
//
// Backend failures decode the error envelope ({"error": "..."} or
// {"errors": [...]}) into *Error carrying the HTTP status, a message, and
// the field-error list. Callers branch on Error.Status or errors.As.
package api
