// Package flights holds the client-side view of the flight catalogue.
//
// The Model is a snapshot store: every successful fetch replaces the
// whole three-bucket grouping and the airline list wholesale. The
// client never merges or patches server data, so a snapshot is always
// internally consistent with one server response.
//
// The Refresher keeps the Model fresh from four triggers: an immediate
// fetch at start, a periodic ticker, a kick whenever the notification
// queue length changes, and a delayed reconcile scheduled after a
// booking settles. Triggers coalesce; overlapping fetches never run.
package flights
