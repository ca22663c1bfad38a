// Package reconcile owns the in-memory to-do collection and keeps it
// consistent with the remote store while requests are in flight.
//
// Every mutating command follows the same shape: apply a tentative local
// change, mark the affected IDs pending, call the store, then confirm or
// roll back the change and clear the pending marks whatever the outcome.
// Failures are recorded on the notice as an error kind and also returned,
// so a terminal UI can ignore the error while a CLI can exit non-zero.
//
// Commands block until their remote calls settle. Callers that want
// several operations in flight run each command in its own goroutine;
// state is guarded by one mutex that is never held across a remote call.
//
// Operations on the same ID are not serialized. The last response to
// complete wins, and confirmations only touch items that still exist.
package reconcile
