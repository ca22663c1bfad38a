// Package types defines the to-do item, the filter evaluator, the Store
// contract for the remote collection API, and the standard errors shared
// by the client, reconciler, and reference server.
package types
