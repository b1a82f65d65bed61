/*
Package session serializes work on a document's session state.

A Manager pairs a ports.SessionStore with per-document locks (in-process, plus an optional
ports.DistributedLocker) so that every command observes and persists a consistent state.
*/
package session
