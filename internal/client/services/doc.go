// Package services holds the offline-first synchronization core of the
// client.
//
// Synchronizer reads and writes records through the local cache and, when
// an authenticated owner is present, the remote document store. Remote
// failures never reach the caller: they are logged, counted, reported to
// the optional diagnostics callback, and the operation completes against
// the cache alone. Only caller mistakes (a missing collection, id or owner)
// are returned as errors.
//
// ScheduleService stores the weekly schedule aggregate as a single record on
// top of Synchronizer. SessionService and AttachmentService back the CLI.
package services
