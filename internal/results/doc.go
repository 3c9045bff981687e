// Package results persists captured races durably.
//
// Two sinks exist side by side. The CSV logs are the interchange format:
// append-only files whose schema matches the embedded on-track logger, so a
// host-captured file and a device-mirrored file are interchangeable inputs
// to later analysis. The SQLite store backs querying and carries the highest
// persisted race number, which seeds the session counter so numbering stays
// monotonic across process restarts.
//
// Only fully built race records are ever written; a persistence failure
// surfaces to the caller while the in-memory record stays available for a
// retry or an alternate sink.
package results
