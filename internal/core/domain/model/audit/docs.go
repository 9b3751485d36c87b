// Package audit contains the immutable audit-log entry model.
//
// Every mutating business operation produces exactly one Entry. Entries are
// append-only observability, not a transactional guarantee: writing them must
// never fail the operation they describe, and a retention job purges entries
// older than a configurable horizon.
package audit
