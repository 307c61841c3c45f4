package usecase

// LocalStatus reports the local half of a write-through operation. The local
// cache is always writable, so the only value is LocalOK; the field exists to
// make the dual-write explicit in the outcome.
type LocalStatus string

// LocalOK means the local cache was updated.
const LocalOK LocalStatus = "ok"

// RemoteStatus reports the remote half of a write-through operation.
type RemoteStatus string

const (
	// RemoteOK means the remote write completed.
	RemoteOK RemoteStatus = "ok"
	// RemoteFailed means the write succeeded locally but failed remotely;
	// RemoteErr carries the cause.
	RemoteFailed RemoteStatus = "failed"
	// RemoteSkipped means the process runs in local-cache-only mode and no
	// remote write was attempted.
	RemoteSkipped RemoteStatus = "skipped"
)

// WriteOutcome is the explicit result of a save/delete: local-first write
// plus a best-effort remote write. Callers choose per call-site whether a
// RemoteFailed outcome is surfaced to the user (entry creation) or swallowed
// (bulk roster sync).
type WriteOutcome struct {
	Local     LocalStatus
	Remote    RemoteStatus
	RemoteErr error
}

// Synced reports whether the record durably left the device.
func (o WriteOutcome) Synced() bool {
	return o.Remote == RemoteOK
}
