package clock

import "time"

// Clock supplies the current time to schedule computation, edit-lock checks,
// and entity timestamps. Services take it as a port so tests can pin "today"
// and assert exact departure/return dates.
type Clock interface {
	Now() time.Time
}
