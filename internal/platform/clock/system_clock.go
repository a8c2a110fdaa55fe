package clock

import "time"

// SystemClock reads the wall clock in UTC. Dates in the itinerary schedule
// are midnight-UTC values, so every timestamp entering the system is
// normalized here first.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
