package oauth

import "time"

// Clock supplies the current time to the token cache.
// Tests substitute mock.MockClock to simulate expiry without waiting.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}
