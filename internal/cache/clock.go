package cache

import "time"

// clock abstracts time.Now so expiry can be driven from tests
type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
