package settings

import "time"

// ShuffleFrequency is the configured interval after which the background
// image consumer picks a new image.
type ShuffleFrequency string

const (
	Pageload       ShuffleFrequency = "pageload"
	Every30Seconds ShuffleFrequency = "30s"
	Every60Seconds ShuffleFrequency = "60s"
	Every3Minutes  ShuffleFrequency = "3min"
	Every5Minutes  ShuffleFrequency = "5min"
	Every10Minutes ShuffleFrequency = "10min"
	Every15Minutes ShuffleFrequency = "15min"
	Hourly         ShuffleFrequency = "hourly"
	Every12Hours   ShuffleFrequency = "12h"
	Daily          ShuffleFrequency = "daily"
)

// Frequencies returns all defined shuffle frequencies in display order.
func Frequencies() []ShuffleFrequency {
	return []ShuffleFrequency{
		Pageload,
		Every30Seconds,
		Every60Seconds,
		Every3Minutes,
		Every5Minutes,
		Every10Minutes,
		Every15Minutes,
		Hourly,
		Every12Hours,
		Daily,
	}
}

// IsValid reports whether f is a defined shuffle frequency.
func (f ShuffleFrequency) IsValid() bool {
	for _, x := range Frequencies() {
		if f == x {
			return true
		}
	}
	return false
}

// Interval returns the shuffle interval.
// Pageload means shuffle on every load and returns 0.
func (f ShuffleFrequency) Interval() time.Duration {
	switch f {
	case Every30Seconds:
		return 30 * time.Second
	case Every60Seconds:
		return 60 * time.Second
	case Every3Minutes:
		return 3 * time.Minute
	case Every5Minutes:
		return 5 * time.Minute
	case Every10Minutes:
		return 10 * time.Minute
	case Every15Minutes:
		return 15 * time.Minute
	case Hourly:
		return time.Hour
	case Every12Hours:
		return 12 * time.Hour
	case Daily:
		return 24 * time.Hour
	}
	return 0
}
