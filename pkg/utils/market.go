package utils

import "time"

// IndiaLocation is the timezone for Indian markets.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback to UTC+5:30
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// IsMarketOpen reports whether the NSE F&O session is open at t.
// Regular session: 9:15 - 15:30 IST, weekdays.
func IsMarketOpen(t time.Time) bool {
	now := t.In(IndiaLocation)
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}
	timeMinutes := now.Hour()*60 + now.Minute()
	return timeMinutes >= 555 && timeMinutes < 930
}
