package tools

import "time"

// CountdownResult is the time remaining until a target.
type CountdownResult struct {
	Target       time.Time `json:"target"`
	Expired      bool      `json:"expired"`
	Days         int       `json:"days"`
	Hours        int       `json:"hours"`
	Minutes      int       `json:"minutes"`
	Seconds      int       `json:"seconds"`
	TotalSeconds int64     `json:"totalSeconds"`
}

// Countdown splits the time from now to target into days, hours, minutes and
// seconds. A target in the past reports Expired with zero components.
func Countdown(now, target time.Time) CountdownResult {
	res := CountdownResult{Target: target}
	d := target.Sub(now).Truncate(time.Second)
	if d <= 0 {
		res.Expired = true
		return res
	}
	res.TotalSeconds = int64(d / time.Second)
	res.Days = int(d / (24 * time.Hour))
	d -= time.Duration(res.Days) * 24 * time.Hour
	res.Hours = int(d / time.Hour)
	d -= time.Duration(res.Hours) * time.Hour
	res.Minutes = int(d / time.Minute)
	d -= time.Duration(res.Minutes) * time.Minute
	res.Seconds = int(d / time.Second)
	return res
}
