package tracker

import "time"

// closeSession computes the whole seconds elapsed between start and now and,
// when at least one full second passed, the session to record. The session
// end is start plus the credited seconds rather than raw now, so the recorded
// span always matches the seconds credited and sub-second drift cannot
// accumulate across many pause/resume cycles.
//
// A span under one second yields no session.
func closeSession(start, now time.Time) (int64, *Session) {
	secs := int64(now.Sub(start) / time.Second)
	if secs < 1 {
		return 0, nil
	}
	return secs, &Session{
		Start: start,
		End:   start.Add(time.Duration(secs) * time.Second),
	}
}

// sessionSeconds returns a recorded session's duration in whole seconds.
func sessionSeconds(s Session) int64 {
	secs := int64(s.End.Sub(s.Start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// sumSessionSeconds returns the total whole seconds over all sessions.
// For any task without a running timer, ActiveTime and BaseActiveTime
// must equal this sum.
func sumSessionSeconds(sessions []Session) int64 {
	var total int64
	for _, s := range sessions {
		total += sessionSeconds(s)
	}
	return total
}
