package attendance

import "errors"

var (
	ErrRecordNotFound    = errors.New("Attendance record not found")
	ErrAlreadyClockedIn  = errors.New("Already clocked in today")
	ErrNotClockedIn      = errors.New("No open attendance record for today")
	ErrAlreadyClockedOut = errors.New("Already clocked out today")
)
