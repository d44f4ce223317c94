package progress

import "errors"

var (
	// ErrInvalidScore rejects test scores outside 0..100 before any
	// mutation takes place.
	ErrInvalidScore = errors.New("score must be between 0 and 100")

	// ErrSkipQuotaExceeded rejects a skip token once the month's counter
	// has reached MaxSkipsPerMonth.
	ErrSkipQuotaExceeded = errors.New("skip quota for this month exhausted")

	// ErrUnknownFlag rejects a daily-task toggle for a flag name that does
	// not exist on the aggregate.
	ErrUnknownFlag = errors.New("unknown daily task flag")
)
