package session

import "time"

// Festival calendar shown on the planner's skip-day banner. Looked up once
// per load; purely display data with no effect on the progress state
// machine.
var festivals = map[string]string{
	"01-01": "New Year Day",
	"01-14": "Makar Sankranti",
	"01-26": "Republic Day",
	"03-08": "Holi",
	"04-09": "Eid-ul-Fitr",
	"08-15": "Independence Day",
	"10-02": "Gandhi Jayanti",
	"10-24": "Vijayadashami",
	"11-12": "Diwali",
	"12-25": "Christmas",
}

// FestivalOn returns the festival falling on the given date, if any.
func FestivalOn(t time.Time) (string, bool) {
	name, ok := festivals[t.Format("01-02")]
	return name, ok
}
