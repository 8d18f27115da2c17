package render

import "fmt"

// IntegrityError reports a dataset that does not hold together, such as a
// timing vector that does not add up to the matchday's match count. Rendering
// continues with partial output when one is returned.
type IntegrityError struct {
	Matchday string
	Reason   string
}

func (e *IntegrityError) Error() string {
	if e.Matchday == "" {
		return "data integrity: " + e.Reason
	}
	return fmt.Sprintf("data integrity: %s: %s", e.Matchday, e.Reason)
}
