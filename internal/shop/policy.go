package shop

import "fmt"

// StalePolicy decides what happens when fetches overlap and an older one
// resolves after a newer one was issued.
type StalePolicy int

const (
	// DiscardStale applies only the response of the most recently issued
	// fetch. Older responses, successful or not, are dropped silently.
	DiscardStale StalePolicy = iota
	// LastResolvedWins applies every response in resolution order, so a slow
	// older fetch may overwrite a newer result. Each resolution clears loading.
	LastResolvedWins
)

func (p StalePolicy) String() string {
	switch p {
	case DiscardStale:
		return "discard-stale"
	case LastResolvedWins:
		return "last-resolved-wins"
	}
	return fmt.Sprintf("StalePolicy(%d)", int(p))
}

func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "discard-stale":
		return DiscardStale, nil
	case "last-resolved-wins":
		return LastResolvedWins, nil
	}
	return DiscardStale, fmt.Errorf("unknown stale policy %q", s)
}
