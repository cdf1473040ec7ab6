package throttle

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/malwarebo/taskhub/utils"
)

// Policy is a named throttle scope with a parsed rate.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// ScopeRate pairs a scope name with its unparsed rate string, as it
// appears in configuration.
type ScopeRate struct {
	Name string `json:"name"`
	Rate string `json:"rate"`
}

var ratePattern = regexp.MustCompile(`^(\d+)/(second|minute|hour|day)$`)

var periodSeconds = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParseRate parses a rate string such as "100/day" into a limit and a
// window duration.
func ParseRate(rate string) (int, time.Duration, error) {
	match := ratePattern.FindStringSubmatch(rate)
	if match == nil {
		return 0, 0, fmt.Errorf("unparseable rate %q", rate)
	}

	limit, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable rate %q", rate)
	}

	return limit, periodSeconds[match[2]], nil
}

// ParsePolicies converts configured scope rates into policies,
// preserving configuration order. Scopes with unparseable rates are
// skipped and logged, not fatal.
func ParsePolicies(scopes []ScopeRate) []Policy {
	logger := utils.NewLogger("throttle")

	policies := make([]Policy, 0, len(scopes))
	for _, scope := range scopes {
		limit, window, err := ParseRate(scope.Rate)
		if err != nil {
			logger.Warn(context.Background(), "skipping throttle scope", map[string]interface{}{
				"scope": scope.Name,
				"rate":  scope.Rate,
			})
			continue
		}
		policies = append(policies, Policy{Name: scope.Name, Limit: limit, Window: window})
	}
	return policies
}
