package environment

import (
	"fmt"
	"strings"
)

// Target names a deployment the front-end is built for.
type Target string

const (
	Development Target = "development"
	Production  Target = "production"
)

// Targets lists every known deployment target.
func Targets() []Target {
	return []Target{Development, Production}
}

// ParseTarget resolves a target name. Matching is case-insensitive and the
// short forms "dev" and "prod" are accepted.
func ParseTarget(raw string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "development", "dev":
		return Development, nil
	case "production", "prod":
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, raw)
	}
}

// IsProduction reports whether the target is a production deployment.
func (t Target) IsProduction() bool {
	return t == Production
}

func (t Target) String() string {
	return string(t)
}
