package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/remaclabs/remac/pkg/domain"
)

// Validation patterns attached to shape-matched parameters.
const (
	IPv4Pattern   = `^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`
	DomainPattern = `^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`
	UUIDPattern   = `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`
)

var (
	ipv4Re   = regexp.MustCompile(IPv4Pattern)
	domainRe = regexp.MustCompile(DomainPattern)
	uuidRe   = regexp.MustCompile(UUIDPattern)
)

// Shape is the result of a structural match on a scalar value. A matched
// shape promotes a single-occurrence value to a Parameter and contributes
// its type, validation, and name suffix.
type Shape struct {
	Name       string
	Type       domain.ParamType
	Suffix     string
	Validation *domain.Validation

	// hints are name fragments that already suggest this shape; when the
	// derived name contains one, no suffix is appended.
	hints []string
}

// Suggested reports whether the given derived name already hints at
// this shape.
func (s *Shape) Suggested(name string) bool {
	lower := strings.ToLower(name)
	for _, h := range s.hints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// Matcher inspects a scalar value (string form) together with its
// structural context (the payload path it was found at) and reports a
// shape match.
type Matcher func(value, context string) (*Shape, bool)

// DefaultMatchers returns the shape matchers in their fixed evaluation
// order: IPv4, domain, UUID, port. The order is part of the engine's
// contract; reorderings change which shape claims ambiguous values.
func DefaultMatchers() []Matcher {
	return []Matcher{MatchIPv4, MatchDomain, MatchUUID, MatchPort}
}

// MatchIPv4 matches dotted-quad IPv4 addresses.
func MatchIPv4(value, _ string) (*Shape, bool) {
	if !ipv4Re.MatchString(value) {
		return nil, false
	}
	return &Shape{
		Name:       "ipv4",
		Type:       domain.TypeString,
		Suffix:     "Address",
		Validation: &domain.Validation{Pattern: IPv4Pattern},
		hints:      []string{"address", "addr", "ip", "host", "gateway"},
	}, true
}

// MatchDomain matches domain-like strings (at least one dot, letter TLD).
func MatchDomain(value, _ string) (*Shape, bool) {
	if !domainRe.MatchString(value) {
		return nil, false
	}
	return &Shape{
		Name:       "domain",
		Type:       domain.TypeString,
		Suffix:     "Address",
		Validation: &domain.Validation{Pattern: DomainPattern},
		hints:      []string{"domain", "host", "address", "addr", "server", "fqdn"},
	}, true
}

// MatchUUID matches 8-4-4-4-12 hex groups.
func MatchUUID(value, _ string) (*Shape, bool) {
	if !uuidRe.MatchString(value) {
		return nil, false
	}
	return &Shape{
		Name:       "uuid",
		Type:       domain.TypeString,
		Suffix:     "Id",
		Validation: &domain.Validation{Pattern: UUIDPattern},
		hints:      []string{"id", "uuid", "ref"},
	}, true
}

// MatchPort matches integers in [1, 65535] whose surrounding context
// suggests a port. Without the context requirement every small integer in
// a payload would become a port parameter.
func MatchPort(value, context string) (*Shape, bool) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		return nil, false
	}
	if !strings.Contains(strings.ToLower(context), "port") {
		return nil, false
	}
	min, max := float64(1), float64(65535)
	return &Shape{
		Name:       "port",
		Type:       domain.TypeNumber,
		Suffix:     "Port",
		Validation: &domain.Validation{Minimum: &min, Maximum: &max},
		hints:      []string{"port"},
	}, true
}
