package geolib

import (
	"fmt"
	"sort"
	"strings"
)

// Mode defines how a set of countries in policy is interpreted.
type Mode uint8

const (
	// ModeWhitelist allows only listed countries.
	ModeWhitelist Mode = iota

	// ModeBlacklist denies listed countries.
	ModeBlacklist
)

func (m Mode) String() string {
	switch m {
	case ModeWhitelist:
		return "Whitelist"
	case ModeBlacklist:
		return "Blacklist"
	}

	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses a mode name. Parsing is case-insensitive.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "whitelist":
		return ModeWhitelist, nil
	case "blacklist":
		return ModeBlacklist, nil
	}

	return 0, fmt.Errorf("%w: %s. Valid modes are: whitelist, blacklist", ErrInvalidMode, value)
}

// Policy is an immutable set of rules which decides if country has to
// be blocked. It is safe to share it between goroutines.
type Policy struct {
	mode         Mode
	countries    map[CountryCode]struct{}
	allowUnknown bool
}

func (p *Policy) Mode() Mode {
	return p.mode
}

func (p *Policy) AllowUnknown() bool {
	return p.allowUnknown
}

// Countries returns a sorted list of countries from the policy.
func (p *Policy) Countries() []CountryCode {
	rv := make([]CountryCode, 0, len(p.countries))

	for k := range p.countries {
		rv = append(rv, k)
	}

	sort.Slice(rv, func(i, j int) bool {
		return rv[i] < rv[j]
	})

	return rv
}

// ShouldBlock decides if request from a given country has to be
// blocked. Unknown country is blocked unless policy allows it.
func (p *Policy) ShouldBlock(country CountryCode) bool {
	if !country.Known() {
		return !p.allowUnknown
	}

	_, listed := p.countries[country]

	if p.mode == ModeWhitelist {
		return !listed
	}

	return listed
}

// NewPolicy builds a new policy. Each country code is normalized and
// validated, an empty list is an error.
func NewPolicy(mode Mode, countries []CountryCode, allowUnknown bool) (*Policy, error) {
	if mode != ModeWhitelist && mode != ModeBlacklist {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}

	set := make(map[CountryCode]struct{}, len(countries))

	for _, v := range countries {
		code, err := ParseCountryCode(string(v))
		if err != nil {
			return nil, err
		}

		set[code] = struct{}{}
	}

	if len(set) == 0 {
		return nil, ErrNoCountries
	}

	return &Policy{
		mode:         mode,
		countries:    set,
		allowUnknown: allowUnknown,
	}, nil
}
