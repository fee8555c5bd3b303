package geolib

import (
	"fmt"
	"net/netip"
)

// Verdict is a result of filter evaluation.
type Verdict struct {
	IP      netip.Addr  `json:"ip"`
	Country CountryCode `json:"country"`
	Blocked bool        `json:"blocked"`
}

// AuditRecord is emitted for each blocked request.
type AuditRecord struct {
	IP           netip.Addr
	Country      CountryCode
	Mode         Mode
	AllowUnknown bool
}

func (a AuditRecord) String() string {
	return fmt.Sprintf("GeoIP blocked request from IP %s (Country: %s, Mode: %s, AllowUnknown: %t)",
		a.IP, a.Country, a.Mode, a.AllowUnknown)
}
