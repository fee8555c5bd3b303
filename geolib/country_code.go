package geolib

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pariz/gountries"
)

const unknownCountryName = "Unknown"

var countryCodeQuery = gountries.New()

// CountryCode is a normalized uppercased country code. Usually it is
// 2-letter ISO3166 code but this is not enforced for resolved values:
// whatever resolver returns is kept as is.
//
// An empty value means that country is unknown.
type CountryCode string

// MarshalJSON is to conform json.Marshaller interface. Unknown country
// is serialized as null.
func (c CountryCode) MarshalJSON() ([]byte, error) {
	if !c.Known() {
		return []byte("null"), nil
	}

	buf := bytes.Buffer{}

	buf.WriteByte('"')
	buf.WriteString(string(c))
	buf.WriteByte('"')

	return buf.Bytes(), nil
}

// String returns a country code or Unknown.
func (c CountryCode) String() string {
	if !c.Known() {
		return unknownCountryName
	}

	return string(c)
}

// Known checks if country code is not empty.
func (c CountryCode) Known() bool {
	return c != ""
}

// CommonName returns a common name of the country, like 'United
// States' for US. If country is not known to gountries, an empty
// string is returned.
func (c CountryCode) CommonName() string {
	if !c.Known() {
		return ""
	}

	country, err := countryCodeQuery.FindCountryByAlpha(string(c))
	if err != nil {
		return ""
	}

	return country.Name.BaseLang.Common
}

// NormalizeCountryCode trims and uppercases a raw code. This is what
// should be applied to anything that is coming from resolvers.
func NormalizeCountryCode(code string) CountryCode {
	return CountryCode(strings.ToUpper(strings.TrimSpace(code)))
}

// ParseCountryCode normalizes a code and checks that it has a format
// of 2-letter alpha code.
func ParseCountryCode(code string) (CountryCode, error) {
	normalized := NormalizeCountryCode(code)

	if len(normalized) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, code)
	}

	for i := 0; i < len(normalized); i++ {
		if normalized[i] < 'A' || normalized[i] > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, code)
		}
	}

	return normalized, nil
}

// ParseCountryList parses a comma-separated list of country codes.
// Empty chunks are skipped but at least one code has to be present.
func ParseCountryList(value string) ([]CountryCode, error) {
	chunks := strings.Split(value, ",")
	rv := make([]CountryCode, 0, len(chunks))

	for _, v := range chunks {
		if strings.TrimSpace(v) == "" {
			continue
		}

		code, err := ParseCountryCode(v)
		if err != nil {
			return nil, err
		}

		rv = append(rv, code)
	}

	if len(rv) == 0 {
		return nil, ErrNoCountries
	}

	return rv, nil
}
