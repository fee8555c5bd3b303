package geolib_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/stretchr/testify/suite"
)

type CountryCodeTestSuite struct {
	suite.Suite
}

func (suite *CountryCodeTestSuite) TestKnown() {
	suite.True(geolib.CountryCode("US").Known())
	suite.False(geolib.CountryCode("").Known())
}

func (suite *CountryCodeTestSuite) TestString() {
	suite.Equal("RU", geolib.CountryCode("RU").String())
	suite.Equal("Unknown", geolib.CountryCode("").String())
}

func (suite *CountryCodeTestSuite) TestCommonName() {
	suite.Equal("Germany", geolib.CountryCode("DE").CommonName())
	suite.Empty(geolib.CountryCode("").CommonName())
	suite.Empty(geolib.CountryCode("XX").CommonName())
}

func (suite *CountryCodeTestSuite) TestMarshalJSON() {
	data, err := json.Marshal([]geolib.CountryCode{"US", ""})

	suite.NoError(err)
	suite.JSONEq(`["US", null]`, string(data))
}

func (suite *CountryCodeTestSuite) TestNormalize() {
	suite.EqualValues("US", geolib.NormalizeCountryCode(" us "))
	suite.EqualValues("XYZ", geolib.NormalizeCountryCode("xyz"))
	suite.EqualValues("", geolib.NormalizeCountryCode("  "))
}

func (suite *CountryCodeTestSuite) TestParseCountryCode() {
	testData := map[string]bool{
		"us":  true,
		" Ca": true,
		"":    false,
		"u":   false,
		"usa": false,
		"u1":  false,
		"ü":   false,
	}

	for k, v := range testData {
		_, err := geolib.ParseCountryCode(k)

		if v {
			suite.NoError(err, k)
		} else {
			suite.True(errors.Is(err, geolib.ErrInvalidCountryCode), k)
		}
	}
}

func (suite *CountryCodeTestSuite) TestParseCountryList() {
	codes, err := geolib.ParseCountryList(" us, ca,,ru , ")

	suite.NoError(err)
	suite.Equal([]geolib.CountryCode{"US", "CA", "RU"}, codes)
}

func (suite *CountryCodeTestSuite) TestParseCountryListEmpty() {
	_, err := geolib.ParseCountryList(" , ,")

	suite.True(errors.Is(err, geolib.ErrNoCountries))
}

func (suite *CountryCodeTestSuite) TestParseCountryListInvalid() {
	_, err := geolib.ParseCountryList("US,USA")

	suite.True(errors.Is(err, geolib.ErrInvalidCountryCode))
}

func TestCountryCode(t *testing.T) {
	suite.Run(t, &CountryCodeTestSuite{})
}
