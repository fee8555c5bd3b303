package providers_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/9seconds/geoipfilter/providers"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

const httpAPIBaseURL = "https://geo.example.com/json/"

type MockedHTTPAPITestSuite struct {
	MockedProviderTestSuite

	prov geolib.Provider
}

func (suite *MockedHTTPAPITestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	prov, err := providers.NewHTTPAPI(suite.http, httpAPIBaseURL)

	suite.Require().NoError(err)

	suite.prov = prov
}

func (suite *MockedHTTPAPITestSuite) TestEmptyURL() {
	_, err := providers.NewHTTPAPI(suite.http, "")

	suite.True(errors.Is(err, providers.ErrBaseURLIsRequired))
}

func (suite *MockedHTTPAPITestSuite) TestName() {
	suite.Equal(providers.NameHTTPAPI, suite.prov.Name())
}

func (suite *MockedHTTPAPITestSuite) TestLookupClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.prov.Lookup(ctx, net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedHTTPAPITestSuite) TestLookupFailed() {
	httpmock.RegisterResponder(http.MethodGet,
		httpAPIBaseURL+"23.22.13.113",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedHTTPAPITestSuite) TestLookupNoContent() {
	httpmock.RegisterResponder(http.MethodGet,
		httpAPIBaseURL+"23.22.13.113",
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedHTTPAPITestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder(http.MethodGet,
		httpAPIBaseURL+"23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedHTTPAPITestSuite) TestLookupWrongShape() {
	httpmock.RegisterResponder(http.MethodGet,
		httpAPIBaseURL+"23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{"country_code": 42}`))

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("23.22.13.113"))

	suite.Error(err)
}

func (suite *MockedHTTPAPITestSuite) TestLookupNoCountry() {
	httpmock.RegisterResponder(http.MethodGet,
		httpAPIBaseURL+"23.22.13.113",
		httpmock.NewStringResponder(http.StatusOK, `{"ip": "23.22.13.113"}`))

	_, err := suite.prov.Lookup(context.Background(), net.ParseIP("23.22.13.113"))

	suite.True(errors.Is(err, providers.ErrNoCountryCode))
}

func (suite *MockedHTTPAPITestSuite) TestLookupOk() {
	httpmock.RegisterResponder(http.MethodGet,
		httpAPIBaseURL+"23.22.13.113",
		func(req *http.Request) (*http.Response, error) {
			suite.Equal("application/json", req.Header.Get("Accept"))
			suite.Equal("test-agent", req.Header.Get("User-Agent"))

			return httpmock.NewStringResponse(http.StatusOK, `{
  "ip": "23.22.13.113",
  "country_code": "us",
  "country_name": "United States",
  "city": "Ashburn"
}`), nil
		})

	country, err := suite.prov.Lookup(context.Background(), net.ParseIP("23.22.13.113"))

	suite.NoError(err)
	suite.EqualValues("US", country)
}

func (suite *MockedHTTPAPITestSuite) TestLookupIPv6() {
	httpmock.RegisterResponder(http.MethodGet,
		httpAPIBaseURL+"2001:4860:4860::8888",
		httpmock.NewStringResponder(http.StatusOK, `{"country_code": "US"}`))

	country, err := suite.prov.Lookup(context.Background(), net.ParseIP("2001:4860:4860::8888"))

	suite.NoError(err)
	suite.EqualValues("US", country)
}

func TestMockedHTTPAPI(t *testing.T) {
	suite.Run(t, &MockedHTTPAPITestSuite{})
}
