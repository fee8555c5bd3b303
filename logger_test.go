package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/netip"
	"testing"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite

	out   *bytes.Buffer
	audit *bytes.Buffer
	log   *logger
}

func (suite *LoggerTestSuite) SetupTest() {
	suite.out = &bytes.Buffer{}
	suite.audit = &bytes.Buffer{}
	suite.log = newLogger(suite.out, suite.audit)
}

func (suite *LoggerTestSuite) Decode(buf *bytes.Buffer) map[string]interface{} {
	rv := map[string]interface{}{}

	suite.Require().NoError(json.Unmarshal(buf.Bytes(), &rv))

	return rv
}

func (suite *LoggerTestSuite) TestBlocked() {
	suite.log.Blocked(geolib.AuditRecord{
		IP:   netip.MustParseAddr("5.6.7.8"),
		Mode: geolib.ModeBlacklist,
	})

	suite.Empty(suite.out.String())

	record := suite.Decode(suite.audit)

	suite.Equal("audit", record["event_name"])
	suite.Equal("5.6.7.8", record["ip"])
	suite.Equal("Unknown", record["country"])
	suite.Equal("Blacklist", record["mode"])
	suite.Equal(false, record["allow_unknown"])
	suite.Equal("GeoIP blocked request from IP 5.6.7.8 (Country: Unknown, Mode: Blacklist, AllowUnknown: false)",
		record["message"])
}

func (suite *LoggerTestSuite) TestLookupError() {
	suite.log.LookupError(netip.MustParseAddr("5.6.7.8"), "mmdb", errors.New("oops"))

	suite.Empty(suite.audit.String())

	record := suite.Decode(suite.out)

	suite.Equal("lookup", record["event_name"])
	suite.Equal("mmdb", record["provider"])
	suite.Equal("oops", record["error"])
}

func (suite *LoggerTestSuite) TestReloadError() {
	suite.log.ReloadError("/etc/config.hjson", errors.New("oops"))

	record := suite.Decode(suite.out)

	suite.Equal("reload", record["event_name"])
	suite.Equal("/etc/config.hjson", record["path"])
	suite.Equal("error", record["level"])
}

func TestLogger(t *testing.T) {
	suite.Run(t, &LoggerTestSuite{})
}
