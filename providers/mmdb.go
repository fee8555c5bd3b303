package providers

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/oschwald/geoip2-golang"
)

type mmdbProvider struct {
	dbReader     *geoip2.Reader
	dbReaderLock sync.RWMutex
}

func (m *mmdbProvider) Name() string {
	return NameMMDB
}

func (m *mmdbProvider) Lookup(_ context.Context, ip net.IP) (geolib.CountryCode, error) {
	m.dbReaderLock.RLock()
	defer m.dbReaderLock.RUnlock()

	if m.dbReader == nil {
		return "", ErrDatabaseIsClosed
	}

	record, err := m.dbReader.Country(ip)
	if err != nil {
		return "", fmt.Errorf("cannot lookup this ip address: %w", err)
	}

	return geolib.NormalizeCountryCode(record.Country.IsoCode), nil
}

func (m *mmdbProvider) Close() error {
	m.dbReaderLock.Lock()
	defer m.dbReaderLock.Unlock()

	if m.dbReader == nil {
		return nil
	}

	err := m.dbReader.Close()
	m.dbReader = nil

	return err
}

// NewMMDB opens a MaxMind database (GeoIP2/GeoLite2 Country or City,
// DB-IP lite in mmdb format etc.) and returns a provider which uses
// it. Lookups are done in-process.
//
// Returned provider implements io.Closer.
func NewMMDB(path string) (geolib.Provider, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open a database %s: %w", path, err)
	}

	return &mmdbProvider{
		dbReader: reader,
	}, nil
}
