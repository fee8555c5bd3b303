package geolib

import (
	"context"
	"net"
	"net/netip"

	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, ip net.IP) (CountryCode, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(CountryCode), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip netip.Addr, name string, err error) {
	m.Called(ip, name, err)
}

func (m *LoggerMock) Blocked(record AuditRecord) {
	m.Called(record)
}

func matchIP(value string) interface{} {
	expected := net.ParseIP(value)

	return mock.MatchedBy(func(ip net.IP) bool {
		return expected.Equal(ip)
	})
}
