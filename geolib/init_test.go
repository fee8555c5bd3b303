package geolib_test

import (
	"context"
	"net"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Lookup(ctx context.Context, ip net.IP) (geolib.CountryCode, error) {
	args := m.Called(ctx, ip)

	return args.Get(0).(geolib.CountryCode), args.Error(1)
}

func (m *ProviderMock) Name() string {
	return m.Called().String(0)
}

type ClosingProviderMock struct {
	ProviderMock
}

func (m *ClosingProviderMock) Close() error {
	return m.Called().Error(0)
}
