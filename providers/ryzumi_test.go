package providers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/iplocator-bot/iplocator/providers"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

const ryzumiGoogleURL = "https://api.ryzumi.vip/api/tool/iplocation?ip=8.8.8.8"

type MockedRyzumiTestSuite struct {
	MockedProviderTestSuite

	prov geolib.Provider
}

func (suite *MockedRyzumiTestSuite) SetupTest() {
	suite.MockedProviderTestSuite.SetupTest()

	suite.prov = providers.NewRyzumi(suite.http, map[string]string{})
}

func (suite *MockedRyzumiTestSuite) TestName() {
	suite.Equal(providers.NameRyzumi, suite.prov.Name())
}

func (suite *MockedRyzumiTestSuite) TestLookupClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	_, err := suite.prov.Lookup(ctx, "8.8.8.8")

	suite.Error(err)
}

func (suite *MockedRyzumiTestSuite) TestLookupBadStatus() {
	httpmock.RegisterResponder(http.MethodGet, ryzumiGoogleURL,
		httpmock.NewStringResponder(http.StatusTooManyRequests, ""))

	_, err := suite.prov.Lookup(context.Background(), "8.8.8.8")

	suite.True(errors.Is(err, geolib.ErrNoData))
}

func (suite *MockedRyzumiTestSuite) TestLookupServerError() {
	httpmock.RegisterResponder(http.MethodGet, ryzumiGoogleURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := suite.prov.Lookup(context.Background(), "8.8.8.8")

	suite.True(geolib.IsNoData(err))
}

func (suite *MockedRyzumiTestSuite) TestLookupBadJSON() {
	httpmock.RegisterResponder(http.MethodGet, ryzumiGoogleURL,
		httpmock.NewStringResponder(http.StatusOK, `{[`))

	_, err := suite.prov.Lookup(context.Background(), "8.8.8.8")

	suite.Error(err)
	suite.False(geolib.IsNoData(err))
}

func (suite *MockedRyzumiTestSuite) TestLookupNoIPInfo() {
	httpmock.RegisterResponder(http.MethodGet, ryzumiGoogleURL,
		httpmock.NewStringResponder(http.StatusOK, `{"status": false, "error": "rate limited"}`))

	_, err := suite.prov.Lookup(context.Background(), "8.8.8.8")

	suite.True(errors.Is(err, geolib.ErrNoData))
}

func (suite *MockedRyzumiTestSuite) TestLookupOk() {
	httpmock.RegisterResponder(http.MethodGet, ryzumiGoogleURL,
		httpmock.NewStringResponder(http.StatusOK, `{
  "ipInfo": {
    "ip": "8.8.8.8",
    "hostname": "dns.google",
    "city": "Mountain View",
    "region": "California",
    "country": "US",
    "loc": "37.4,-122.1",
    "org": "Google LLC",
    "postal": "94043",
    "timezone": "America/Los_Angeles"
  }
}`))

	result, err := suite.prov.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.Equal(geolib.ProviderLookupResult{
		IP:       "8.8.8.8",
		City:     "Mountain View",
		Region:   "California",
		Country:  "US",
		Location: "37.4,-122.1",
		Org:      "Google LLC",
		Timezone: "America/Los_Angeles",
	}, result)
}

func (suite *MockedRyzumiTestSuite) TestLookupAbsentFields() {
	httpmock.RegisterResponder(http.MethodGet, ryzumiGoogleURL,
		httpmock.NewStringResponder(http.StatusOK, `{"ipInfo": {"country": "US"}}`))

	result, err := suite.prov.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.Equal("8.8.8.8", result.IP)
	suite.Equal("US", result.Country)
	suite.Equal(geolib.NotAvailable, result.City)
	suite.Equal(geolib.NotAvailable, result.Region)
	suite.Equal(geolib.NotAvailable, result.Location)
	suite.Equal(geolib.NotAvailable, result.Org)
	suite.Equal(geolib.NotAvailable, result.Timezone)
}

func (suite *MockedRyzumiTestSuite) TestCustomBaseURL() {
	prov := providers.NewRyzumi(suite.http, map[string]string{
		"base_url": "https://example.com/ip?addr=",
	})

	httpmock.RegisterResponder(http.MethodGet, "https://example.com/ip?addr=1.1.1.1",
		httpmock.NewStringResponder(http.StatusOK, `{"ipInfo": {"ip": "1.1.1.1", "city": "Sydney"}}`))

	result, err := prov.Lookup(context.Background(), "1.1.1.1")

	suite.NoError(err)
	suite.Equal("Sydney", result.City)
}

type IntegrationRyzumiTestSuite struct {
	ProviderTestSuite

	prov geolib.Provider
}

func (suite *IntegrationRyzumiTestSuite) SetupTest() {
	suite.ProviderTestSuite.SetupTest()

	suite.prov = providers.NewRyzumi(suite.http, map[string]string{})
}

func (suite *IntegrationRyzumiTestSuite) TestLookup() {
	result, err := suite.prov.Lookup(context.Background(), "8.8.8.8")

	suite.NoError(err)
	suite.Equal("US", result.Country)
}

func TestRyzumi(t *testing.T) {
	suite.Run(t, &MockedRyzumiTestSuite{})
}

func TestIntegrationRyzumi(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipped because of the short mode")
		return
	}

	suite.Run(t, &IntegrationRyzumiTestSuite{})
}
