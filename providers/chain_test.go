package providers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/iplocator-bot/iplocator/providers"
	"github.com/stretchr/testify/suite"
)

type nopLogger struct{}

func (nopLogger) LookupMiss(_, _ string, _ error)  {}
func (nopLogger) LookupError(_, _ string, _ error) {}

// ChainTestSuite runs real providers against local servers through
// the same client which is used in production.
type ChainTestSuite struct {
	suite.Suite

	primaryHits   int32
	secondaryHits int32
	primaryDelay  int64

	primary   *httptest.Server
	secondary *httptest.Server
}

func (suite *ChainTestSuite) SetupTest() {
	atomic.StoreInt32(&suite.primaryHits, 0)
	atomic.StoreInt32(&suite.secondaryHits, 0)
	atomic.StoreInt64(&suite.primaryDelay, 0)

	suite.primary = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&suite.primaryHits, 1)

		select {
		case <-req.Context().Done():
			return
		case <-time.After(time.Duration(atomic.LoadInt64(&suite.primaryDelay))):
		}

		fmt.Fprintf(w, `{"ipInfo": {"ip": %q, "city": "Mountain View", "country": "US"}}`,
			req.URL.Query().Get("ip"))
	}))
	suite.secondary = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&suite.secondaryHits, 1)

		fmt.Fprint(w, `{"status": "success", "city": "Ashburn", "countryCode": "US", "query": "8.8.8.8"}`)
	}))
}

func (suite *ChainTestSuite) TearDownTest() {
	suite.primary.Close()
	suite.secondary.Close()
}

func (suite *ChainTestSuite) makeResolver(timeout time.Duration, primaryURL string) *geolib.Resolver {
	client := geolib.NewHTTPClient(&http.Client{
		Transport: &http.Transport{},
		Timeout:   timeout,
	}, "test-agent")

	resolver, err := geolib.NewResolver([]geolib.Provider{
		providers.NewRyzumi(client, map[string]string{"base_url": primaryURL + "/?ip="}),
		providers.NewIPAPI(client, map[string]string{"url_template": suite.secondary.URL + "/json/{ip}"}),
	}, nopLogger{}, nil)
	suite.Require().NoError(err)

	return resolver
}

func (suite *ChainTestSuite) TestPrimaryIsAlwaysAsked() {
	resolver := suite.makeResolver(geolib.DefaultHTTPTimeout, suite.primary.URL)

	for i := 0; i < 10; i++ {
		result := resolver.Resolve(context.Background(), "8.8.8.8")

		suite.True(result.Success)
		suite.Equal("Mountain View", result.City)
	}

	suite.EqualValues(10, atomic.LoadInt32(&suite.primaryHits))
	suite.EqualValues(0, atomic.LoadInt32(&suite.secondaryHits))
}

func (suite *ChainTestSuite) TestRepeatedFaultsGiveSameResult() {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL

	closed.Close()

	resolver := suite.makeResolver(geolib.DefaultHTTPTimeout, closedURL)
	first := resolver.Resolve(context.Background(), "8.8.8.8")

	suite.False(first.Success)
	suite.Contains(first.Error, "connection refused")

	for i := 0; i < 10; i++ {
		suite.Equal(first, resolver.Resolve(context.Background(), "8.8.8.8"))
	}

	suite.EqualValues(0, atomic.LoadInt32(&suite.secondaryHits))
}

func (suite *ChainTestSuite) TestTimeoutStopsChain() {
	atomic.StoreInt64(&suite.primaryDelay, int64(time.Second))

	resolver := suite.makeResolver(100*time.Millisecond, suite.primary.URL)
	started := time.Now()
	result := resolver.Resolve(context.Background(), "8.8.8.8")

	suite.False(result.Success)
	suite.Equal("8.8.8.8", result.IP)
	suite.Contains(result.Error, "Client.Timeout exceeded")
	suite.Less(time.Since(started), 900*time.Millisecond)
	suite.EqualValues(1, atomic.LoadInt32(&suite.primaryHits))
	suite.EqualValues(0, atomic.LoadInt32(&suite.secondaryHits))
}

func (suite *ChainTestSuite) TestBurstReachesUpstream() {
	resolver := suite.makeResolver(geolib.DefaultHTTPTimeout, suite.primary.URL)
	failed := int32(0)
	wg := &sync.WaitGroup{}

	wg.Add(80)

	for i := 0; i < 80; i++ {
		go func() {
			defer wg.Done()

			if !resolver.Resolve(context.Background(), "8.8.8.8").Success {
				atomic.AddInt32(&failed, 1)
			}
		}()
	}

	wg.Wait()

	suite.EqualValues(0, atomic.LoadInt32(&failed))
	suite.EqualValues(80, atomic.LoadInt32(&suite.primaryHits))
}

func TestChain(t *testing.T) {
	suite.Run(t, &ChainTestSuite{})
}
