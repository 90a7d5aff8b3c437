package geolib_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/mccutchen/go-httpbin/v2/httpbin"
	"github.com/stretchr/testify/suite"
)

type HTTPClientTestSuite struct {
	suite.Suite

	httpbinEndpoint *httptest.Server
	c               geolib.HTTPClient
}

func (suite *HTTPClientTestSuite) SetupSuite() {
	suite.httpbinEndpoint = httptest.NewServer(httpbin.New())
}

func (suite *HTTPClientTestSuite) TearDownSuite() {
	suite.httpbinEndpoint.Close()
}

func (suite *HTTPClientTestSuite) SetupTest() {
	suite.c = geolib.NewHTTPClient(suite.httpbinEndpoint.Client(), "test")
}

func (suite *HTTPClientTestSuite) get(client geolib.HTTPClient, path string) (*http.Response, error) {
	req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+path, nil)

	return client.Do(req)
}

func (suite *HTTPClientTestSuite) TestUserAgent() {
	resp, err := suite.get(suite.c, "/user-agent")

	suite.Require().NoError(err)

	defer resp.Body.Close()

	body := struct {
		UserAgent string `json:"user-agent"`
	}{}

	suite.NoError(jsonDecode(resp.Body, &body))
	suite.Equal("test", body.UserAgent)
}

func (suite *HTTPClientTestSuite) TestServerError() {
	_, err := suite.get(suite.c, "/status/500")

	suite.True(errors.Is(err, geolib.ErrBadStatus))
	suite.True(geolib.IsNoData(err))
}

func (suite *HTTPClientTestSuite) TestClientErrorIsPassed() {
	resp, err := suite.get(suite.c, "/status/404")

	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (suite *HTTPClientTestSuite) TestCannotDial() {
	req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"1"+"/status/500", nil)
	_, err := suite.c.Do(req)

	suite.Error(err)
	suite.False(geolib.IsNoData(err))
}

func (suite *HTTPClientTestSuite) TestRepeatedServerErrorsAreNotRemembered() {
	for i := 0; i < 20; i++ {
		_, err := suite.get(suite.c, "/status/503")

		suite.True(errors.Is(err, geolib.ErrBadStatus))
	}

	resp, err := suite.get(suite.c, "/get")

	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (suite *HTTPClientTestSuite) TestBurstIsNotThrottled() {
	hits := int32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNoContent)
	}))

	defer srv.Close()

	client := geolib.NewHTTPClient(srv.Client(), "test")
	wg := &sync.WaitGroup{}

	wg.Add(80)

	for i := 0; i < 80; i++ {
		go func() {
			defer wg.Done()

			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
			resp, err := client.Do(req)

			if suite.NoError(err) {
				resp.Body.Close()
			}
		}()
	}

	wg.Wait()

	suite.EqualValues(80, atomic.LoadInt32(&hits))
}

func (suite *HTTPClientTestSuite) TestTimeout() {
	client := geolib.NewHTTPClient(&http.Client{Timeout: 100 * time.Millisecond}, "test")
	started := time.Now()

	_, err := suite.get(client, "/delay/2")

	suite.Error(err)
	suite.Contains(err.Error(), "Client.Timeout exceeded")
	suite.False(geolib.IsNoData(err))
	suite.Less(time.Since(started), time.Second)
}

func (suite *HTTPClientTestSuite) TestDefaultTimeout() {
	client := &http.Client{}

	geolib.NewHTTPClient(client, "test")

	suite.Zero(client.Timeout)
}

func (suite *HTTPClientTestSuite) TestClosedContext() {
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, suite.httpbinEndpoint.URL+"/get", nil)
	_, err := suite.c.Do(req)

	suite.ErrorIs(err, context.Canceled)
}

func TestHTTPClient(t *testing.T) {
	suite.Run(t, &HTTPClientTestSuite{})
}
