package farm

// This file contains the rate limited HTTP client used for artifact
// transfers against the signed S3 URLs Device Farm hands out.

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// transferClient is an HTTP client that rate limits its requests.
type transferClient struct {
	client      *http.Client
	rateLimiter *rate.Limiter
}

// Do dispatches the request once the rate limiter allows it.
func (c *transferClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

// newTransferClient wraps hc, falling back to http.DefaultClient. At
// most one transfer is started per 250ms.
func newTransferClient(hc *http.Client) *transferClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &transferClient{
		client:      hc,
		rateLimiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
	}
}
