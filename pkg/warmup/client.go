// Package warmup provides an API Client for Warmup smart underfloor heating thermostats.
//
// Using this package typically involves exchanging the user's credentials for an access token once:
//
//	token, err := warmup.GetAccessToken(ctx, "your-email", "your-password")
//
// and then creating an APIClient with that token:
//
//	client := warmup.New("your-email", token)
//
// The client can then be used to query my.warmup.com for information about the user's rooms and to control them:
//
//	GetLocations:           get the locations (homes) of the user
//	GetRooms:               get all rooms across all locations
//	GetRoom:                get a single room
//	SetTemperature:         set the (fixed) target temperature of a room
//	SetTemperatureToAuto:   let a room follow its program
//	SetTemperatureToManual: let a room follow its fixed target temperature
//	SetLocationToOff:       switch off all rooms of a location
//
// An APIClient is safe for concurrent use.
package warmup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	// ServerURL is the default Warmup API server
	ServerURL = "https://api.warmup.com"

	apiPath    = "/apps/app/v1"
	appID      = "WARMUP-APP-V001"
	appToken   = `M=;He<Xtg"$}4N%5k{$:PD+WA"]D<;#PriteY|VTuA>_iyhs+vA"4lic{6-LqNM:`
	appVersion = "1.8.1"

	resultSuccess = "success"
)

// APIClient calls the Warmup API on behalf of one user.
type APIClient struct {
	httpClient *http.Client
	url        string
	email      string
	token      string
}

// Option configures an APIClient
type Option func(*APIClient)

// WithHTTPClient sets the http.Client used to call the API. Any timeouts should be configured here.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *APIClient) {
		c.httpClient = httpClient
	}
}

// WithURL overrides the Warmup API server. Used for testing.
func WithURL(url string) Option {
	return func(c *APIClient) {
		c.url = url
	}
}

// New returns an APIClient for the user identified by email, authenticated with an access token obtained through GetAccessToken.
func New(email, token string, options ...Option) *APIClient {
	c := APIClient{
		httpClient: http.DefaultClient,
		url:        ServerURL,
		email:      email,
		token:      token,
	}
	for _, option := range options {
		option(&c)
	}
	return &c
}

// Email returns the user the client is authenticated for
func (c *APIClient) Email() string {
	return c.email
}

type params map[string]any

type methodKey struct{}

// Method returns the API method called by an outgoing request, or an empty string if the request wasn't made by an APIClient.
// Used by instrumented transports to label their metrics.
func Method(req *http.Request) string {
	method, _ := req.Context().Value(methodKey{}).(string)
	return method
}

type responseEnvelope struct {
	Status struct {
		Result  string `json:"result"`
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"status"`
	Response json.RawMessage `json:"response"`
}

func (c *APIClient) call(ctx context.Context, method string, args params, response any) error {
	if args == nil {
		args = make(params)
	}
	args["method"] = method
	body, err := json.Marshal(struct {
		Request params `json:"request"`
	}{Request: args})
	if err != nil {
		return fmt.Errorf("%s: encode: %w", method, err)
	}

	req, err := http.NewRequestWithContext(context.WithValue(ctx, methodKey{}, method), http.MethodPost, c.url+apiPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("app-token", appToken)
	req.Header.Set("app-version", appVersion)
	if c.token != "" {
		req.Header.Set("warmup-authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Method: method, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Method: method, StatusCode: resp.StatusCode, Err: ErrInvalidToken}
	default:
		return &Error{Method: method, StatusCode: resp.StatusCode}
	}

	var envelope responseEnvelope
	if err = json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s: decode: %w", method, err)
	}
	if envelope.Status.Result != resultSuccess {
		e := Error{Method: method, StatusCode: resp.StatusCode, Result: envelope.Status.Result, Message: envelope.Status.Message}
		if envelope.Status.Code == http.StatusUnauthorized {
			e.Err = ErrInvalidToken
		}
		return &e
	}
	if response != nil {
		if err = json.Unmarshal(envelope.Response, response); err != nil {
			return fmt.Errorf("%s: decode: %w", method, err)
		}
	}
	return nil
}
