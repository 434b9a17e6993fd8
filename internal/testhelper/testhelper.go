// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the package tests.
package testhelper

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"testing"
)

const (
	// TestOnlineAPIURL is a reachable endpoint used by tests that perform real requests.
	TestOnlineAPIURL = "https://httpbin.org/delay/2"

	// integrationEnv enables tests that need network access when set to "true".
	integrationEnv = "PERFORM_ONLINE_TEST"
)

// MockRoundTripper is an http.RoundTripper that delegates to Fn.
type MockRoundTripper struct {
	Fn func(*http.Request) (*http.Response, error)
}

// RoundTrip implements the http.RoundTripper interface.
func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless online tests are enabled.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv(integrationEnv); val != "true" {
		t.Skipf("skipping online test, set %s=true to enable", integrationEnv)
	}
}

// Response returns a minimal HTTP response with the given status code and body.
func Response(code int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

// FileResponse returns an HTTP response with status 200 whose body is read from file.
func FileResponse(t *testing.T, file string) *http.Response {
	t.Helper()
	data, err := os.Open(file)
	if err != nil {
		t.Fatalf("failed to open response file: %s", err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       data,
		Header:     make(http.Header),
	}
}
