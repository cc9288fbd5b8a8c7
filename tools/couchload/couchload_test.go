package main

import (
	"errors"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"github.com/dustin/httputil"
)

func response(status int) *http.Response {
	return &http.Response{
		Status:     http.StatusText(status),
		StatusCode: status,
		Body:       ioutil.NopCloser(strings.NewReader(`{"error":"x"}`)),
	}
}

func TestConflict(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{httputil.HTTPError(response(http.StatusConflict)), true},
		{httputil.HTTPError(response(http.StatusNotFound)), false},
		{errors.New("connection refused"), false},
		{nil, false},
	}
	for _, test := range tests {
		if got := conflict(test.err); got != test.expected {
			t.Errorf("Expected conflict(%v) = %v, got %v", test.err, test.expected, got)
		}
	}
}
