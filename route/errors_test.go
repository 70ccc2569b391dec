// Copyright 2026 The Wayfarer Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "classified not-found",
			err:  ClassifyProviderStatus("ZERO_RESULTS"),
			want: true,
		},
		{
			name: "wrapped not-found",
			err:  fmt.Errorf("geocoding: %w", ClassifyHTTPError(404)),
			want: true,
		},
		{
			name: "rate limit is not not-found",
			err:  ClassifyProviderStatus("OVER_QUERY_LIMIT"),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.want {
				t.Fatalf("IsNotFoundError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTimeoutError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "typed timeout",
			err:  &ProviderError{Type: ErrorTypeTimeout, Message: "request timed out"},
			want: true,
		},
		{
			name: "deadline exceeded by message",
			err:  errors.New("Get \"...\": context deadline exceeded"),
			want: true,
		},
		{
			name: "not-found is not a timeout",
			err:  ClassifyProviderStatus("NOT_FOUND"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeoutError(tt.err); got != tt.want {
				t.Fatalf("IsTimeoutError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
