package main

import "testing"

func TestCookieMaxAge(t *testing.T) {
	t.Setenv(envTokenTTL, "")
	if got := cookieMaxAge(); got != defaultTokenHours*3600 {
		t.Errorf("default: got %d, want %d", got, defaultTokenHours*3600)
	}

	t.Setenv(envTokenTTL, "2")
	if got := cookieMaxAge(); got != 2*3600 {
		t.Errorf("2h: got %d, want %d", got, 2*3600)
	}

	// Garbage and non-positive values fall back to the default.
	t.Setenv(envTokenTTL, "soon")
	if got := cookieMaxAge(); got != defaultTokenHours*3600 {
		t.Errorf("garbage: got %d, want %d", got, defaultTokenHours*3600)
	}
	t.Setenv(envTokenTTL, "-1")
	if got := cookieMaxAge(); got != defaultTokenHours*3600 {
		t.Errorf("negative: got %d, want %d", got, defaultTokenHours*3600)
	}
}
