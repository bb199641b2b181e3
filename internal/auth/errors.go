package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Status codes are checked on googleapi.Error, never by substring: wrapped messages carry row
// numbers, ranges and spreadsheet ids.
var authMarkers = []string{"invalid credentials", "authentication", "credentials", "oauth"}

// IsAuthError reports whether err means the token is missing, expired or not allowed to do the call.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoToken) {
		return true
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if gErr.Code == http.StatusUnauthorized || gErr.Code == http.StatusForbidden {
			return true
		}
		return hasAuthMarker(gErr.Message)
	}
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		return true
	}
	// transport failures quote the request url, which is not evidence of anything
	var uErr *url.Error
	if errors.As(err, &uErr) {
		return false
	}
	return hasAuthMarker(innermost(err).Error())
}

func hasAuthMarker(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range authMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// innermost follows single-error wrapping down to the root cause.
func innermost(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
