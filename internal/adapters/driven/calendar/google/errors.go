package google

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// isGone reports whether the event no longer exists. Calendar answers 410
// for events that were deleted and 404 for ones that never existed.
func isGone(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone
	}
	return false
}

// retryAfter returns the backoff requested by a rate limit response and
// whether err is one. Calendar signals rate limits with 429 or with 403
// and a rateLimitExceeded reason.
func retryAfter(err error) (time.Duration, bool) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return 0, false
	}
	limited := gerr.Code == http.StatusTooManyRequests
	if gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				limited = true
			}
		}
	}
	if !limited {
		return 0, false
	}
	if secs, err := strconv.Atoi(gerr.Header.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, true
	}
	return 0, true
}

// wrapError maps Calendar API failures to domain errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if _, limited := retryAfter(err); limited {
		return errors.Join(domain.ErrRateLimited, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized {
		return errors.Join(domain.ErrAuthExpired, err)
	}
	return err
}
