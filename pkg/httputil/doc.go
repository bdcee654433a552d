// Package httputil fetches remote spreadsheet exports.
//
// [Client] wraps an *http.Client with default headers, retries of transient
// failures and an optional response cache:
//
//	c := httputil.NewClient(cache.NewNullCache(), cache.NewDefaultKeyer(), 0, nil)
//	body, err := c.GetText(ctx, url)
//
// Network errors, 5xx responses and 429 responses are retried with
// exponential backoff (see [Retry]). Every request and response is reported
// to the registered [observability.HTTPHooks].
package httputil
