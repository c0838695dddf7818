package domain

import "errors"

// ItemResult is the outcome of one item in a best-effort blob batch.
type ItemResult struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
	Err  error  `json:"-"`
}

// OK reports whether the item succeeded.
func (r ItemResult) OK() bool { return r.Err == nil }

// BatchResult lists per-item outcomes in input order. Items that failed are kept
// so callers can decide whether to reconcile orphaned blobs.
type BatchResult struct {
	Items []ItemResult `json:"items"`
}

// URLs returns the URLs of successful items, preserving input order.
func (b BatchResult) URLs() []string {
	urls := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		if it.OK() {
			urls = append(urls, it.URL)
		}
	}
	return urls
}

// Failed returns the failed items.
func (b BatchResult) Failed() []ItemResult {
	var failed []ItemResult
	for _, it := range b.Items {
		if !it.OK() {
			failed = append(failed, it)
		}
	}
	return failed
}

// HasFailures reports whether any item failed.
func (b BatchResult) HasFailures() bool {
	for _, it := range b.Items {
		if !it.OK() {
			return true
		}
	}
	return false
}

// Err joins all item errors, or returns nil when every item succeeded.
func (b BatchResult) Err() error {
	var errs []error
	for _, it := range b.Items {
		if it.Err != nil {
			errs = append(errs, it.Err)
		}
	}
	return errors.Join(errs...)
}
