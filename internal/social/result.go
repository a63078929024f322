// Package social publishes short posts to the social network on behalf of
// authorized chat users.
package social

import "fmt"

// Result is the outcome of one posting attempt. A successful result always
// carries the post ID; a failed one always carries a reason.
type Result struct {
	Success bool
	ID      string
	Reason  string
}

// Succeeded returns a successful result for the given post ID.
func Succeeded(id string) Result {
	return Result{Success: true, ID: id}
}

// Failed returns a failed result. An empty reason is replaced so callers can
// always show something to the user.
func Failed(reason string) Result {
	if reason == "" {
		reason = "unknown error"
	}
	return Result{Reason: reason}
}

// PostURL builds the public link for a post from a template holding one %s.
func PostURL(template, id string) string {
	return fmt.Sprintf(template, id)
}
