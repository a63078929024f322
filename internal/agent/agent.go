// Package agent talks to the conversational agent and reduces its variably
// shaped responses to a single reply text.
package agent

import "context"

// Request is the body posted to the agent's message endpoint.
type Request struct {
	Text     string `json:"text"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// Reply is a normalized agent answer. Text is never empty.
type Reply struct {
	Text string
}

// Client sends one message to the agent and returns its normalized reply.
// Implementations make exactly one attempt per call.
type Client interface {
	Send(ctx context.Context, req Request) (Reply, error)
}
