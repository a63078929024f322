package router

// Outcome is the terminal state of one dispatch.
type Outcome int

const (
	// Ignored: the message was from a bot or not addressed to this bot.
	Ignored Outcome = iota
	// Dropped: a reply-chain command referenced a message not written by
	// this bot. Nothing is sent.
	Dropped
	// Denied: the author lacks the posting role.
	Denied
	// Posted: the post was published and its link sent.
	Posted
	// PostFailed: the posting action failed and the reason was sent.
	PostFailed
	// Replied: the agent's answer was sent.
	Replied
	// AgentFailed: the agent call or its normalization failed.
	AgentFailed
	// Failed: any other failure, including a failed fetch or a panic.
	Failed
)

var outcomeNames = [...]string{
	Ignored:     "ignored",
	Dropped:     "dropped",
	Denied:      "denied",
	Posted:      "posted",
	PostFailed:  "post_failed",
	Replied:     "replied",
	AgentFailed: "agent_failed",
	Failed:      "failed",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Replies reports whether the outcome sends a reply.
func (o Outcome) Replies() bool {
	return o != Ignored && o != Dropped
}
