package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/edgard/tweetrelay/internal/agent"
	"github.com/edgard/tweetrelay/internal/auth"
	"github.com/edgard/tweetrelay/internal/social"
)

// Poster performs one posting attempt.
type Poster interface {
	Post(ctx context.Context, text string, who social.Identity) social.Result
}

// PostRecord describes one posting attempt for the ledger.
type PostRecord struct {
	Platform      string
	ChannelID     string
	MessageID     string
	UserID        string
	UserName      string
	Intent        IntentKind
	Result        social.Result
	ContentLength int
	CreatedAt     time.Time
}

// Recorder observes posting attempts. Errors are logged and otherwise
// ignored.
type Recorder interface {
	RecordPost(ctx context.Context, rec PostRecord) error
}

// Messages are the reply templates. Each holds one %s.
type Messages struct {
	NotAuthorized string
	Posted        string
	PostFailed    string
	Error         string
}

// Timeouts bound each outbound call. Zero means no limit beyond the
// caller's context.
type Timeouts struct {
	Agent time.Duration
	Post  time.Duration
	Chat  time.Duration
}

// Deps holds the collaborators shared by every dispatch.
type Deps struct {
	Logger       *slog.Logger
	Agent        agent.Client
	Poster       Poster
	RequiredRole string
	PostURL      string
	Messages     Messages
	Recorder     Recorder
	Timeouts     Timeouts
}

// Dispatcher routes messages for a single platform. It holds no
// per-message state and is safe for concurrent use.
type Dispatcher struct {
	deps     Deps
	platform Platform
	logger   *slog.Logger
}

// New creates a Dispatcher for platform.
func New(deps Deps, platform Platform) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		deps:     deps,
		platform: platform,
		logger:   logger.With("component", "dispatcher", "platform", platform.Name),
	}
}

// Platform returns the platform this dispatcher serves.
func (d *Dispatcher) Platform() Platform {
	return d.platform
}

// dispatch is the state of one Dispatch call.
type dispatch struct {
	*Dispatcher
	msg     InboundMessage
	ch      Channel
	log     *slog.Logger
	replied bool
}

// Dispatch runs msg to its terminal outcome. It never panics and never
// returns an error: failures become one apologetic reply.
func (d *Dispatcher) Dispatch(ctx context.Context, msg InboundMessage, ch Channel) (outcome Outcome) {
	run := &dispatch{
		Dispatcher: d,
		msg:        msg,
		ch:         ch,
		log: d.logger.With(
			"correlation_id", uuid.NewString(),
			"message_id", msg.ID,
			"channel_id", msg.ChannelID,
			"user_id", msg.Author.ID),
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			run.log.ErrorContext(ctx, "Panic during dispatch", "panic", r)
			if !run.replied {
				run.fail(ctx, fmt.Errorf("internal error: %v", r))
			}
			outcome = Failed
		}
		if outcome != Ignored {
			run.log.InfoContext(ctx, "Message dispatched",
				"outcome", outcome.String(),
				"duration", time.Since(start))
		}
	}()

	intent := Classify(msg, d.platform)
	switch intent.Kind {
	case IntentDirectPost:
		return run.post(ctx, intent.Kind, intent.Text)
	case IntentReplyChainPost:
		return run.replyChain(ctx, intent.RefID)
	case IntentConversation:
		return run.converse(ctx, intent.Text)
	default:
		return Ignored
	}
}

func (r *dispatch) replyChain(ctx context.Context, refID string) Outcome {
	fetchCtx, cancel := withTimeout(ctx, r.deps.Timeouts.Chat)
	ref, err := r.ch.FetchMessage(fetchCtx, refID)
	cancel()
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to fetch referenced message", "ref_id", refID, "error", err)
		r.fail(ctx, fmt.Errorf("failed to fetch referenced message: %w", err))
		return Failed
	}
	if ref == nil || ref.AuthorID != r.platform.BotID {
		// TODO: decide whether a reply-chain command on someone else's
		// message should tell the user instead of staying silent.
		r.log.WarnContext(ctx, "Reply-chain command references a message not written by the bot",
			"ref_id", refID)
		return Dropped
	}
	return r.post(ctx, IntentReplyChainPost, ref.Content)
}

func (r *dispatch) converse(ctx context.Context, prompt string) Outcome {
	reply, err := r.askAgent(ctx, prompt)
	if err != nil {
		r.log.ErrorContext(ctx, "Agent call failed", "error", err)
		r.fail(ctx, err)
		return AgentFailed
	}

	if HasCommand(prompt) {
		return r.post(ctx, IntentConversation, reply.Text)
	}

	r.send(ctx, reply.Text)
	return Replied
}

func (r *dispatch) askAgent(ctx context.Context, prompt string) (agent.Reply, error) {
	ctx, cancel := withTimeout(ctx, r.deps.Timeouts.Agent)
	defer cancel()

	return r.deps.Agent.Send(ctx, agent.Request{
		Text:     prompt,
		UserID:   r.msg.Author.ID,
		UserName: r.msg.Author.Name,
	})
}

// post runs the authorization gate and, when allowed, one posting attempt.
func (r *dispatch) post(ctx context.Context, kind IntentKind, text string) Outcome {
	decision := auth.Authorize(r.msg.Roles, r.deps.RequiredRole)
	if !decision.Allowed {
		r.log.InfoContext(ctx, "Post denied", "required_role", decision.RequiredRole)
		r.send(ctx, fmt.Sprintf(r.deps.Messages.NotAuthorized, decision.RequiredRole))
		return Denied
	}

	postCtx, cancel := withTimeout(ctx, r.deps.Timeouts.Post)
	result := r.deps.Poster.Post(postCtx, text, social.Identity{
		Platform: r.platform.Name,
		UserID:   r.msg.Author.ID,
		UserName: r.msg.Author.Name,
	})
	cancel()

	r.record(ctx, kind, text, result)

	if !result.Success {
		r.send(ctx, fmt.Sprintf(r.deps.Messages.PostFailed, result.Reason))
		return PostFailed
	}
	r.send(ctx, fmt.Sprintf(r.deps.Messages.Posted, social.PostURL(r.deps.PostURL, result.ID)))
	return Posted
}

func (r *dispatch) record(ctx context.Context, kind IntentKind, text string, result social.Result) {
	if r.deps.Recorder == nil {
		return
	}
	err := r.deps.Recorder.RecordPost(ctx, PostRecord{
		Platform:      r.platform.Name,
		ChannelID:     r.msg.ChannelID,
		MessageID:     r.msg.ID,
		UserID:        r.msg.Author.ID,
		UserName:      r.msg.Author.Name,
		Intent:        kind,
		Result:        result,
		ContentLength: utf8.RuneCountInString(text),
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		r.log.WarnContext(ctx, "Failed to record post attempt", "error", err)
	}
}

func (r *dispatch) fail(ctx context.Context, err error) {
	r.send(ctx, fmt.Sprintf(r.deps.Messages.Error, err.Error()))
}

// send delivers the single reply for this dispatch. Failures are logged.
func (r *dispatch) send(ctx context.Context, text string) {
	r.replied = true
	ctx, cancel := withTimeout(ctx, r.deps.Timeouts.Chat)
	defer cancel()

	if err := r.ch.Reply(ctx, text); err != nil {
		r.log.ErrorContext(ctx, "Failed to send reply", "error", err)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
