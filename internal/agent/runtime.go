package agent

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/wikiforge/wikiforge/internal/document"
	"github.com/wikiforge/wikiforge/internal/jsonutil"
)

// Runtime is the uniform contract every phase agent is wrapped in: invoke
// the chat capability, recover JSON from surrounding prose, retry on
// transport or parse failure, and surface AgentException once the policy is
// exhausted.
type Runtime struct {
	Chat Chat
	Policy RetryPolicy
	Logger *log.Logger
}

// NewRuntime builds a Runtime with the default retry policy.
func NewRuntime(chat Chat, logger *log.Logger) *Runtime {
	return &Runtime{Chat: chat, Policy: DefaultRetryPolicy(), Logger: logger}
}

// InvokeJSON sends prompt to the chat capability and decodes the first JSON
// value found in the response into out, retrying per r.Policy on both
// transport errors and parse failures. jsonutil.ExtractInto is itself the
// parse-then-recover step: it already tries a markdown code fence before
// falling back to balanced-delimiter scanning, so a single ExtractInto call
// realizes both the extraction and the one recovery attempt; a second
// failure is a genuine parse failure for this attempt and is retried at the
// Runtime level like any other failed attempt.
func (r *Runtime) InvokeJSON(ctx context.Context, role document.AgentRole, prompt string, opts ChatOptions, out any) error {
	var lastErr error

	for attempt := 1; attempt <= r.Policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := r.Policy.sleep(ctx, attempt-1); err != nil {
				return &Exception{Role: role, Attempts: attempt - 1, Cause: err}
			}
		}

		raw, err := r.Chat.Chat(ctx, prompt, opts)
		if err != nil {
			lastErr = err
			r.logf("transport error", role, attempt, err)
			continue
		}
		if strings.TrimSpace(raw) == "" {
			lastErr = &ParseError{Raw: raw, Err: errEmptyResponse}
			r.logf("empty response", role, attempt, lastErr)
			continue
		}

		if err := jsonutil.ExtractInto(raw, out); err != nil {
			lastErr = &ParseError{Raw: raw, Err: err}
			r.logf("parse error", role, attempt, lastErr)
			continue
		}

		return nil
	}

	return &Exception{Role: role, Attempts: r.Policy.MaxAttempts, Cause: lastErr}
}

func (r *Runtime) logf(msg string, role document.AgentRole, attempt int, err error) {
	if r.Logger == nil {
		return
	}
	r.Logger.Debug(msg, "role", role, "attempt", attempt, "err", err)
}

var errEmptyResponse = emptyResponseError{}

type emptyResponseError struct{}

func (emptyResponseError) Error() string { return "agent: empty response from chat capability" }
