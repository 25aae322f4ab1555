package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiforge/wikiforge/internal/document"
)

type scriptedChat struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (s *scriptedChat) Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("scriptedChat: no more responses")
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2.0, MaxDelay: 10 * time.Millisecond}
}

func TestRuntime_InvokeJSON_SucceedsFirstTry(t *testing.T) {
	chat := &scriptedChat{responses: []string{`{"a":1}`}}
	rt := &Runtime{Chat: chat, Policy: fastPolicy()}

	var out struct{ A int }
	err := rt.InvokeJSON(context.Background(), document.RoleResearcher, "p", ChatOptions{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, out.A)
	assert.Equal(t, 1, chat.calls)
}

func TestRuntime_InvokeJSON_RecoversFromProseWrappedJSON(t *testing.T) {
	chat := &scriptedChat{responses: []string{"Sure, here you go:\n```json\n{\"a\":2}\n```\nHope that helps!"}}
	rt := &Runtime{Chat: chat, Policy: fastPolicy()}

	var out struct{ A int }
	err := rt.InvokeJSON(context.Background(), document.RoleWriter, "p", ChatOptions{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, out.A)
}

func TestRuntime_InvokeJSON_RetriesOnParseFailureThenSucceeds(t *testing.T) {
	chat := &scriptedChat{responses: []string{"not json at all", `{"a":3}`}}
	rt := &Runtime{Chat: chat, Policy: fastPolicy()}

	var out struct{ A int }
	err := rt.InvokeJSON(context.Background(), document.RoleEditor, "p", ChatOptions{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, out.A)
	assert.Equal(t, 2, chat.calls)
}

func TestRuntime_InvokeJSON_ExhaustsRetriesAndRaisesException(t *testing.T) {
	chat := &scriptedChat{errs: []error{errors.New("503"), errors.New("503"), errors.New("503")}}
	rt := &Runtime{Chat: chat, Policy: fastPolicy()}

	var out struct{ A int }
	err := rt.InvokeJSON(context.Background(), document.RoleCritic, "p", ChatOptions{}, &out)
	require.Error(t, err)
	var exc *Exception
	require.ErrorAs(t, err, &exc)
	assert.Equal(t, document.RoleCritic, exc.Role)
	assert.Equal(t, 3, exc.Attempts)
	assert.Equal(t, 3, chat.calls)
}
