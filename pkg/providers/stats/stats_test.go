package stats

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

func TestManager_RecordRequest(t *testing.T) {
	m := NewManager("", nil)

	m.RecordRequest("openai", "gpt-4o", RequestResult{Success: true, Latency: 100 * time.Millisecond, CharsIn: 5, CharsOut: 2})
	m.RecordRequest("openai", "gpt-4o", RequestResult{Success: true, Latency: 300 * time.Millisecond, CharsIn: 3, CharsOut: 1})
	m.RecordRequest("openai", "gpt-4o", RequestResult{Success: false, Latency: 50 * time.Millisecond, ErrorType: "auth_error"})

	s, ok := m.Get("openai", "gpt-4o")
	require.True(t, ok)
	assert.Equal(t, int64(3), s.TotalRequests)
	assert.Equal(t, int64(2), s.SuccessfulRequests)
	assert.Equal(t, int64(1), s.FailedRequests)
	assert.Equal(t, int64(8), s.TotalCharsIn)
	assert.Equal(t, int64(3), s.TotalCharsOut)
	assert.Equal(t, 50*time.Millisecond, s.MinLatency)
	assert.Equal(t, 300*time.Millisecond, s.MaxLatency)
	assert.Equal(t, 150*time.Millisecond, s.AverageLatency)
	assert.Equal(t, map[string]int64{"auth_error": 1}, s.ErrorTypes)
	assert.InDelta(t, 66.67, s.SuccessRate(), 0.01)

	s.ErrorTypes["mutated"] = 1
	again, _ := m.Get("openai", "gpt-4o")
	assert.NotContains(t, again.ErrorTypes, "mutated")

	_, ok = m.Get("anthropic", "claude")
	assert.False(t, ok)
}

func TestManager_AllOrdering(t *testing.T) {
	m := NewManager("", nil)
	m.RecordRequest("b", "x", RequestResult{Success: true})
	m.RecordRequest("a", "y", RequestResult{Success: true})
	m.RecordRequest("c", "z", RequestResult{Success: true})
	m.RecordRequest("c", "z", RequestResult{Success: true})

	all := m.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Provider)
	assert.Equal(t, "a", all[1].Provider)
	assert.Equal(t, "b", all[2].Provider)

	m.Reset()
	assert.Empty(t, m.All())
}

func TestManager_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.json")

	m := NewManager(path, nil)
	m.RecordRequest("deepseek", "deepseek-chat", RequestResult{Success: false, ErrorType: "timeout", Latency: time.Second})
	require.NoError(t, m.Save())

	loaded := NewManager(path, nil)
	require.NoError(t, loaded.Load())
	s, ok := loaded.Get("deepseek", "deepseek-chat")
	require.True(t, ok)
	assert.Equal(t, int64(1), s.FailedRequests)
	assert.Equal(t, int64(1), s.ErrorTypes["timeout"])
	assert.Equal(t, time.Second, s.TotalLatency)

	missing := NewManager(filepath.Join(t.TempDir(), "none.json"), nil)
	assert.NoError(t, missing.Load())
	assert.NoError(t, NewManager("", nil).Save())
}

func TestTracker_Done(t *testing.T) {
	m := NewManager("", nil)
	clock := time.Unix(1700000000, 0)
	now := func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}

	m.Start("qwen", "qwen-turbo", "Hello there, friend", now).Done("Hello there, friend", nil)
	m.Start("qwen", "qwen-turbo", "hi", now).Done("", &providers.APIError{StatusCode: 429, Body: "slow"})

	s, ok := m.Get("qwen", "qwen-turbo")
	require.True(t, ok)
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(1), s.Untranslated)
	assert.Equal(t, int64(1), s.ErrorTypes["rate_limit"])
	assert.Equal(t, 250*time.Millisecond, s.MaxLatency)

	var nilManager *Manager
	assert.NotPanics(t, func() { nilManager.Start("a", "b", "c", nil).Done("d", nil) })
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&providers.APIError{StatusCode: 401}, "auth_error"},
		{fmt.Errorf("wrapped: %w", &providers.APIError{StatusCode: 403}), "auth_error"},
		{&providers.APIError{StatusCode: 429}, "rate_limit"},
		{&providers.APIError{StatusCode: 404}, "not_found"},
		{&providers.APIError{StatusCode: 503}, "server_error"},
		{&providers.APIError{StatusCode: 400}, "bad_request"},
		{context.DeadlineExceeded, "timeout"},
		{fmt.Errorf("post: %w", context.Canceled), "context_canceled"},
		{errors.New("dial tcp: connection refused"), "network_error"},
		{errors.New("could not read content.0.text from response"), "invalid_response"},
		{errors.New("weird"), "unknown_error"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyError(c.err), c.err.Error())
	}
}

func TestAutoSaveRoutine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	m := NewManager(path, nil)
	m.RecordRequest("openai", "gpt-4o", RequestResult{Success: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.AutoSaveRoutine(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	loaded := NewManager(path, nil)
	require.NoError(t, loaded.Load())
	_, ok := loaded.Get("openai", "gpt-4o")
	assert.True(t, ok)
}

func TestManager_ConcurrentSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	m := NewManager(path, nil)
	m.RecordRequest("openai", "gpt-4o", RequestResult{Success: true})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.AutoSaveRoutine(ctx, time.Millisecond)
	}()

	for i := 0; i < 20; i++ {
		assert.NoError(t, m.Save())
	}
	cancel()
	wg.Wait()

	loaded := NewManager(path, nil)
	require.NoError(t, loaded.Load())
	_, ok := loaded.Get("openai", "gpt-4o")
	assert.True(t, ok)
}
