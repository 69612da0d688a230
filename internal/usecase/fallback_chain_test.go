package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

func TestFallbackChain_UsesFirstHealthySource(t *testing.T) {
	t.Parallel()

	official := &fakeSource{name: SourceOfficial, err: &RemoteError{StatusCode: 503, Message: "maintenance"}}
	feed := &fakeSource{name: SourceFeed, matches: []RawMatch{rawGame("g1", "MAD", "BAR", testNow, "", nil, nil)}}
	emergency := &fakeSource{name: SourceEmergency}
	metrics := newRecordingMetrics()

	chain := NewFallbackChain(noDelayRetrier(), nil, official, feed, emergency).WithMetrics(metrics)
	got := chain.GetMatches(context.Background())

	assert.Equal(t, SourceFeed, got.Source)
	require.Len(t, got.Items, 1)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, SourceOfficial, got.Failures[0].Source)
	assert.Equal(t, int32(3), official.calls.Load())
	assert.Equal(t, int32(0), emergency.calls.Load())
	assert.Equal(t, SourceFeed, metrics.sources["matches"])
}

func TestFallbackChain_EmergencyAfterRemoteOutage(t *testing.T) {
	t.Parallel()

	official := &fakeSource{name: SourceOfficial, err: &RemoteError{StatusCode: 503, Message: "maintenance"}}
	feed := &fakeSource{name: SourceFeed, err: fmt.Errorf("%w: dial tcp: i/o timeout", ErrTransport)}
	emergency := &fakeSource{name: SourceEmergency, teams: seedTeams()}
	retrier := &resilience.Retrier{MaxAttempts: 2, BaseDelay: time.Millisecond, Retryable: IsRetryable}

	got := NewFallbackChain(retrier, nil, official, feed, emergency).GetTeams(context.Background())

	assert.Equal(t, SourceEmergency, got.Source)
	assert.NotEmpty(t, got.Items)
	assert.True(t, got.Degraded())
	require.Len(t, got.Failures, 2)
	assert.Equal(t, SourceOfficial, got.Failures[0].Source)
	assert.Equal(t, SourceFeed, got.Failures[1].Source)
	assert.True(t, errors.Is(got.Failures[1].Err, ErrTransport))
	assert.Equal(t, int32(2), official.calls.Load())
	assert.Equal(t, int32(2), feed.calls.Load())
}

func TestFallbackChain_EmptyResultFallsThroughWithoutRetry(t *testing.T) {
	t.Parallel()

	official := &fakeSource{name: SourceOfficial}
	emergency := &fakeSource{name: SourceEmergency, teams: []team.Team{{ID: "MAD", Name: "Real Madrid"}}}

	got := NewFallbackChain(noDelayRetrier(), nil, official, emergency).GetTeams(context.Background())

	assert.Equal(t, SourceEmergency, got.Source)
	assert.Equal(t, int32(1), official.calls.Load())
	require.Len(t, got.Failures, 1)
	assert.True(t, errors.Is(got.Failures[0].Err, ErrNoData))
}

func TestFallbackChain_NonRetryableFailureIsTriedOnce(t *testing.T) {
	t.Parallel()

	official := &fakeSource{name: SourceOfficial, err: &RemoteError{StatusCode: 404}}
	feed := &fakeSource{name: SourceFeed, err: errors.New("connection refused")}

	got := NewFallbackChain(noDelayRetrier(), nil, official, feed).GetMatches(context.Background())

	assert.Empty(t, got.Items)
	assert.Empty(t, got.Source)
	assert.Len(t, got.Failures, 2)
	assert.Equal(t, int32(1), official.calls.Load())
	assert.Equal(t, int32(3), feed.calls.Load())
}

func TestFallbackChain_CancelledContextSkipsSources(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	official := &fakeSource{name: SourceOfficial, matches: []RawMatch{rawGame("g1", "MAD", "BAR", time.Now(), "", nil, nil)}}

	got := NewFallbackChain(noDelayRetrier(), nil, official).GetMatches(ctx)

	assert.Empty(t, got.Items)
	assert.Equal(t, int32(0), official.calls.Load())
	require.Len(t, got.Failures, 1)
	assert.True(t, errors.Is(got.Failures[0].Err, context.Canceled))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRetryable(&RemoteError{StatusCode: 429}))
	assert.True(t, IsRetryable(&RemoteError{StatusCode: 502}))
	assert.False(t, IsRetryable(&RemoteError{StatusCode: 400}))
	assert.True(t, IsRetryable(ErrTransport))
	assert.False(t, IsRetryable(ErrInvalidInput))
	assert.False(t, IsRetryable(ErrMalformedData))
	assert.False(t, IsRetryable(nil))
	assert.True(t, errors.Is(&RemoteError{StatusCode: 500}, ErrTransport))
}
