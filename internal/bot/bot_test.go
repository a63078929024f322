package bot

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/tweetrelay/internal/bot/tasks"
	"github.com/edgard/tweetrelay/internal/config"
	"github.com/edgard/tweetrelay/internal/database"
	"github.com/edgard/tweetrelay/internal/logger"
	"github.com/edgard/tweetrelay/internal/router"
	"github.com/edgard/tweetrelay/internal/social"
)

type fakePlatform struct {
	name    string
	err     error
	started atomic.Bool
}

func (p *fakePlatform) Name() string { return p.name }

func (p *fakePlatform) Run(ctx context.Context) error {
	p.started.Store(true)
	if p.err != nil {
		return p.err
	}
	<-ctx.Done()
	return nil
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	discord := &fakePlatform{name: "discord"}
	telegram := &fakePlatform{name: "telegram"}
	sched, err := NewScheduler(logger.Discard(), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	b := NewBot(logger.Discard(), []Platform{discord, telegram}, sched, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.Eventually(t, func() bool { return discord.started.Load() && telegram.started.Load() }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}
}

func TestRunReturnsPlatformError(t *testing.T) {
	t.Parallel()

	healthy := &fakePlatform{name: "discord"}
	broken := &fakePlatform{name: "telegram", err: errors.New("unauthorized")}

	err := NewBot(logger.Discard(), []Platform{healthy, broken}, nil, nil).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram: unauthorized")
}

func TestRunWithoutPlatforms(t *testing.T) {
	t.Parallel()
	assert.Error(t, NewBot(logger.Discard(), nil, nil, nil).Run(context.Background()))
}

func TestSchedulerStart(t *testing.T) {
	t.Parallel()

	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		tasks.SQLMaintenance:      {Enabled: true, Schedule: "0 30 4 * * 0"},
		tasks.PostLedgerRetention: {Enabled: false, Schedule: "0 0 4 * * *"},
		"unknown":                 {Enabled: true, Schedule: "* * * * * *"},
	}}
	taskMap := map[string]tasks.ScheduledTaskFunc{
		tasks.SQLMaintenance:      func(context.Context) error { return nil },
		tasks.PostLedgerRetention: func(context.Context) error { return nil },
	}

	s, err := NewScheduler(logger.Discard(), cfg, taskMap)
	require.NoError(t, err)

	n, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Start(context.Background())
	assert.Error(t, err)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	t.Parallel()

	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		tasks.SQLMaintenance: {Enabled: true, Schedule: "not a cron"},
	}}
	s, err := NewScheduler(logger.Discard(), cfg, map[string]tasks.ScheduledTaskFunc{
		tasks.SQLMaintenance: func(context.Context) error { return nil },
	})
	require.NoError(t, err)

	_, err = s.Start(context.Background())
	assert.Error(t, err)
}

func TestLedgerRecorder(t *testing.T) {
	t.Parallel()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "ledger.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })
	store := database.NewStore(db, logger.Discard())

	rec := LedgerRecorder{Store: store}
	err = rec.RecordPost(context.Background(), router.PostRecord{
		Platform:      "discord",
		ChannelID:     "c1",
		MessageID:     "m1",
		UserID:        "u1",
		UserName:      "alice",
		Intent:        router.IntentReplyChainPost,
		Result:        social.Succeeded("777"),
		ContentLength: 42,
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)

	got, err := store.RecentPostAttempts(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "reply_chain_post", got[0].Intent)
	assert.Equal(t, "777", got[0].PostID)
	assert.Equal(t, 42, got[0].ContentLength)
}
