package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/tweetrelay/internal/database"
	"github.com/edgard/tweetrelay/internal/logger"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tweetrelay dev\n", out)
}

func TestCheckConfigCommand(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "discord-token")
	t.Setenv("RELAY_DATABASE_PATH", filepath.Join(t.TempDir(), "relay.db"))

	out, err := runCmd(t, "check-config")
	require.NoError(t, err)
	assert.Contains(t, out, "discord")
	assert.Contains(t, out, "Tweeter")
}

func TestCheckConfigCommandFailsWithoutToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("RELAY_DISCORD_TOKEN", "")

	_, err := runCmd(t, "check-config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPostsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := database.NewDB(path, logger.Discard())
	require.NoError(t, err)
	store := database.NewStore(db, logger.Discard())
	require.NoError(t, store.SavePostAttempt(context.Background(), &database.PostAttempt{
		CreatedAt: time.Now().UTC(),
		Platform:  "discord",
		UserID:    "u1",
		UserName:  "alice",
		Intent:    "direct_post",
		Reason:    "content cannot be empty",
	}))
	database.CloseDB(db)

	out, err := runCmd(t, "posts", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "failed: content cannot be empty")
}
