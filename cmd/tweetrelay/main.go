// Command tweetrelay relays chat messages to a conversational agent and
// posts to X on behalf of authorized users.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := execute(ctx)
	stop()
	os.Exit(exitCode)
}
