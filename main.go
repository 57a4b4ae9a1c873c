// main is the entry point of the repopulse CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/repopulse/cmd"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute(ctx)

	iocache.CloseCaching()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", contract.UserMessage(err))
		os.Exit(1)
	}
}
