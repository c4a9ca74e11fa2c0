// moa is a hybrid passage-retrieval engine for Korean and English
// documents: lexical keyword scoring fused with vector similarity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/moasearch/moa/cmd/moa/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
