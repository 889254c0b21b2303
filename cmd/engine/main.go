// Command engine runs the scheduling-engine composition root: it connects
// to the database, wires the services, and blocks until interrupted.
//
// Exit codes: 0 = clean shutdown, 1 = startup error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/flashstudy/backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
