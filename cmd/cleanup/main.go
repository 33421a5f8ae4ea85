package main

import (
	"context"
	"inboxflow/internal/app/deps"
	"inboxflow/internal/app/services"
	"inboxflow/internal/core/domain/logging"
	deleteexpired "inboxflow/internal/core/services/delete_expired"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	log := deps.Logger
	defer shutdownDeps()

	services := services.InitServices(deps)

	ticker := time.NewTicker(deps.Config.CleanupPeriod)
	defer ticker.Stop()

	stopCh, closeCh := createChannel()
	defer closeCh()

	log.Info(
		context.Background(),
		"Starting periodic cleanup of expired credentials.",
		logging.Entry("periodMinutes", deps.Config.CleanupPeriod.Minutes()),
	)

loop:
	for {
		select {
		case <-stopCh:
			log.Info(context.Background(), "Stopping periodic cleanup.")
			break loop
		case <-ticker.C:
			_, err := services.DeleteExpired.Run(context.Background(), deleteexpired.Input{})
			if err != nil {
				log.Error(context.Background(), "Cleanup service returned an error.", logging.Entry("err", err))
			}
		}
	}
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}
