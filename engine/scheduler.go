package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// InitializeSchedules starts the history pruning job and returns the running scheduler
func (serverHandler *ServerHandler) InitializeSchedules() *cron.Cron {
	c := cron.New()

	interval := serverHandler.ServerConfig.HistoryPruneInterval
	if interval <= 0 {
		interval = 60
	}

	var pruneJob cron.Job
	pruneJob = cron.FuncJob(serverHandler.pruneHistoryJobFunc)
	pruneJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(pruneJob) //ensure we don't kick off another if old one is still running
	if _, err := c.AddJob(fmt.Sprintf("@every %dm", interval), pruneJob); err != nil {
		Logger.Error("Unable to schedule history pruning", "error", err)
		return c
	}
	Logger.Info("Adding history prune scheduler", "interval_minutes", interval)
	c.Start()
	return c
}

// pruneHistoryJobFunc removes documents that haven't been opened within the retention period
func (serverHandler *ServerHandler) pruneHistoryJobFunc() {
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in history prune job", "panic", r)
		}
	}()

	retentionDays := serverHandler.ServerConfig.HistoryRetentionDays
	if retentionDays <= 0 {
		Logger.Debug("History retention disabled, skipping prune")
		return
	}

	deleted, err := serverHandler.DB.DeleteDocumentsOpenedBefore(time.Duration(retentionDays) * 24 * time.Hour)
	if err != nil {
		Logger.Error("Failed to prune document history", "error", err)
		return
	}
	Logger.Info("Pruned document history", "deleted", deleted, "retention_days", retentionDays)
}
