// Package cache provides CLI commands definitions and execution logic.

package cache

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"email-verifier-service/internal/command/errors"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/storage/v1/psql"
	"email-verifier-service/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// StatsCommand defines a new command struct and sets its attributes.
type StatsCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewStatsCommand creates a new command instance.
func NewStatsCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *StatsCommand {
	logger.Debug().Msg("calling initializer of cache:stats command")
	return &StatsCommand{
		log:       logger,
		cfg:       cfg,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *StatsCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "cache",
		Name:     "cache:stats",
		Usage:    "Show cached verdict counts per verdict",
		Action:   t.Execute,
	}
}

// Execute runs the command-associated execution logic.
func (t *StatsCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "cache:stats"
		handlerKey = "cli_command"
	)

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 60*time.Second)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	stats, err := t.storage.CacheStats(ctxMain)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.GettingCacheStatsError)
		return err
	}

	verdicts := make([]string, 0, len(stats))
	for verdict := range stats {
		verdicts = append(verdicts, verdict)
	}
	sort.Strings(verdicts)

	var total int64
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Verdict",
		"Count",
	})
	for _, verdict := range verdicts {
		table.Append([]string{
			verdict,
			strconv.FormatInt(stats[verdict], 10),
		})
		total += stats[verdict]
	}
	table.SetFooter([]string{
		"Total",
		strconv.FormatInt(total, 10),
	})
	table.Render()

	return nil
}
