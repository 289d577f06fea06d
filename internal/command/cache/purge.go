// Package cache provides CLI commands definitions and execution logic.

package cache

import (
	"context"
	"fmt"
	"time"

	"email-verifier-service/internal/command/errors"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/storage/v1/psql"
	"email-verifier-service/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// PurgeCommand defines a new command struct and sets its attributes.
type PurgeCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewPurgeCommand creates a new command instance.
func NewPurgeCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *PurgeCommand {
	logger.Debug().Msg("calling initializer of cache:purge command")
	return &PurgeCommand{
		log:       logger,
		cfg:       cfg,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *PurgeCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "cache",
		Name:     "cache:purge",
		Usage:    "Remove cached verdicts older than TTL",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "ttl",
				Usage:   "Maximum age of cached verdicts to retain",
				Aliases: []string{"t"},
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *PurgeCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "cache:purge"
		handlerKey = "cli_command"
	)

	var (
		ttl = ctx.Duration("ttl")
	)

	if ttl == 0 {
		ttl = t.cfg.Verifier.CacheTTL
	}

	t.log.Info().Str(handlerKey, handler).Dur("ttl", ttl).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 60*time.Second)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	purged, err := t.storage.PurgeCache(ctxMain, ttl)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.CachePurgeError)
		return err
	}

	t.log.Info().Str(handlerKey, handler).Int64("purged", purged).Msg("cache purge completed")

	return nil
}
