// Package verify provides CLI commands definitions and execution logic.

package verify

import (
	"context"
	"fmt"
	"os"
	"time"

	"email-verifier-service/internal/agent/agent"
	"email-verifier-service/internal/command/errors"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// RunCommand defines a new command struct and sets its attributes.
type RunCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	syncUtils *syncutils.SyncUtils
	agent     *agent.Agent
}

// NewRunCommand creates a new command instance.
func NewRunCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	syncUtils *syncutils.SyncUtils,
	agent *agent.Agent,
) *RunCommand {
	logger.Debug().Msg("calling initializer of verify:run command")
	return &RunCommand{
		log:       logger,
		cfg:       cfg,
		syncUtils: syncUtils,
		agent:     agent,
	}
}

// Describe handles command description when invoked.
func (t *RunCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "verify",
		Name:     "verify:run",
		Usage:    "Verify all addresses found under the input path and write a CSV report",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Usage:    "Input file or folder path",
				Aliases:  []string{"i"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "Output folder path",
				Aliases:  []string{"o"},
				Required: true,
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Concurrent verification workers (defaults to VERIFIER_WORKERS)",
				Aliases: []string{"w"},
			},
			&cli.BoolFlag{
				Name:  "deep",
				Usage: "Enable SMTP mailbox probing (slower, more accurate)",
				Value: false,
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *RunCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "verify:run"
		handlerKey = "cli_command"
	)

	var (
		inputPath  = ctx.String("input")
		outputPath = ctx.String("output")
		workers    = ctx.Int("workers")
		deep       = ctx.Bool("deep")
	)

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 6*time.Hour)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	if _, err := os.Stat(inputPath); err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Str("input", inputPath).Msg(errors.InputNotFoundError)
		return cli.Exit(fmt.Sprintf("%s: %s", errors.InputNotFoundError, inputPath), 1)
	}

	if workers < 1 {
		workers = t.cfg.Verifier.Workers
	}

	reportPath, count, err := t.agent.RunBatch(ctxMain, inputPath, outputPath, deep, workers, handler)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.VerificationRunError)
		return err
	}

	t.log.Info().Str(handlerKey, handler).Str("report", reportPath).Int("emails", count).Msg("verification is complete")
	return nil
}
