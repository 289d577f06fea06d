// Package job provides CLI commands definitions and execution logic.

package job

import (
	"context"
	"fmt"
	"os"
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

// AllCommand defines a new command struct and sets its attributes.
type AllCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewAllCommand creates a new command instance.
func NewAllCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *AllCommand {
	logger.Debug().Msg("calling initializer of job:all command")
	return &AllCommand{
		log:       logger,
		cfg:       cfg,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *AllCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "job",
		Name:     "job:all",
		Usage:    "Get current stats for all verification jobs",
		Action:   t.Execute,
	}
}

// Execute runs the command-associated execution logic.
func (t *AllCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "job:all"
		handlerKey = "cli_command"
	)

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 60*time.Second)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	jobs, err := t.storage.GetAllJobs(ctxMain)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Msg(errors.GettingJobStatusError)
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Job ID",
		"File Name",
		"Status",
		"Done",
		"Total",
		"Created At",
		"Updated At",
	})
	for _, job := range jobs {
		table.Append([]string{
			job.JobID,
			job.FileName,
			job.Status,
			strconv.FormatInt(job.Done, 10),
			strconv.FormatInt(job.Total, 10),
			job.CreatedAt.Format(time.RFC3339),
			job.UpdatedAt.Format(time.RFC3339),
		})
	}
	table.Render()

	return nil
}
