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

// InfoCommand defines a new command struct and sets its attributes.
type InfoCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	storage   *psql.Storage
	syncUtils *syncutils.SyncUtils
}

// NewInfoCommand creates a new command instance.
func NewInfoCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	storage *psql.Storage,
	syncUtils *syncutils.SyncUtils,
) *InfoCommand {
	logger.Debug().Msg("calling initializer of job:info command")
	return &InfoCommand{
		log:       logger,
		cfg:       cfg,
		storage:   storage,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *InfoCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "job",
		Name:     "job:info",
		Usage:    "Get current stats for one verification job",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "job-id",
				Usage:    "Job identifier (jobID)",
				Aliases:  []string{"j"},
				Required: true,
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *InfoCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "job:info"
		handlerKey = "cli_command"
		jobIDKey   = "jobID"
	)

	var (
		jobID = ctx.String("job-id")
	)

	t.log.Info().Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 60*time.Second)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	job, err := t.storage.GetJob(ctxMain, jobID)
	if err != nil {
		t.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.JobNotFoundError)
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
	table.Append([]string{
		job.JobID,
		job.FileName,
		job.Status,
		strconv.FormatInt(job.Done, 10),
		strconv.FormatInt(job.Total, 10),
		job.CreatedAt.Format(time.RFC3339),
		job.UpdatedAt.Format(time.RFC3339),
	})
	table.Render()

	return nil
}
