// Package verify provides CLI commands definitions and execution logic.

package verify

import (
	"context"
	"fmt"
	"os"
	"time"

	"email-verifier-service/internal/agent/agent"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/syncutils"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CheckCommand defines a new command struct and sets its attributes.
type CheckCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	syncUtils *syncutils.SyncUtils
	agent     *agent.Agent
}

// NewCheckCommand creates a new command instance.
func NewCheckCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	syncUtils *syncutils.SyncUtils,
	agent *agent.Agent,
) *CheckCommand {
	logger.Debug().Msg("calling initializer of verify:check command")
	return &CheckCommand{
		log:       logger,
		cfg:       cfg,
		syncUtils: syncUtils,
		agent:     agent,
	}
}

// Describe handles command description when invoked.
func (t *CheckCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "verify",
		Name:     "verify:check",
		Usage:    "Verify a single address and print its verdict",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "Address to verify",
				Aliases:  []string{"e"},
				Required: true,
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
func (t *CheckCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "verify:check"
		handlerKey = "cli_command"
	)

	var (
		email = ctx.String("email")
		deep  = ctx.Bool("deep")
	)

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	ctxMain, cancel := context.WithTimeout(t.syncUtils.Ctx, 60*time.Second)
	defer func() {
		cancel()
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	result := t.agent.VerifyOne(ctxMain, email, deep)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"Email",
		"Verdict",
		"Reason",
		"Active Status",
		"MX Domain",
	})
	table.Append([]string{
		result.Email,
		result.Verdict,
		result.Reason,
		result.ActiveStatus,
		result.MXDomain,
	})
	table.Render()

	return nil
}
