// Package messenger provides CLI commands definitions and execution logic.

package messenger

import (
	"encoding/json"
	"fmt"

	busamqp "email-verifier-service/internal/bus/amqp"
	"email-verifier-service/internal/bus/errors"
	"email-verifier-service/internal/bus/modelbus"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/syncutils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// CreateCommand defines a new command struct and sets its attributes.
type CreateCommand struct {
	log       *zerolog.Logger
	cfg       *config.Config
	amqp      *busamqp.AMQP
	syncUtils *syncutils.SyncUtils
}

// NewCreateCommand creates a new command instance.
func NewCreateCommand(
	logger *zerolog.Logger,
	cfg *config.Config,
	amqp *busamqp.AMQP,
	syncUtils *syncutils.SyncUtils,
) *CreateCommand {
	logger.Debug().Msg("calling initializer of messenger:create command")
	return &CreateCommand{
		log:       logger,
		cfg:       cfg,
		amqp:      amqp,
		syncUtils: syncUtils,
	}
}

// Describe handles command description when invoked.
func (t *CreateCommand) Describe() *cli.Command {
	return &cli.Command{
		Category: "messenger",
		Name:     "messenger:create",
		Usage:    "Create an invoice for a verification job",
		Action:   t.Execute,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "type",
				Usage:    "Invoice type, either `verify` or `ready`",
				Aliases:  []string{"t"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "job-id",
				Usage:    "Job identifier (jobID)",
				Aliases:  []string{"j"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "file-name",
				Usage:    "Input file name (as stored in the upload dir or S3)",
				Aliases:  []string{"f"},
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "deep",
				Usage: "Enable SMTP mailbox probing for the job",
				Value: false,
			},
		},
	}
}

// Execute runs the command-associated execution logic.
func (t *CreateCommand) Execute(ctx *cli.Context) error {
	const (
		handler    = "messenger:create"
		handlerKey = "cli_command"
	)

	var (
		messageType = ctx.String("type")
		jobID       = ctx.String("job-id")
		fileName    = ctx.String("file-name")
		deep        = ctx.Bool("deep")
	)

	defer func() {
		t.syncUtils.SyncCancel()
		t.syncUtils.Wg.Wait()
	}()

	t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("CLI: %s endpoint hit", handler))

	switch messageType {
	case "ready":
		msg := modelbus.Rsp{
			JobID:    jobID,
			FileName: fileName,
			RspType:  "verify",
			IsReady:  true,
		}
		serialized, err := json.Marshal(msg)
		if err != nil {
			t.log.Error().Err(err).Msg(errors.AMQPMarshallingError)
			return err
		}
		publishing := amqp.Publishing{
			ContentType: "application/json",
			Headers:     amqp.Table{},
			Body:        serialized,
		}
		err = t.amqp.PublishToExchange(t.cfg.AMQP.VerifyExchangeOutputName, publishing)
		if err != nil {
			t.log.Error().Err(err).Msg(errors.AMQPSendingError)
			return err
		}
		t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("AMQP: message was published to %s", t.cfg.AMQP.VerifyExchangeOutputName))
	case "verify":
		msg := modelbus.MsgVerify{
			JobID:    jobID,
			FileName: fileName,
			Deep:     deep,
		}
		serialized, err := json.Marshal(msg)
		if err != nil {
			t.log.Error().Err(err).Msg(errors.AMQPMarshallingError)
			return err
		}
		publishing := amqp.Publishing{
			ContentType: "application/json",
			Headers:     amqp.Table{},
			Body:        serialized,
		}
		err = t.amqp.PublishToExchange(t.cfg.AMQP.VerifyExchangeInputName, publishing)
		if err != nil {
			t.log.Error().Err(err).Msg(errors.AMQPSendingError)
			return err
		}
		t.log.Info().Str(handlerKey, handler).Msg(fmt.Sprintf("AMQP: message was published to %s", t.cfg.AMQP.VerifyExchangeInputName))
	default:
		return fmt.Errorf("invalid invoice type %s", messageType)
	}
	return nil
}
