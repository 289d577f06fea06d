// Package handlers implements AMQP handling functions.

package handlers

import (
	"context"
	"encoding/json"
	"time"

	"email-verifier-service/internal/agent/agent"
	busamqp "email-verifier-service/internal/bus/amqp"
	"email-verifier-service/internal/bus/errors"
	"email-verifier-service/internal/bus/modelbus"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/syncutils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	fromQueue       = true
	republishVerify = false
	runTypeVerify   = "verify"
	handlerKey      = "amqp"
	jobIDKey        = "jobID"
)

// AMQPHandler defines an AMQP handler object and sets its attributes.
type AMQPHandler struct {
	log       *zerolog.Logger
	amqp      *busamqp.AMQP
	cfg       *config.Config
	agent     *agent.Agent
	syncUtils *syncutils.SyncUtils
}

// NewAMQPHandler initializes a new AMQP handling service.
func NewAMQPHandler(logger *zerolog.Logger, agent *agent.Agent, amqp *busamqp.AMQP, cfg *config.Config, syncUtils *syncutils.SyncUtils) *AMQPHandler {
	logger.Debug().Msg("calling initializer of AMQP handling service")
	return &AMQPHandler{
		log:       logger,
		agent:     agent,
		amqp:      amqp,
		cfg:       cfg,
		syncUtils: syncUtils,
	}
}

// handleVerifyQueue handles queue message management for verification jobs.
func (h *AMQPHandler) handleVerifyQueue(ctx context.Context, d *amqp.Delivery) (string, string, bool, error) {
	h.log.Debug().Msg("calling `handleVerifyQueue` method")
	const handler = "verify"
	ctxMain, cancel := context.WithTimeout(ctx, 6*time.Hour)
	defer cancel()

	msg := modelbus.MsgVerify{}
	err := json.Unmarshal(d.Body, &msg)
	if err != nil {
		h.log.Error().Err(err).Msg(errors.AMQPUnmarshallingError)
		return "", "", false, err
	}

	jobID := msg.JobID
	fileName := msg.FileName

	err = h.agent.RunJob(ctxMain, jobID, msg.Deep, fromQueue, handler)
	if err != nil {
		h.log.Error().Err(err).Str(handlerKey, handler).Str(jobIDKey, jobID).Msg(errors.AMQPHandlerVerifyError)
		return jobID, fileName, false, err
	}

	h.log.Info().Str(handlerKey, handler).Str(jobIDKey, jobID).Msg("verification job is complete")
	return jobID, fileName, true, nil
}

// Handle is a master handler starting the queue listener.
func (h *AMQPHandler) Handle(ctx context.Context) error {
	h.log.Debug().Msg("calling `Handle` method")
	g := &errgroup.Group{}

	h.syncUtils.Wg.Add(1)
	g.Go(func() error {
		defer h.syncUtils.Wg.Done()
		return h.amqp.AddVerifyQueueListener(
			ctx,
			republishVerify,
			h.cfg.AMQP.VerifyQueueName,
			h.cfg.AMQP.VerifyExchangeInputName,
			h.cfg.AMQP.VerifyExchangeOutputName,
			runTypeVerify,
			h.handleVerifyQueue,
		)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	h.syncUtils.SyncCancel()
	h.syncUtils.Wg.Wait()

	return nil
}
