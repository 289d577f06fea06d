// Package amqp implements AMQP service.

package amqp

import (
	"context"
	"encoding/json"

	"email-verifier-service/internal/bus/errors"
	"email-verifier-service/internal/bus/modelbus"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/syncutils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// AMQP defines queue client object and sets its attributes.
type AMQP struct {
	config      *config.Config
	log         *zerolog.Logger
	channel     *amqp.Channel
	verifyQueue *amqp.Queue
	statusQueue *amqp.Queue
	syncUtils   *syncutils.SyncUtils
}

// NewAMQP initializes a new AMQP service.
func NewAMQP(config *config.Config, logger *zerolog.Logger, syncUtils *syncutils.SyncUtils) *AMQP {
	logger.Debug().Msg("calling initializer of AMQP service")
	t := &AMQP{
		config:    config,
		log:       logger,
		syncUtils: syncUtils,
	}
	if err := t.init(); err != nil {
		t.log.Fatal().Err(err).Msg(errors.AMQPInitiationError)
	}
	return t
}

// init performs declaration and bindings of queues and exchanges.
func (a *AMQP) init() error {
	a.log.Debug().Msg("calling `init` method")
	conn, err := amqp.Dial(a.config.AMQP.Addr)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPConnectionError)
		return err
	}

	channel, err := conn.Channel()
	a.channel = channel
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPChannelOpeningError)
		return err
	}

	if err = channel.Qos(1, 0, false); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPSettingQosError)
		return err
	}

	var (
		verifyQueue amqp.Queue
		statusQueue amqp.Queue
		waitGroup   errgroup.Group
	)

	{ // exchange declaration
		waitGroup.Go(func() error {
			if err = channel.ExchangeDeclare(a.config.AMQP.VerifyExchangeInputName,
				"fanout", true, false, false, false, nil); err != nil {
				return err
			}
			return nil
		})
		waitGroup.Go(func() error {
			if err = channel.ExchangeDeclare(a.config.AMQP.VerifyExchangeOutputName,
				"fanout", true, false, false, false, nil); err != nil {
				return err
			}
			return nil
		})
		if err := waitGroup.Wait(); err != nil {
			a.log.Error().Err(err).Msg(errors.AMQPExchangeDeclarationError)
			return err
		}
	}

	{ // queue declaration
		waitGroup.Go(func() error {
			if verifyQueue, err = channel.QueueDeclare(a.config.AMQP.VerifyQueueName,
				false, false, false, false, amqp.Table{
					"x-consumer-timeout": 21600000,
				}); err != nil {
				return err
			}
			a.verifyQueue = &verifyQueue
			return nil
		})
		waitGroup.Go(func() error {
			if statusQueue, err = channel.QueueDeclare(a.config.AMQP.StatusQueueName,
				false, false, false, false, amqp.Table{}); err != nil {
				return err
			}
			a.statusQueue = &statusQueue
			return nil
		})
		if err := waitGroup.Wait(); err != nil {
			a.log.Error().Err(err).Msg(errors.AMQPQueueDeclarationError)
			return err
		}
	}

	{ // queue binding
		waitGroup.Go(func() error {
			if err = channel.QueueBind(verifyQueue.Name,
				"", a.config.AMQP.VerifyExchangeInputName, false, nil); err != nil {
				return err
			}
			return nil
		})
		waitGroup.Go(func() error {
			if err = channel.QueueBind(statusQueue.Name,
				"", a.config.AMQP.VerifyExchangeOutputName, false, nil); err != nil {
				return err
			}
			return nil
		})
		if err := waitGroup.Wait(); err != nil {
			a.log.Error().Err(err).Msg(errors.AMQPQueueDeclarationError)
			return err
		}
	}

	a.syncUtils.Wg.Add(1)
	go func() {
		defer a.syncUtils.Wg.Done()
		<-a.syncUtils.Ctx.Done()
		err = conn.Close()
		if err != nil {
			a.log.Fatal().Err(err).Msg("could not close AMQP connection")
		}
		a.log.Debug().Msg("AMQP connection was closed")
	}()
	return nil
}

// PublishToExchange publishes a message to the specified exchange.
func (a *AMQP) PublishToExchange(exchange string, msg amqp.Publishing) error {
	a.log.Debug().Msg("calling `PublishToExchange` method")

	if err := a.channel.PublishWithContext(a.syncUtils.Ctx, exchange, "", false, false, msg); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPPublishingError)
		return err
	}

	a.log.Info().Msg("message was successfully published to AMQP")

	return nil
}

// AddVerifyQueueListener is a middleware method for handling queue deliveries.
// Each delivery is acked regardless of the handler outcome; failed deliveries
// are optionally republished and every outcome is reported to the output
// exchange.
func (a *AMQP) AddVerifyQueueListener(ctx context.Context, republish bool, queueName, exchangeName, exchangeNameOut, runType string, fn func(ctx context.Context, d *amqp.Delivery) (string, string, bool, error)) error {
	messages, err := a.channel.Consume(queueName,
		"", false, false, false, false, nil)
	if err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPConsumingError)
		return err
	}

	var waitGroup errgroup.Group
	waitGroup.Go(func() error {
		for delivery := range messages {
			a.log.Debug().Str("body", string(delivery.Body)).Msg("AMQP: received message")

			jobID, fileName, status, fnErr := fn(ctx, &delivery)
			if fnErr == nil {
				if ackErr := delivery.Ack(false); ackErr != nil {
					a.log.Error().Err(ackErr).Msg(errors.AMQPAckError)
					return ackErr
				}
			} else {
				a.log.Warn().Msg(errors.AMQPMessageProcessingError)
				if ackErr := delivery.Ack(false); ackErr != nil {
					a.log.Error().Err(ackErr).Msg(errors.AMQPAckError)
					return ackErr
				}

				if republish {
					retryMsg := amqp.Publishing{
						ContentType: delivery.ContentType,
						Headers:     delivery.Headers,
						Body:        delivery.Body,
					}

					err := a.PublishToExchange(exchangeName, retryMsg)
					if err != nil {
						a.log.Error().Err(err).Msg(errors.AMQPSendingError)
						return err
					}
				}
			}

			// report outcome to the status queue
			msg := modelbus.Rsp{
				JobID:    jobID,
				FileName: fileName,
				RspType:  runType,
				IsReady:  status,
			}

			serialized, err := json.Marshal(msg)
			if err != nil {
				a.log.Error().Err(err).Msg(errors.AMQPMarshallingError)
				return err
			}

			publishing := amqp.Publishing{
				ContentType: "application/json",
				Headers:     amqp.Table{},
				Body:        serialized,
			}
			err = a.PublishToExchange(exchangeNameOut, publishing)
			if err != nil {
				a.log.Error().Err(err).Msg(errors.AMQPSendingError)
				return err
			}

		}
		return nil
	})

	a.log.Info().Msg("AMQP: consumer started")

	if err := waitGroup.Wait(); err != nil {
		a.log.Error().Err(err).Msg(errors.AMQPListeningError)
		return err
	}

	return nil
}
