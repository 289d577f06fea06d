// Package dig implements logic for dependency injection using uber-go/dig.

package dig

import (
	"fmt"

	"email-verifier-service/internal/agent/agent"
	"email-verifier-service/internal/api/v1/rest/handlers"
	"email-verifier-service/internal/bus/amqp"
	amqpHandlers "email-verifier-service/internal/bus/handlers"
	cli2 "email-verifier-service/internal/cli"
	"email-verifier-service/internal/command"
	commandCache "email-verifier-service/internal/command/cache"
	commandHTTP "email-verifier-service/internal/command/http"
	commandJob "email-verifier-service/internal/command/job"
	commandMessenger "email-verifier-service/internal/command/messenger"
	commandStorage "email-verifier-service/internal/command/storage"
	commandVerify "email-verifier-service/internal/command/verify"
	"email-verifier-service/internal/config"
	"email-verifier-service/internal/disposable"
	"email-verifier-service/internal/logger"
	"email-verifier-service/internal/report"
	"email-verifier-service/internal/s3/s3"
	"email-verifier-service/internal/storage/v1/psql"
	"email-verifier-service/internal/syncutils"
	"email-verifier-service/internal/verifier/v1/verifier"

	"go.uber.org/dig"
)

var definitions = []interface{}{
	handlers.NewEndpointHandlers,
	commandVerify.NewRunCommand,
	commandVerify.NewCheckCommand,
	commandHTTP.NewServeCommand,
	commandStorage.NewMigrateCommand,
	commandStorage.NewResetCommand,
	commandCache.NewPurgeCommand,
	commandCache.NewStatsCommand,
	commandJob.NewInfoCommand,
	commandJob.NewAllCommand,
	commandMessenger.NewConsumeCommand,
	commandMessenger.NewCreateCommand,
	config.NewConfig,
	logger.NewLog,
	disposable.NewChecker,
	verifier.NewVerifier,
	report.NewWriter,
	s3.NewService,
	psql.NewStorage,
	cli2.NewApp,
	syncutils.NewSyncUtils,
	amqp.NewAMQP,
	amqpHandlers.NewAMQPHandler,
	agent.NewAgent,
	func(s *psql.Storage) verifier.Cache { return s },
}

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	for _, definition := range definitions {
		if err := container.Provide(definition); err != nil {
			return nil, fmt.Errorf("failed to provide service: %w", err)
		}
	}

	if err := commands(container); err != nil {
		return nil, fmt.Errorf("failed to provide commands: %w", err)
	}

	return container, nil
}

func commands(container *dig.Container) error {
	if err := container.Provide(func(
		httpServeCommand *commandHTTP.ServeCommand,
		verifyRunCommand *commandVerify.RunCommand,
		verifyCheckCommand *commandVerify.CheckCommand,
		migrateCommand *commandStorage.MigrateCommand,
		storageResetCommand *commandStorage.ResetCommand,
		cachePurgeCommand *commandCache.PurgeCommand,
		cacheStatsCommand *commandCache.StatsCommand,
		jobInfoCommand *commandJob.InfoCommand,
		jobAllCommand *commandJob.AllCommand,
		consumeCommand *commandMessenger.ConsumeCommand,
		createCommand *commandMessenger.CreateCommand,

	) []command.Command {
		return []command.Command{
			httpServeCommand,
			verifyRunCommand,
			verifyCheckCommand,
			migrateCommand,
			storageResetCommand,
			cachePurgeCommand,
			cacheStatsCommand,
			jobInfoCommand,
			jobAllCommand,
			consumeCommand,
			createCommand,
		}
	}); err != nil {
		return fmt.Errorf("failed to define application: %w", err)
	}

	return nil
}
