package service

import (
	"context"

	"league/codes"
	"league/db"
	leagueHttp "league/http"
	"league/message"
	"league/message/command"
	"league/message/event"
	"league/message/outbox"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
}

func New(
	redisClient *redis.Client,
	conn db.DB,
	codesGen *codes.Generator,
	notificationsService event.NotificationsService,
	processorService command.ProcessorService,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	redisPublisher := message.NewRedisPublisher(redisClient, watermillLogger)

	eventBus := event.NewBus(redisPublisher)

	accountRepo := db.NewAccountRepository(&conn, codesGen)
	leagueRepo := db.NewLeagueRepository(&conn)
	purchaseRepo := db.NewPurchaseRepository(&conn, codesGen, accountRepo)
	settlementRepo := db.NewSettlementRepository(&conn, codesGen, accountRepo)
	ticketRepo := db.NewTicketRepository(&conn)
	opsReadModel := db.NewOpsSettlementReadModel(&conn)
	eventLogRepo := db.NewEventLogRepository(&conn)

	eventsHandler := event.NewHandler(notificationsService, accountRepo)
	commandsHandler := command.NewHandler(eventBus, processorService)

	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)
	commandProcessorConfig := command.NewProcessorConfig(redisClient, watermillLogger)

	pgSubscriber := outbox.SubscribeForPGMessages(conn.Conn, watermillLogger)
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisPublisher,
		redisClient,
		eventProcessorConfig,
		commandProcessorConfig,
		eventsHandler,
		commandsHandler,
		opsReadModel,
		eventLogRepo,
		watermillLogger,
	)

	echoRouter := leagueHttp.NewHttpRouter(
		accountRepo,
		leagueRepo,
		purchaseRepo,
		settlementRepo,
		ticketRepo,
		opsReadModel,
	)

	return Service{
		watermillRouter,
		echoRouter,
	}
}

func (s Service) Run(ctx context.Context) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// we don't want to start HTTP server before Watermill router (so service won't be healthy before it's ready)
		<-s.watermillRouter.Running()

		return s.echoRouter.Start(":8080")
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}
