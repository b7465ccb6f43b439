package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"

	"league/api"
	"league/codes"
	"league/db"
	"league/message"
	"league/service"
	observability "league/trace"

	"github.com/sirupsen/logrus"
)

func main() {
	rebuildOpsReadModel := flag.Bool("rebuild-ops-read-model", false, "rebuild the settlements read model from the event log and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	tp := observability.ConfigureTraceProvider()
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	conn, err := db.NewDBConn(os.Getenv("POSTGRES_URL"))
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	conn.MigrateSchema()

	if *rebuildOpsReadModel {
		err := db.RebuildOpsSettlements(ctx, db.NewEventLogRepository(&conn), db.NewOpsSettlementReadModel(&conn))
		if err != nil {
			panic(err)
		}
		logrus.Info("Settlements read model rebuilt")
		return
	}

	codesSalt := os.Getenv("CODES_SALT")
	if codesSalt == "" {
		codesSalt = "league-codes"
	}
	codesGen, err := codes.NewGenerator(codesSalt)
	if err != nil {
		panic(err)
	}

	processorClient := api.NewProcessorClient(
		http.DefaultClient,
		os.Getenv("PROCESSOR_API_URL"),
		os.Getenv("PROCESSOR_API_KEY"),
	)
	notifierClient := api.NewNotifierClient(
		http.DefaultClient,
		os.Getenv("MAILER_API_URL"),
		os.Getenv("MAILER_API_KEY"),
		os.Getenv("MAILER_SENDER"),
	)

	redisClient := message.NewRedisClient(os.Getenv("REDIS_ADDR"))

	svc := service.New(
		redisClient,
		conn,
		codesGen,
		notifierClient,
		processorClient,
	)

	logrus.Info("Server starting...")

	if err := svc.Run(ctx); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}
