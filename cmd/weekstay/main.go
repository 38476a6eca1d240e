package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"weekstay/internal/app/commands"
	pricingapp "weekstay/internal/app/handlers/pricing"
	proposalapp "weekstay/internal/app/handlers/proposal"
	"weekstay/internal/app/middleware"
	appoutbox "weekstay/internal/app/outbox"
	"weekstay/internal/app/policies"
	"weekstay/internal/app/queries"
	"weekstay/internal/app/uow"
	"weekstay/internal/domain/listings"
	domainpricing "weekstay/internal/domain/pricing"
	"weekstay/internal/domain/shared/money"
	"weekstay/internal/infra/broker/kafka"
	"weekstay/internal/infra/config"
	mongodb "weekstay/internal/infra/db/mongo"
	ginserver "weekstay/internal/infra/http/gin"
	"weekstay/internal/infra/obs"
	infraoutbox "weekstay/internal/infra/outbox"
	"weekstay/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := cfg.ListingFixtures
	if fixturesPath == "" {
		fixturesPath = defaultListingFixturesPath()
	}
	if err := app.loadListingFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("listing fixtures load failed", "error", err, "path", fixturesPath)
	}

	for _, run := range app.background {
		go func(run func(context.Context) error) {
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background worker stopped", "error", err)
			}
		}(run)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close()
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers   ginserver.Handlers
	listings   listings.Repository
	ready      func() error
	background []func(context.Context) error
	closers    []func() error
}

func (a *application) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

func buildApplication(cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{ready: func() error { return nil }}
	pricingCalc := domainpricing.Engine{}

	var (
		listingsRepo listings.Repository
		uowFactory   uow.UoWFactory
		idStore      middleware.IdempotencyStore
		outboxStore  appoutbox.Outbox
	)

	if cfg.UseMongo() {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		mongoListings := mongodb.NewListingRepository(client.DB)
		mongoProposals := mongodb.NewProposalRepository(client.DB)
		listingsRepo = mongoListings
		uowFactory = mongodb.Factory{
			DB:            client.DB,
			ListingsRepo:  mongoListings,
			ProposalsRepo: mongoProposals,
			PricingSvc:    pricingCalc,
		}
		idStore = mongodb.NewIdempotencyStore(client.DB)
		mongoOutbox := infraoutbox.NewStore(client.DB)
		outboxStore = mongoOutbox
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}

		if cfg.UseKafka() {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return nil, fmt.Errorf("kafka producer: %w", err)
			}
			app.closers = append(app.closers, producer.Close)
			worker := &infraoutbox.Worker{
				Store:       mongoOutbox,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
			app.background = append(app.background, worker.Run)
		}
	} else {
		memListings := memory.NewListingRepository()
		memProposals := memory.NewProposalRepository()
		listingsRepo = memListings
		uowFactory = memory.Factory{
			ListingsRepo:  memListings,
			ProposalsRepo: memProposals,
			PricingSvc:    pricingCalc,
		}
		idStore = memory.NewIdempotencyStore()
		outboxStore = memory.NewOutbox()
	}
	app.listings = listingsRepo

	clock := policies.SystemClock{}
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	submitHandler := &proposalapp.SubmitProposalHandler{
		UoWFactory: uowFactory,
		Clock:      clock,
		Outbox:     outboxStore,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, proposalapp.SubmitProposalCommand{}.Key(), submitHandler)

	counterHandler := &proposalapp.CounterofferHandler{
		UoWFactory: uowFactory,
		Clock:      clock,
		Outbox:     outboxStore,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, proposalapp.CounterofferCommand{}.Key(), counterHandler)

	decideHandler := &proposalapp.DecideHandler{
		UoWFactory: uowFactory,
		Clock:      clock,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Notifier:   obs.LogNotifier{Logger: logger},
	}
	commands.RegisterHandler(commandBus, proposalapp.AcceptProposalCommand{}.Key(),
		commands.HandlerFunc[proposalapp.AcceptProposalCommand, *proposalapp.TransitionResult](decideHandler.HandleAccept))
	commands.RegisterHandler(commandBus, proposalapp.RejectProposalCommand{}.Key(),
		commands.HandlerFunc[proposalapp.RejectProposalCommand, *proposalapp.TransitionResult](decideHandler.HandleReject))
	commands.RegisterHandler(commandBus, proposalapp.CancelProposalCommand{}.Key(),
		commands.HandlerFunc[proposalapp.CancelProposalCommand, *proposalapp.TransitionResult](decideHandler.HandleCancel))

	reviewHandler := &proposalapp.ReviewHandler{
		UoWFactory: uowFactory,
		Clock:      clock,
		Outbox:     outboxStore,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, proposalapp.RequestApplicationCommand{}.Key(),
		commands.HandlerFunc[proposalapp.RequestApplicationCommand, *proposalapp.TransitionResult](reviewHandler.HandleRequestApplication))
	commands.RegisterHandler(commandBus, proposalapp.AdvanceToReviewCommand{}.Key(),
		commands.HandlerFunc[proposalapp.AdvanceToReviewCommand, *proposalapp.TransitionResult](reviewHandler.HandleAdvance))

	leaseHandler := &proposalapp.LeaseHandler{
		UoWFactory: uowFactory,
		Clock:      clock,
		Outbox:     outboxStore,
		Encoder:    encoder,
	}
	commands.RegisterHandler(commandBus, proposalapp.SendLeaseCommand{}.Key(),
		commands.HandlerFunc[proposalapp.SendLeaseCommand, *proposalapp.TransitionResult](leaseHandler.HandleSendLease))
	commands.RegisterHandler(commandBus, proposalapp.ConfirmPaymentCommand{}.Key(),
		commands.HandlerFunc[proposalapp.ConfirmPaymentCommand, *proposalapp.TransitionResult](leaseHandler.HandleConfirmPayment))

	queryBus := queries.NewInMemoryBus()
	getHandler := &proposalapp.GetProposalHandler{UoWFactory: uowFactory}
	queries.RegisterHandler(queryBus, proposalapp.GetProposalQuery{}.Key(), getHandler)
	listHandler := &proposalapp.ListProposalsHandler{UoWFactory: uowFactory}
	queries.RegisterHandler(queryBus, proposalapp.ListGuestProposalsQuery{}.Key(),
		queries.HandlerFunc[proposalapp.ListGuestProposalsQuery, *proposalapp.ListResult](listHandler.HandleByGuest))
	queries.RegisterHandler(queryBus, proposalapp.ListListingProposalsQuery{}.Key(),
		queries.HandlerFunc[proposalapp.ListListingProposalsQuery, *proposalapp.ListResult](listHandler.HandleByListing))
	quoteHandler := &pricingapp.QuoteScheduleHandler{UoWFactory: uowFactory}
	queries.RegisterHandler(queryBus, pricingapp.QuoteScheduleQuery{}.Key(), quoteHandler)

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Validation(),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus, middleware.QueryValidation())

	if cfg.UseKafka() {
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, nil, kafka.ApplicationEventsHandler{
			Commands: commandBusWithMiddleware,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		app.closers = append(app.closers, consumer.Close)
		topic := cfg.KafkaTopicPrefix + cfg.ApplicationTopic
		app.background = append(app.background, func(ctx context.Context) error {
			return consumer.Run(ctx, []string{topic})
		})
	}

	app.handlers = ginserver.Handlers{
		Proposal: ginserver.ProposalHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Pricing: ginserver.PricingHandler{
			Queries: queryBusWithMiddleware,
		},
		IdentityMiddleware: ginserver.IdentityMiddleware(),
	}
	return app, nil
}

func (a *application) loadListingFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("listing fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("listing fixtures file empty", "path", path)
		return nil
	}

	var fixtures []listingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now()
	for _, fx := range fixtures {
		currency := fx.Currency
		if currency == "" {
			currency = "USD"
		}
		params := listings.CreateParams{
			ID:        listings.ListingID(fx.ID),
			Host:      listings.HostID(fx.Host),
			Title:     fx.Title,
			City:      fx.City,
			Rules:     append([]string(nil), fx.HouseRules...),
			Baseline:  money.Money{Amount: fx.BaselineRateCents, Currency: currency},
			CreatedAt: now,
		}
		if len(fx.PerNights) > 0 {
			params.PerNights = make(map[int]money.Money, len(fx.PerNights))
			for nights, cents := range fx.PerNights {
				params.PerNights[nights] = money.Money{Amount: cents, Currency: currency}
			}
		}

		listing, err := listings.NewListing(params)
		if err != nil {
			logger.Error("fixture invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		if err := listing.Activate(now); err != nil {
			logger.Error("fixture activation failed", "listing_id", fx.ID, "error", err)
			continue
		}
		if err := a.listings.Save(ctx, listing); err != nil {
			logger.Error("cannot store fixture listing", "listing_id", fx.ID, "error", err)
			continue
		}
		logger.Info("listing fixture imported", "listing_id", listing.ID)
	}
	return nil
}

type listingFixture struct {
	ID                string        `json:"id"`
	Host              string        `json:"host"`
	Title             string        `json:"title"`
	City              string        `json:"city"`
	HouseRules        []string      `json:"house_rules"`
	Currency          string        `json:"currency"`
	BaselineRateCents int64         `json:"baseline_rate_cents"`
	PerNights         map[int]int64 `json:"per_nights"`
}

func defaultListingFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "listings.json"),
		filepath.Join("deploy", "data", "listings.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
