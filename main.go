package main

import (
	"HereToHelp/bot"
	"HereToHelp/impl/core"
	"HereToHelp/internal/config"
	database "HereToHelp/internal/database"
	"HereToHelp/internal/http-server/api"
	"HereToHelp/internal/lib/logger"
	"HereToHelp/internal/lib/sl"
	"HereToHelp/internal/render"
	"HereToHelp/internal/service/auth"
	"HereToHelp/internal/service/notify"
	"HereToHelp/internal/service/submission"
	"HereToHelp/internal/ws"
	"HereToHelp/wizard/workflow"
	"HereToHelp/wizard/workflows/support"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// errors also go to the ops chat when telegram is enabled
	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			go tgBot.Start(ctx)
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting heretohelp", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	supportWorkflow, err := support.NewSupportWorkflow(support.Options{
		LocalArea:   conf.Wizard.LocalArea,
		MappingPath: conf.Wizard.MappingPath,
	})
	if err != nil {
		lg.Error("support workflow", sl.Err(err))
		os.Exit(1)
	}
	engine := workflow.NewWorkflowEngine(lg)
	if err = engine.RegisterWorkflow(supportWorkflow); err != nil {
		lg.Error("register workflow", sl.Err(err))
		os.Exit(1)
	}

	renderer, err := render.New(lg)
	if err != nil {
		lg.Error("templates", sl.Err(err))
		os.Exit(1)
	}

	handler := core.New(lg)
	if err = handler.SetWorkflow(engine, support.WorkflowID); err != nil {
		lg.Error("set workflow", sl.Err(err))
		os.Exit(1)
	}
	handler.SetRenderer(renderer)
	handler.SetGlobal("GA_UA", conf.GaUA)
	handler.SetGlobal("addresses_api_url", conf.AddressesApi.Url)
	handler.SetGlobal("addresses_api_key", conf.AddressesApi.ApiKey)

	handler.SetSubmissionService(submission.NewSubmissionService(conf, lg))
	lg.With(
		slog.String("url", conf.SupportApi.Url),
		sl.Secret("api_key", conf.SupportApi.ApiKey),
	).Info("submission service initialized")

	if conf.Notify.SendEmails {
		notifyService, err := notify.NewNotifyService(conf, lg)
		if err != nil {
			lg.Error("notify service", sl.Err(err))
		} else {
			handler.SetNotifyService(notifyService)
			lg.With(
				slog.String("template_id", conf.Notify.TemplateId),
				sl.Secret("api_key", conf.Notify.ApiKey),
			).Info("notify service initialized")
		}
	}

	handler.SetAuthService(auth.NewAuthService(conf, lg))

	hub := ws.NewHub(lg)
	go hub.Run(ctx)
	handler.SetBroadcaster(hub)

	db, err := database.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil && conf.Outbox.Enabled {
		handler.SetRepository(db)
		handler.SetOutboxOptions(core.OutboxOptions{
			Interval:    conf.Outbox.Interval,
			MaxAttempts: conf.Outbox.MaxAttempts,
			Workers:     conf.Outbox.Workers,
		})
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	handler.Init(ctx)

	// *** blocking start with http server ***
	err = api.New(ctx, conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}
