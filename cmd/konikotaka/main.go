package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"pkg.twizy.sh/konikotaka/internal/api"
	"pkg.twizy.sh/konikotaka/internal/config"
	"pkg.twizy.sh/konikotaka/internal/discord"
	"pkg.twizy.sh/konikotaka/internal/fetch"
	"pkg.twizy.sh/konikotaka/internal/levels"
	"pkg.twizy.sh/konikotaka/internal/openai"
	"pkg.twizy.sh/konikotaka/internal/pets"
	"pkg.twizy.sh/konikotaka/internal/race"
	"pkg.twizy.sh/konikotaka/internal/rcon"
	"pkg.twizy.sh/konikotaka/internal/storage"
	"pkg.twizy.sh/konikotaka/internal/tags"
	"pkg.twizy.sh/konikotaka/internal/twitch"
	"pkg.twizy.sh/konikotaka/internal/words"
)

type app struct {
	ctx    context.Context
	cancel context.CancelFunc

	logConf zap.Config
	logger  *zap.Logger

	config *config.Config

	storage *storage.Storage
	repo    *storage.Repository
	words   *words.Service
	pets    *pets.Service
	discord *discord.Discord
	api     *api.API
}

func newApp(ctx context.Context, lcf zap.Config, log *zap.Logger) (*app, error) {
	ctx, cancel := context.WithCancel(ctx)
	a := &app{ctx: ctx, cancel: cancel, logConf: lcf, logger: log}
	var err error

	log.Debug("Loading configuration.")
	a.config, err = config.Read()
	if err != nil {
		return nil, fmt.Errorf("couldn't load configuration: %w", err)
	}

	log.Debug("Successfully loaded configuration (also switching log level.)")
	lcf.Level.SetLevel(a.config.Logging.Level)

	log.Debug("Initializing Storage struct.")
	a.storage = storage.NewStorage(ctx, log)
	a.repo = storage.NewRepository(a.storage)

	sugar := log.Sugar()
	a.pets = pets.NewService(sugar, a.repo)
	a.words = words.NewService(sugar, a.repo)

	svc := &discord.Services{
		Races:  race.NewManager(sugar, a.repo),
		Pets:   a.pets,
		Tags:   tags.NewService(a.repo),
		Levels: levels.NewService(a.repo),
		Words:  a.words,
		Fetch:  fetch.NewClient(),
		Twitch: twitch.NewClient(a.config.Twitch.ClientID, a.config.Twitch.ClientSecret),
		AI:     openai.NewClient(a.config.OpenAI.Gateway, a.config.OpenAI.Key, a.config.OpenAI.Model),
	}
	if a.config.Rcon.Host != "" {
		rc := a.config.Rcon
		svc.Rcon = func() (*rcon.Console, error) {
			return rcon.Dial(rc.Host, rc.Port, rc.Password)
		}
	}

	log.Debug("Initializing Discord struct.")
	dcf := discord.NewConfig(
		a.config.Discord.Guilds,
		a.config.Discord.Owner,
		a.config.Bot.IgnoreRegexp,
		a.config.Bot.Activities,
		a.config.Twitch.Streamer,
		a.config.Twitch.AnnounceChannel,
	)
	a.discord, err = discord.NewDiscord(ctx, log, "Bot "+a.config.Discord.Token, dcf, a.repo, svc)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize Discord struct: %w", err)
	}

	log.Debug("Initializing API struct.")
	a.api = api.NewAPI(ctx, sugar, a.discord, a.repo, api.NewConfig(a.config.Api.Port, a.config.Api.Key))

	return a, nil
}

func (a *app) Run() error {
	a.logger.Debug("Connecting to PostgreSQL storage.")
	if err := a.storage.Connect(a.config.Storage.PostgresDSN); err != nil {
		return fmt.Errorf("couldn't connect to storage: %s", err)
	}
	defer func() {
		a.logger.Debug("Closing PostgreSQL storage.")
		if err := a.storage.Close(); err != nil {
			a.logger.Sugar().Errorf("Couldn't close storage: %s.", err)
		}
	}()

	if err := a.words.Refresh(a.ctx); err != nil {
		a.logger.Sugar().Errorf("Couldn't warm the tracked word cache: %s.", err)
	}

	a.logger.Debug("Connecting to Discord API gateway.")
	if err := a.discord.Connect(); err != nil {
		return fmt.Errorf("couldn't connect to Discord: %s", err)
	}
	defer func() {
		a.logger.Debug("Closing connection with Discord API gateway.")
		if err := a.discord.Close(); err != nil {
			a.logger.Sugar().Errorf("Couldn't close Discord: %s.", err)
		}
	}()

	a.logger.Debug("Starting HTTP API.")
	a.api.Listen()
	defer func() {
		if err := a.api.Close(); err != nil {
			a.logger.Sugar().Errorf("Couldn't close API server: %s.", err)
		}
	}()

	a.logger.Debug("Starting background tasks.")
	tasks := a.config.Tasks
	go a.pets.RunDecay(a.ctx, tasks.DecayInterval)
	go a.pets.RunHappiness(a.ctx, tasks.HappinessInterval)
	go a.words.RunRefresh(a.ctx, tasks.WordRefreshInterval)
	a.discord.RunTasks(a.ctx, &discord.TaskConfig{
		HealthcheckURL:      tasks.HealthcheckURL,
		HealthcheckInterval: tasks.HealthcheckInterval,
		ActivityInterval:    tasks.ActivityInterval,
		PingInterval:        tasks.PingInterval,
		StreamInterval:      tasks.StreamInterval,
	})

	a.logger.Info("Launch complete. Send SIGINT to gracefully terminate.")
	<-a.ctx.Done()
	a.logger.Info("SIGINT received, terminating.")

	return a.ctx.Err()
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	lcf := zap.NewDevelopmentConfig() // to later switch level without reallocation
	lcf.Level.SetLevel(zapcore.DebugLevel)
	lcf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	lcf.DisableCaller = true
	log, _ := lcf.Build()

	log.Info("Initializing application.")
	a, err := newApp(ctx, lcf, log)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Sugar().Fatalf("Couldn't initialize application: %s.", err)
		}

		return
	}

	log.Debug("Initialization tasks complete, continuing with launch.")
	if err := a.Run(); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Sugar().Fatalf("Application crashed: %s.", err)
		}
	}
}
