// Package discord is the command and event layer: it owns the gateway
// session, registers the slash commands and translates interactions into
// service calls.
package discord

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"pkg.twizy.sh/konikotaka/internal/fetch"
	"pkg.twizy.sh/konikotaka/internal/levels"
	"pkg.twizy.sh/konikotaka/internal/openai"
	"pkg.twizy.sh/konikotaka/internal/pets"
	"pkg.twizy.sh/konikotaka/internal/race"
	"pkg.twizy.sh/konikotaka/internal/rcon"
	"pkg.twizy.sh/konikotaka/internal/storage"
	"pkg.twizy.sh/konikotaka/internal/tags"
	"pkg.twizy.sh/konikotaka/internal/twitch"
	"pkg.twizy.sh/konikotaka/internal/util"
	"pkg.twizy.sh/konikotaka/internal/words"
)

type Config struct {
	guilds       *Int64Set
	owner        int64
	ignoreRegexp *regexp.Regexp
	activities   []string

	streamer        string
	announceChannel int64
}

func NewConfig(guilds []int64, owner int64, ignoreRegexp *regexp.Regexp, activities []string, streamer string, announceChannel int64) *Config {
	return &Config{
		guilds:          NewInt64Set(guilds),
		owner:           owner,
		ignoreRegexp:    ignoreRegexp,
		activities:      activities,
		streamer:        streamer,
		announceChannel: announceChannel,
	}
}

// Services bundles the domain services and upstream clients the handlers
// dispatch into. Rcon may be nil when no game server is configured.
type Services struct {
	Races  *race.Manager
	Pets   *pets.Service
	Tags   *tags.Service
	Levels *levels.Service
	Words  *words.Service

	Fetch  *fetch.Client
	Twitch *twitch.Client
	AI     *openai.Client
	Rcon   func() (*rcon.Console, error)
}

type Discord struct {
	ctx     context.Context
	logger  *zap.Logger
	sugar   *zap.SugaredLogger
	session *discordgo.Session
	config  *Config
	repo    *storage.Repository
	svc     *Services
	started time.Time

	rconMu  sync.Mutex
	console *rcon.Console

	raceMu      sync.Mutex
	raceCancels map[int64]context.CancelFunc
}

func NewDiscord(ctx context.Context, log *zap.Logger, auth string, config *Config, repo *storage.Repository, svc *Services) (*Discord, error) {
	s, err := discordgo.New(auth)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Discord{
		ctx:         ctx,
		logger:      log,
		sugar:       log.Sugar(),
		session:     s,
		config:      config,
		repo:        repo,
		svc:         svc,
		started:     time.Now(),
		raceCancels: make(map[int64]context.CancelFunc),
	}, nil
}

func (d *Discord) addHandlers() {
	d.session.AddHandlerOnce(d.onReady)
	d.session.AddHandler(d.onMessageCreate)
	d.session.AddHandler(d.onGuildMemberAdd)
	d.session.AddHandler(d.onInteractionCreate)
}

func (d *Discord) Connect() error {
	d.addHandlers()
	if err := d.session.Open(); err != nil {
		return err
	}
	return d.registerCommands()
}

// registerCommands replaces each allowed guild's command set with exactly
// the static registry.
func (d *Discord) registerCommands() error {
	defs := commandDefinitions()
	for _, guildID := range d.config.guilds.Values() {
		if _, err := d.session.ApplicationCommandBulkOverwrite(d.session.State.User.ID, util.FormatSnowflake(guildID), defs); err != nil {
			return err
		}
		d.sugar.Infof("Registered %d commands in guild %d.", len(defs), guildID)
	}
	return nil
}

func (d *Discord) Close() error {
	d.rconMu.Lock()
	if d.console != nil {
		_ = d.console.Close()
		d.console = nil
	}
	d.rconMu.Unlock()
	return d.session.Close()
}

// allowedGuild reports whether events from the guild are handled. An empty
// allow-list admits every guild.
func (d *Discord) allowedGuild(guildID int64) bool {
	return d.config.guilds.Len() == 0 || d.config.guilds.Contains(guildID)
}

// Connected implements the status surface of the HTTP API.
func (d *Discord) Connected() bool {
	return d.session.DataReady
}

func (d *Discord) Latency() time.Duration {
	return d.session.HeartbeatLatency()
}

func (d *Discord) Guilds() int {
	return len(d.session.State.Guilds)
}

// rcon returns the persistent console connection, dialing on first use and
// after a broken connection was dropped.
func (d *Discord) rcon() (*rcon.Console, error) {
	d.rconMu.Lock()
	defer d.rconMu.Unlock()

	if d.console != nil {
		return d.console, nil
	}

	c, err := d.svc.Rcon()
	if err != nil {
		return nil, err
	}
	d.console = c
	return c, nil
}

func (d *Discord) setRaceCancel(guildID int64, cancel context.CancelFunc) {
	d.raceMu.Lock()
	defer d.raceMu.Unlock()
	d.raceCancels[guildID] = cancel
}

func (d *Discord) clearRaceCancel(guildID int64) {
	d.raceMu.Lock()
	defer d.raceMu.Unlock()
	delete(d.raceCancels, guildID)
}

// takeRaceCancel removes and returns the guild's cancel hook, nil when no
// race is active.
func (d *Discord) takeRaceCancel(guildID int64) context.CancelFunc {
	d.raceMu.Lock()
	defer d.raceMu.Unlock()
	cancel := d.raceCancels[guildID]
	delete(d.raceCancels, guildID)
	return cancel
}

// dropRcon discards the console so the next command re-dials.
func (d *Discord) dropRcon() {
	d.rconMu.Lock()
	defer d.rconMu.Unlock()
	if d.console != nil {
		_ = d.console.Close()
		d.console = nil
	}
}
