package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/fetch"
	"pkg.twizy.sh/konikotaka/internal/race"
)

// Canned replies per the error policy: internal detail never reaches chat.
const (
	msgStorageError  = "Something went wrong on my end, try again later."
	msgUpstreamError = "That service is not responding right now, try again later."
)

// commandDefinitions is the static slash-command registry.
func commandDefinitions() []*discordgo.ApplicationCommand {
	minDelay := float64(race.MinDelay / time.Second)
	maxDelay := float64(race.MaxDelay / time.Second)
	banPerm := int64(discordgo.PermissionBanMembers)
	kickPerm := int64(discordgo.PermissionKickMembers)

	waifuChoices := make([]*discordgo.ApplicationCommandOptionChoice, len(fetch.WaifuCategories))
	for i, cat := range fetch.WaifuCategories {
		waifuChoices[i] = &discordgo.ApplicationCommandOptionChoice{Name: cat, Value: cat}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "race",
			Description: "Snail racing",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a snail race",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "delay",
							Description: "Seconds before the race starts (5-30)",
							MinValue:    &minDelay,
							MaxValue:    maxDelay,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel the race being recruited",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show the fastest snails of this server",
				},
			},
		},
		{
			Name:        "pet",
			Description: "Your virtual pet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "adopt",
					Description: "Adopt a pet",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Name of your new pet",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "feed",
					Description: "Feed your pet some treats",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "play",
					Description: "Play with your pet",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "treat",
					Description: "Add a treat to your stash",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Check on your pet",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "The happiest pets",
				},
			},
		},
		{
			Name:        "tag",
			Description: "Server tags",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "get",
					Description: "Recall a tag",
					Options:     []*discordgo.ApplicationCommandOption{tagNameOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Create a tag",
					Options: []*discordgo.ApplicationCommandOption{
						tagNameOption(),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "content",
							Description: "What the tag says",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit a tag you own",
					Options: []*discordgo.ApplicationCommandOption{
						tagNameOption(),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "content",
							Description: "The new content",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a tag you own",
					Options:     []*discordgo.ApplicationCommandOption{tagNameOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "transfer",
					Description: "Give a tag you own to someone else",
					Options: []*discordgo.ApplicationCommandOption{
						tagNameOption(),
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The new owner",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show a tag's usage",
					Options:     []*discordgo.ApplicationCommandOption{tagNameOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "all",
					Description: "List every tag of this server",
				},
			},
		},
		{
			Name:        "word",
			Description: "Tracked word counters",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "track",
					Description: "Start counting a word",
					Options:     []*discordgo.ApplicationCommandOption{wordOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "untrack",
					Description: "Stop counting a word",
					Options:     []*discordgo.ApplicationCommandOption{wordOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Show every tracked word",
				},
			},
		},
		{
			Name:        "rank",
			Description: "Show your level and XP",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Someone else's rank",
				},
			},
		},
		{
			Name:        "levels",
			Description: "The server's XP leaderboard",
		},
		{
			Name:                     "ban",
			Description:              "Ban a member",
			DefaultMemberPermissions: &banPerm,
			Options:                  modTargetOptions(),
		},
		{
			Name:                     "softban",
			Description:              "Ban and immediately unban a member, deleting their recent messages",
			DefaultMemberPermissions: &banPerm,
			Options:                  modTargetOptions(),
		},
		{
			Name:                     "kick",
			Description:              "Kick a member",
			DefaultMemberPermissions: &kickPerm,
			Options:                  modTargetOptions(),
		},
		{
			Name:        "amimod",
			Description: "Check whether you count as a moderator",
		},
		{
			Name:        "meme",
			Description: "Get a random meme",
		},
		{
			Name:        "waifu",
			Description: "Get a random waifu image",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "category",
					Description: "Image category",
					Required:    true,
					Choices:     waifuChoices,
				},
			},
		},
		{
			Name:        "cat",
			Description: "Get a random cat image",
		},
		{
			Name:        "cosmo",
			Description: "Get a random photo of Cosmo the cat",
		},
		{
			Name:        "chat",
			Description: "Ask the model something",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "What to ask",
					Required:    true,
				},
			},
		},
		{
			Name:        "imagine",
			Description: "Generate an image from a prompt",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "What to draw",
					Required:    true,
				},
			},
		},
		{
			Name:        "stream",
			Description: "Check whether the stream is live",
		},
		{
			Name:        "palworld",
			Description: "Palworld server administration",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "info",
					Description: "Server version banner",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "save",
					Description: "Force a world save",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "online",
					Description: "List connected players",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "announce",
					Description: "Broadcast a message in game",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "What to broadcast",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "kick",
					Description: "Kick a player",
					Options:     []*discordgo.ApplicationCommandOption{steamIDOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "ban",
					Description: "Ban a player",
					Options:     []*discordgo.ApplicationCommandOption{steamIDOption()},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "shutdown",
					Description: "Schedule a server shutdown",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "seconds",
							Description: "Delay before shutdown",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "Message announced until then",
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "info",
			Description: "About the bot",
		},
		{
			Name:        "ping",
			Description: "The bot's latency",
		},
	}
}

func tagNameOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "name",
		Description: "Name of the tag",
		Required:    true,
	}
}

func wordOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "word",
		Description: "The word",
		Required:    true,
	}
}

func steamIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "steamid",
		Description: "Steam ID of the player",
		Required:    true,
	}
}

func modTargetOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "The member",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the action",
		},
	}
}

func (d *Discord) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		d.dispatchCommand(s, i)
	case discordgo.InteractionMessageComponent:
		d.dispatchComponent(s, i)
	}
}

func (d *Discord) dispatchCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	d.sugar.Debugf("Dispatching command %s in guild %s.", data.Name, i.GuildID)

	switch data.Name {
	case "race":
		d.handleRace(s, i, data)
	case "pet":
		d.handlePet(s, i, data)
	case "tag":
		d.handleTag(s, i, data)
	case "word":
		d.handleWord(s, i, data)
	case "rank":
		d.handleRank(s, i, data)
	case "levels":
		d.handleLevels(s, i)
	case "ban", "softban", "kick":
		d.handleModeration(s, i, data)
	case "amimod":
		d.handleAmIMod(s, i)
	case "meme", "waifu", "cat", "cosmo":
		d.handleImage(s, i, data)
	case "chat":
		d.handleChat(s, i, data)
	case "imagine":
		d.handleImagine(s, i, data)
	case "stream":
		d.handleStream(s, i)
	case "palworld":
		d.handlePalworld(s, i, data)
	case "info":
		d.handleInfo(s, i)
	case "ping":
		d.handlePing(s, i)
	default:
		d.sugar.Warnf("Unknown command %s.", data.Name)
	}
}

func (d *Discord) dispatchComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.MessageComponentData().CustomID {
	case raceJoinID:
		d.handleRaceJoin(s, i)
	case raceLeaveID:
		d.handleRaceLeave(s, i)
	}
}

// subcommand splits a grouped command's data into name and options.
func subcommand(data discordgo.ApplicationCommandInteractionData) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	if len(data.Options) == 0 {
		return "", nil
	}
	return data.Options[0].Name, data.Options[0].Options
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (d *Discord) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		d.sugar.Errorf("Failed to respond to interaction: %s.", err)
	}
}

func (d *Discord) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		d.sugar.Errorf("Failed to respond to interaction: %s.", err)
	}
}

func (d *Discord) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
	if err != nil {
		d.sugar.Errorf("Failed to respond to interaction: %s.", err)
	}
}

// deferResponse acknowledges the interaction so a slow upstream call can
// finish past the 3 second window; the reply then goes through followUp.
func (d *Discord) deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		d.sugar.Errorf("Failed to defer interaction: %s.", err)
		return false
	}
	return true
}

func (d *Discord) followUp(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
		d.sugar.Errorf("Failed to send follow-up: %s.", err)
	}
}

func (d *Discord) followUpEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		d.sugar.Errorf("Failed to send follow-up: %s.", err)
	}
}
