package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/race"
	"pkg.twizy.sh/konikotaka/internal/util"
)

const (
	raceJoinID  = "race_join"
	raceLeaveID = "race_leave"

	defaultRaceDelay = 10 * time.Second
)

func (d *Discord) handleRace(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	sub, opts := subcommand(data)
	switch sub {
	case "start":
		d.handleRaceStart(s, i, opts)
	case "cancel":
		d.handleRaceCancel(s, i)
	case "leaderboard":
		d.handleRaceBoard(s, i)
	}
}

func (d *Discord) handleRaceStart(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	guildID, err := util.ParseSnowflake(i.GuildID)
	if err != nil {
		return
	}

	delay := defaultRaceDelay
	if o, ok := optionMap(opts)["delay"]; ok {
		delay = time.Duration(o.IntValue()) * time.Second
	}

	if _, err := d.svc.Races.Start(guildID, delay); err != nil {
		switch {
		case errors.Is(err, race.ErrRaceInProgress):
			d.respondEphemeral(s, i, "A race is already running, wait for it to finish.")
		case errors.Is(err, race.ErrBadDelay):
			d.respondEphemeral(s, i, "The delay has to be between 5 and 30 seconds.")
		default:
			d.respondEphemeral(s, i, msgStorageError)
		}
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🐌 A snail race is starting!",
		Description: fmt.Sprintf("Grab a snail below. The race starts in %d seconds.", int(delay/time.Second)),
		Color:       0x2ecc71,
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Join",
						Style:    discordgo.SuccessButton,
						CustomID: raceJoinID,
						Emoji:    &discordgo.ComponentEmoji{Name: "🐌"},
					},
					discordgo.Button{
						Label:    "Leave",
						Style:    discordgo.SecondaryButton,
						CustomID: raceLeaveID,
					},
				}},
			},
		},
	})
	if err != nil {
		d.sugar.Errorf("Failed to open race recruiting: %s.", err)
		d.svc.Races.Cancel(guildID)
		return
	}

	ctx, cancel := context.WithCancel(d.ctx)
	d.setRaceCancel(guildID, cancel)
	go d.runRace(ctx, s, guildID, i.ChannelID, delay)
}

// runRace waits out the recruiting window, then drives the simulation and
// narrates it by editing a single progress message.
func (d *Discord) runRace(ctx context.Context, s *discordgo.Session, guildID int64, channelID string, delay time.Duration) {
	defer d.clearRaceCancel(guildID)

	select {
	case <-ctx.Done():
		d.svc.Races.Cancel(guildID)
		return
	case <-time.After(delay):
	}

	botID := util.MustParseSnowflake(s.State.User.ID)
	msg, err := s.ChannelMessageSend(channelID, "🏁 And they're off!")
	if err != nil {
		d.sugar.Errorf("Failed to open race channel message: %s.", err)
		d.svc.Races.Cancel(guildID)
		return
	}

	render := func(positions []race.Position) {
		if _, err := s.ChannelMessageEdit(channelID, msg.ID, renderTrack(positions, botID)); err != nil {
			d.sugar.Errorf("Failed to render race tick: %s.", err)
		}
	}

	res, err := d.svc.Races.Run(ctx, guildID, botID, render)
	if err != nil {
		if _, err := s.ChannelMessageEdit(channelID, msg.ID, "The race was called off."); err != nil {
			d.sugar.Errorf("Failed to render race cancellation: %s.", err)
		}
		return
	}

	var final string
	switch {
	case res.Cancelled:
		final = "Nobody showed up, the race is cancelled. 🐌💨"
	case res.BotWon:
		final = fmt.Sprintf("My snail wins after %d ticks! Better luck next time. 🤖🏆", res.Ticks)
	default:
		final = fmt.Sprintf("<@%d>'s snail wins after %d ticks! 🏆", res.Winner, res.Ticks)
	}
	if _, err := s.ChannelMessageEdit(channelID, msg.ID, final); err != nil {
		d.sugar.Errorf("Failed to render race result: %s.", err)
	}
}

// renderTrack draws each snail's lane, ten steps to the flag.
func renderTrack(positions []race.Position, botID int64) string {
	var b strings.Builder
	b.WriteString("🏁 Snail race!\n")
	for _, p := range positions {
		steps := p.Steps
		if steps > race.FinishLine {
			steps = race.FinishLine
		}
		b.WriteString("`|")
		b.WriteString(strings.Repeat("~", steps))
		b.WriteString("🐌")
		b.WriteString(strings.Repeat("·", race.FinishLine-steps))
		b.WriteString("|` ")
		if p.UserID == botID {
			b.WriteString("the house snail")
		} else {
			fmt.Fprintf(&b, "<@%d>", p.UserID)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (d *Discord) handleRaceCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := util.ParseSnowflake(i.GuildID)
	if err != nil {
		return
	}

	if cancel := d.takeRaceCancel(guildID); cancel != nil {
		cancel()
		d.respond(s, i, "Race cancelled.")
		return
	}
	d.respondEphemeral(s, i, "There is no race to cancel.")
}

func (d *Discord) handleRaceJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		return
	}

	switch err := d.svc.Races.Join(guildID, userID); {
	case err == nil:
		d.respondEphemeral(s, i, "Your snail is at the starting line! 🐌")
	case errors.Is(err, race.ErrAlreadyJoined):
		d.respondEphemeral(s, i, "You already joined this race.")
	case errors.Is(err, race.ErrRaceClosed):
		d.respondEphemeral(s, i, "Too late, the race has already started.")
	case errors.Is(err, race.ErrNoRace):
		d.respondEphemeral(s, i, "There is no race recruiting right now.")
	default:
		d.respondEphemeral(s, i, msgStorageError)
	}
}

func (d *Discord) handleRaceLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := interactionIDs(i)
	if err != nil {
		return
	}

	switch err := d.svc.Races.Leave(guildID, userID); {
	case err == nil:
		d.respondEphemeral(s, i, "Your snail went home.")
	case errors.Is(err, race.ErrNotJoined):
		d.respondEphemeral(s, i, "You were not in this race.")
	case errors.Is(err, race.ErrRaceClosed):
		d.respondEphemeral(s, i, "Too late, the race has already started.")
	case errors.Is(err, race.ErrNoRace):
		d.respondEphemeral(s, i, "There is no race recruiting right now.")
	default:
		d.respondEphemeral(s, i, msgStorageError)
	}
}

func (d *Discord) handleRaceBoard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := util.ParseSnowflake(i.GuildID)
	if err != nil {
		return
	}

	racers, err := d.repo.TopRacers(d.ctx, guildID, 10)
	if err != nil {
		d.sugar.Errorf("Failed to load race leaderboard: %s.", err)
		d.respondEphemeral(s, i, msgStorageError)
		return
	}
	if len(racers) == 0 {
		d.respond(s, i, "No races have been won here yet.")
		return
	}

	var b strings.Builder
	for n, r := range racers {
		fmt.Fprintf(&b, "%d. <@%d>: %d wins, %d points\n", n+1, r.DiscordID, r.Wins, r.Points)
	}
	d.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🏆 Fastest snails",
		Description: b.String(),
		Color:       0xf1c40f,
	})
}

// interactionIDs parses the guild and invoking user of a guild interaction.
func interactionIDs(i *discordgo.InteractionCreate) (guildID, userID int64, err error) {
	if i.Member == nil || i.Member.User == nil {
		return 0, 0, errors.New("not a guild interaction")
	}
	if guildID, err = util.ParseSnowflake(i.GuildID); err != nil {
		return 0, 0, err
	}
	if userID, err = util.ParseSnowflake(i.Member.User.ID); err != nil {
		return 0, 0, err
	}
	return guildID, userID, nil
}
