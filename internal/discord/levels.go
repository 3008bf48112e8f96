package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/levels"
	"pkg.twizy.sh/konikotaka/internal/util"
)

func (d *Discord) handleRank(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	guildID, callerID, err := interactionIDs(i)
	if err != nil {
		return
	}

	targetID := callerID
	if o, ok := optionMap(data.Options)["user"]; ok {
		if targetID, err = util.ParseSnowflake(o.UserValue(nil).ID); err != nil {
			return
		}
	}

	u, err := d.svc.Levels.Rank(d.ctx, guildID, targetID)
	switch {
	case err == nil:
		d.respondEmbed(s, i, &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Level %d", u.Level),
			Description: fmt.Sprintf("<@%d> has %d/%d XP towards the next level.",
				u.DiscordID, u.XP, levels.XPNeeded(u.Level)),
			Color: 0x3498db,
		})
	case errors.Is(err, levels.ErrUnranked):
		d.respondEphemeral(s, i, "No XP earned here yet. Say something first!")
	default:
		d.sugar.Errorf("Rank command failed: %s.", err)
		d.respondEphemeral(s, i, msgStorageError)
	}
}

func (d *Discord) handleLevels(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, err := util.ParseSnowflake(i.GuildID)
	if err != nil {
		return
	}

	top, err := d.svc.Levels.Leaderboard(d.ctx, guildID, 10)
	if err != nil {
		d.sugar.Errorf("Levels command failed: %s.", err)
		d.respondEphemeral(s, i, msgStorageError)
		return
	}
	if len(top) == 0 {
		d.respond(s, i, "Nobody has earned XP here yet.")
		return
	}

	var b strings.Builder
	for n, u := range top {
		fmt.Fprintf(&b, "%d. <@%d>: level %d, %d XP\n", n+1, u.DiscordID, u.Level, u.XP)
	}
	d.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "📈 XP leaderboard",
		Description: b.String(),
		Color:       0x3498db,
	})
}
