package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/util"
)

func (d *Discord) onReady(_ *discordgo.Session, e *discordgo.Ready) {
	d.sugar.Infof("Logged in Discord API as %s.", e.User)
}

func (d *Discord) onMessageCreate(s *discordgo.Session, e *discordgo.MessageCreate) {
	if e.Author == nil || e.Author.Bot || e.GuildID == "" {
		return
	}
	if d.config.ignoreRegexp != nil && d.config.ignoreRegexp.MatchString(e.Content) {
		return
	}

	guildID, err := util.ParseSnowflake(e.GuildID)
	if err != nil {
		return
	}
	if !d.allowedGuild(guildID) {
		return
	}

	authorID, err := util.ParseSnowflake(e.Author.ID)
	if err != nil {
		return
	}

	joined := time.Now()
	if e.Member != nil && !e.Member.JoinedAt.IsZero() {
		joined = e.Member.JoinedAt
	}

	levelledUp, newLevel, err := d.svc.Levels.OnMessage(d.ctx, guildID, authorID, e.Author.Username, joined)
	if err != nil {
		d.sugar.Errorf("Failed to award XP to %s: %s.", e.Author.ID, err)
	} else if levelledUp {
		msg := fmt.Sprintf("%s leveled up to level %d! 🎉", e.Author.Mention(), newLevel)
		if _, err := s.ChannelMessageSend(e.ChannelID, msg); err != nil {
			d.sugar.Errorf("Failed to announce level up: %s.", err)
		}
	}

	if _, err := d.svc.Words.Scan(d.ctx, e.Content); err != nil {
		d.sugar.Errorf("Failed to scan message for tracked words: %s.", err)
	}
}

func (d *Discord) onGuildMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.User == nil || e.User.Bot {
		return
	}

	guildID, err := util.ParseSnowflake(e.GuildID)
	if err != nil || !d.allowedGuild(guildID) {
		return
	}
	userID, err := util.ParseSnowflake(e.User.ID)
	if err != nil {
		return
	}

	joined := e.JoinedAt
	if joined.IsZero() {
		joined = time.Now()
	}
	if err := d.svc.Levels.OnMemberJoin(d.ctx, guildID, userID, e.User.Username, joined); err != nil {
		d.sugar.Errorf("Failed to seed member %s: %s.", e.User.ID, err)
	}
}
