package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

func (d *Discord) handleInfo(s *discordgo.Session, i *discordgo.InteractionCreate) {
	d.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "Konikotaka",
		Description: "Community bot: snail races, pets, tags and more.",
		Color:       0x5865f2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Uptime", Value: time.Since(d.started).Round(time.Second).String(), Inline: true},
			{Name: "Servers", Value: fmt.Sprint(d.Guilds()), Inline: true},
			{Name: "Gateway", Value: fmt.Sprintf("%dms", d.Latency().Milliseconds()), Inline: true},
		},
	})
}

func (d *Discord) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	d.respond(s, i, fmt.Sprintf("Pong! %dms", d.Latency().Milliseconds()))
}
