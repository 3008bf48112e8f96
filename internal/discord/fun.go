package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/fetch"
	"pkg.twizy.sh/konikotaka/internal/openai"
	"pkg.twizy.sh/konikotaka/internal/twitch"
)

// handleImage serves the image commands. The upstream call can be slow, so
// the interaction is deferred first.
func (d *Discord) handleImage(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !d.deferResponse(s, i) {
		return
	}

	go func() {
		var url string
		var err error
		switch data.Name {
		case "meme":
			url, err = d.svc.Fetch.Meme(d.ctx)
		case "waifu":
			url, err = d.svc.Fetch.Waifu(d.ctx, optionMap(data.Options)["category"].StringValue())
		case "cat":
			url, err = d.svc.Fetch.Cat(d.ctx)
		case "cosmo":
			url, err = d.svc.Fetch.Cosmo(d.ctx)
		}

		if err != nil {
			if errors.Is(err, fetch.ErrBadCategory) {
				d.followUp(s, i, "I don't know that category.")
				return
			}
			d.sugar.Errorf("Image command %s failed: %s.", data.Name, err)
			d.followUp(s, i, msgUpstreamError)
			return
		}
		d.followUp(s, i, url)
	}()
}

func (d *Discord) handleChat(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	prompt := optionMap(data.Options)["prompt"].StringValue()
	if !d.deferResponse(s, i) {
		return
	}

	go func() {
		answer, err := d.svc.AI.Chat(d.ctx, prompt)
		if err != nil {
			d.sugar.Errorf("Chat command failed: %s.", err)
			d.followUp(s, i, msgUpstreamError)
			return
		}
		if len(answer) > 2000 {
			answer = answer[:2000]
		}
		d.followUp(s, i, answer)
	}()
}

func (d *Discord) handleImagine(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	prompt := optionMap(data.Options)["prompt"].StringValue()
	if !d.deferResponse(s, i) {
		return
	}

	go func() {
		url, err := d.svc.AI.Imagine(d.ctx, prompt)
		if err != nil {
			if errors.Is(err, openai.ErrEmptyResponse) {
				d.followUp(s, i, "The model came back empty handed, try another prompt.")
				return
			}
			d.sugar.Errorf("Imagine command failed: %s.", err)
			d.followUp(s, i, msgUpstreamError)
			return
		}
		d.followUp(s, i, url)
	}()
}

func (d *Discord) handleStream(s *discordgo.Session, i *discordgo.InteractionCreate) {
	streamer := d.config.streamer
	if streamer == "" {
		d.respondEphemeral(s, i, "No streamer is configured.")
		return
	}
	if !d.deferResponse(s, i) {
		return
	}

	go func() {
		stream, err := d.svc.Twitch.LookupStream(d.ctx, streamer)
		if err != nil {
			d.sugar.Errorf("Stream lookup failed: %s.", err)
			d.followUp(s, i, msgUpstreamError)
			return
		}
		if !stream.Live {
			d.followUp(s, i, fmt.Sprintf("%s is not live right now.", streamer))
			return
		}

		d.followUpEmbed(s, i, liveEmbed(streamer, stream))
	}()
}

func liveEmbed(streamer string, stream *twitch.Stream) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       stream.Title,
		URL:         "https://twitch.tv/" + streamer,
		Description: fmt.Sprintf("Playing %s", stream.GameName),
		Color:       0x6441a5,
	}
	if stream.ThumbnailURL != "" {
		url := strings.ReplaceAll(stream.ThumbnailURL, "{width}", "1920")
		url = strings.ReplaceAll(url, "{height}", "1080")
		embed.Image = &discordgo.MessageEmbedImage{URL: url}
	}
	return embed
}
