package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/tags"
	"pkg.twizy.sh/konikotaka/internal/util"
)

func (d *Discord) handleTag(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	guildID, callerID, err := interactionIDs(i)
	if err != nil {
		return
	}

	sub, opts := subcommand(data)
	om := optionMap(opts)

	switch sub {
	case "get":
		tag, suggestions, err := d.svc.Tags.Get(d.ctx, guildID, om["name"].StringValue())
		switch {
		case err == nil:
			d.respond(s, i, tag.Content)
		case errors.Is(err, tags.ErrNotFound):
			d.respondEphemeral(s, i, tagMissReply(suggestions))
		default:
			d.tagError(s, i, err)
		}

	case "add":
		err := d.svc.Tags.Add(d.ctx, guildID, callerID, om["name"].StringValue(), om["content"].StringValue())
		switch {
		case err == nil:
			d.respond(s, i, "Tag created.")
		case errors.Is(err, tags.ErrExists):
			d.respondEphemeral(s, i, "A tag with that name already exists.")
		default:
			d.tagError(s, i, err)
		}

	case "edit":
		if err := d.svc.Tags.Edit(d.ctx, guildID, callerID, om["name"].StringValue(), om["content"].StringValue()); err != nil {
			d.tagError(s, i, err)
			return
		}
		d.respond(s, i, "Tag updated.")

	case "delete":
		if err := d.svc.Tags.Delete(d.ctx, guildID, callerID, om["name"].StringValue()); err != nil {
			d.tagError(s, i, err)
			return
		}
		d.respond(s, i, "Tag deleted.")

	case "transfer":
		newOwnerID, err := util.ParseSnowflake(om["user"].UserValue(nil).ID)
		if err != nil {
			return
		}
		if err := d.svc.Tags.Transfer(d.ctx, guildID, callerID, newOwnerID, om["name"].StringValue()); err != nil {
			d.tagError(s, i, err)
			return
		}
		d.respond(s, i, fmt.Sprintf("Tag handed over to <@%d>.", newOwnerID))

	case "stats":
		tag, suggestions, err := d.svc.Tags.Stats(d.ctx, guildID, om["name"].StringValue())
		switch {
		case err == nil:
			d.respondEmbed(s, i, &discordgo.MessageEmbed{
				Title: fmt.Sprintf("Tag: %s", tag.Name),
				Color: 0x3498db,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Owner", Value: fmt.Sprintf("<@%d>", tag.DiscordID), Inline: true},
					{Name: "Used", Value: fmt.Sprintf("%d times", tag.Called), Inline: true},
					{Name: "Created", Value: fmt.Sprintf("<t:%d:D>", tag.DateAdded.Unix()), Inline: true},
				},
			})
		case errors.Is(err, tags.ErrNotFound):
			d.respondEphemeral(s, i, tagMissReply(suggestions))
		default:
			d.tagError(s, i, err)
		}

	case "all":
		all, err := d.svc.Tags.All(d.ctx, guildID)
		if err != nil {
			d.tagError(s, i, err)
			return
		}
		if len(all) == 0 {
			d.respond(s, i, "This server has no tags yet.")
			return
		}

		names := make([]string, len(all))
		for n, t := range all {
			names[n] = t.Name
		}
		d.respondEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "All tags",
			Description: strings.Join(names, ", "),
			Color:       0x3498db,
		})
	}
}

func tagMissReply(suggestions []string) string {
	if len(suggestions) == 0 {
		return "No such tag."
	}
	return "No such tag. Did you mean: " + strings.Join(suggestions, ", ") + "?"
}

func (d *Discord) tagError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, tags.ErrNotFound):
		d.respondEphemeral(s, i, "No such tag.")
	case errors.Is(err, tags.ErrNotOwner):
		d.respondEphemeral(s, i, "Only the tag's owner can do that.")
	case errors.Is(err, tags.ErrEmptyName), errors.Is(err, tags.ErrNameTooLong):
		d.respondEphemeral(s, i, "Tag names are 1 to 255 characters.")
	case errors.Is(err, tags.ErrContentTooLong):
		d.respondEphemeral(s, i, "Tag content is 2000 characters at most.")
	case errors.Is(err, tags.ErrReservedName):
		d.respondEphemeral(s, i, "That name is reserved.")
	default:
		d.sugar.Errorf("Tag command failed: %s.", err)
		d.respondEphemeral(s, i, msgStorageError)
	}
}
