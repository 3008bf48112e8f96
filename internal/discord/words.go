package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/util"
	"pkg.twizy.sh/konikotaka/internal/words"
)

func (d *Discord) handleWord(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if i.Member == nil || i.Member.User == nil {
		return
	}
	callerID, err := util.ParseSnowflake(i.Member.User.ID)
	if err != nil {
		return
	}

	sub, opts := subcommand(data)
	switch sub {
	case "track":
		word := optionMap(opts)["word"].StringValue()
		switch err := d.svc.Words.Track(d.ctx, word, callerID); {
		case err == nil:
			d.respond(s, i, fmt.Sprintf("Now counting %q.", strings.ToLower(strings.TrimSpace(word))))
		case errors.Is(err, words.ErrAlreadyTracked):
			d.respondEphemeral(s, i, "That word is already being counted.")
		case errors.Is(err, words.ErrBadWord):
			d.respondEphemeral(s, i, "Words are 1 to 255 characters.")
		default:
			d.sugar.Errorf("Word command failed: %s.", err)
			d.respondEphemeral(s, i, msgStorageError)
		}

	case "untrack":
		word := optionMap(opts)["word"].StringValue()
		switch err := d.svc.Words.Untrack(d.ctx, word); {
		case err == nil:
			d.respond(s, i, "Stopped counting that word.")
		case errors.Is(err, words.ErrNotTracked):
			d.respondEphemeral(s, i, "That word is not being counted.")
		default:
			d.sugar.Errorf("Word command failed: %s.", err)
			d.respondEphemeral(s, i, msgStorageError)
		}

	case "list":
		all, err := d.svc.Words.All(d.ctx)
		if err != nil {
			d.sugar.Errorf("Word command failed: %s.", err)
			d.respondEphemeral(s, i, msgStorageError)
			return
		}
		if len(all) == 0 {
			d.respond(s, i, "No words are being counted.")
			return
		}

		var b strings.Builder
		for _, w := range all {
			fmt.Fprintf(&b, "%s: %d\n", w.Word, w.Count)
		}
		d.respondEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "Tracked words",
			Description: b.String(),
			Color:       0x1abc9c,
		})
	}
}
