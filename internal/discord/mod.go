package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// handleModeration relays ban, softban and kick to the Discord API.
// Discord itself enforces the permission gate on the command.
func (d *Discord) handleModeration(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	om := optionMap(data.Options)
	target := om["user"].UserValue(nil)

	reason := ""
	if o, ok := om["reason"]; ok {
		reason = o.StringValue()
	}

	var err error
	var done string
	switch data.Name {
	case "ban":
		err = s.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 0)
		done = fmt.Sprintf("🔨 Banned <@%s>.", target.ID)
	case "softban":
		// ban with a day of message deletion, then lift it
		if err = s.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 1); err == nil {
			err = s.GuildBanDelete(i.GuildID, target.ID)
		}
		done = fmt.Sprintf("🧹 Softbanned <@%s>, their last day of messages is gone.", target.ID)
	case "kick":
		err = s.GuildMemberDeleteWithReason(i.GuildID, target.ID, reason)
		done = fmt.Sprintf("👢 Kicked <@%s>.", target.ID)
	}

	if err != nil {
		d.sugar.Errorf("Moderation %s failed: %s.", data.Name, err)
		d.respondEphemeral(s, i, "I could not do that. Check my role and permissions.")
		return
	}
	d.respond(s, i, done)
}

func (d *Discord) handleAmIMod(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		return
	}

	const modPerms = discordgo.PermissionBanMembers | discordgo.PermissionKickMembers
	if i.Member.Permissions&int64(modPerms) != 0 {
		d.respondEphemeral(s, i, "Yes, you are a mod here. 👮")
		return
	}
	d.respondEphemeral(s, i, "No, you are not a mod here.")
}
