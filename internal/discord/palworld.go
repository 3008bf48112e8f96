package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// handlePalworld relays the subcommand over the game server console. The
// connection is dialed lazily and dropped after a failed command so the
// next one reconnects.
func (d *Discord) handlePalworld(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if d.svc.Rcon == nil {
		d.respondEphemeral(s, i, "No game server is configured.")
		return
	}
	if !d.deferResponse(s, i) {
		return
	}

	sub, opts := subcommand(data)
	om := optionMap(opts)

	go func() {
		console, err := d.rcon()
		if err != nil {
			d.sugar.Errorf("Failed to reach game server console: %s.", err)
			d.followUp(s, i, "The game server is not reachable right now.")
			return
		}

		var reply string
		switch sub {
		case "info":
			reply, err = console.Info()
		case "save":
			if _, err = console.Save(); err == nil {
				reply = "World saved. 💾"
			}
		case "online":
			players, perr := console.Online()
			err = perr
			if err == nil {
				if len(players) == 0 {
					reply = "Nobody is on the server right now."
				} else {
					var b strings.Builder
					fmt.Fprintf(&b, "%d online:\n", len(players))
					for _, p := range players {
						fmt.Fprintf(&b, "- %s (Steam ID: %s)\n", p.Name, p.SteamID)
					}
					reply = b.String()
				}
			}
		case "announce":
			if _, err = console.Announce(om["message"].StringValue()); err == nil {
				reply = "Announced. 📣"
			}
		case "kick":
			if _, err = console.Kick(om["steamid"].StringValue()); err == nil {
				reply = "Player kicked."
			}
		case "ban":
			if _, err = console.Ban(om["steamid"].StringValue()); err == nil {
				reply = "Player banned."
			}
		case "shutdown":
			seconds := int(om["seconds"].IntValue())
			if _, err = console.Shutdown(seconds, om["message"].StringValue()); err == nil {
				reply = fmt.Sprintf("Server shuts down in %d seconds.", seconds)
			}
		}

		if err != nil {
			d.dropRcon()
			d.sugar.Errorf("Console command %s failed: %s.", sub, err)
			d.followUp(s, i, "The game server did not answer, try again.")
			return
		}
		if reply == "" {
			reply = "Done."
		}
		d.followUp(s, i, reply)
	}()
}
