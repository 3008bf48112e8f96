package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"pkg.twizy.sh/konikotaka/internal/pets"
	"pkg.twizy.sh/konikotaka/internal/storage/model"
	"pkg.twizy.sh/konikotaka/internal/util"
)

func (d *Discord) handlePet(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if i.Member == nil || i.Member.User == nil {
		return
	}
	ownerID, err := util.ParseSnowflake(i.Member.User.ID)
	if err != nil {
		return
	}

	sub, opts := subcommand(data)
	switch sub {
	case "adopt":
		name := optionMap(opts)["name"].StringValue()
		pet, err := d.svc.Pets.Create(d.ctx, ownerID, name)
		switch {
		case err == nil:
			d.respond(s, i, fmt.Sprintf("🎉 You adopted %s! Keep them fed and happy.", pet.PetName))
		case errors.Is(err, pets.ErrPetExists):
			d.respondEphemeral(s, i, "You already have a pet.")
		case errors.Is(err, pets.ErrNameTooLong):
			d.respondEphemeral(s, i, "Pet names are 1 to 50 characters.")
		default:
			d.petError(s, i, err)
		}

	case "feed":
		treats, err := d.svc.Pets.Feed(d.ctx, ownerID)
		switch {
		case err == nil:
			d.respond(s, i, fmt.Sprintf("🍖 Dinner time took %d treats. Your pet is fuller now.", treats))
		case errors.Is(err, pets.ErrNotEnoughTreats):
			d.respondEphemeral(s, i, fmt.Sprintf("Dinner would take %d treats and you don't have that many. Use /pet treat to stock up.", treats))
		default:
			d.petError(s, i, err)
		}

	case "play":
		if err := d.svc.Pets.Play(d.ctx, ownerID); err != nil {
			d.petError(s, i, err)
			return
		}
		d.respond(s, i, "🎾 Your pet had a great time playing!")

	case "treat":
		if err := d.svc.Pets.Treat(d.ctx, ownerID); err != nil {
			d.petError(s, i, err)
			return
		}
		d.respond(s, i, "🍪 One more treat in the stash.")

	case "stats":
		pet, err := d.svc.Pets.Stats(d.ctx, ownerID)
		if err != nil {
			d.petError(s, i, err)
			return
		}
		d.respondEmbed(s, i, petEmbed(pet))

	case "leaderboard":
		all, err := d.svc.Pets.Leaderboard(d.ctx)
		if err != nil {
			d.petError(s, i, err)
			return
		}
		if len(all) == 0 {
			d.respond(s, i, "Nobody has adopted a pet yet.")
			return
		}

		var b strings.Builder
		for n, p := range all {
			if n == 10 {
				break
			}
			fmt.Fprintf(&b, "%d. %s (<@%d>): %d happiness, %d hunger\n", n+1, p.PetName, p.DiscordID, p.Happiness, p.Hunger)
		}
		d.respondEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "🏅 Happiest pets",
			Description: b.String(),
			Color:       0xe67e22,
		})
	}
}

func (d *Discord) petError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if errors.Is(err, pets.ErrNoPet) {
		d.respondEphemeral(s, i, "You don't have a pet yet. Use /pet adopt first.")
		return
	}
	d.sugar.Errorf("Pet command failed: %s.", err)
	d.respondEphemeral(s, i, msgStorageError)
}

func petEmbed(p *model.Pet) *discordgo.MessageEmbed {
	lastFed := "never"
	if !p.LastFed.IsZero() {
		lastFed = fmt.Sprintf("<t:%d:R>", p.LastFed.Unix())
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🐾 %s", p.PetName),
		Color: 0x9b59b6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Hunger", Value: fmt.Sprintf("%d/%d", p.Hunger, model.PetStatMax), Inline: true},
			{Name: "Happiness", Value: fmt.Sprintf("%d/%d", p.Happiness, model.PetStatMax), Inline: true},
			{Name: "Treats", Value: fmt.Sprint(p.TreatCount), Inline: true},
			{Name: "Last fed", Value: lastFed, Inline: true},
		},
	}
}
