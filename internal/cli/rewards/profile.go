package rewards

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/bobarewards/internal/cli"
	"github.com/julianstephens/bobarewards/internal/points"
)

type ProfileCmd struct {
	Show ProfileShowCmd `cmd:"" help:"Show the profile." default:"1"`
	Set  ProfileSetCmd  `cmd:"" help:"Update profile details."`
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.Store.GetProfile(ctx.Context())
	if err != nil {
		return err
	}

	stats := points.ComputeStats(profile.Balance)
	fmt.Printf("%s %s\n", points.LevelEmoji(profile.Level), profile.Name)
	if profile.Email != "" {
		fmt.Printf("  Email:     %s\n", profile.Email)
	}
	fmt.Printf("  Level:     %s\n", profile.Level)
	fmt.Printf("  Balance:   %s pts\n", humanize.Comma(int64(profile.Balance)))
	fmt.Printf("  Joined:    %s\n", humanize.RelTime(profile.JoinedAt, time.Now(), "ago", "from now"))
	if len(profile.Favorites) > 0 {
		fmt.Printf("  Favorites: %s\n", strings.Join(profile.Favorites, ", "))
	}
	fmt.Printf("  Drinks %d · Friends %d · Reviews %d · Events %d\n",
		stats.DrinksOrdered, stats.Friends, stats.Reviews, stats.Events)
	return nil
}

// ProfileSetCmd edits descriptive fields only. The balance changes through awards.
type ProfileSetCmd struct {
	Name      *string  `help:"Display name."`
	Email     *string  `help:"Email address."`
	Favorites []string `help:"Favorite drinks (comma separated)." sep:","`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.Store.GetProfile(ctx.Context())
	if err != nil {
		return err
	}

	updated := false
	if c.Name != nil {
		if strings.TrimSpace(*c.Name) == "" {
			return fmt.Errorf("name cannot be empty")
		}
		profile.Name = *c.Name
		updated = true
	}
	if c.Email != nil {
		profile.Email = *c.Email
		updated = true
	}
	if c.Favorites != nil {
		profile.Favorites = c.Favorites
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --name, --email or --favorites.")
		return nil
	}
	if err := ctx.Store.SaveProfile(ctx.Context(), profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	fmt.Println("Profile updated successfully.")
	return nil
}
