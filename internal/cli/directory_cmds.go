package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/directory-client/internal/domain"
)

func newAdvertisersCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "advertisers",
		Aliases: []string{"adv"},
		Short:   "Browse the directory",
	}

	var category, city int64
	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search active advertisers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			list, err := a.API.SearchAdvertisers(cmd.Context(), domain.SearchFilter{
				Query:      strings.Join(args, " "),
				CategoryID: category,
				CityID:     city,
			})
			if err != nil {
				return err
			}
			return renderAdvertisers(a.Printer, list)
		},
	}
	search.Flags().Int64Var(&category, "category", 0, "category id")
	search.Flags().Int64Var(&city, "city", 0, "city id")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an advertiser profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0], "advertiser")
			if err != nil {
				return err
			}
			adv, err := a.API.GetAdvertiser(cmd.Context(), id)
			if err != nil {
				return err
			}

			a.Printer.Header(adv.BusinessName)
			if adv.Description != "" {
				a.Printer.Print("%s", adv.Description)
			}
			table := a.Printer.NewTable("FIELD", "VALUE")
			table.AddRow("category", adv.Category)
			table.AddRow("city", adv.City)
			table.AddRow("address", adv.Address)
			table.AddRow("phone", adv.Phone)
			table.AddRow("website", adv.Website)
			table.AddRow("rating", fmt.Sprintf("%.1f", adv.AverageRating))
			if err := table.Render(); err != nil {
				return err
			}

			if len(adv.Items) > 0 {
				a.Printer.Header("Items")
				items := a.Printer.NewTable("ID", "TITLE", "PRICE")
				for _, item := range adv.Items {
					items.AddRow(strconv.FormatInt(item.ID, 10), item.Title, fmt.Sprintf("%.2f", item.Price))
				}
				return items.Render()
			}
			return nil
		},
	}

	top := &cobra.Command{
		Use:   "top",
		Short: "List the newest advertisers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			list, err := a.API.TopAdvertisers(cmd.Context())
			if err != nil {
				return err
			}
			return renderAdvertisers(a.Printer, list)
		},
	}

	cmd.AddCommand(search, show, top)
	return cmd
}

func renderAdvertisers(p *Printer, list []domain.AdvertiserSummary) error {
	if len(list) == 0 {
		p.Info("No advertisers found")
		return nil
	}
	table := p.NewTable("ID", "NAME", "CATEGORY", "CITY", "RATING")
	for _, adv := range list {
		table.AddRow(
			strconv.FormatInt(adv.ID, 10),
			p.Bold(adv.BusinessName),
			adv.Category,
			adv.City,
			fmt.Sprintf("%.1f", adv.AverageRating),
		)
	}
	return table.Render()
}

func newReviewsCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and write advertiser reviews",
	}

	list := &cobra.Command{
		Use:   "list <advertiser>",
		Short: "List reviews of an advertiser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			id, err := parseID(args[0], "advertiser")
			if err != nil {
				return err
			}
			reviews, err := a.API.ListReviews(cmd.Context(), id)
			if err != nil {
				return err
			}
			if len(reviews) == 0 {
				a.Printer.Info("No reviews yet")
				return nil
			}
			table := a.Printer.NewTable("RATING", "BY", "COMMENT")
			for _, r := range reviews {
				table.AddRow(strings.Repeat("*", r.Rating), r.UserName, r.Comment)
			}
			return table.Render()
		},
	}

	var rating int
	var comment string
	add := &cobra.Command{
		Use:   "add <advertiser>",
		Short: "Review an advertiser (consumers only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleConsumer); err != nil {
				return err
			}
			id, err := parseID(args[0], "advertiser")
			if err != nil {
				return err
			}
			if err := a.API.CreateReview(cmd.Context(), id, rating, comment); err != nil {
				return err
			}
			a.Printer.Success("Review posted")
			return nil
		},
	}
	add.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	add.Flags().StringVar(&comment, "comment", "", "review text")
	_ = add.MarkFlagRequired("rating")
	_ = add.MarkFlagRequired("comment")

	cmd.AddCommand(list, add)
	return cmd
}

func newFavoritesCmd(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favourite advertisers (consumers only)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List favourites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.requireRole(domain.RoleConsumer); err != nil {
				return err
			}
			favs, err := a.API.ListFavorites(cmd.Context())
			if err != nil {
				return err
			}
			return renderAdvertisers(a.Printer, favs)
		},
	}

	check := &cobra.Command{
		Use:   "check <advertiser>",
		Short: "Tell whether an advertiser is a favourite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleConsumer); err != nil {
				return err
			}
			id, err := parseID(args[0], "advertiser")
			if err != nil {
				return err
			}
			fav, err := a.API.IsFavorite(cmd.Context(), id)
			if err != nil {
				return err
			}
			if fav {
				a.Printer.Print("yes")
			} else {
				a.Printer.Print("no")
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <advertiser>",
		Short: "Add a favourite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleConsumer); err != nil {
				return err
			}
			id, err := parseID(args[0], "advertiser")
			if err != nil {
				return err
			}
			if err := a.API.AddFavorite(cmd.Context(), id); err != nil {
				return err
			}
			a.Printer.Success("Added advertiser %d to favourites", id)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "remove <advertiser>",
		Aliases: []string{"rm"},
		Short:   "Remove a favourite",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.requireRole(domain.RoleConsumer); err != nil {
				return err
			}
			id, err := parseID(args[0], "advertiser")
			if err != nil {
				return err
			}
			if err := a.API.RemoveFavorite(cmd.Context(), id); err != nil {
				return err
			}
			a.Printer.Success("Removed advertiser %d from favourites", id)
			return nil
		},
	}

	cmd.AddCommand(list, check, add, remove)
	return cmd
}
