package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/trynex-storefront/internal/export"
	"github.com/imrishuroy/trynex-storefront/internal/fallback"
	"github.com/imrishuroy/trynex-storefront/internal/orders"
	"github.com/imrishuroy/trynex-storefront/internal/promos"
	"github.com/imrishuroy/trynex-storefront/internal/storefront"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the storefront tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, release, err := openStore()
			if err != nil {
				return err
			}
			defer release()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in catalog snapshot into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, release, err := openStore()
			if err != nil {
				return err
			}
			defer release()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			categories, products, promoList := fallback.Categories(), fallback.Products(), fallback.Promos(time.Now())
			if err := st.Seed(cmd.Context(), categories, products, promoList); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d products, %d promos\n",
				len(categories), len(products), len(promoList))
			return nil
		},
	}
}

func promoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promo",
		Short: "Inspect promo codes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [code]",
		Short: "Report whether a promo code can be applied now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, release, err := openStore()
			if err != nil {
				return err
			}
			defer release()

			// same path as the public API, fallback included
			svc := storefront.NewService(st, fallback.New(), nil)
			code := promos.Canonical(args[0])
			promo, err := svc.PromoByCode(cmd.Context(), code)
			if err != nil {
				promo = nil
			}
			if err := promos.Validate(promo, time.Now()); err != nil {
				return fmt.Errorf("%s: %s", code, promos.Message(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: applicable (%s %s)\n", promo.Code, promo.Discount.String(), promo.DiscountType)
			if promo.UsageLimit != nil {
				fmt.Fprintf(out, "usage: %d/%d\n", promo.UsageCount, *promo.UsageLimit)
			}
			if promo.ExpiresAt != nil {
				fmt.Fprintf(out, "expires: %s\n", promo.ExpiresAt.UTC().Format(time.RFC3339))
			}
			return nil
		},
	})
	return cmd
}

func orderCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order-code",
		Short: "Print a sample business order code",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, _ := cmd.Flags().GetString("prefix")
			date, _ := cmd.Flags().GetString("date")
			at := time.Now()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				at = parsed
			}
			fmt.Fprintln(cmd.OutOrStdout(), orders.NewCodeGenerator(prefix).Generate(at))
			return nil
		},
	}
	cmd.Flags().String("prefix", "TXR", "Order code prefix")
	cmd.Flags().String("date", "", "Creation date (YYYY-MM-DD), defaults to today")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the product catalog to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("out")
			st, release, err := openStore()
			if err != nil {
				return err
			}
			defer release()

			products, err := st.AllProducts(cmd.Context())
			if err != nil {
				return err
			}
			categories, err := st.Categories(cmd.Context())
			if err != nil {
				return err
			}
			names := make(map[uint]string, len(categories))
			for _, c := range categories {
				names[c.ID] = c.Name
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := export.WriteProducts(f, products, names); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d products to %s\n", len(products), path)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "products.xlsx", "Output file")
	return cmd
}
