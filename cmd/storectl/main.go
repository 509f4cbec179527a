package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imrishuroy/trynex-storefront/internal/config"
	"github.com/imrishuroy/trynex-storefront/internal/store"
)

var Version = "dev"

// openStore is replaced in tests. The returned func releases the store.
var openStore = func() (*store.Store, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return st, func() { _ = st.Close() }, nil
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Operate the storefront database",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(promoCmd())
	root.AddCommand(orderCodeCmd())
	root.AddCommand(exportCmd())

	return root
}
