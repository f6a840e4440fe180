package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zosconnect/orchestrate"
	"github.com/zosconnect/orchestrate/internal/server"
)

// Ports the single-variant commands listen on when none is configured
const (
	ContactPort = 50001
	OrderPort   = 50002
	ClaimPort   = 50003
	ServePort   = 8080
	StubPort    = 9080
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   orchestrate.Name,
		Short: "Orchestrates calls to z/OS REST services",
		Long: `Orchestrate exposes small HTTP endpoints that call one or more ` +
			`upstream REST services in sequence and combine their JSON ` +
			`responses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "",
		"YAML configuration file (environment variables take precedence)")
	root.PersistentFlags().IntP("port", "p", 0,
		"Port to listen on (overrides API_PORT)")

	root.AddCommand(
		newVariantCmd("contact",
			"Serve the phonebook and postal code lookup",
			ContactPort, server.VariantContact),
		newVariantCmd("order",
			"Serve the catalog order flow",
			OrderPort, server.VariantOrder),
		newVariantCmd("claim",
			"Serve the insurance claim rule",
			ClaimPort, server.VariantClaim),
		newVariantCmd("serve",
			"Serve every variant on one port",
			ServePort, server.AllVariants()...),
		newStubCmd(),
		newVersionCmd(),
	)
	return root
}

func newVariantCmd(
	use, short string, defaultPort int, variants ...server.Variant,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a := newApp(cfg, defaultPort, variants)
			return a.run(cmd.Context())
		},
	}
}

func newStubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stub",
		Short: "Serve simulated z/OS Connect APIs with sample data",
		Long: `Stub answers the phonebook, catalog, order log, and postal ` +
			`code APIs from in-memory sample data, so the other commands ` +
			`can run without a mainframe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return newApp(cfg, StubPort, nil).runStub()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of " + orchestrate.Name,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n",
				orchestrate.Name, orchestrate.Version)
		},
	}
}
