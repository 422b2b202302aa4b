// Command goaspic loads an ASPIC+ theory document and runs one
// evaluation against it, printing the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arg-tech/goaspic/internal/config"
	"github.com/arg-tech/goaspic/pkg/aspic"
	"github.com/arg-tech/goaspic/pkg/aspic/extclient"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, semantics, query string

	cmd := &cobra.Command{
		Use:   "goaspic <theory.yaml>",
		Short: "Evaluate an ASPIC+ argumentation theory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], configPath, semantics, query)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "optional engine config file (YAML)")
	cmd.Flags().StringVar(&semantics, "semantics", "grounded", "Dung semantics to request (grounded, preferred, stable, complete)")
	cmd.Flags().StringVar(&query, "query", "", "optional conclusion to filter acceptable conclusions by")

	return cmd
}

func run(cmd *cobra.Command, theoryPath, configPath, semantics, query string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	doc, err := aspic.LoadDocument(theoryPath)
	if err != nil {
		return err
	}

	theory, extCfg, err := aspic.BuildTheory(doc)
	if err != nil {
		return err
	}

	url := cfg.ExtensionServiceURL
	if extCfg.URL != "" {
		url = extCfg.URL
	}
	timeout := cfg.ExtensionServiceTimeout
	if extCfg.Timeout > 0 {
		timeout = extCfg.Timeout
	}
	client := extclient.NewHTTPClient(url, timeout)

	var queryFormula *aspic.Formula
	if query != "" {
		queryFormula, err = aspic.ParseFormula(query)
		if err != nil {
			return err
		}
	}

	result, err := theory.Evaluate(context.Background(), client, url, semantics, queryFormula)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
