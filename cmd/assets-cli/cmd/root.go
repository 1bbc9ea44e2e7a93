// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "assets-cli" operates a local asset ledger.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yalhawaj/substrate/assets"
	"github.com/yalhawaj/substrate/freezer"
	"github.com/yalhawaj/substrate/pebble"
	"github.com/yalhawaj/substrate/refcount"
)

const databaseFolder = ".assets-cli"

var (
	ledger *assets.Ledger
	closer func() error

	actor   string
	verbose bool

	rootCmd = &cobra.Command{
		Use:          "assets-cli",
		Short:        "Asset ledger CLI",
		SuggestFor:   []string{"assets-cli", "assetscli"},
		SilenceUsage: true,
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().StringVar(
		&actor,
		"actor",
		"",
		"address performing the operation",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose,
		"verbose",
		false,
		"enable debug logging",
	)
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		if closer == nil {
			return nil
		}
		return closer()
	}
	rootCmd.AddCommand(
		createAssetCmd,
		destroyAssetCmd,
		assetInfoCmd,

		mintAssetCmd,
		burnAssetCmd,
		transferCmd,
		balanceCmd,

		approveCmd,
		cancelApprovalCmd,
		transferFromCmd,

		freezeCmd,
		thawCmd,
	)
}

func setup(*cobra.Command, []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}
	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	db, _, err := pebble.New(filepath.Join(workDir, databaseFolder), pebble.NewDefaultConfig())
	if err != nil {
		return err
	}
	closer = db.Close
	ledger, err = assets.New(
		db,
		freezer.New(log),
		refcount.New(),
		assets.NoopDepository{},
		assets.DefaultConfig(),
		log,
		nil,
	)
	if err != nil {
		_ = db.Close()
		return err
	}
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

func requireActor() (ids.ShortID, error) {
	if actor == "" {
		return ids.ShortEmpty, ErrMissingActor
	}
	return ids.ShortFromString(actor)
}

func outf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
