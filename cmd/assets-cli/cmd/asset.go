// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var (
	minBalance uint64
	sufficient bool

	createAssetCmd = &cobra.Command{
		Use:   "create-asset [name]",
		Short: "Creates a new asset class named after its argument",
		Args:  cobra.ExactArgs(1),
		RunE:  createAssetFunc,
	}

	destroyAssetCmd = &cobra.Command{
		Use:   "destroy-asset [assetID]",
		Short: "Destroys an asset class and all of its accounts",
		Args:  cobra.ExactArgs(1),
		RunE:  destroyAssetFunc,
	}

	assetInfoCmd = &cobra.Command{
		Use:   "asset-info [assetID]",
		Short: "Prints the stored record of an asset",
		Args:  cobra.ExactArgs(1),
		RunE:  assetInfoFunc,
	}
)

func init() {
	createAssetCmd.Flags().Uint64Var(
		&minBalance,
		"min-balance",
		1,
		"smallest balance an account may hold",
	)
	createAssetCmd.Flags().BoolVar(
		&sufficient,
		"sufficient",
		true,
		"let balances of this asset keep accounts alive on their own",
	)
}

// assetID derives a stable asset identifier from a human-readable name.
func assetID(name string) ids.ID {
	return hashing.ComputeHash256Array([]byte(name))
}

func createAssetFunc(cmd *cobra.Command, args []string) error {
	owner, err := requireActor()
	if err != nil {
		return err
	}
	asset := assetID(args[0])
	if err := ledger.ForceCreate(
		context.Background(),
		asset,
		owner,
		sufficient,
		minBalance,
	); err != nil {
		return err
	}
	outf("created %s: %s", args[0], asset)
	return nil
}

func destroyAssetFunc(cmd *cobra.Command, args []string) error {
	owner, err := requireActor()
	if err != nil {
		return err
	}
	asset, err := ids.FromString(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()
	record, exists, err := ledger.Asset(ctx, asset)
	if err != nil {
		return err
	}
	if !exists {
		outf("%s does not exist", asset)
		return nil
	}
	prompt := promptui.Prompt{
		Label: "destroy asset and all accounts [y/n]",
		Validate: func(input string) error {
			lower := strings.ToLower(input)
			if lower != "y" && lower != "n" {
				return ErrInvalidArgs
			}
			return nil
		},
	}
	answer, err := prompt.Run()
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		return ErrAborted
	}
	if err := ledger.Destroy(ctx, asset, record.Witness(), &owner); err != nil {
		return err
	}
	outf("destroyed %s", asset)
	return nil
}

func assetInfoFunc(cmd *cobra.Command, args []string) error {
	asset, err := ids.FromString(args[0])
	if err != nil {
		return err
	}
	record, exists, err := ledger.Asset(context.Background(), asset)
	if err != nil {
		return err
	}
	if !exists {
		outf("%s does not exist", asset)
		return nil
	}
	outf("owner: %s", record.Owner)
	outf("issuer: %s admin: %s freezer: %s", record.Issuer, record.Admin, record.Freezer)
	outf("supply: %d minBalance: %d", record.Supply, record.MinBalance)
	outf("accounts: %d sufficients: %d approvals: %d", record.Accounts, record.Sufficients, record.Approvals)
	outf("sufficient: %t frozen: %t", record.IsSufficient, record.IsFrozen)
	return nil
}
