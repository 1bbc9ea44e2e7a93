// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"
)

var (
	freezeCmd = &cobra.Command{
		Use:   "freeze [assetID] [who]",
		Short: "Blocks transfers out of an account (actor must be the asset's freezer)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  freezeFunc,
	}

	thawCmd = &cobra.Command{
		Use:   "thaw [assetID] [who]",
		Short: "Allows transfers out of an account again (actor must be the asset's admin)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  thawFunc,
	}
)

func freezeFunc(cmd *cobra.Command, args []string) error {
	return setFrozen(args, true)
}

func thawFunc(cmd *cobra.Command, args []string) error {
	return setFrozen(args, false)
}

// With one argument the whole asset class is (un)frozen; with two, a single
// account.
func setFrozen(args []string, frozen bool) error {
	who, err := requireActor()
	if err != nil {
		return err
	}
	asset, err := ids.FromString(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()
	if len(args) == 1 {
		if frozen {
			err = ledger.FreezeAsset(ctx, asset, who)
		} else {
			err = ledger.ThawAsset(ctx, asset, who)
		}
	} else {
		var target ids.ShortID
		target, err = ids.ShortFromString(args[1])
		if err != nil {
			return err
		}
		if frozen {
			err = ledger.Freeze(ctx, asset, who, target)
		} else {
			err = ledger.Thaw(ctx, asset, who, target)
		}
	}
	if err != nil {
		return err
	}
	outf("done")
	return nil
}
