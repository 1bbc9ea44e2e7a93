// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"strconv"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"
)

var (
	keepAlive bool

	mintAssetCmd = &cobra.Command{
		Use:   "mint-asset [assetID] [to] [amount]",
		Short: "Mints new supply to an account",
		Args:  cobra.ExactArgs(3),
		RunE:  mintAssetFunc,
	}

	burnAssetCmd = &cobra.Command{
		Use:   "burn-asset [assetID] [from] [amount]",
		Short: "Burns up to the given amount from an account",
		Args:  cobra.ExactArgs(3),
		RunE:  burnAssetFunc,
	}

	transferCmd = &cobra.Command{
		Use:   "transfer [assetID] [to] [amount]",
		Short: "Moves funds from the actor to another account",
		Args:  cobra.ExactArgs(3),
		RunE:  transferFunc,
	}

	balanceCmd = &cobra.Command{
		Use:   "balance [assetID] [holder]",
		Short: "Prints the balance of an account",
		Args:  cobra.ExactArgs(2),
		RunE:  balanceFunc,
	}
)

func init() {
	transferCmd.Flags().BoolVar(
		&keepAlive,
		"keep-alive",
		false,
		"fail rather than let the transfer kill the source account",
	)
}

func parseOp(args []string) (asset ids.ID, who ids.ShortID, amount uint64, err error) {
	if asset, err = ids.FromString(args[0]); err != nil {
		return
	}
	if who, err = ids.ShortFromString(args[1]); err != nil {
		return
	}
	amount, err = strconv.ParseUint(args[2], 10, 64)
	return
}

func mintAssetFunc(cmd *cobra.Command, args []string) error {
	issuer, err := requireActor()
	if err != nil {
		return err
	}
	asset, to, amount, err := parseOp(args)
	if err != nil {
		return err
	}
	if err := ledger.Mint(context.Background(), asset, issuer, to, amount); err != nil {
		return err
	}
	outf("minted %d to %s", amount, to)
	return nil
}

func burnAssetFunc(cmd *cobra.Command, args []string) error {
	admin, err := requireActor()
	if err != nil {
		return err
	}
	asset, from, amount, err := parseOp(args)
	if err != nil {
		return err
	}
	burned, err := ledger.Burn(context.Background(), asset, admin, from, amount)
	if err != nil {
		return err
	}
	outf("burned %d from %s", burned, from)
	return nil
}

func transferFunc(cmd *cobra.Command, args []string) error {
	source, err := requireActor()
	if err != nil {
		return err
	}
	asset, to, amount, err := parseOp(args)
	if err != nil {
		return err
	}
	ctx := context.Background()
	var moved uint64
	if keepAlive {
		moved, err = ledger.TransferKeepAlive(ctx, asset, source, to, amount)
	} else {
		moved, err = ledger.Transfer(ctx, asset, source, to, amount)
	}
	if err != nil {
		return err
	}
	outf("transferred %d to %s", moved, to)
	return nil
}

func balanceFunc(cmd *cobra.Command, args []string) error {
	asset, err := ids.FromString(args[0])
	if err != nil {
		return err
	}
	holder, err := ids.ShortFromString(args[1])
	if err != nil {
		return err
	}
	balance, err := ledger.Balance(context.Background(), asset, holder)
	if err != nil {
		return err
	}
	outf("balance: %d", balance)
	return nil
}
