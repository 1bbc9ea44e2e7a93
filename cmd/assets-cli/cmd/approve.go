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
	approveCmd = &cobra.Command{
		Use:   "approve [assetID] [delegate] [amount]",
		Short: "Grants a delegate an allowance over the actor's funds",
		Args:  cobra.ExactArgs(3),
		RunE:  approveFunc,
	}

	cancelApprovalCmd = &cobra.Command{
		Use:   "cancel-approval [assetID] [delegate]",
		Short: "Revokes the actor's allowance to a delegate",
		Args:  cobra.ExactArgs(2),
		RunE:  cancelApprovalFunc,
	}

	transferFromCmd = &cobra.Command{
		Use:   "transfer-from [assetID] [owner] [to] [amount]",
		Short: "Spends an allowance granted to the actor",
		Args:  cobra.ExactArgs(4),
		RunE:  transferFromFunc,
	}
)

func approveFunc(cmd *cobra.Command, args []string) error {
	owner, err := requireActor()
	if err != nil {
		return err
	}
	asset, delegate, amount, err := parseOp(args)
	if err != nil {
		return err
	}
	if err := ledger.ApproveTransfer(context.Background(), asset, owner, delegate, amount); err != nil {
		return err
	}
	outf("approved %d for %s", amount, delegate)
	return nil
}

func cancelApprovalFunc(cmd *cobra.Command, args []string) error {
	owner, err := requireActor()
	if err != nil {
		return err
	}
	asset, err := ids.FromString(args[0])
	if err != nil {
		return err
	}
	delegate, err := ids.ShortFromString(args[1])
	if err != nil {
		return err
	}
	if err := ledger.CancelApproval(context.Background(), asset, owner, delegate); err != nil {
		return err
	}
	outf("cancelled approval for %s", delegate)
	return nil
}

func transferFromFunc(cmd *cobra.Command, args []string) error {
	delegate, err := requireActor()
	if err != nil {
		return err
	}
	asset, err := ids.FromString(args[0])
	if err != nil {
		return err
	}
	owner, err := ids.ShortFromString(args[1])
	if err != nil {
		return err
	}
	to, err := ids.ShortFromString(args[2])
	if err != nil {
		return err
	}
	amount, err := strconv.ParseUint(args[3], 10, 64)
	if err != nil {
		return err
	}
	moved, err := ledger.TransferApproved(context.Background(), asset, owner, delegate, to, amount)
	if err != nil {
		return err
	}
	outf("transferred %d from %s to %s", moved, owner, to)
	return nil
}
