package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finopsia/finopsia/internal/currency"
	"github.com/finopsia/finopsia/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage account metadata",
	}

	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsListCmd())

	return cmd
}

func accountsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update an account",
		RunE:  runAccountsAdd,
	}

	cmd.Flags().String("id", "", "account id (required)")
	cmd.Flags().String("currency", "", "currency code, e.g. USD (required)")
	cmd.Flags().String("starting-balance", "0", "balance before the first transaction, in display units")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE:  runAccountsList,
	}
}

func runAccountsAdd(cmd *cobra.Command, _ []string) error {
	accountID, _ := cmd.Flags().GetString("id")
	code, _ := cmd.Flags().GetString("currency")
	balanceStr, _ := cmd.Flags().GetString("starting-balance")

	displayBalance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return fmt.Errorf("invalid starting balance %q: %w", balanceStr, err)
	}

	converter := currency.NewConverter()
	startingBalance, err := converter.ToSmallestUnit(displayBalance, code)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	account := &model.Account{
		AccountID:       accountID,
		Currency:        code,
		StartingBalance: startingBalance,
	}
	if err := store.UpsertAccount(ctx, account); err != nil {
		return err
	}

	slog.Info("Account saved",
		"account_id", accountID,
		"currency", code,
		"starting_balance", startingBalance)

	return nil
}

func runAccountsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		return err
	}

	converter := currency.NewConverter()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tCURRENCY\tSTARTING BALANCE")
	for i := range accounts {
		display, convErr := converter.FromSmallestUnit(accounts[i].StartingBalance, accounts[i].Currency)
		if convErr != nil {
			return convErr
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", accounts[i].AccountID, accounts[i].Currency, display)
	}

	return w.Flush()
}
