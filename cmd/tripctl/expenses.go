package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func parseExpenseID(s string) (domain.ExpenseID, error) {
	id, err := domain.ParseExpenseID(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expense id %q", s)
	}
	return id, nil
}

func expensesCmd(cl *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"exp"},
		Short:   "Track spending against trips",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cl.open(cmd.Context()); err != nil {
				return err
			}
			return cl.requireLogin()
		},
	}
	cmd.AddCommand(expensesListCmd(cl))
	cmd.AddCommand(expensesAddCmd(cl))
	cmd.AddCommand(expensesUpdateCmd(cl))
	cmd.AddCommand(expensesDeleteCmd(cl))
	cmd.AddCommand(expensesAnalyzeCmd(cl))
	return cmd
}

func expensesListCmd(cl *cli) *cobra.Command {
	var (
		trip        string
		skip, limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, optionally of one trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var params plannerapi.ExpenseListParams
			params.Skip, params.Limit = paging(cmd, cl, skip, limit)
			if trip != "" {
				id, err := parseTripID(trip)
				if err != nil {
					return err
				}
				params.TripID = &id
			}
			list, err := cl.client.Expenses.FetchAll(cmd.Context(), params)
			if err != nil {
				return err
			}
			if cl.jsonOut {
				return cl.emitJSON(cmd.OutOrStdout(), list)
			}
			printExpenses(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVar(&trip, "trip", "", "Only expenses of this trip")
	pagingFlags(cmd, &skip, &limit)
	return cmd
}

func (c *cli) showExpense(cmd *cobra.Command, e domain.Expense) error {
	if c.jsonOut {
		return c.emitJSON(cmd.OutOrStdout(), e)
	}
	printExpenses(cmd.OutOrStdout(), []domain.Expense{e})
	return nil
}

func expensesAddCmd(cl *cli) *cobra.Command {
	var (
		trip, category, currency string
		description, method      string
		notes, date              string
		amount                   float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			req := plannerapi.ExpenseCreate{
				Category: strings.TrimSpace(category),
				Amount:   amount,
			}
			var err error
			if req.ExpenseDate, err = parseDate("date", date); err != nil {
				return err
			}
			if trip != "" {
				id, err := parseTripID(trip)
				if err != nil {
					return err
				}
				req.TripID = &id
			}
			if f.Changed("currency") {
				req.Currency = &currency
			}
			if f.Changed("description") {
				req.Description = &description
			}
			if f.Changed("payment-method") {
				req.PaymentMethod = &method
			}
			if f.Changed("notes") {
				req.Notes = &notes
			}
			e, err := cl.client.Expenses.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return cl.showExpense(cmd, e)
		},
	}
	cmd.Flags().StringVar(&trip, "trip", "", "Trip the expense belongs to")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (transport, lodging, dining, ...)")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency code (server default when empty)")
	cmd.Flags().StringVar(&date, "date", "", "Expense date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&method, "payment-method", "", "Payment method")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	return cmd
}

func expensesUpdateCmd(cl *cli) *cobra.Command {
	var (
		trip, category, currency string
		description, method      string
		notes, date              string
		amount                   float64
		detach                   bool
	)
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseExpenseID(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var u plannerapi.ExpenseUpdate
			switch {
			case detach:
				u.TripID = plannerapi.Null[domain.TripID]()
			case f.Changed("trip"):
				tid, err := parseTripID(trip)
				if err != nil {
					return err
				}
				u.TripID = plannerapi.Some(tid)
			}
			if f.Changed("category") {
				u.Category = plannerapi.Some(strings.TrimSpace(category))
			}
			if f.Changed("amount") {
				u.Amount = plannerapi.Some(amount)
			}
			if f.Changed("currency") {
				u.Currency = plannerapi.Some(currency)
			}
			if f.Changed("date") {
				d, err := parseDate("date", date)
				if err != nil {
					return err
				}
				u.ExpenseDate = plannerapi.Some(d)
			}
			if f.Changed("description") {
				u.Description = plannerapi.Some(description)
			}
			if f.Changed("payment-method") {
				u.PaymentMethod = plannerapi.Some(method)
			}
			if f.Changed("notes") {
				u.Notes = plannerapi.Some(notes)
			}
			e, err := cl.client.Expenses.Update(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			return cl.showExpense(cmd, e)
		},
	}
	cmd.Flags().StringVar(&trip, "trip", "", "Move the expense to this trip")
	cmd.Flags().BoolVar(&detach, "detach", false, "Detach the expense from its trip")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency code")
	cmd.Flags().StringVar(&date, "date", "", "Expense date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&method, "payment-method", "", "Payment method")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.MarkFlagsMutuallyExclusive("trip", "detach")
	return cmd
}

func expensesDeleteCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseExpenseID(args[0])
			if err != nil {
				return err
			}
			if err := cl.client.Expenses.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense %d.\n", id)
			return nil
		},
	}
}

func expensesAnalyzeCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [trip-id]",
		Short: "Compare a trip's spending with its budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTripID(args[0])
			if err != nil {
				return err
			}
			a, err := cl.client.Expenses.Analyze(cmd.Context(), id)
			if err != nil {
				return err
			}
			if cl.jsonOut {
				return cl.emitJSON(cmd.OutOrStdout(), a)
			}
			printAnalysis(cmd.OutOrStdout(), id, a)
			return nil
		},
	}
}
