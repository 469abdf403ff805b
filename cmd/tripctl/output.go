package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
)

const dateLayout = "2006-01-02"

func (c *cli) emitJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func fmtMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func fmtOpt(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func printTrips(w io.Writer, trips []domain.Trip) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tDESTINATION\tDATES\tTRAVELERS\tBUDGET\tSTATUS")
	for _, t := range trips {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s..%s\t%d\t%s\t%s\n",
			t.ID, t.Title, t.Destination, fmtDate(t.StartDate), fmtDate(t.EndDate),
			t.TravelerCount, fmtMoney(t.Budget), t.Status)
	}
	_ = tw.Flush()
}

func printTrip(w io.Writer, t domain.Trip) {
	fmt.Fprintf(w, "Trip %d: %s\n", t.ID, t.Title)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "  Destination: %s\n", t.Destination)
	fmt.Fprintf(w, "  Dates:       %s .. %s (%d nights)\n", fmtDate(t.StartDate), fmtDate(t.EndDate), t.Nights())
	fmt.Fprintf(w, "  Travelers:   %d\n", t.TravelerCount)
	fmt.Fprintf(w, "  Budget:      %s\n", fmtMoney(t.Budget))
	fmt.Fprintf(w, "  Status:      %s\n", t.Status)
	if t.Description != nil {
		fmt.Fprintf(w, "  Description: %s\n", *t.Description)
	}
	for _, d := range t.Days {
		fmt.Fprintf(w, "\nDay %d (%s) %s\n", d.DayNumber, fmtDate(d.Date), fmtOpt(d.Title))
		for _, a := range d.Activities {
			fmt.Fprintf(w, "  %s-%s  %-12s %s  cost=%s\n", fmtOpt(a.StartTime), fmtOpt(a.EndTime), a.ActivityType, a.Name, fmtMoney(a.Cost))
		}
	}
}

func printExpenses(w io.Writer, expenses []domain.Expense) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTRIP\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range expenses {
		trip := "-"
		if e.TripID != nil {
			trip = e.TripID.String()
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f %s\t%s\n",
			e.ID, trip, fmtDate(e.ExpenseDate), e.Category, e.Amount, e.Currency, fmtOpt(e.Description))
	}
	_ = tw.Flush()
}

func printAnalysis(w io.Writer, tripID domain.TripID, a domain.BudgetAnalysis) {
	fmt.Fprintf(w, "Budget for trip %d: %s\n", tripID, a.Status)
	fmt.Fprintf(w, "  Budget:    %.2f\n", a.TotalBudget)
	fmt.Fprintf(w, "  Spent:     %.2f (%.1f%%)\n", a.TotalSpent, a.SpendingPercentage)
	fmt.Fprintf(w, "  Remaining: %.2f\n", a.Remaining)
	for cat, v := range a.CategoryBreakdown {
		fmt.Fprintf(w, "    %-12s %.2f\n", cat, v)
	}
}

func printUser(w io.Writer, u domain.UserProfile) {
	fmt.Fprintf(w, "%s <%s> (id %d)\n", u.Username, u.Email, u.ID)
	if u.FullName != nil {
		fmt.Fprintf(w, "  Name: %s\n", *u.FullName)
	}
}
