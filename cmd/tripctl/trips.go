package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/httpclient"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func parseDate(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", flag, err)
	}
	return d, nil
}

func parseTripID(s string) (domain.TripID, error) {
	id, err := domain.ParseTripID(s)
	if err != nil {
		return 0, fmt.Errorf("invalid trip id %q", s)
	}
	return id, nil
}

func pagingFlags(cmd *cobra.Command, skip, limit *int) {
	cmd.Flags().IntVar(skip, "skip", 0, "Number of records to skip")
	cmd.Flags().IntVar(limit, "limit", 0, "Maximum number of records (default from PAGE_SIZE)")
}

// paging leaves unset flags out of the query.
func paging(cmd *cobra.Command, cl *cli, skip, limit int) (*int, *int) {
	var s, l *int
	if cmd.Flags().Changed("skip") {
		s = &skip
	}
	switch {
	case cmd.Flags().Changed("limit"):
		l = &limit
	case cl.cfg.PageSize > 0:
		ps := cl.cfg.PageSize
		l = &ps
	}
	return s, l
}

func preferences(kv map[string]string) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	out := make(map[string]any, len(kv))
	for k, v := range kv {
		out[k] = v
	}
	return out
}

func tripsCmd(cl *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Manage trips",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cl.open(cmd.Context()); err != nil {
				return err
			}
			return cl.requireLogin()
		},
	}
	cmd.AddCommand(tripsListCmd(cl))
	cmd.AddCommand(tripsGetCmd(cl))
	cmd.AddCommand(tripsGenerateCmd(cl))
	cmd.AddCommand(tripsCreateCmd(cl))
	cmd.AddCommand(tripsUpdateCmd(cl))
	cmd.AddCommand(tripsDeleteCmd(cl))
	return cmd
}

func tripsListCmd(cl *cli) *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your trips",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, l := paging(cmd, cl, skip, limit)
			trips, err := cl.client.Trips.FetchAll(cmd.Context(), plannerapi.ListParams{Skip: s, Limit: l})
			if err != nil {
				return err
			}
			if cl.jsonOut {
				return cl.emitJSON(cmd.OutOrStdout(), trips)
			}
			printTrips(cmd.OutOrStdout(), trips)
			return nil
		},
	}
	pagingFlags(cmd, &skip, &limit)
	return cmd
}

func tripsGetCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show a trip with its itinerary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTripID(args[0])
			if err != nil {
				return err
			}
			t, err := cl.client.Trips.FetchOne(cmd.Context(), id)
			if err != nil {
				return err
			}
			return cl.showTrip(cmd, t)
		},
	}
}

func (c *cli) showTrip(cmd *cobra.Command, t domain.Trip) error {
	if c.jsonOut {
		return c.emitJSON(cmd.OutOrStdout(), t)
	}
	printTrip(cmd.OutOrStdout(), t)
	return nil
}

func tripsGenerateCmd(cl *cli) *cobra.Command {
	var (
		destination string
		start, end  string
		travelers   int
		budget      float64
		prefs       map[string]string
		dictate     bool
		idemKey     string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Have the service draft a full itinerary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dictate && destination == "" {
				text, err := cl.dictate(cmd)
				if err != nil {
					return err
				}
				destination = domain.NormalizeTranscript(text)
				fmt.Fprintf(cmd.ErrOrStderr(), "Destination: %s\n", destination)
			}
			req := plannerapi.TripGenerateRequest{
				Destination:   domain.NormalizeHumanName(destination),
				TravelerCount: travelers,
				Preferences:   preferences(prefs),
			}
			var err error
			if req.StartDate, err = parseDate("start", start); err != nil {
				return err
			}
			if req.EndDate, err = parseDate("end", end); err != nil {
				return err
			}
			if cmd.Flags().Changed("budget") {
				req.Budget = &budget
			}
			ctx := cmd.Context()
			if idemKey != "" {
				ctx = httpclient.WithIdempotencyKey(ctx, idemKey)
			}
			t, err := cl.client.Trips.Generate(ctx, req)
			if err != nil {
				return err
			}
			return cl.showTrip(cmd, t)
		},
	}
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "Destination")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&travelers, "travelers", "n", 1, "Number of travelers")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Total budget")
	cmd.Flags().StringToStringVar(&prefs, "pref", nil, "Preference key=value (repeatable)")
	cmd.Flags().BoolVar(&dictate, "dictate", false, "Speak the destination instead of typing it")
	cmd.Flags().StringVar(&idemKey, "idempotency-key", "", "Reuse to get the same trip back when retrying a timed-out request")
	return cmd
}

func tripsCreateCmd(cl *cli) *cobra.Command {
	var (
		title, destination string
		start, end         string
		travelers          int
		budget             float64
		description        string
		prefs              map[string]string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := plannerapi.TripCreate{
				Title:         domain.NormalizeHumanName(title),
				Destination:   domain.NormalizeHumanName(destination),
				TravelerCount: travelers,
				Preferences:   preferences(prefs),
			}
			var err error
			if req.StartDate, err = parseDate("start", start); err != nil {
				return err
			}
			if req.EndDate, err = parseDate("end", end); err != nil {
				return err
			}
			if cmd.Flags().Changed("budget") {
				req.Budget = &budget
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			t, err := cl.client.Trips.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return cl.showTrip(cmd, t)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "Destination")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&travelers, "travelers", "n", 1, "Number of travelers")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Total budget")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringToStringVar(&prefs, "pref", nil, "Preference key=value (repeatable)")
	return cmd
}

func tripsUpdateCmd(cl *cli) *cobra.Command {
	var (
		title, destination string
		start, end         string
		travelers          int
		budget             float64
		description        string
		status             string
		clear              []string
	)
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of a trip; unspecified fields are left alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTripID(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var u plannerapi.TripUpdate
			if f.Changed("title") {
				u.Title = plannerapi.Some(domain.NormalizeHumanName(title))
			}
			if f.Changed("destination") {
				u.Destination = plannerapi.Some(domain.NormalizeHumanName(destination))
			}
			if f.Changed("start") {
				d, err := parseDate("start", start)
				if err != nil {
					return err
				}
				u.StartDate = plannerapi.Some(d)
			}
			if f.Changed("end") {
				d, err := parseDate("end", end)
				if err != nil {
					return err
				}
				u.EndDate = plannerapi.Some(d)
			}
			if f.Changed("travelers") {
				u.TravelerCount = plannerapi.Some(travelers)
			}
			if f.Changed("budget") {
				u.Budget = plannerapi.Some(budget)
			}
			if f.Changed("description") {
				u.Description = plannerapi.Some(description)
			}
			if f.Changed("status") {
				u.Status = plannerapi.Some(domain.TripStatus(status))
			}
			for _, field := range clear {
				switch strings.TrimSpace(field) {
				case "budget":
					u.Budget = plannerapi.Null[float64]()
				case "description":
					u.Description = plannerapi.Null[string]()
				case "preferences":
					u.Preferences = plannerapi.Null[map[string]any]()
				default:
					return fmt.Errorf("--clear accepts budget, description, preferences; got %q", field)
				}
			}
			t, err := cl.client.Trips.Update(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			return cl.showTrip(cmd, t)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&destination, "destination", "d", "", "Destination")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&travelers, "travelers", "n", 1, "Number of travelers")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Total budget")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&status, "status", "", "Status (draft, planned, ongoing, completed)")
	cmd.Flags().StringSliceVar(&clear, "clear", nil, "Fields to set to null (budget, description, preferences)")
	return cmd
}

func tripsDeleteCmd(cl *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTripID(args[0])
			if err != nil {
				return err
			}
			if err := cl.client.Trips.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %d.\n", id)
			return nil
		},
	}
}
