package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/courtwatch/internal/config"
	"github.com/pfrederiksen/courtwatch/internal/court"
	"github.com/pfrederiksen/courtwatch/internal/schedule"
	"github.com/pfrederiksen/courtwatch/internal/snapshot"
	"github.com/pfrederiksen/courtwatch/internal/venue"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNewSlots = 2
)

var (
	flagBaseURL     string
	flagOpenDataURL string
	flagMockDir     string
	flagBrowser     bool
	flagDataDir     string
	flagFormat      string
	flagVerbose     bool

	flagFrom string
	flagTo   string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courtwatch",
		Short: "Check tennis-court availability on the reservation site",
		Long: `A CLI tool to look up court availability published by the reservation site.
Availability is scraped from the embedded schedule data on each venue page,
either over plain HTTP or through a real browser when the site demands one.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(flagVerbose)
		},
	}

	cfg := config.FromEnv()

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagBaseURL, "base-url", cfg.BaseURL, "Reservation site base URL (or "+config.EnvBaseURL+")")
	pf.StringVar(&flagOpenDataURL, "open-data-url", cfg.OpenDataURL, "Municipal open-data facility feed URL (or "+config.EnvOpenData+")")
	pf.StringVar(&flagMockDir, "mock-dir", "", "Serve fixtures from this directory instead of the live site")
	pf.BoolVar(&flagBrowser, "browser", false, "Drive a real browser instead of plain HTTP")
	pf.StringVar(&flagDataDir, "data-dir", cfg.DataDir, "Data directory for snapshots")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newCourtsCmd(), newCheckCmd(), newInfoCmd(), newWatchCmd())

	return cmd
}

func newCourtsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courts",
		Short: "List known venues",
		Args:  cobra.NoArgs,
		RunE:  runCourts,
	}
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <venue> <date>",
		Short: "Show availability for a venue on a date",
		Long: `Show availability for a venue on a date.

The venue may be an upstream id or a name; names are resolved fuzzily against
the venue listing. The date is YYYY-MM-DD, "today", or "tomorrow".`,
		Args: cobra.ExactArgs(2),
		RunE: runCheck,
	}
	cmd.Flags().StringVar(&flagFrom, "from", "", "Drop slots starting before this time (HH:MM)")
	cmd.Flags().StringVar(&flagTo, "to", "", "Drop slots ending after this time (HH:MM)")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <venue>",
		Short: "Show venue details",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <venue> <date>",
		Short: "Check availability and report slots that opened up since the last run",
		Long: `Check availability and report slots that opened up since the last run.

The previous slot set is kept as a snapshot under the data directory. Exits
with code 2 when newly-available slots were found.`,
		Args: cobra.ExactArgs(2),
		RunE: runWatch,
	}
	cmd.Flags().StringVar(&flagFrom, "from", "", "Drop slots starting before this time (HH:MM)")
	cmd.Flags().StringVar(&flagTo, "to", "", "Drop slots ending after this time (HH:MM)")
	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// newProvider builds the availability provider selected by the flags. The
// returned closer must be called when done; it is a no-op for providers
// without background resources.
func newProvider() (court.Provider, func() error, error) {
	cfg := config.FromEnv()
	cfg.BaseURL = flagBaseURL
	cfg.OpenDataURL = flagOpenDataURL
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	if flagMockDir != "" {
		return court.NewMock(flagMockDir), func() error { return nil }, nil
	}
	if cfg.BaseURL == "" {
		return nil, nil, fmt.Errorf("--base-url (or %s) is required without --mock-dir", config.EnvBaseURL)
	}
	if flagBrowser {
		p := court.NewBrowser(cfg.BaseURL, cfg)
		return p, p.Close, nil
	}
	return court.NewHTTP(cfg.BaseURL, cfg), func() error { return nil }, nil
}

// listVenues returns the venue listing used for the courts command and for
// resolving venue names. The mock provider lists its own fixtures; otherwise
// the open-data feed is the only source of a listing.
func listVenues(ctx context.Context, provider court.Provider) ([]venue.Venue, error) {
	if flagMockDir == "" && flagOpenDataURL != "" {
		return court.NewOpenData(flagOpenDataURL, config.FromEnv()).ListCourts(ctx)
	}
	return provider.ListCourts(ctx)
}

// resolveVenue maps a user-entered id or name to a venue. An exact id match
// against the listing wins, then a fuzzy name match; with no listing (or no
// match on a plausible id) the query is passed through as the id.
func resolveVenue(ctx context.Context, provider court.Provider, query string) (venue.Venue, error) {
	venues, err := listVenues(ctx, provider)
	if err != nil {
		return venue.Venue{}, err
	}
	for _, v := range venues {
		if v.ID == query {
			return v, nil
		}
	}
	if v, ok := venue.BestMatch(venues, query); ok {
		return *v, nil
	}
	if len(venues) > 0 && strings.ContainsAny(query, " \t") {
		return venue.Venue{}, fmt.Errorf("no venue matches %q", query)
	}
	return venue.Venue{ID: query, Name: query}, nil
}

// parseDate accepts YYYY-MM-DD plus the "today" and "tomorrow" shorthands.
func parseDate(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return time.Now(), nil
	case "tomorrow":
		return time.Now().AddDate(0, 0, 1), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today, or tomorrow)", s)
	}
	return d, nil
}

func runCourts(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	provider, closer, err := newProvider()
	if err != nil {
		return err
	}
	defer closer()

	venues, err := listVenues(cmd.Context(), provider)
	if err != nil {
		return fmt.Errorf("listing venues: %w", err)
	}
	sortVenues(venues)
	return WriteCourts(os.Stdout, venues, format)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	result, err := fetchAvailability(cmd, args)
	if err != nil {
		return err
	}
	return WriteCheck(os.Stdout, result, format, flagVerbose)
}

func runInfo(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	provider, closer, err := newProvider()
	if err != nil {
		return err
	}
	defer closer()

	v, err := resolveVenue(cmd.Context(), provider, args[0])
	if err != nil {
		return err
	}
	if detail, ok := provider.GetVenueInfo(cmd.Context(), v.ID); ok {
		if detail.Name != "" {
			v.Name = detail.Name
		}
		if detail.Address != "" {
			v.Address = detail.Address
		}
		if detail.District != "" {
			v.District = detail.District
		}
	}
	return WriteInfo(os.Stdout, &v, format)
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	result, err := fetchAvailability(cmd, args)
	if err != nil {
		return err
	}

	store, err := snapshot.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing snapshot store: %w", err)
	}
	prev, err := store.Load(result.Availability.CourtID)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	result.NewSlots = snapshot.Diff(prev, result.Availability)
	if err := store.Save(result.Availability); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	if err := WriteWatch(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if len(result.NewSlots) > 0 {
		os.Exit(ExitNewSlots)
	}
	return nil
}

// fetchAvailability is the shared lookup behind check and watch.
func fetchAvailability(cmd *cobra.Command, args []string) (*CheckResult, error) {
	provider, closer, err := newProvider()
	if err != nil {
		return nil, err
	}
	defer closer()

	ctx := cmd.Context()
	v, err := resolveVenue(ctx, provider, args[0])
	if err != nil {
		return nil, err
	}
	date, err := parseDate(args[1])
	if err != nil {
		return nil, err
	}

	slog.Debug("checking availability", "venue", v.ID, "date", date.Format("2006-01-02"))

	fetched, err := provider.GetAvailability(ctx, v.ID, date)
	if err != nil {
		return nil, fmt.Errorf("fetching availability: %w", err)
	}
	// Providers hand out the cached value itself; copy before filtering so a
	// later same-process lookup still sees the full slot list.
	avail := cloneAvailability(fetched)
	avail.Slots, err = filterWindow(avail.Slots, flagFrom, flagTo)
	if err != nil {
		return nil, err
	}
	schedule.Sort(avail.Slots)

	return &CheckResult{
		CheckedAt:    time.Now().UTC(),
		Venue:        v,
		Availability: avail,
	}, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
