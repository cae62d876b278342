// ABOUTME: Admin CLI for the flight-booking backends
// ABOUTME: Manages users, airlines, and flight approvals over the two HTTP gateways

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/config"
	"github.com/skylane/flightdeck/internal/credential"
	"github.com/skylane/flightdeck/internal/format"
)

const banner = `
  __ _ _       _     _      _           _
 / _| (_) __ _| |__ | |_ __| | ___  ___| | __
| |_| | |/ _' | '_ \| __/ _' |/ _ \/ __| |/ /
|  _| | | (_| | | | | || (_| |  __/ (__|   <
|_| |_|_|\__, |_| |_|\__\__,_|\___|\___|_|\_\
         |___/
`

// cli bundles the two gateway clients the commands share.
type cli struct {
	identity  *api.Identity
	flightOps *api.FlightOps
	store     *credential.Store
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	c, err := newCLI()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "me":
		err = c.cmdMe(ctx)
	case "status":
		err = c.cmdStatus(ctx)
	case "login":
		err = c.cmdLogin(ctx, args)
	case "logout":
		err = c.cmdLogout(ctx)
	case "users":
		err = c.cmdUsers(ctx, args)
	case "role":
		err = c.cmdRole(ctx, args)
	case "balance":
		err = c.cmdBalance(ctx, args)
	case "airlines":
		err = c.cmdAirlines(ctx, args)
	case "flights":
		err = c.cmdFlights(ctx, args)
	case "bookings":
		err = c.cmdBookings(ctx, args)
	case "ratings":
		err = c.cmdRatings(ctx, args)
	case "report":
		err = c.cmdReport(ctx, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: flightdeck-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  me                        Show your identity (account + role)")
	fmt.Println("  status                    Show backend reachability and your identity")
	fmt.Println("  login <email> <password>  Sign in and persist the token")
	fmt.Println("  logout                    Sign out and clear the token")
	fmt.Println("  users [page]              List accounts (admin)")
	fmt.Println("  users delete <id>         Deactivate an account (admin)")
	fmt.Println("  role <user-id> <role>     Change an account's role (admin)")
	fmt.Println("  balance <user-id> <amt>   Add funds to an account")
	fmt.Println("  airlines                  List airlines")
	fmt.Println("  airlines create           Register an airline (admin)")
	fmt.Println("  airlines delete <id>      Deactivate an airline (admin)")
	fmt.Println("  flights                   List flights grouped by tab")
	fmt.Println("  flights pending           List flights awaiting approval (admin)")
	fmt.Println("  flights approve <id>      Approve a pending flight (admin)")
	fmt.Println("  flights reject <id> <why> Reject a pending flight (admin)")
	fmt.Println("  flights cancel <id>       Cancel an upcoming flight")
	fmt.Println("  bookings <flight-id>      List bookings for a flight")
	fmt.Println("  ratings [flight-id]       List ratings, optionally for one flight")
	fmt.Println("  report <type>             Generate a report (admin)")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  FLIGHTDECK_IDENTITY_URL   Identity backend (default: http://localhost:5000)")
	fmt.Println("  FLIGHTDECK_FLIGHTOPS_URL  Flight-operations backend (default: http://localhost:5001)")
	fmt.Println("  FLIGHTDECK_TOKEN          Bearer token (overrides the token file)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  flightdeck-admin login admin@example.com s3cret")
	fmt.Println("  flightdeck-admin flights pending")
	fmt.Println("  flightdeck-admin flights reject 42 'Route already served'")
	fmt.Println("  flightdeck-admin role 7 MANAGER")
	fmt.Println()
}

func newCLI() (*cli, error) {
	identityURL := os.Getenv("FLIGHTDECK_IDENTITY_URL")
	if identityURL == "" {
		identityURL = config.DefaultIdentityURL
	}
	flightOpsURL := os.Getenv("FLIGHTDECK_FLIGHTOPS_URL")
	if flightOpsURL == "" {
		flightOpsURL = config.DefaultFlightOpsURL
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := credential.NewStore("", logger)
	if err != nil {
		return nil, err
	}

	policy := &api.Policy{Credentials: store, Logger: logger}
	return &cli{
		identity:  api.NewIdentity(identityURL, policy),
		flightOps: api.NewFlightOps(flightOpsURL, policy),
		store:     store,
	}, nil
}

func (c *cli) cmdMe(ctx context.Context) error {
	user, err := c.identity.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetching identity: %w", err)
	}
	printUser(user)
	return nil
}

func (c *cli) cmdStatus(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()

	if _, err := c.identity.ListAirlines(ctx, true); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			// Backend answered; any HTTP status means it is up.
			green.Printf("  Identity:   ")
			fmt.Println("reachable")
		} else {
			yellow.Printf("  Identity:   ")
			color.Red("UNREACHABLE (%v)", err)
		}
	} else {
		green.Printf("  Identity:   ")
		fmt.Println("reachable")
	}

	if _, err := c.flightOps.FlightTabs(ctx); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			green.Printf("  FlightOps:  ")
			fmt.Println("reachable")
		} else {
			yellow.Printf("  FlightOps:  ")
			color.Red("UNREACHABLE (%v)", err)
		}
	} else {
		green.Printf("  FlightOps:  ")
		fmt.Println("reachable")
	}

	if user, err := c.identity.Me(ctx); err != nil {
		yellow.Printf("  Identity:   ")
		fmt.Println("(not signed in)")
	} else {
		green.Printf("  Signed in:  ")
		fmt.Printf("%s (%s)\n", user.FullName(), user.Role)
	}

	fmt.Println()
	return nil
}

func (c *cli) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: flightdeck-admin login <email> <password>")
	}
	result, err := c.identity.Login(ctx, args[0], args[1])
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := c.store.Save(result.AccessToken); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	color.Green("Signed in as %s (%s)\n", result.User.FullName(), result.User.Role)
	return nil
}

func (c *cli) cmdLogout(ctx context.Context) error {
	// Best effort on the server; the local token is cleared regardless.
	_ = c.identity.Logout(ctx)
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	color.Green("Signed out\n")
	return nil
}

func (c *cli) cmdUsers(ctx context.Context, args []string) error {
	if len(args) > 0 && (args[0] == "delete" || args[0] == "rm") {
		return c.cmdUsersDelete(ctx, args[1:])
	}

	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}

	result, err := c.identity.ListUsers(ctx, page, 20)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Accounts")
	cyan.Println("  --------")

	if len(result.Users) == 0 {
		fmt.Println("  (no accounts)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tEMAIL\tROLE\tBALANCE\tCREATED")
	fmt.Fprintln(w, "  --\t----\t-----\t----\t-------\t-------")
	for _, u := range result.Users {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID,
			truncate(u.FullName(), 24),
			truncate(u.Email, 32),
			u.Role,
			format.Currency(u.AccountBalance),
			format.Date(u.CreatedAt),
		)
	}
	w.Flush()
	fmt.Printf("\n  Page %d/%d · %d accounts\n\n", result.CurrentPage, result.Pages, result.Total)
	return nil
}

func (c *cli) cmdUsersDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flightdeck-admin users delete <id>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	if err := c.identity.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	color.Green("Deactivated user %d\n", userID)
	return nil
}

func (c *cli) cmdRole(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: flightdeck-admin role <user-id> <USER|MANAGER|ADMINISTRATOR>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	role := strings.ToUpper(args[1])
	switch role {
	case api.RoleUser, api.RoleManager, api.RoleAdministrator:
	default:
		return fmt.Errorf("unknown role %q (use USER, MANAGER, or ADMINISTRATOR)", args[1])
	}

	if err := c.identity.UpdateRole(ctx, userID, role); err != nil {
		return fmt.Errorf("updating role: %w", err)
	}
	color.Green("User %d is now %s\n", userID, role)
	return nil
}

func (c *cli) cmdBalance(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: flightdeck-admin balance <user-id> <amount>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("invalid amount %q", args[1])
	}

	if err := c.identity.AddBalance(ctx, userID, amount); err != nil {
		return fmt.Errorf("adding balance: %w", err)
	}
	color.Green("Added %s to user %d\n", format.Currency(amount), userID)
	return nil
}

func (c *cli) cmdAirlines(ctx context.Context, args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return c.cmdAirlinesList(ctx)
	case "create", "add":
		return c.cmdAirlinesCreate(ctx, args)
	case "delete", "rm", "remove":
		return c.cmdAirlinesDelete(ctx, args)
	default:
		return fmt.Errorf("unknown airlines subcommand: %s (use list, create, delete)", subcmd)
	}
}

func (c *cli) cmdAirlinesList(ctx context.Context) error {
	airlines, err := c.identity.ListAirlines(ctx, false)
	if err != nil {
		return fmt.Errorf("listing airlines: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Airlines")
	cyan.Println("  --------")

	if len(airlines) == 0 {
		fmt.Println("  (no airlines)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tCODE\tNAME\tCOUNTRY\tACTIVE")
	fmt.Fprintln(w, "  --\t----\t----\t-------\t------")
	for _, a := range airlines {
		active := "yes"
		if !a.IsActive {
			active = "no"
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n", a.ID, a.Code, truncate(a.Name, 28), a.Country, active)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (c *cli) cmdAirlinesCreate(ctx context.Context, args []string) error {
	req := api.AirlineRequest{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name":
			i++
			req.Name = argAt(args, i)
		case "--code":
			i++
			req.Code = argAt(args, i)
		case "--country":
			i++
			req.Country = argAt(args, i)
		case "--description":
			i++
			req.Description = argAt(args, i)
		default:
			return fmt.Errorf("unknown flag %q", args[i])
		}
	}
	if req.Name == "" || req.Code == "" || req.Country == "" {
		return fmt.Errorf("usage: flightdeck-admin airlines create --name <name> --code <code> --country <country> [--description <text>]")
	}

	airline, err := c.identity.CreateAirline(ctx, req)
	if err != nil {
		return fmt.Errorf("creating airline: %w", err)
	}
	color.Green("Created airline %d (%s)\n", airline.ID, airline.Name)
	return nil
}

func (c *cli) cmdAirlinesDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flightdeck-admin airlines delete <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid airline id %q", args[0])
	}
	if err := c.identity.DeleteAirline(ctx, id); err != nil {
		return fmt.Errorf("deleting airline: %w", err)
	}
	color.Green("Deactivated airline %d\n", id)
	return nil
}

func (c *cli) cmdFlights(ctx context.Context, args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return c.cmdFlightsList(ctx)
	case "pending":
		return c.cmdFlightsPending(ctx)
	case "approve":
		return c.cmdFlightsApprove(ctx, args)
	case "reject":
		return c.cmdFlightsReject(ctx, args)
	case "cancel":
		return c.cmdFlightsCancel(ctx, args)
	default:
		return fmt.Errorf("unknown flights subcommand: %s (use list, pending, approve, reject, cancel)", subcmd)
	}
}

func (c *cli) cmdFlightsList(ctx context.Context) error {
	tabs, err := c.flightOps.FlightTabs(ctx)
	if err != nil {
		return fmt.Errorf("listing flights: %w", err)
	}

	printFlightGroup("Upcoming", tabs.Upcoming)
	printFlightGroup("Ongoing", tabs.Ongoing)
	printFlightGroup("Completed / Cancelled", tabs.CompletedCancelled)
	return nil
}

func printFlightGroup(title string, flights []api.Flight) {
	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  %s\n", title)
	cyan.Printf("  %s\n", strings.Repeat("-", len(title)))

	if len(flights) == 0 {
		fmt.Println("  (none)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tROUTE\tDEPARTURE\tPRICE\tSTATUS")
	fmt.Fprintln(w, "  --\t----\t-----\t---------\t-----\t------")
	for _, f := range flights {
		route := f.DepartureAirport + " - " + f.ArrivalAirport
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\n",
			f.ID,
			truncate(f.Name, 20),
			route,
			format.DateTime(f.DepartureTime),
			format.Currency(f.TicketPrice),
			format.FlightStatus(f.Status),
		)
	}
	w.Flush()
}

func (c *cli) cmdFlightsPending(ctx context.Context) error {
	flights, err := c.flightOps.PendingFlights(ctx)
	if err != nil {
		return fmt.Errorf("listing pending flights: %w", err)
	}
	printFlightGroup("Pending Approval", flights)
	fmt.Println()
	return nil
}

func (c *cli) cmdFlightsApprove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flightdeck-admin flights approve <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid flight id %q", args[0])
	}
	if err := c.flightOps.ApproveFlight(ctx, id); err != nil {
		return fmt.Errorf("approving flight: %w", err)
	}
	color.Green("Approved flight %d\n", id)
	return nil
}

func (c *cli) cmdFlightsReject(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: flightdeck-admin flights reject <id> <reason>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid flight id %q", args[0])
	}
	reason := strings.Join(args[1:], " ")
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("rejection reason is required")
	}
	if err := c.flightOps.RejectFlight(ctx, id, reason); err != nil {
		return fmt.Errorf("rejecting flight: %w", err)
	}
	color.Green("Rejected flight %d\n", id)
	return nil
}

func (c *cli) cmdFlightsCancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flightdeck-admin flights cancel <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid flight id %q", args[0])
	}
	if err := c.flightOps.CancelFlight(ctx, id); err != nil {
		return fmt.Errorf("cancelling flight: %w", err)
	}
	color.Green("Cancelled flight %d\n", id)
	return nil
}

func (c *cli) cmdBookings(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flightdeck-admin bookings <flight-id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid flight id %q", args[0])
	}

	bookings, err := c.flightOps.FlightBookings(ctx, id)
	if err != nil {
		return fmt.Errorf("listing bookings: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Bookings for flight %d\n", id)
	cyan.Println("  ---------------------")

	if len(bookings) == 0 {
		fmt.Println("  (no bookings)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tUSER\tPRICE\tSTATUS\tCREATED")
	fmt.Fprintln(w, "  --\t----\t-----\t------\t-------")
	for _, b := range bookings {
		fmt.Fprintf(w, "  %d\t%d\t%s\t%s\t%s\n",
			b.ID, b.UserID, format.Currency(b.TicketPrice),
			format.BookingStatus(b.Status), format.DateTime(b.CreatedAt))
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (c *cli) cmdRatings(ctx context.Context, args []string) error {
	var ratings []api.Rating
	var err error
	title := "Ratings"
	if len(args) > 0 {
		id, parseErr := strconv.ParseInt(args[0], 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid flight id %q", args[0])
		}
		title = fmt.Sprintf("Ratings for flight %d", id)
		ratings, err = c.flightOps.FlightRatings(ctx, id)
	} else {
		ratings, err = c.flightOps.ListRatings(ctx)
	}
	if err != nil {
		return fmt.Errorf("listing ratings: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  %s\n", title)
	cyan.Printf("  %s\n", strings.Repeat("-", len(title)))

	if len(ratings) == 0 {
		fmt.Println("  (no ratings)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tFLIGHT\tUSER\tSTARS\tCOMMENT\tCREATED")
	fmt.Fprintln(w, "  --\t------\t----\t-----\t-------\t-------")
	for _, rating := range ratings {
		fmt.Fprintf(w, "  %d\t%d\t%d\t%d/5\t%s\t%s\n",
			rating.ID, rating.FlightID, rating.UserID, rating.Rating,
			truncate(rating.Comment, 32), format.DateTime(rating.CreatedAt))
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (c *cli) cmdReport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: flightdeck-admin report <type>")
	}

	user, err := c.identity.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetching identity: %w", err)
	}

	raw, err := c.flightOps.GenerateReport(ctx, args[0], user.ID)
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}

	var pretty map[string]any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		// Not a JSON object; print it as-is.
		fmt.Println(string(raw))
		return nil
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printUser(u *api.User) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	fmt.Println()
	cyan.Println("  Identity")
	cyan.Println("  --------")
	fmt.Printf("  ID:       %d\n", u.ID)
	fmt.Printf("  Name:     %s\n", u.FullName())
	fmt.Printf("  Email:    %s\n", u.Email)
	green.Printf("  Role:     %s\n", u.Role)
	fmt.Printf("  Balance:  %s\n", format.Currency(u.AccountBalance))
	if !u.CreatedAt.IsZero() {
		fmt.Printf("  Since:    %s\n", u.CreatedAt.Format("Jan 02 2006"))
	}
	fmt.Println()
}

func argAt(args []string, i int) string {
	if i >= len(args) {
		return ""
	}
	return args[i]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
