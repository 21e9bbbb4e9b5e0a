package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	idColor     = color.New(color.FgHiBlue)
	urgentColor = color.New(color.FgRed, color.Bold)
	okColor     = color.New(color.FgHiGreen)
	mutedColor  = color.New(color.FgHiBlack)
)

var statusColors = map[string]*color.Color{
	"waiting":    color.New(color.FgYellow),
	"picked_up":  color.New(color.FgCyan),
	"in_transit": color.New(color.FgHiMagenta),
	"finished":   color.New(color.FgGreen),
}

type session struct {
	server   string
	identity string
	client   *Client
}

// RootCmd builds the porterctl command tree. Every invocation gets a fresh tree,
// so flags never leak between runs.
func RootCmd() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:           "porterctl",
		Short:         "Operate the porter dispatch service",
		Long:          "porterctl drives the dispatch service over its REST API: raise and move transport requests, sign porters in and out, read the queue and the statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			s.client = NewClient(s.server, nil)
		},
	}
	root.PersistentFlags().StringVar(&s.server, "server", envOr("PORTERCTL_SERVER", DefaultServer), "dispatch service base URL")
	root.PersistentFlags().StringVar(&s.identity, "as", os.Getenv("PORTERCTL_IDENTITY"), "identity of the caller (phone number or user id)")

	root.AddCommand(
		queueCmd(s),
		portersCmd(s),
		statsCmd(s),
		requestCmd(s),
		transitionCmd(s, "pickup", "pickup", "Pick up a waiting request"),
		transitionCmd(s, "start", "start", "Start transporting a picked-up request"),
		transitionCmd(s, "done", "finish", "Mark an in-transit request finished"),
		cancelCmd(s),
		cancelPickupCmd(s),
		undoCmd(s),
		registryCmd(s, "sign-in", "Sign a porter in"),
		registryCmd(s, "sign-out", "Sign a porter out"),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *session) requireIdentity() (string, error) {
	if s.identity == "" {
		return "", fmt.Errorf("no identity given\nHint: use --as or set PORTERCTL_IDENTITY")
	}
	return s.identity, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid request id %q", arg)
	}
	return id, nil
}

func queueCmd(s *session) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List active requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := s.client.Queue(cmd.Context(), all)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No active requests in the queue.")
				return nil
			}
			printRequests(out, list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include finished requests")
	return cmd
}

func printRequests(out io.Writer, list []Request) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROUTE\tSTATUS\tPORTER\tCREATED")
	for _, r := range list {
		route := r.From + " → " + r.To
		if r.Priority == "high" {
			route += " " + urgentColor.Sprint("[urgent]")
		}
		porter := r.Porter
		if porter == "" {
			porter = mutedColor.Sprint("-")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			idColor.Sprintf("#%d", r.ID), route, colorStatus(r.Status), porter, r.CreatedAt.Local().Format("15:04"))
	}
	_ = w.Flush()
}

func colorStatus(status string) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}
	return status
}

func portersCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "porters",
		Short: "List signed-in porters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := s.client.Porters(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No porters are signed in.")
				return nil
			}
			for _, p := range list {
				status := okColor.Sprint(p.Status)
				if p.Status != "available" {
					status = mutedColor.Sprint(p.Status)
				}
				fmt.Fprintf(out, "%s  %s\n", p.Porter, status)
			}
			return nil
		},
	}
}

func statsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show transport statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := s.client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Completed transports: %d\n", st.CompletedTransports)
			fmt.Fprintf(out, "Average transit time: %.1f min\n", st.AverageTransportTime)
			fmt.Fprintf(out, "Journal entries:      %d\n", st.LogCount)
			return nil
		},
	}
}

func requestCmd(s *session) *cobra.Command {
	var urgent bool
	cmd := &cobra.Command{
		Use:   "request [from] [to]",
		Short: "Raise a transport request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			requester, err := s.requireIdentity()
			if err != nil {
				return err
			}
			r, err := s.client.CreateRequest(cmd.Context(), args[0], args[1], requester, urgent)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created request %s: %s → %s\n",
				okColor.Sprint("✓"), idColor.Sprintf("#%d", r.ID), r.From, r.To)
			return nil
		},
	}
	cmd.Flags().BoolVar(&urgent, "urgent", false, "raise the request with high priority")
	return cmd
}

func transitionCmd(s *session, use, step, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			porter, err := s.requireIdentity()
			if err != nil {
				return err
			}
			r, err := s.client.Transition(cmd.Context(), id, step, porter)
			if err != nil {
				return fmt.Errorf("failed to %s request #%d: %w", use, id, err)
			}
			printResult(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func printResult(out io.Writer, r Request) {
	fmt.Fprintf(out, "%s Request %s is now %s\n", okColor.Sprint("✓"), idColor.Sprintf("#%d", r.ID), colorStatus(r.Status))
	if r.StartedAt != nil && r.Status == "finished" {
		fmt.Fprintf(out, "  Transit took %s\n", time.Since(*r.StartedAt).Round(time.Minute))
	}
}

func cancelCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [id]",
		Short: "Remove a request you raised or are carrying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			actor, err := s.requireIdentity()
			if err != nil {
				return err
			}
			if _, err = s.client.Cancel(cmd.Context(), id, actor); err != nil {
				return fmt.Errorf("failed to cancel request #%d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Request %s removed\n", okColor.Sprint("✓"), idColor.Sprintf("#%d", id))
			return nil
		},
	}
}

func cancelPickupCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-pickup [id]",
		Short: "Return a picked-up request to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := s.client.CancelPickup(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to cancel pickup of request #%d: %w", id, err)
			}
			printResult(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func undoCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "undo [id]",
		Short: "Reset a request to waiting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := s.client.Undo(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to undo request #%d: %w", id, err)
			}
			if !res.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Request %s is already waiting\n", idColor.Sprintf("#%d", id))
				return nil
			}
			printResult(cmd.OutOrStdout(), res.Request)
			return nil
		},
	}
}

func registryCmd(s *session, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " [porter]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			porter := s.identity
			if len(args) == 1 {
				porter = args[0]
			}
			if porter == "" {
				return fmt.Errorf("no porter given\nHint: pass it as an argument or use --as")
			}
			res, err := s.client.Registry(cmd.Context(), action, porter)
			if err != nil {
				return fmt.Errorf("failed to %s %s: %w", action, porter, err)
			}
			switch {
			case !res.Changed:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing to do for %s\n", action, res.Porter)
			case action == "sign-in":
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s signed in\n", okColor.Sprint("✓"), res.Porter)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s signed out\n", okColor.Sprint("✓"), res.Porter)
			}
			return nil
		},
	}
}
