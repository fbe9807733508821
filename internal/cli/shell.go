package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/CaptainMirage/drivescan/internal/analyzer"
	"github.com/CaptainMirage/drivescan/internal/drives"
)

// Prompt styles.
//
//nolint:gochecknoglobals // Render constants.
var (
	promptUserStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	promptAtStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	promptHostStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	promptMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// shellCommands drives the help listing.
//
//nolint:gochecknoglobals // Static command table.
var shellCommands = []struct {
	use  string
	help string
}{
	{"drive-analysis <volume>", "Full report for one volume"},
	{"drive-space <volume>", "Capacity overview"},
	{"largest-folders <volume>", "Heaviest folders near the volume root"},
	{"file-type-dist <volume>", "Space histogram by file extension"},
	{"largest-files <volume>", "Largest individual files"},
	{"recent-large-files <volume>", "Large files modified inside the recent window"},
	{"old-large-files <volume>", "Large files untouched beyond the stale window"},
	{"drives", "List fixed volumes and their capacity"},
	{"pwd", "Print the working directory"},
	{"echo [words...]", "Print the arguments"},
	{"help", "Show this listing"},
	{"exit [code]", "Leave the shell"},
}

func newShellCommand(flags *scanFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive storage analysis shell",
		Long: heredoc.Doc(`
			Starts a small interactive shell for poking at volumes one report
			section at a time. Each volume is scanned once per session and the
			report is cached, so repeated section commands are instant.

			The scan flags of the root command apply to every scan started from
			the shell.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh := &shell{
				cmd:     cmd,
				flags:   flags,
				in:      bufio.NewScanner(cmd.InOrStdin()),
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
				prompt:  promptText(),
				reports: map[string]*analyzer.DriveReport{},
			}

			return sh.run(cmd.Context())
		},
	}
}

// shell is one interactive session. Completed reports are cached per volume
// so every section command after the first answers from memory.
type shell struct {
	cmd     *cobra.Command
	flags   *scanFlags
	in      *bufio.Scanner
	out     io.Writer
	errOut  io.Writer
	prompt  string
	reports map[string]*analyzer.DriveReport
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type help for the command list, exit to leave.")

	for {
		fmt.Fprint(s.out, s.prompt)

		if !s.in.Scan() {
			fmt.Fprintln(s.out)

			return s.in.Err()
		}

		if ctx.Err() != nil {
			fmt.Fprintln(s.out)

			return nil
		}

		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}

		if quit := s.dispatch(ctx, strings.ToLower(fields[0]), fields[1:]); quit {
			return nil
		}
	}
}

func (s *shell) dispatch(ctx context.Context, name string, args []string) bool {
	switch name {
	case "exit":
		return s.exit(args)
	case "echo":
		fmt.Fprintln(s.out, strings.Join(args, " "))
	case "pwd":
		if dir, err := os.Getwd(); err != nil {
			fmt.Fprintf(s.out, "pwd: %v\n", err)
		} else {
			fmt.Fprintln(s.out, dir)
		}
	case "help":
		s.printHelp()
	case "drives":
		s.printDrives()
	case "drive-analysis", "drive-space", "largest-folders", "file-type-dist",
		"largest-files", "recent-large-files", "old-large-files":
		s.section(ctx, name, args)
	default:
		fmt.Fprintf(s.out, "%s: not found\n", name)
	}

	return false
}

func (s *shell) exit(args []string) bool {
	if len(args) == 0 {
		return true
	}

	code, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "exit: %s: numeric argument required\n", args[0])

		return false
	}

	if code != 0 {
		os.Exit(code) //nolint:revive // The exit builtin carries its code out directly.
	}

	return true
}

func (s *shell) printHelp() {
	w := tabwriter.NewWriter(s.out, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "Commands:")

	for _, c := range shellCommands {
		fmt.Fprintf(w, "  %s\t%s\n", c.use, c.help)
	}

	w.Flush() //nolint:errcheck // Shell output is best effort.
}

func (s *shell) printDrives() {
	vols, err := drives.List()
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)

		return
	}

	if err := PrintDrives(vols, s.out); err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
}

// section renders one report section, scanning the volume first if this
// session has not seen it yet.
func (s *shell) section(ctx context.Context, name string, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "%s: missing volume argument\n", name)

		return
	}

	report, err := s.report(ctx, args[0])
	if err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)

		return
	}

	if err := printReportSection(name, report, s.out); err != nil {
		fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
}

func (s *shell) report(ctx context.Context, name string) (*analyzer.DriveReport, error) {
	vols, err := drives.List()
	if err != nil {
		return nil, fmt.Errorf("enumerating volumes: %w", err)
	}

	vol, err := matchVolume(vols, name)
	if err != nil {
		return nil, err
	}

	if report, ok := s.reports[vol.ID]; ok {
		return report, nil
	}

	opts, _, err := resolveOptions(s.cmd, s.flags)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(s.errOut, "Scanning %s…\n", vol.ID)

	report, err := analyzer.ScanVolume(ctx, vol, opts, nil)
	if err != nil {
		return nil, err
	}

	// Truncated reports are shown but never cached, so the next command
	// gets a full scan.
	if !report.Truncated {
		s.reports[vol.ID] = report
	}

	return report, nil
}

// promptText builds the colored two-line prompt shown before every read.
func promptText() string {
	username := "user"
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	}

	host := "host"
	if h, err := os.Hostname(); err == nil && h != "" {
		host = h
	}

	return fmt.Sprintf("\n%s%s%s\n%s ",
		promptUserStyle.Render(username),
		promptAtStyle.Render("@"),
		promptHostStyle.Render(host),
		promptMarkStyle.Render("$"))
}
