package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/nawsaafa/talents-acting-sub000/internal/cli/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Command group IDs.
const (
	groupMigrate = "migrate"
	groupConfig  = "config"
)

// initHelp wires up styled help/usage rendering and command groups.
func initHelp() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupMigrate, Title: "MIGRATION"},
		&cobra.Group{ID: groupConfig, Title: "CONFIGURATION"},
	)

	assign := map[string]string{
		"migrate":  groupMigrate,
		"validate": groupMigrate,
		"rollback": groupMigrate,

		"config":  groupConfig,
		"version": groupConfig,
	}
	for _, cmd := range rootCmd.Commands() {
		if gid, ok := assign[cmd.Name()]; ok {
			cmd.GroupID = gid
		}
	}

	rootCmd.SetHelpFunc(styledHelp)
	rootCmd.SetUsageFunc(styledUsage)
}

// styledHelp renders colorful help output.
func styledHelp(cmd *cobra.Command, _ []string) {
	c := colorEnabled()
	w := cmd.ErrOrStderr()

	if cmd.Long != "" {
		fmt.Fprintln(w)
		if cmd == rootCmd {
			fmt.Fprintf(w, "  %s %s\n", ui.BrandEmoji, boldCyan("talentmigrate", c))
			fmt.Fprintln(w)
			for _, line := range strings.Split(cmd.Long, "\n") {
				switch {
				case strings.TrimSpace(line) == "":
					fmt.Fprintln(w)
				case strings.HasPrefix(line, "  "):
					fmt.Fprintf(w, "    %s\n", green(strings.TrimSpace(line), c))
				default:
					fmt.Fprintf(w, "  %s\n", dim(line, c))
				}
			}
		} else {
			for _, line := range strings.Split(cmd.Long, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	} else if cmd.Short != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", cmd.Short)
	}

	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", heading("USAGE", c))
	useLine := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		useLine = cmd.CommandPath() + " [command]"
	}
	fmt.Fprintf(w, "  %s\n", useLine)
	fmt.Fprintln(w)

	if cmd.Example != "" {
		fmt.Fprintf(w, "%s\n", heading("EXAMPLES", c))
		for _, line := range strings.Split(cmd.Example, "\n") {
			if strings.TrimSpace(line) == "" {
				fmt.Fprintln(w)
			} else {
				fmt.Fprintf(w, "  %s\n", green(strings.TrimSpace(line), c))
			}
		}
		fmt.Fprintln(w)
	}

	printCommands(cmd, c)
	printFlags(cmd, c)

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "%s\n",
			dim(fmt.Sprintf("Use \"%s [command] --help\" for more information about a command.", cmd.CommandPath()), c))
		fmt.Fprintln(w)
	}
}

// styledUsage renders just the usage section (shown on errors).
func styledUsage(cmd *cobra.Command) error {
	styledHelp(cmd, nil)
	return nil
}

// printCommands renders grouped or ungrouped subcommands.
func printCommands(cmd *cobra.Command, c bool) {
	if !cmd.HasAvailableSubCommands() {
		return
	}

	w := cmd.ErrOrStderr()
	groups := cmd.Groups()

	var ungrouped []*cobra.Command
	grouped := make(map[string][]*cobra.Command)
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		if sub.GroupID != "" && len(groups) > 0 {
			grouped[sub.GroupID] = append(grouped[sub.GroupID], sub)
		} else {
			ungrouped = append(ungrouped, sub)
		}
	}
	for _, g := range groups {
		cmds := grouped[g.ID]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", heading(g.Title, c))
		printCommandList(w, cmds, c)
		fmt.Fprintln(w)
	}
	if len(ungrouped) > 0 {
		title := "COMMANDS"
		if len(groups) > 0 {
			title = "OTHER"
		}
		fmt.Fprintf(w, "%s\n", heading(title, c))
		printCommandList(w, ungrouped, c)
		fmt.Fprintln(w)
	}
}

// printCommandList renders a list of commands with aligned descriptions.
func printCommandList(w io.Writer, cmds []*cobra.Command, c bool) {
	maxLen := 0
	for _, cmd := range cmds {
		if n := len(cmd.Name()); n > maxLen {
			maxLen = n
		}
	}
	pad := maxLen + 4

	for _, cmd := range cmds {
		name := bold(fmt.Sprintf("%-*s", pad, cmd.Name()), c)
		fmt.Fprintf(w, "  %s%s\n", name, dim(cmd.Short, c))
	}
}

// printFlags renders local flags, then inherited (global) ones.
func printFlags(cmd *cobra.Command, c bool) {
	w := cmd.ErrOrStderr()

	if cmd == rootCmd {
		if all := cmd.Flags(); hasVisibleFlags(all) {
			fmt.Fprintf(w, "%s\n", heading("FLAGS", c))
			printFlagSet(w, all, c)
			fmt.Fprintln(w)
		}
		return
	}

	if local := cmd.LocalNonPersistentFlags(); hasVisibleFlags(local) {
		fmt.Fprintf(w, "%s\n", heading("FLAGS", c))
		printFlagSet(w, local, c)
		fmt.Fprintln(w)
	}
	if inherited := cmd.InheritedFlags(); hasVisibleFlags(inherited) {
		fmt.Fprintf(w, "%s\n", heading("GLOBAL FLAGS", c))
		printFlagSet(w, inherited, c)
		fmt.Fprintln(w)
	}
}

// printFlagSet renders pflag's aligned usage lines with colored flag names.
func printFlagSet(w io.Writer, fs *pflag.FlagSet, c bool) {
	usage := fs.FlagUsages()
	for _, line := range strings.Split(strings.TrimRight(usage, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(w, "%s\n", colorizeFlag(line, c))
	}
}

func colorizeFlag(line string, c bool) string {
	if !c {
		return line
	}
	trimmed := strings.TrimLeft(line, " ")
	prefix := line[:len(line)-len(trimmed)]

	parts := splitFlagLine(trimmed)
	if len(parts) == 2 {
		return prefix + cyan(parts[0], c) + "   " + dim(parts[1], c)
	}
	return prefix + cyan(trimmed, c)
}

// splitFlagLine splits a flag usage line into [flagPart, descPart] at the
// first run of three spaces, which pflag uses as the column gap.
func splitFlagLine(s string) []string {
	if i := strings.Index(s, "   "); i >= 0 {
		if desc := strings.TrimLeft(s[i:], " "); desc != "" {
			return []string{strings.TrimRight(s[:i], " "), desc}
		}
	}
	return []string{s}
}

func hasVisibleFlags(fs *pflag.FlagSet) bool {
	visible := false
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			visible = true
		}
	})
	return visible
}

func heading(title string, c bool) string {
	return boldCyan(title, c)
}
