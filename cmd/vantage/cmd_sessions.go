// Package main implements session management CLI commands for vantage.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vantage/cmd/vantage/ui"
)

// sessionsCmd manages chat sessions
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage vantage sessions",
	Long: `List and manage vantage sessions.

Subcommands:
  list    - List all sessions (newest first)
  new     - Create a session and make it active
  select  - Make a session active`,
	RunE: runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE:  runSessionsList,
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a session and make it active",
	RunE:  runSessionsNew,
}

var sessionsSelectCmd = &cobra.Command{
	Use:   "select <session-id>",
	Short: "Make a session active",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsSelect,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	sessionsCmd.AddCommand(sessionsSelectCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	styles := ui.DefaultStyles()
	active := a.store.Active().ID
	for _, sess := range a.store.Sessions() {
		marker := "  "
		if sess.ID == active {
			marker = styles.Prompt.Render("* ")
		}
		fmt.Printf("%s%s  %s  (%d messages, created %s)\n",
			marker,
			sess.ID,
			sess.DisplayLabel(),
			len(sess.Messages),
			sess.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsNew(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.store.NewSession(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("Created session %s (%s)\n", sess.Name, sess.ID)
	return nil
}

func runSessionsSelect(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	a.store.Select(args[0])
	active := a.store.Active()
	if active.ID != args[0] {
		return fmt.Errorf("no session with id %s", args[0])
	}
	fmt.Printf("Active session: %s\n", active.Name)
	return nil
}
