package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vantage/cmd/vantage/ui"
)

var chatImagePath string

// chatCmd sends one advisory chat turn against the active session.
var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one chat turn about the current leads",
	Long: `Send one message to the advisory assistant in the active session.

The assistant sees the session history and the active lead set, and uses
live search grounding for current information. An optional image (JPEG) can
be attached.

Example:
  vantage chat "draft an email to lead #1" --image storefront.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatImagePath, "image", "", "attach a JPEG image to the message")
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var imageB64 string
	if chatImagePath != "" {
		data, err := os.ReadFile(chatImagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		imageB64 = base64.StdEncoding.EncodeToString(data)
	}

	msg, err := a.orch.SendChat(cmd.Context(), strings.Join(args, " "), imageB64)
	if err != nil {
		return err
	}

	styles := ui.DefaultStyles()
	if msg.IsError {
		return fmt.Errorf("%s", msg.Text)
	}

	fmt.Println(msg.Text)
	printSources(msg.GroundingSources, styles)
	return nil
}
