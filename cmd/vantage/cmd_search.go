package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vantage/cmd/vantage/ui"
	"vantage/internal/leads"
	"vantage/internal/types"
)

var (
	searchLocation string
	searchRadius   int
	searchCSV      string
)

// searchCmd runs one lead-generation request into the active session.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Generate leads for a business niche",
	Long: `Generate leads for a business niche in or near a location.

The request and its result are recorded in the active session, and the
resulting leads become the active lead set.

Example:
  vantage search "BioTech Labs" --location Boston --radius 15 --csv leads.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "location to search in or near (required)")
	searchCmd.Flags().IntVarP(&searchRadius, "radius", "r", 10, "search radius in km")
	searchCmd.Flags().StringVar(&searchCSV, "csv", "", "also export the result to a CSV file")
	searchCmd.MarkFlagRequired("location")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	params := types.SearchParams{
		Query:    strings.Join(args, " "),
		Location: searchLocation,
		RadiusKm: searchRadius,
	}

	fmt.Printf("Researching: %s in %s within %dkm...\n\n", params.Query, params.Location, params.RadiusKm)

	msg, err := a.orch.GenerateLeads(cmd.Context(), params)
	if err != nil {
		return err
	}
	if msg.IsError {
		return fmt.Errorf("%s", msg.Text)
	}

	result := a.store.ActiveLeads()
	styles := ui.DefaultStyles()

	if len(result) == 0 {
		fmt.Println(styles.Warning.Render("No structured leads found in the response."))
	} else {
		title := fmt.Sprintf("Intelligence Output (%d records)", len(result))
		fmt.Print(ui.NewLeadTable(title, result).View(styles))
		fmt.Println()
	}

	fmt.Println(msg.Text)
	printSources(msg.GroundingSources, styles)

	if searchCSV != "" {
		path, err := leads.ExportCSV(searchCSV, result)
		if err != nil {
			return err
		}
		fmt.Println(styles.Success.Render("Exported " + path))
	}
	return nil
}

// printSources lists the first few grounding citations.
func printSources(sources []types.GroundingSource, styles ui.Styles) {
	if len(sources) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(styles.Subtitle.Render("Sources:"))
	for i, s := range sources {
		if i == 5 {
			fmt.Println(styles.Muted.Render(fmt.Sprintf("  ... and %d more", len(sources)-i)))
			break
		}
		fmt.Println(styles.Muted.Render("  " + s.Title + ": " + s.URI))
	}
}
