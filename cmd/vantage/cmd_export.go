package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vantage/internal/leads"
	"vantage/internal/types"
)

var (
	exportOut  string
	exportTerm string
	exportType string
)

// exportCmd writes the active session's lead set to CSV. The active lead
// set does not survive between invocations, so the leads are taken from the
// audit copy on the session's most recent generation message.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active session's leads to CSV",
	Long: `Export the leads of the active session's most recent generation to a CSV
file with the fixed column order Name, Address, Website, Email, Phone, Type,
Rating. Without --out the file is named vantage_export_<date>.csv.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file path")
	exportCmd.Flags().StringVar(&exportTerm, "filter", "", "only export leads matching this term")
	exportCmd.Flags().StringVar(&exportType, "type", leads.TypeAll, "only export leads of this type")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	set := lastGeneratedLeads(a.store.Active())
	if len(set) == 0 {
		return fmt.Errorf("active session has no generated leads to export")
	}

	filtered := leads.Filter(set, exportTerm, exportType)
	if len(filtered) == 0 {
		return fmt.Errorf("no leads match the given filters")
	}

	path, err := leads.ExportCSV(exportOut, filtered)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d leads to %s\n", len(filtered), path)
	return nil
}

// lastGeneratedLeads walks the session log backwards for the most recent
// generation result.
func lastGeneratedLeads(sess types.ChatSession) []types.Lead {
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if len(sess.Messages[i].RelatedLeads) > 0 {
			return sess.Messages[i].RelatedLeads
		}
	}
	return nil
}
