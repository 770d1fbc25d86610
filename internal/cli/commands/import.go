package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SaxonF/supawatch/internal/admin"
	"github.com/SaxonF/supawatch/internal/importer"
)

// ImportOptions holds options for the import command.
type ImportOptions struct {
	GroupID string
	Yes     bool
	File    string
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import [URL]",
		Short: "Import a template document into the sidebar",
		Long: `Fetch a template document and merge it into the project's sidebar.

The document's shape decides how it merges: a single item is appended to a
group, a group replaces any existing group with the same id, and a whole
spec replaces the document entirely. Spec replacement is destructive and
requires --yes.`,
		Example: `  # Import an item into the default group
  supawatch import https://example.com/templates/users.json

  # Import an item into a specific group
  supawatch import https://example.com/templates/users.json --group reports

  # Replace the whole spec
  supawatch import https://example.com/spec.json --yes

  # Import from a local file
  supawatch import --file ./specs/default.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.GroupID, "group", "g", "", "Target group for item payloads")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Confirm destructive spec replacement")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Import from a local file instead of a URL")

	return cmd
}

func runImport(cmd *cobra.Command, args []string, opts *ImportOptions) error {
	cfg := GetConfig(cmd.Context())
	logger := GetLogger(cmd.Context())
	render := GetRenderer(cmd.Context())

	if len(args) == 0 && opts.File == "" {
		return fmt.Errorf("either a URL argument or --file is required")
	}

	svc, cleanup, err := newService(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var report *admin.ImportReport
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		// Spec replacement needs the same confirmation as a URL import.
		payload, err := importer.ClassifyJSON(data)
		if err != nil {
			return err
		}
		if payload.Kind == importer.KindSpec && !opts.Yes {
			render.Warnf("This document replaces the whole spec. Re-run with --yes to confirm.")
			return admin.ErrReplaceNotConfirmed
		}
		report, err = svc.ImportDocument(cmd.Context(), data)
		if err != nil {
			return err
		}
	} else {
		url := strings.TrimSpace(args[0])
		report, err = svc.Import(cmd.Context(), admin.ImportOptions{
			URL:            url,
			GroupID:        opts.GroupID,
			ConfirmReplace: opts.Yes,
		})
		if errors.Is(err, admin.ErrReplaceNotConfirmed) {
			render.Warnf("This document replaces the whole spec. Re-run with --yes to confirm.")
			return err
		}
		if err != nil {
			return err
		}
	}

	switch {
	case report.GroupID != "":
		render.Successf("Imported %s into group %q", report.Kind, report.GroupID)
	default:
		render.Successf("Imported %s", report.Kind)
	}
	return nil
}
