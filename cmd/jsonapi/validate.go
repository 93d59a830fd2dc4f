package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/jsonapi"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate the structure of a JSON:API document",
	Long: `Decode a JSON:API document and report structural problems: malformed
JSON, resource objects without a type, and documents mixing data with errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args)
		if err != nil {
			return err
		}

		doc, err := jsonapi.UnmarshalDocument(data)
		if err != nil {
			color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "invalid document")
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		problems := checkDocument(doc)
		if len(problems) > 0 {
			color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "document violates the JSON:API structure:")
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "  - %s\n", p)
			}
			os.Exit(1)
		}

		green := color.New(color.FgGreen, color.Bold)
		green.Print("ok")
		fmt.Printf("  %s\n", describe(doc))
		return nil
	},
}

// checkDocument reports structural problems the decoder tolerates.
func checkDocument(doc *jsonapi.Document) []string {
	var problems []string
	if len(doc.Errors) > 0 && doc.HasData() {
		problems = append(problems, "data and errors are mutually exclusive")
	}
	if !doc.HasData() && len(doc.Errors) == 0 && doc.Meta == nil {
		problems = append(problems, "document needs at least one of data, errors, or meta")
	}

	seen := make(map[string]bool)
	for i, res := range doc.Included {
		if res.Type == "" {
			problems = append(problems, fmt.Sprintf("included[%d] has no type", i))
			continue
		}
		key := res.Type + "\x00" + res.ID
		if seen[key] {
			problems = append(problems, fmt.Sprintf("included[%d] duplicates %s/%s", i, res.Type, res.ID))
		}
		seen[key] = true
	}

	if doc.Data != nil {
		for i, res := range doc.Data.Items() {
			if res.Type == "" {
				problems = append(problems, fmt.Sprintf("data[%d] has no type", i))
			}
		}
	}
	return problems
}

func describe(doc *jsonapi.Document) string {
	switch {
	case len(doc.Errors) > 0:
		return fmt.Sprintf("%d error(s)", len(doc.Errors))
	case doc.Data == nil:
		return "meta-only document"
	case doc.Data.IsMany():
		return fmt.Sprintf("collection of %d resource(s), %d included", len(doc.Data.Items()), len(doc.Included))
	case doc.Data.First() == nil:
		return "null resource"
	default:
		first := doc.Data.First()
		return fmt.Sprintf("%s/%s, %d included", first.Type, first.ID, len(doc.Included))
	}
}
