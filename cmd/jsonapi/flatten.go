package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/jsonapi"
)

var flattenWireSep string

func init() {
	flattenCmd.Flags().StringVar(&flattenWireSep, "wire-sep", "-", "word separator used by the document's field names")
}

var flattenCmd = &cobra.Command{
	Use:   "flatten [file]",
	Short: "Flatten a JSON:API document into plain parameters",
	Long: `Deserialize a JSON:API document the way a server would: attributes are
lifted to the top level with internal casing and relationships become
<type>_id entries. Non-JSON:API input passes through unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args)
		if err != nil {
			return err
		}

		var payload map[string]any
		if err := json.Unmarshal(data, &payload); err != nil {
			color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "invalid JSON")
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		des := &jsonapi.Deserializer{Caser: jsonapi.Caser{WireSep: flattenWireSep}}
		flat, err := des.Deserialize(payload)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(flat, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
