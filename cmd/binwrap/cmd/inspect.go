package cmd

import (
	"fmt"

	"github.com/binwrap/binwrap-go/codec"
	"github.com/binwrap/binwrap-go/storage"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <in.bw>",
	Short: "Print an envelope's header and metadata without decoding it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := storage.Load(args[0])
		if err != nil {
			return err
		}
		schemaID, err := codec.ParseHeader(env.Header[:])
		if err != nil {
			return err
		}

		meta, err := json.MarshalIndent(env.Metadata, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("schema id: %d\npayload:   %d bytes\nmetadata:  %s\n", schemaID, len(env.Payload), meta)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
