package cmd

import (
	"fmt"
	"os"

	"github.com/binwrap/binwrap-go/storage"
	"github.com/spf13/cobra"
)

var unpackKey string

// unpackCmd represents the unpack command
var unpackCmd = &cobra.Command{
	Use:   "unpack <in.bw> [out.json]",
	Short: "Unpack an envelope file back into its JSON record",
	Long: `Unpack reads a binary envelope, reverses the transform pipeline it
describes, and prints (or writes) the original JSON record.

Example:
  binwrap unpack record.bw record.json --key <64 hex chars>`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := storage.Load(args[0])
		if err != nil {
			return err
		}

		serializer, err := newSerializer("", 0, unpackKey)
		if err != nil {
			return err
		}
		defer serializer.Close()

		record, err := serializer.Deserialize(cmd.Context(), env)
		if err != nil {
			return err
		}
		out, err := record.MarshalJSON()
		if err != nil {
			return err
		}

		if len(args) == 2 {
			if err := os.WriteFile(args[1], append(out, '\n'), 0o644); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
			return nil
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	unpackCmd.Flags().StringVar(&unpackKey, "key", "", "32-byte key, hex encoded")
	rootCmd.AddCommand(unpackCmd)
}
