package cmd

import (
	"fmt"
	"os"

	"github.com/binwrap/binwrap-go/contracts"
	"github.com/binwrap/binwrap-go/pipeline"
	"github.com/binwrap/binwrap-go/storage"
	"github.com/spf13/cobra"
)

var (
	packSchema     string
	packSchemaID   uint32
	packNoCompress bool
	packEncrypt    bool
	packKey        string
)

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <record.json> <out.bw>",
	Short: "Pack a JSON record into an envelope file",
	Long: `Pack reads a JSON record, optionally validates it against a schema,
and writes a binary envelope.

Example:
  binwrap pack record.json record.bw --schema user.schema.json --encrypt --key <64 hex chars>`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		record, err := contracts.ValueFromJSON(data)
		if err != nil {
			return err
		}

		if packEncrypt && packKey == "" {
			return fmt.Errorf("%w: --encrypt requires --key", contracts.ErrInvalidArgument)
		}
		serializer, err := newSerializer(packSchema, packSchemaID, packKey)
		if err != nil {
			return err
		}
		defer serializer.Close()

		env, err := serializer.Serialize(cmd.Context(), record,
			pipeline.WithSchemaID(packSchemaID),
			pipeline.WithCompression(!packNoCompress),
			pipeline.WithEncryption(packEncrypt))
		if err != nil {
			return err
		}
		if err := storage.Save(env, args[1]); err != nil {
			return err
		}

		fmt.Printf("packed %s (%d payload bytes, compression=%s, encryption=%s)\n",
			args[1], len(env.Payload), env.Metadata.Compression, env.Metadata.Encryption)
		return nil
	},
}

func init() {
	packCmd.Flags().StringVar(&packSchema, "schema", "", "JSON Schema document to validate against")
	packCmd.Flags().Uint32Var(&packSchemaID, "schema-id", pipeline.DefaultSchemaID, "schema identifier recorded in the envelope")
	packCmd.Flags().BoolVar(&packNoCompress, "no-compress", false, "disable zstd compression")
	packCmd.Flags().BoolVar(&packEncrypt, "encrypt", false, "seal the payload with AES-256-GCM")
	packCmd.Flags().StringVar(&packKey, "key", "", "32-byte key, hex encoded")
	rootCmd.AddCommand(packCmd)
}
