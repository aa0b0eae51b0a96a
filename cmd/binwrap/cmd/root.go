package cmd

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/binwrap/binwrap-go/contracts"
	"github.com/binwrap/binwrap-go/pipeline"
	"github.com/binwrap/binwrap-go/schema"
	"github.com/binwrap/binwrap-go/security"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "binwrap",
	Short: "Pack structured records into self-describing binary envelopes",
	Long: `binwrap packs JSON records into compact, optionally compressed and
encrypted binary envelopes, and unpacks them back byte-for-byte.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newSerializer assembles a pipeline from the shared CLI flags.
func newSerializer(schemaPath string, schemaID uint32, keyHex string) (*pipeline.Serializer, error) {
	opts := []pipeline.SerializerOption{pipeline.WithLogger(newLogger())}

	if schemaPath != "" {
		document, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("read schema: %w", err)
		}
		validator, err := schema.NewValidator(contracts.SchemaDescriptor{ID: schemaID, Document: document})
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithSchema(validator))
	}

	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("%w: key must be hex encoded", contracts.ErrInvalidArgument)
		}
		sc, err := security.NewSecurityContext(key)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithSecurity(sc))
	}

	return pipeline.NewSerializer(opts...)
}
