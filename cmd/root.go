package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yoockh/ayuda/config"
	"github.com/yoockh/ayuda/internal/logger"
)

var (
	verbose bool

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ayuda",
	Short: "Transcribe and summarize recorded audio",
	Long: `Ayuda uploads audio to object storage, runs a cloud transcription job
with speaker diarization, and stores the transcript with a generated summary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c

		log = logger.New(cfg.AppEnv, cfg.LogLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.SetErr(os.Stderr)
}
