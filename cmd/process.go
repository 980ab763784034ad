package cmd

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yoockh/ayuda/internal/services"
)

var processOutput string

var processCmd = &cobra.Command{
	Use:   "process <audio-file>",
	Short: "Transcribe and summarize one local audio file",
	Long: `Process runs the full pipeline for a local file: upload, transcription,
summarization and persistence. The stored transcription and summary are
printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "write the JSON result to this path instead of stdout")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	// keep stdout for the JSON result
	log.SetOutput(cmd.ErrOrStderr())

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Pipeline.Run(ctx, services.AudioUpload{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        data,
	})
	if err != nil {
		if stage, ok := services.FailedStage(err); ok {
			return fmt.Errorf("%s stage: %w", stage, err)
		}
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if processOutput == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}
	return os.WriteFile(processOutput, append(out, '\n'), 0o644)
}
