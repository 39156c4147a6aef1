package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"studyflow-backend/internal/logger"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/notes"
	"studyflow-backend/internal/studyplan"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var seedPath, logLevel string

	root := &cobra.Command{
		Use:           "studyctl",
		Short:         "StudyFlow terminal companion",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Configure(logLevel, true)
		},
	}
	root.PersistentFlags().StringVar(&seedPath, "seed", "", "YAML study plan seed (default: built-in demo week)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	root.AddCommand(newPlanCmd(&seedPath))
	root.AddCommand(newCompleteCmd(&seedPath))
	root.AddCommand(newNotesCmd())
	return root
}

func loadPlan(seedPath string) (*studyplan.Widget, error) {
	if seedPath == "" {
		return studyplan.New(), nil
	}
	seed, err := studyplan.LoadSeedFile(seedPath)
	if err != nil {
		return nil, err
	}
	return studyplan.New(studyplan.WithSeed(seed)), nil
}

func newPlanCmd(seedPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the weekly study plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := loadPlan(*seedPath)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(w.Overview())
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderOverview(w.Overview()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the overview as JSON")
	return cmd
}

func newCompleteCmd(seedPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <session-id>...",
		Short: "Complete sessions and show the resulting progress",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadPlan(*seedPath)
			if err != nil {
				return err
			}
			for _, id := range args {
				session, err := w.CompleteSession(context.Background(), id)
				if err != nil {
					return fmt.Errorf("session %s: %w", id, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed %s (%s, %d min)\n", session.ID, session.Subject, session.DurationMinutes)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderOverview(w.Overview()))
			return nil
		},
	}
}

func newNotesCmd() *cobra.Command {
	notesCmd := &cobra.Command{Use: "notes", Short: "Work with study notes"}

	notesCmd.AddCommand(&cobra.Command{
		Use:   "process <path>",
		Short: "Extract a local file and print its generated study material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			name := filepath.Base(args[0])

			note, err := processSync(cmd.Context(), notes.FileInput{Name: name, Size: int64(len(data)), Content: data})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderNote(note))
			return nil
		},
	})

	notesCmd.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List supported upload formats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, f := range notes.SupportedFormats() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-72s %s\n", f.Extension, f.MimeType, f.Description)
			}
			return nil
		},
	})

	return notesCmd
}

// inlineSubmitter runs the pipeline on the calling goroutine.
type inlineSubmitter struct {
	ctx context.Context
	w   *notes.Widget
}

func (s *inlineSubmitter) Submit(job *models.NoteJob) error {
	return s.w.Process(s.ctx, job)
}

func processSync(ctx context.Context, in notes.FileInput) (models.UploadedNote, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	sub := &inlineSubmitter{ctx: ctx}
	w := notes.New(notes.WithDelay(0), notes.WithSubmitter(sub))
	sub.w = w

	created := w.Ingest(ctx, []notes.FileInput{in})
	note, ok := w.Get(created[0].ID)
	if !ok {
		return models.UploadedNote{}, notes.ErrNoteNotFound
	}
	return note, nil
}
