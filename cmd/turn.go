package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/didi/internal/logger"
	"github.com/abhisek/didi/internal/tutor"
)

var turnCmd = &cobra.Command{
	Use:   "turn [text]",
	Short: "Run a single turn from the command line",
	Long: `Run one tutoring turn and print the reply.

With --start, a new session is opened and its greeting printed; the session
id is printed on stderr. Otherwise --session names the session and the
arguments are the student's utterance.`,
	Example: `  didi turn --start --student asha --lang hindi
  didi turn --session 7c0d... "minus 1 by 7"`,
	RunE: runTurn,
}

func init() {
	turnCmd.Flags().Bool("start", false, "Open a new session instead of answering")
	turnCmd.Flags().String("session", "", "Session id")
	turnCmd.Flags().Float64("confidence", 1, "Transcription confidence in [0, 1]")
	turnCmd.Flags().Bool("json", false, "Print the full response as JSON")
	addChatFlags(turnCmd)
}

func runTurn(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	d, err := buildDeps(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	start, _ := cmd.Flags().GetBool("start")

	var resp *tutor.Response
	if start {
		student, _ := cmd.Flags().GetString("student")
		lesson, _ := cmd.Flags().GetString("lesson")
		lang, _ := cmd.Flags().GetString("lang")
		resp, err = d.tutor.Start(ctx, tutor.StartRequest{StudentID: student, LessonID: lesson, Language: lang})
	} else {
		id, _ := cmd.Flags().GetString("session")
		if id == "" {
			return fmt.Errorf("--session is required (or use --start)")
		}
		confidence, _ := cmd.Flags().GetFloat64("confidence")
		resp, err = d.tutor.Turn(ctx, tutor.TurnRequest{
			SessionID:  id,
			Text:       strings.Join(args, " "),
			Confidence: confidence,
		})
	}
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if start {
		fmt.Fprintln(os.Stderr, "session:", resp.SessionID)
	}
	fmt.Println(resp.Reply)
	return nil
}
