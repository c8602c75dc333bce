package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/didi/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect stored sessions and their turns",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		student, _ := cmd.Flags().GetString("student")

		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		infos, err := s.Sessions().List(context.Background(), store.ListOpts{StudentID: student, Limit: limit})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(infos) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-36s  %-12s  %-18s  %-16s  %-8s  %5s  %s\n",
			"ID", "Student", "Lesson", "State", "Lang", "Score", "Updated")
		fmt.Println(strings.Repeat("─", 120))
		for _, in := range infos {
			fmt.Printf("%-36s  %-12s  %-18s  %-16s  %-8s  %2d/%-2d  %s\n",
				in.ID,
				truncate(in.StudentID, 12),
				truncate(in.LessonID, 18),
				in.State,
				in.Language,
				in.Score, in.QuestionsAsked,
				in.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
			)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session's turn log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		sess, err := s.Sessions().Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		sum := sess.Summary()
		fmt.Printf("Session:   %s\n", sum.ID)
		fmt.Printf("Student:   %s\n", sum.StudentID)
		fmt.Printf("State:     %s\n", sum.State)
		fmt.Printf("Language:  %s\n", sum.Language)
		fmt.Printf("Score:     %d/%d (target %d)\n", sum.Score, sum.QuestionsAsked, sum.QuestionsTarget)
		fmt.Println()

		turns, err := s.Events().Turns(ctx, args[0], store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query turns: %w", err)
		}
		sep := strings.Repeat("─", 60)
		for _, t := range turns {
			fmt.Println(sep)
			fmt.Printf("#%d  %s  %s -> %s  [%s/%s]  %dms\n",
				t.Sequence,
				t.Timestamp.Local().Format("15:04:05"),
				t.FromState, t.ToState,
				t.Category, t.Handler,
				t.LatencyMs,
			)
			if t.Utterance != "" {
				fmt.Printf("  student: %s (%.2f)\n", t.Utterance, t.Confidence)
			}
			if t.Correctness != "" {
				fmt.Printf("  verdict: %s %s\n", t.Correctness, t.Diagnostic)
			}
			fmt.Printf("  didi:    %s\n", t.Reply)
			fmt.Printf("  source:  %s after %d attempt(s)", t.Source, t.Attempts)
			if len(t.Violations) > 0 {
				fmt.Printf("  violations: %s", strings.Join(t.Violations, ", "))
			}
			fmt.Println()
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Sessions().Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func openStoreFromFlags(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

func init() {
	sessionsListCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	sessionsListCmd.Flags().String("student", "", "Only this student's sessions")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
