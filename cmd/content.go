package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/didi/internal/content"
	"github.com/abhisek/didi/internal/session"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Browse and check content packs",
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a content pack (default: the configured or built-in pack)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := packFromArgs(cmd, args)
		if err != nil {
			return err
		}
		fmt.Printf("OK: pack %s with %d lesson(s), %d concept(s), %d question(s)\n",
			pack.Version, len(pack.Lessons), len(pack.Concepts), len(pack.Questions))
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List lessons with their questions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pack, err := packFromArgs(cmd, args)
		if err != nil {
			return err
		}
		lang, _ := cmd.Flags().GetString("lang")
		l, err := session.ParseLanguage(lang)
		if err != nil {
			return err
		}

		for _, lesson := range pack.Lessons {
			fmt.Printf("%s  %s  (%d questions)\n", lesson.ID, lesson.Title, len(lesson.QuestionIDs))
			fmt.Println(strings.Repeat("─", 72))
			for _, qid := range lesson.QuestionIDs {
				q, err := pack.Question(qid)
				if err != nil {
					return err
				}
				fmt.Printf("  %-16s  %-20s  %-8s  %s\n",
					truncate(q.ID, 16), truncate(q.ConceptID, 20), q.ExpectedAnswer, q.Prompt.For(l))
			}
			fmt.Println()
		}
		return nil
	},
}

func packFromArgs(cmd *cobra.Command, args []string) (*content.Pack, error) {
	if len(args) == 1 {
		return content.LoadFile(args[0])
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return loadPack(cfg)
}

func init() {
	contentListCmd.Flags().String("lang", "english", "Language for prompts")

	contentCmd.AddCommand(contentValidateCmd)
	contentCmd.AddCommand(contentListCmd)
}
