package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/didi/internal/app"
	"github.com/abhisek/didi/internal/config"
	"github.com/abhisek/didi/internal/logger"
	"github.com/abhisek/didi/internal/screens/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a lesson in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	addChatFlags(chatCmd)
}

func addChatFlags(c *cobra.Command) {
	c.Flags().String("student", envOr("USER", "student"), "Student id")
	c.Flags().String("lesson", "", "Lesson id (default: the pack's first lesson)")
	c.Flags().String("lang", "hinglish", "Reply language: hinglish, hindi or english")
}

// runChat builds the tutor and launches the chat screen. Logs go to a file
// beside the database so they do not draw over the UI.
func runChat(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := buildDeps(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	student, _ := cmd.Flags().GetString("student")
	lesson, _ := cmd.Flags().GetString("lesson")
	lang, _ := cmd.Flags().GetString("lang")

	root := chat.New(d.tutor, chat.Options{
		StudentID: student,
		LessonID:  lesson,
		Language:  lang,
		Timeout:   cfg.LLM.Timeout * 4,
	})
	return app.Run(cmd.Context(), root)
}

func fileLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
	}
	f, err := os.OpenFile(filepath.Join(filepath.Dir(dbPath), "didi.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := logger.NewWriter(f, lvl)
	return log, func() {
		log.Sync()
		f.Close()
	}, nil
}
