package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"todo-manager/logger"
	"todo-manager/todo"

	"github.com/spf13/cobra"
)

func main() {
	if err := newImportCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newImportCmd(out io.Writer) *cobra.Command {
	var (
		dir       string
		db        string
		clean     bool
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:          "import_todos",
		Short:        "Import every .txt file in a directory as a todo",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(logger.Config{
				Writer: cmd.ErrOrStderr(),
				Format: logFormat,
				Level:  logger.ParseLevel(logLevel),
			})
			mgr := todo.NewManager(todo.NewSQLiteStore(), todo.NewConfigFile(todo.DefaultConfigFile, log), log)
			settings := mgr.ResolveSettings(db, cmd.Flags().Changed("db"))

			if clean {
				fmt.Fprintln(out, "Removing existing todos...")
				if _, err := mgr.Do(settings, todo.DeleteAll{}); err != nil {
					return err
				}
			}

			imported, failed, err := importDir(mgr, settings, dir, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nImport complete!\n")
			fmt.Fprintf(out, "Successfully imported: %d todos\n", imported)
			fmt.Fprintf(out, "Errors: %d\n", failed)

			if imported > 0 {
				printSummary(mgr, settings, out)
			}
			return nil
		},
	}
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", "todos", "directory holding the .txt files")
	flags.StringVar(&db, "db", "", "database name to import into")
	flags.BoolVar(&clean, "clean", false, "remove all existing todos first")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", logger.FormatText, "log format (text, json)")
	return cmd
}

// importDir saves one todo per .txt file in dir. The title comes from the
// file name and the content from the file body.
func importDir(mgr *todo.Manager, settings todo.Settings, dir string, out io.Writer) (imported, failed int, err error) {
	if !settings.IsConfigAvailable() {
		return 0, 0, todo.ErrInitNotAvailable
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read todos directory: %w", err)
	}
	fmt.Fprintf(out, "Importing todos from %s directory...\n", dir)

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".txt") {
			continue
		}

		title := titleFromFile(file.Name())
		fmt.Fprintf(out, "Importing: %s... ", title)

		body, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			fmt.Fprintf(out, "ERROR - File not accessible: %v\n", err)
			failed++
			continue
		}

		t := todo.NewTodo(title, strings.TrimSpace(string(body)))
		if _, err := mgr.Do(settings, todo.Save{Todo: t}); err != nil {
			fmt.Fprintf(out, "ERROR - %v\n", err)
			failed++
			continue
		}

		fmt.Fprintln(out, "SUCCESS")
		imported++
	}
	return imported, failed, nil
}

// titleFromFile turns "buy_milk.txt" into "buy milk".
func titleFromFile(name string) string {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
}

func printSummary(mgr *todo.Manager, settings todo.Settings, out io.Writer) {
	resp, err := mgr.Do(settings, todo.FetchAll{})
	if err != nil {
		fmt.Fprintf(out, "Error retrieving todos: %v\n", err)
		return
	}
	all, ok := resp.(todo.All)
	if !ok {
		return
	}

	fmt.Fprintln(out, "\nImported todos:")
	fmt.Fprintf(out, "%-5s %-40s %-30s\n", "ID", "Title", "Content")
	fmt.Fprintln(out, strings.Repeat("-", 77))
	for _, t := range all.Todos {
		fmt.Fprintf(out, "%-5d %-40s %-30s\n", *t.ID, truncateString(t.Title, 40), truncateString(t.Content, 30))
	}
}

// truncateString shortens s to maxLen runes.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
