package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"todo-manager/logger"
	"todo-manager/todo"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const delimiter = "$"

// app carries the state of one invocation.
type app struct {
	mgr      *todo.Manager
	settings todo.Settings

	sc     *bufio.Scanner
	out    io.Writer
	prompt bool
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var (
		initFlag  bool
		testFlag  bool
		db        string
		logLevel  string
		logFormat string
	)

	a := &app{
		sc:     bufio.NewScanner(in),
		out:    out,
		prompt: isTerminal(in),
	}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "A single-user todo list kept in a local store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log := logger.New(logger.Config{
				Writer: cmd.ErrOrStderr(),
				Format: logFormat,
				Level:  logger.ParseLevel(logLevel),
			})
			a.mgr = todo.NewManager(todo.NewSQLiteStore(), todo.NewConfigFile(todo.DefaultConfigFile, log), log)
			a.settings = a.mgr.ResolveSettings(db, cmd.Flags().Changed("db"))

			if initFlag {
				a.handleInit()
			}
			if testFlag {
				a.handleTest()
			}
		},
		Run: func(cmd *cobra.Command, _ []string) {
			if !initFlag && !testFlag {
				_ = cmd.Help()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.BoolVar(&initFlag, "init", false, "initialize the config file and the store")
	flags.BoolVar(&testFlag, "test", false, "check that the configured store is usable")
	flags.StringVar(&db, "db", "", "database name to use for this invocation")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", logger.FormatText, "log format (text, json)")

	root.AddCommand(
		&cobra.Command{
			Use:   "add",
			Short: "Add a todo, prompting for title and content",
			Args:  cobra.NoArgs,
			Run:   func(*cobra.Command, []string) { a.handleAdd() },
		},
		&cobra.Command{
			Use:   "list [id]",
			Short: "List all todos, or the one with the given id",
			Args:  cobra.MaximumNArgs(1),
			Run:   func(_ *cobra.Command, args []string) { a.handleList(args) },
		},
		&cobra.Command{
			Use:   "remove [id]",
			Short: "Remove all todos, or the one with the given id",
			Args:  cobra.MaximumNArgs(1),
			Run:   func(_ *cobra.Command, args []string) { a.handleRemove(args) },
		},
	)
	return root
}

func (a *app) handleInit() {
	if _, err := a.mgr.Setup(a.settings, todo.Init); err != nil {
		fmt.Fprintf(a.out, "Initialization has failed - Reason : %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Initialization completed successfully")
}

func (a *app) handleTest() {
	if _, err := a.mgr.Setup(a.settings, todo.Test); err != nil {
		fmt.Fprintln(a.out, "Test has failed, please initialize")
		return
	}
	fmt.Fprintln(a.out, "Test completed successfully")
}

func (a *app) handleAdd() {
	title, ok := a.readLine("Title")
	if !ok {
		fmt.Fprintln(a.out, "Save has failed: no title entered")
		return
	}
	content, ok := a.readLine("Content")
	if !ok {
		fmt.Fprintln(a.out, "Save has failed: no content entered")
		return
	}

	if _, err := a.mgr.Do(a.settings, todo.Save{Todo: todo.NewTodo(title, content)}); err != nil {
		fmt.Fprintf(a.out, "Save has failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Saved successfully")
}

func (a *app) handleList(args []string) {
	if len(args) == 0 {
		resp, err := a.mgr.Do(a.settings, todo.FetchAll{})
		if err != nil {
			fmt.Fprintln(a.out, err)
			return
		}
		all, ok := resp.(todo.All)
		if !ok {
			fmt.Fprintln(a.out, "Records not found")
			return
		}
		for _, t := range all.Todos {
			a.printTodo(t)
		}
		return
	}

	id, ok := a.parseID(args[0])
	if !ok {
		return
	}
	resp, err := a.mgr.Do(a.settings, todo.FetchByID{ID: id})
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	if one, ok := resp.(todo.One); ok && one.Todo != nil {
		a.printTodo(*one.Todo)
		return
	}
	fmt.Fprintln(a.out, todo.ErrRecordNotFound)
}

func (a *app) handleRemove(args []string) {
	if len(args) == 0 {
		if !a.confirm("all records") {
			return
		}
		if _, err := a.mgr.Do(a.settings, todo.DeleteAll{}); err != nil {
			fmt.Fprintln(a.out, err)
			return
		}
		fmt.Fprintln(a.out, "Remove all successful")
		return
	}

	id, ok := a.parseID(args[0])
	if !ok {
		return
	}
	if !a.confirm(fmt.Sprintf("a record id : %d", id)) {
		return
	}
	if _, err := a.mgr.Do(a.settings, todo.DeleteByID{ID: id}); err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	fmt.Fprintf(a.out, "Successfully removed a record id %d\n", id)
}

func (a *app) parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Not a valid integer")
		return 0, false
	}
	return id, true
}

func (a *app) printTodo(t todo.Todo) {
	b, err := json.Marshal(t)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, string(b))
}

// readLine prompts for label when stdin is a terminal and returns the next
// input line without its line ending.
func (a *app) readLine(label string) (string, bool) {
	if a.prompt {
		fmt.Fprintf(a.out, "%s %s ", label, delimiter)
	}
	if !a.sc.Scan() {
		return "", false
	}
	return strings.TrimRight(a.sc.Text(), "\r"), true
}

func (a *app) confirm(what string) bool {
	if a.prompt {
		fmt.Fprintf(a.out, "Do you want to remove %s (press enter to continue or type (N/n)) %s ", what, delimiter)
	}
	if !a.sc.Scan() {
		return false
	}
	return confirmed(a.sc.Text())
}

// confirmed treats every answer except one starting with N or n as yes.
func confirmed(answer string) bool {
	answer = strings.TrimSpace(answer)
	return !strings.HasPrefix(answer, "n") && !strings.HasPrefix(answer, "N")
}
