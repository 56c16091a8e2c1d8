// Command kanban-cli is a terminal client for a running kanban server. It
// loads the board through the same persistence collaborator the web frontend
// uses, so moves and edits get the same optimistic-update semantics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/smb-ai-solution/kanban/internal/board"
	"github.com/smb-ai-solution/kanban/internal/client"
	"github.com/smb-ai-solution/kanban/internal/config"
	"github.com/smb-ai-solution/kanban/internal/models"
)

func main() {
	cfg := config.Load()

	urlFlag := flag.String("url", cfg.APIBaseURL, "Base URL of the kanban server")
	tokenFlag := flag.String("token", cfg.APIToken, "Bearer token for the API")
	flag.Usage = usage
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	api := client.New(*urlFlag, client.Credential{Token: *tokenFlag}, cfg.APITimeout)
	mgr := board.New(api, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, mgr, flag.Args()); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "session expired or token invalid; log in again")
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, mgr *board.Manager, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}

	switch args[0] {
	case "show":
		columns, err := mgr.LoadBoard(ctx)
		if err != nil {
			return err
		}
		printBoard(columns)
		return nil

	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: add <column> <title>")
		}
		if _, err := mgr.LoadBoard(ctx); err != nil {
			return err
		}
		task, err := mgr.CreateTask(ctx, models.Status(args[1]), board.Fields{Title: args[2]})
		if err != nil {
			return err
		}
		fmt.Printf("created %s in %s\n", task.ID, task.Status)
		return nil

	case "move":
		if len(args) < 3 {
			return fmt.Errorf("usage: move <task-id> <column> [index]")
		}
		columns, err := mgr.LoadBoard(ctx)
		if err != nil {
			return err
		}
		from, ok := findColumn(columns, args[1])
		if !ok {
			return fmt.Errorf("task %s not found", args[1])
		}
		index := 0
		if len(args) > 3 {
			if index, err = strconv.Atoi(args[3]); err != nil {
				return fmt.Errorf("bad index %q", args[3])
			}
		}
		if err := mgr.MoveTask(ctx, args[1], from, models.Status(args[2]), index); err != nil {
			return err
		}
		fmt.Printf("moved %s to %s\n", args[1], args[2])
		return nil

	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: rm <task-id>")
		}
		if _, err := mgr.LoadBoard(ctx); err != nil {
			return err
		}
		if err := mgr.DeleteTask(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[1])
		return nil

	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: search <term>")
		}
		if _, err := mgr.LoadBoard(ctx); err != nil {
			return err
		}
		printBoard(mgr.FilterView(args[1], board.FilterAll, board.FilterAll))
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func findColumn(columns map[models.Status][]models.Task, taskID string) (models.Status, bool) {
	for _, col := range models.Columns {
		for _, t := range columns[col] {
			if t.ID == taskID {
				return col, true
			}
		}
	}
	return "", false
}

func printBoard(columns map[models.Status][]models.Task) {
	for _, col := range models.Columns {
		fmt.Printf("%s (%d)\n", col, len(columns[col]))
		for _, t := range columns[col] {
			line := fmt.Sprintf("  [%s] %s  %s", t.Priority, t.Title, t.ID)
			if due := t.DueState(time.Now()); due != "" {
				line += "  (" + string(due) + ")"
			}
			fmt.Println(line)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: kanban-cli [flags] <command>

commands:
  show                         print the board
  add <column> <title>         create a task in a column
  move <task-id> <column> [i]  move a task to a column at index i
  rm <task-id>                 delete a task
  search <term>                filter the board by search term

flags:
`)
	flag.PrintDefaults()
}
