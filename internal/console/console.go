// Package console drives the ledger from a line-oriented terminal session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	applog "finman/internal/log"
	"finman/internal/presenter"
)

const prompt = "finman> "

var errQuit = errors.New("quit")

type command struct {
	Usage string
	Help  string
	// Run receives the text after the command word.
	Run func(ctx context.Context, rest string) error
}

// Console reads commands from in and writes screens to out.
type Console struct {
	in        *bufio.Reader
	out       io.Writer
	presenter *presenter.Presenter
	logger    *applog.Logger
	commands  map[string]command
}

func New(in io.Reader, out io.Writer, p *presenter.Presenter, logger *applog.Logger) *Console {
	if logger == nil {
		logger = applog.Discard()
	}
	c := &Console{
		in:        bufio.NewReader(in),
		out:       out,
		presenter: p,
		logger:    logger.WithComponent(applog.ComponentConsole),
	}
	c.commands = map[string]command{
		"add": {
			Usage: "add <income|expense> <category> <amount>",
			Help:  "record a transaction",
			Run:   c.add,
		},
		"remove": {
			Usage: "remove <index>",
			Help:  "delete the transaction at index",
			Run:   c.remove,
		},
		"list": {
			Usage: "list",
			Help:  "show transactions and totals",
			Run:   func(context.Context, string) error { c.show(c.presenter.Current()); return nil },
		},
		"summary": {
			Usage: "summary",
			Help:  "show the three totals",
			Run:   func(context.Context, string) error { c.labels(c.presenter.Current().Labels); return nil },
		},
		"print": {
			Usage: "print",
			Help:  "print the transaction summary",
			Run: func(ctx context.Context, _ string) error {
				c.notice(c.presenter.Print(ctx).Notice)
				return nil
			},
		},
		"help": {
			Usage: "help",
			Help:  "list commands",
			Run:   func(context.Context, string) error { c.help(); return nil },
		},
		"quit": {
			Usage: "quit",
			Help:  "leave",
			Run:   func(context.Context, string) error { return errQuit },
		},
	}
	c.commands["exit"] = c.commands["quit"]
	return c
}

// Run processes commands until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.printf("Personal Finance Manager. Type 'help' for commands.\n")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s", prompt)

		line, readErr := c.in.ReadString('\n')
		if line != "" {
			if err := c.Execute(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				c.printf("\n")
				return nil
			}
			return fmt.Errorf("read command: %w", readErr)
		}
	}
}

// RunScript executes every line of r without prompting, stopping at quit or
// end of input. Blank lines and lines starting with # are skipped.
func (c *Console) RunScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.Execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}

// Execute runs a single command line. Ledger errors are shown to the user
// and are not returned.
func (c *Console) Execute(ctx context.Context, line string) error {
	word, rest := splitFirst(line)
	if word == "" {
		return nil
	}

	name := strings.ToLower(word)
	cmd, ok := c.commands[name]
	if !ok {
		c.logger.DebugContext(ctx, "Unknown console command", "command", name)
		c.printf("Unknown command %q. Type 'help' for commands.\n", word)
		return nil
	}
	return cmd.Run(ctx, rest)
}

// splitFirst returns the first word of s and the trimmed text after it.
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// parseEntry reads "<kind> <category...> <amount>". The category is whatever
// lies between the first and last words, inner spacing included.
func parseEntry(rest string) presenter.Form {
	var form presenter.Form
	form.Kind, rest = splitFirst(rest)
	if rest == "" {
		return form
	}
	i := strings.LastIndexFunc(rest, unicode.IsSpace)
	if i < 0 {
		form.Amount = rest
		return form
	}
	_, size := utf8.DecodeRuneInString(rest[i:])
	form.Amount = rest[i+size:]
	form.Category = strings.TrimSpace(rest[:i])
	return form
}

func (c *Console) add(ctx context.Context, rest string) error {
	screen, err := c.presenter.Submit(ctx, parseEntry(rest))
	if err != nil {
		c.notice(screen.Notice)
		return nil
	}
	c.printf("Added [%d] %s\n", screen.Touched, screen.Rows[screen.Touched])
	c.labels(screen.Labels)
	return nil
}

func (c *Console) remove(ctx context.Context, rest string) error {
	selected := -1
	if args := strings.Fields(rest); len(args) == 1 {
		if i, err := strconv.Atoi(args[0]); err == nil {
			selected = i
		}
	}

	screen, err := c.presenter.Remove(ctx, selected)
	if err != nil {
		c.notice(screen.Notice)
		return nil
	}
	c.show(screen)
	return nil
}

func (c *Console) show(s presenter.Screen) {
	if len(s.Rows) == 0 {
		c.printf("No transactions yet\n")
	}
	for i, row := range s.Rows {
		c.printf("[%d] %s\n", i, row)
	}
	c.labels(s.Labels)
}

func (c *Console) labels(l presenter.Labels) {
	c.printf("%s\n%s\n%s\n", l.TotalIncome, l.TotalExpense, l.Balance)
}

func (c *Console) notice(n *presenter.Notice) {
	if n == nil {
		return
	}
	switch n.Level {
	case presenter.LevelInfo:
		c.printf("%s\n%s\n", n.Title, n.Message)
	default:
		c.printf("%s: %s\n", n.Title, n.Message)
	}
}

func (c *Console) help() {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		if name != "exit" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := c.commands[name]
		c.printf("  %-42s %s\n", cmd.Usage, cmd.Help)
	}
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
