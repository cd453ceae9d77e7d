package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/interview-ai/datasheet-ui/internal/api"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	"github.com/interview-ai/datasheet-ui/internal/router"
	"github.com/interview-ai/datasheet-ui/internal/util"
)

func commands() map[string]command {
	return map[string]command{
		"tables": {
			name:        "tables",
			description: "List imported tables",
			run:         runTables,
		},
		"data": {
			name:        "data",
			usage:       "<table> [flags]",
			description: "Show one page of a table",
			run:         runData,
		},
		"upload": {
			name:        "upload",
			usage:       "<file.xlsx> [--table-name NAME]",
			description: "Import a spreadsheet",
			run:         runUpload,
		},
		"query": {
			name:        "query",
			usage:       "<question>",
			description: "Ask a question about the imported data",
			run:         runQuery,
		},
		"stream": {
			name:        "stream",
			usage:       "<question>",
			description: "Ask a question and follow its progress live",
			run:         runStream,
		},
		"register": {
			name:        "register",
			usage:       "-u USER [-p PASS | --password-stdin]",
			description: "Create an account and log in",
			run:         runRegister,
		},
		"login": {
			name:        "login",
			usage:       "-u USER [-p PASS | --password-stdin]",
			description: "Log in and store the session token",
			run:         runLogin,
		},
		"me": {
			name:        "me",
			description: "Show the logged-in user",
			run:         runMe,
		},
		"logout": {
			name:        "logout",
			description: "Forget the session token",
			run:         runLogout,
		},
		"health": {
			name:        "health",
			description: "Check backend health",
			run:         runHealth,
		},
		"open": {
			name:        "open",
			usage:       "<route>",
			description: "Check whether a page route can be entered",
			run:         runOpen,
		},
	}
}

// usageError marks a malformed command line; run exits 2 for it.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlags parses args into fs, reporting bad flags as usage errors.
func parseFlags(fs *pflag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return err
	}
	return &usageError{err: err}
}

func noArgs(name string, args []string) error {
	fs := newFlagSet(name)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return nil
}

func runTables(cc *commandContext, args []string) error {
	if err := noArgs("tables", args); err != nil {
		return err
	}
	list, err := cc.API.ListTables(cc.Ctx)
	if err != nil {
		return err
	}
	return cc.print(list, func(w io.Writer) error {
		if len(list.Tables) == 0 {
			return writeln(w, "(no tables imported yet)")
		}
		for _, name := range list.Tables {
			if err := writeln(w, name); err != nil {
				return err
			}
		}
		return writef(w, "\n%d table(s)\n", list.Count)
	})
}

func runData(cc *commandContext, args []string) error {
	var (
		p         api.TableDataParams
		sortOrder string
	)
	fs := newFlagSet("data")
	fs.IntVar(&p.Page, "page", 0, "page number (default 1)")
	fs.IntVar(&p.PageSize, "page-size", 0, "rows per page (default 50)")
	fs.StringVar(&p.Search, "search", "", "filter rows containing this text")
	fs.StringVar(&p.SortBy, "sort-by", "", "column to sort by")
	fs.StringVar(&sortOrder, "sort-order", "", "asc or desc (default asc)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("exactly one table name is required")
	}
	p.Table = fs.Arg(0)
	p.SortOrder = model.SortOrder(strings.ToLower(strings.TrimSpace(sortOrder)))

	page, err := cc.API.GetTableData(cc.Ctx, p)
	if err != nil {
		return err
	}
	return cc.print(page, func(w io.Writer) error { return printTablePage(w, page) })
}

func printTablePage(w io.Writer, page *model.TablePage) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writeln(tw, strings.Join(page.Columns, "\t")); err != nil {
		return err
	}
	for i := range page.Data {
		cells := page.Row(i)
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = util.FormatCell(c)
		}
		if err := writeln(tw, strings.Join(parts, "\t")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	pg := page.Pagination
	return writef(w, "\n%s: page %d of %d (%d rows total, %d per page)\n",
		page.TableName, pg.Page, pg.TotalPages, pg.TotalRecords, pg.PageSize)
}

func runUpload(cc *commandContext, args []string) error {
	var tableName string
	fs := newFlagSet("upload")
	fs.StringVar(&tableName, "table-name", "", "table to import into (default derived from the file name)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("exactly one spreadsheet file is required")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			cc.Logger.Debug("close spreadsheet failed", "error", cerr)
		}
	}()

	res, err := cc.API.UploadSpreadsheet(cc.Ctx, api.Upload{
		Filename:  filepath.Base(path),
		Content:   f,
		TableName: tableName,
	})
	if err != nil {
		return err
	}
	return cc.print(res, func(w io.Writer) error {
		if err := writeln(w, res.Message); err != nil {
			return err
		}
		d := res.Details
		return writef(w, "table %s: %d rows imported from %s\n", d.TableName, d.RowsImported, d.Filename)
	})
}

func questionFrom(name string, args []string) (string, error) {
	fs := newFlagSet(name)
	if err := parseFlags(fs, args); err != nil {
		return "", err
	}
	q := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if q == "" {
		return "", usagef("a question is required")
	}
	return q, nil
}

func runQuery(cc *commandContext, args []string) error {
	question, err := questionFrom("query", args)
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := cc.API.Query(cc.Ctx, question)
	if err != nil {
		return err
	}
	if err := cc.print(res, func(w io.Writer) error { return printQueryResult(w, res) }); err != nil {
		return err
	}
	return cc.elapsed(time.Since(start))
}

func printQueryResult(w io.Writer, res *model.QueryResult) error {
	if err := writeln(w, res.HumanizedResponse); err != nil {
		return err
	}
	if res.SQLQuery == "" {
		return nil
	}
	if err := writef(w, "\nSQL: %s\n", res.SQLQuery); err != nil {
		return err
	}
	if res.SQLExplanation != "" {
		if err := writef(w, "%s\n", res.SQLExplanation); err != nil {
			return err
		}
	}
	return writef(w, "%d result(s); tables: %s\n", res.ResultsCount, strings.Join(res.TablesUsed, ", "))
}

func runStream(cc *commandContext, args []string) error {
	question, err := questionFrom("stream", args)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := cc.API.QueryStream(cc.Ctx, question, func(ev model.StreamEvent) error {
		if cc.structured() {
			return nil
		}
		if line := progressLine(ev); line != "" {
			return writef(cc.Stderr, "… %s\n", line)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if res == nil {
		return errors.New("stream ended without a response")
	}
	if err := cc.print(res, func(w io.Writer) error { return printQueryResult(w, res) }); err != nil {
		return err
	}
	return cc.elapsed(time.Since(start))
}

// elapsed reports the answer time on stderr for human output.
func (cc *commandContext) elapsed(d time.Duration) error {
	if cc.structured() {
		return nil
	}
	return writef(cc.Stderr, "(answered in %s)\n", util.FormatElapsed(d))
}

func progressLine(ev model.StreamEvent) string {
	switch ev.Type {
	case model.StreamLoadingTables, model.StreamBuildingContext, model.StreamGeneratingSQL,
		model.StreamExecutingSQL, model.StreamHumanizing:
		if ev.Message != "" {
			return ev.Message
		}
		return strings.ReplaceAll(string(ev.Type), "_", " ")
	case model.StreamTablesLoaded:
		return fmt.Sprintf("%d table(s) available", ev.Count)
	case model.StreamSQLGenerated:
		return "SQL: " + ev.SQLQuery
	case model.StreamSQLExecuted:
		return fmt.Sprintf("%d result(s)", ev.ResultsCount)
	default:
		return ""
	}
}

type credentialFlags struct {
	creds         model.Credentials
	passwordStdin bool
}

func parseCredentials(cc *commandContext, name string, args []string) (model.Credentials, error) {
	var f credentialFlags
	fs := newFlagSet(name)
	fs.StringVarP(&f.creds.Username, "username", "u", "", "account name")
	fs.StringVarP(&f.creds.Password, "password", "p", "", "account password")
	fs.BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from stdin")
	if err := parseFlags(fs, args); err != nil {
		return model.Credentials{}, err
	}
	if fs.NArg() > 0 && f.creds.Username == "" {
		f.creds.Username = fs.Arg(0)
	}
	if f.passwordStdin {
		if cc.Stdin == nil {
			return model.Credentials{}, errors.New("stdin is not available")
		}
		line, err := bufio.NewReader(cc.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return model.Credentials{}, fmt.Errorf("read password: %w", err)
		}
		f.creds.Password = strings.TrimRight(line, "\r\n")
	}
	return f.creds, nil
}

func runRegister(cc *commandContext, args []string) error {
	return authenticate(cc, "register", args, cc.API.Register)
}

func runLogin(cc *commandContext, args []string) error {
	return authenticate(cc, "login", args, cc.API.Login)
}

func authenticate(
	cc *commandContext,
	name string,
	args []string,
	do func(ctx context.Context, creds model.Credentials) (*model.AuthResult, error),
) error {
	creds, err := parseCredentials(cc, name, args)
	if err != nil {
		return err
	}
	res, err := do(cc.Ctx, creds)
	if err != nil {
		return err
	}
	res.Token = ""
	return cc.print(res, func(w io.Writer) error {
		msg := res.Message
		if msg == "" {
			msg = "logged in"
		}
		return writef(w, "%s (%s)\n", msg, res.Username)
	})
}

func runMe(cc *commandContext, args []string) error {
	if err := noArgs("me", args); err != nil {
		return err
	}
	user, err := cc.API.Me(cc.Ctx)
	if err != nil {
		return err
	}
	return cc.print(user, func(w io.Writer) error { return writeln(w, user.Username) })
}

func runLogout(cc *commandContext, args []string) error {
	if err := noArgs("logout", args); err != nil {
		return err
	}
	cc.API.Logout(cc.Ctx)
	return nil
}

func runHealth(cc *commandContext, args []string) error {
	if err := noArgs("health", args); err != nil {
		return err
	}
	h, err := cc.API.Health(cc.Ctx)
	if err != nil {
		return err
	}
	if err := cc.print(h, func(w io.Writer) error {
		return writef(w, "status: %s\ndatabase: %s\n", h.Status, h.Database)
	}); err != nil {
		return err
	}
	if !h.Healthy() {
		return errors.New("backend is not healthy")
	}
	return nil
}

type routeReport struct {
	Target   string `json:"target"`
	Route    string `json:"route,omitempty"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

func runOpen(cc *commandContext, args []string) error {
	fs := newFlagSet("open")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("exactly one route is required")
	}

	guard := router.NewGuard(cc.Store, router.DefaultTable())
	d := guard.Check(cc.Ctx, fs.Arg(0))
	report := routeReport{Target: d.Target, Allowed: d.Allowed(), Redirect: d.Redirect}
	if d.Found {
		report.Route = d.Route.Name
	}

	return cc.print(report, func(w io.Writer) error {
		if d.Allowed() {
			return writef(w, "%s: allowed\n", d.Target)
		}
		return writef(w, "%s: redirected to %s\n", d.Target, d.Redirect)
	})
}
