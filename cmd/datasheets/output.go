package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	apperrors "github.com/interview-ai/datasheet-ui/internal/errors"
	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// structured reports whether results are printed as JSON.
func (cc *commandContext) structured() bool {
	return cc.Opts.JSON || cc.Opts.Filter != ""
}

// print writes v as JSON (optionally filtered) or through human.
func (cc *commandContext) print(v any, human func(io.Writer) error) error {
	if !cc.structured() {
		return human(cc.Stdout)
	}

	out := v
	if cc.Opts.Filter != "" {
		filtered, err := applyFilter(cc.Opts.Filter, v)
		if err != nil {
			return err
		}
		out = filtered
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return writeln(cc.Stdout, string(b))
}

// applyFilter evaluates a JMESPath expression against the JSON form of v.
func applyFilter(expr string, v any) (any, error) {
	query, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	res, err := query.Search(data)
	if err != nil {
		return nil, fmt.Errorf("apply filter: %w", err)
	}
	return res, nil
}

// describeError turns a command failure into one readable line.
func describeError(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if field := apperrors.GetField(err); field != "" && apperrors.IsValidation(err) {
			return fmt.Sprintf("%s: %s", field, appErr.Message)
		}
		return appErr.Message
	}

	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		if apiclient.IsUnauthorized(err) {
			return "not logged in or session expired"
		}
		if detail := httpErr.Detail(); detail != "" {
			return fmt.Sprintf("%d: %s", httpErr.StatusCode, detail)
		}
		return fmt.Sprintf("backend answered %d", httpErr.StatusCode)
	}

	if apiclient.IsTransport(err) {
		return "backend unreachable: " + errors.Unwrap(err).Error()
	}
	return err.Error()
}

// newTerminalNavigator reports client-side navigations on w. The login route
// gets a hint on how to sign in again.
func newTerminalNavigator(w io.Writer) ports.Navigator {
	return ports.NavigatorFunc(func(_ context.Context, path string) {
		if path == apiclient.LoginPath {
			_ = writef(w, "→ %s (run `datasheets login` to sign in)\n", path)
			return
		}
		_ = writef(w, "→ %s\n", path)
	})
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
