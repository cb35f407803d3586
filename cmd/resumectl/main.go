// Command resumectl is a command-line client for the analysis API:
//
//	go run ./cmd/resumectl upload resume.pdf
//	go run ./cmd/resumectl list -score 8-9 -sort highest -xlsx history.xlsx
//	go run ./cmd/resumectl get <id>
//
// The API base URL comes from -api or RESUME_API_URL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/client"
	"resume-analyzer/internal/history"
)

const usage = `usage: resumectl [-api URL] <command> [args]

commands:
  upload <file.pdf>    analyze a résumé and print the stored record
  list [flags]         print the analysis history
  get <id>             print one stored analysis
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("resumectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := fs.String("api", envOr("RESUME_API_URL", client.DefaultBaseURL), "API base URL")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	c := client.New(*apiURL, nil)
	var err error
	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; cmd {
	case "upload":
		err = runUpload(ctx, c, rest, stdout)
	case "list", "history":
		err = runList(ctx, c, rest, stdout, stderr)
	case "get":
		err = runGet(ctx, c, rest, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if err == nil {
		return 0
	}
	var uerr usageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(stderr, uerr.Error())
		return 2
	}
	fmt.Fprintln(stderr, "error:", err)
	return 1
}

type usageError string

func (e usageError) Error() string { return string(e) }

func runUpload(ctx context.Context, c *client.Client, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return usageError("usage: resumectl upload <file.pdf>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rec, err := c.Upload(ctx, args[0], f)
	if err != nil {
		return err
	}
	return writeJSON(stdout, rec)
}

func runGet(ctx context.Context, c *client.Client, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return usageError("usage: resumectl get <id>")
	}
	rec, err := c.Get(ctx, args[0])
	if errors.Is(err, analyses.ErrNotFound) {
		return fmt.Errorf("analysis %s not found", args[0])
	}
	if err != nil {
		return err
	}
	return writeJSON(stdout, rec)
}

type listOptions struct {
	query  history.Query
	xlsx   string
	asJSON bool
}

func parseListArgs(args []string, stderr io.Writer) (listOptions, error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	text := fs.String("q", "", "filter by name, email or file name")
	score := fs.String("score", "all", "score bracket: all, 9-10, 8-9, 7-8, below-7")
	sortKey := fs.String("sort", "latest", "order: latest, oldest, highest, lowest, name")
	xlsx := fs.String("xlsx", "", "also write the listed records to this .xlsx file")
	asJSON := fs.Bool("json", false, "print records as JSON")
	if err := fs.Parse(args); err != nil {
		return listOptions{}, usageError(err.Error())
	}

	bracket, err := history.ParseScoreBracket(*score)
	if err != nil {
		return listOptions{}, usageError(err.Error())
	}
	key, err := history.ParseSort(*sortKey)
	if err != nil {
		return listOptions{}, usageError(err.Error())
	}
	return listOptions{
		query:  history.Query{Text: *text, Score: bracket, Sort: key},
		xlsx:   *xlsx,
		asJSON: *asJSON,
	}, nil
}

func runList(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	opts, err := parseListArgs(args, stderr)
	if err != nil {
		return err
	}
	all, err := c.List(ctx)
	if err != nil {
		return err
	}
	records := history.Apply(all, opts.query)

	if opts.xlsx != "" {
		if err := writeXLSXFile(opts.xlsx, records); err != nil {
			return err
		}
	}
	if opts.asJSON {
		return writeJSON(stdout, records)
	}
	writeStats(stdout, history.Summarize(all, time.Now()))
	writeTable(stdout, records)
	return nil
}

func writeXLSXFile(path string, records []analyses.Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return history.WriteXLSX(f, records)
}

func writeStats(w io.Writer, st history.Stats) {
	fmt.Fprintf(w, "Total: %d  Average: %s  This month: %d  Top: %s\n\n",
		st.Total, st.AverageScore, st.ThisMonth, formatScore(st.TopScore))
}

func writeTable(w io.Writer, records []analyses.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No analyses found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFILE\tSCORE\tCREATED")
	for _, rec := range records {
		name := rec.Name()
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID, name, rec.FileName, formatScore(rec.OverallScore), rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = tw.Flush()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
