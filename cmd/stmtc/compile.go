package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/Konsultn-Engineering/sqlstmt/binder"
	"github.com/Konsultn-Engineering/sqlstmt/dialect"
	"github.com/Konsultn-Engineering/sqlstmt/format"
	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type compileCommand struct {
	app *app

	Expressions []string `long:"execute" short:"e" description:"Template to compile; may be repeated"`
	Format      string   `long:"format" short:"f" default:"table" choice:"table" choice:"yaml" choice:"json" description:"Output format"`
	Dialect     string   `long:"dialect" short:"d" description:"Also show the bind plan for this dialect (postgres, mysql, tidb, sqlite)"`
	Args        struct {
		Files []string `positional-arg-name:"FILE" description:"Template files; - reads standard input"`
	} `positional-args:"yes"`
}

type source struct {
	name string
	text string
	file string
}

type compileResult struct {
	Source     string                   `json:"source" yaml:"source"`
	Statement  string                   `json:"statement,omitempty" yaml:"statement,omitempty"`
	Parameters []placeholder.Descriptor `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	SQL        string                   `json:"sql,omitempty" yaml:"sql,omitempty"`
	Error      string                   `json:"error,omitempty" yaml:"error,omitempty"`
}

func (c *compileCommand) Execute([]string) error {
	f, err := format.Parse(c.Format)
	if err != nil {
		return err
	}
	var d dialect.Dialect
	if c.Dialect != "" {
		if d, err = dialect.Lookup(c.Dialect); err != nil {
			return err
		}
	}

	sources := lo.Map(c.Expressions, func(e string, i int) source {
		return source{name: "-e " + strconv.Itoa(i+1), text: e}
	})
	for _, file := range c.Args.Files {
		sources = append(sources, source{name: file, file: file})
	}
	if len(sources) == 0 {
		return fmt.Errorf("nothing to compile: pass -e TEMPLATE or a file")
	}

	var stdinText string
	if lo.Contains(c.Args.Files, "-") {
		b, err := io.ReadAll(c.app.stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		stdinText = string(b)
	}

	results := make([]compileResult, len(sources))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			results[i] = compileOne(src, stdinText, d)
			return nil
		})
	}
	_ = g.Wait()

	if f == format.Table {
		err = writeTables(c.app.stdout, results)
	} else {
		err = f.NewEncoder(c.app.stdout).Encode(results)
	}
	if err != nil {
		return err
	}

	failed := lo.Filter(results, func(r compileResult, _ int) bool { return r.Error != "" })
	for _, r := range failed {
		fmt.Fprintf(c.app.stderr, "%s: %s\n", r.Source, r.Error)
	}
	if len(failed) > 0 {
		return errReported
	}
	return nil
}

func compileOne(src source, stdinText string, d dialect.Dialect) compileResult {
	res := compileResult{Source: src.name}

	text := src.text
	switch src.file {
	case "":
	case "-":
		text = stdinText
	default:
		b, err := os.ReadFile(src.file)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		text = string(b)
	}

	stmt, err := placeholder.Compile(text)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Statement = stmt.Text
	res.Parameters = stmt.Parameters
	if d != nil {
		res.SQL = binder.NewPlan(stmt, d).SQL
	}
	return res
}

func writeTables(w io.Writer, results []compileResult) error {
	for i, r := range results {
		if r.Error != "" {
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "-- %s\n%s\n", r.Source, r.Statement)
		if r.SQL != "" {
			fmt.Fprintf(w, "-- bind\n%s\n", r.SQL)
		}
		if len(r.Parameters) == 0 {
			continue
		}

		table := tablewriter.NewTable(w,
			tablewriter.WithRenderer(
				renderer.NewBlueprint(tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)})),
			tablewriter.WithHeaderAlignment(tw.AlignLeft),
			tablewriter.WithHeaderAutoFormat(tw.Off),
		)
		table.Header([]string{"#", "NAME", "ORIGIN", "TYPE", "QUERY STRING", "FORMAT"})
		for n, p := range r.Parameters {
			row := []string{strconv.Itoa(n + 1), p.Name, p.Origin.String(), p.Type.String(), p.QueryString, p.Format}
			if err := table.Append(row); err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	return nil
}
