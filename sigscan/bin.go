package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ZenLiuCN/engineapi"
	"github.com/ZenLiuCN/engineapi/logging"
	"github.com/ZenLiuCN/engineapi/memory"
	"github.com/ZenLiuCN/engineapi/native"
	"github.com/ZenLiuCN/engineapi/pattern"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/urfave/cli/v2"
)

var logger = zerolog.Nop()

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "sigscan"
	app.Usage = "engine signature catalogue tool"
	app.Description = "checks the signature catalogue against module images on disk and inspects running processes"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, EnvVars: []string{"SIGSCAN_DEBUG"}},
		&cli.StringFlag{Name: "catalog", Aliases: []string{"c"}, EnvVars: []string{"SIGSCAN_CATALOG"}, Usage: "yaml catalogue merged over the compiled-in one"},
	}
	app.Before = setup
	app.Commands = []*cli.Command{
		{Name: "scan",
			Action: scan,
			Usage:  "resolve every catalogue signature of a module file",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "module", Aliases: []string{"m"}, Usage: "module name in the catalogue, default the file name"},
			},
			Args: true,
		},
		{Name: "find",
			Action: find,
			Usage:  "search one pattern in files",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "pattern", Aliases: []string{"p"}, Required: true, Usage: `pattern like "48 8B ?? 05"`},
				&cli.IntFlag{Name: "context", Value: 16, Usage: "bytes of dump around each match"},
			},
			Args: true,
		},
		{Name: "catalog",
			Action: dumpCatalog,
			Usage:  "validate and print the effective catalogue",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "dump", Usage: "print go values instead of yaml"},
			},
		},
		{Name: "procs",
			Action: procs,
			Usage:  "list running processes",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "case insensitive name filter"},
			},
		},
	}
	return app
}

func setup(ctx *cli.Context) (err error) {
	cfg := logging.Config{Level: "info", Pretty: true, Output: ctx.App.ErrWriter}
	if ctx.Bool("debug") {
		cfg.Level = "debug"
	}
	logger, _, err = logging.New(cfg)
	logger = logging.WithComponent(logger, "sigscan")
	return
}

func loadCatalog(ctx *cli.Context) (c *engineapi.Catalog, err error) {
	c = engineapi.DefaultCatalog()
	if p := ctx.String("catalog"); p != "" {
		var o *engineapi.Catalog
		if o, err = engineapi.LoadCatalogFile(p); err != nil {
			return
		}
		logger.Debug().Str("file", p).Int("signatures", len(o.Signatures)).Msg("catalog override")
		c = c.Merge(o)
	}
	err = c.Validate()
	return
}

func scan(ctx *cli.Context) (err error) {
	if ctx.NArg() != 1 {
		return fmt.Errorf("missing module file")
	}
	var c *engineapi.Catalog
	if c, err = loadCatalog(ctx); err != nil {
		return
	}
	var img *memory.Image
	if img, err = memory.LoadFile(ctx.Args().First(), ctx.String("module")); err != nil {
		return
	}
	logger.Debug().Stringer("image", img.Range).Str("fingerprint", fmt.Sprintf("%016x", img.Fingerprint())).Msg("loaded")
	missing, total := report(ctx.App.Writer, c, img)
	switch {
	case total == 0:
		return fmt.Errorf("no signature of the catalog belongs to %s", img.Name)
	case missing > 0:
		return fmt.Errorf("%d of %d signatures not found in %s", missing, total, img.Name)
	}
	logger.Info().Str("module", img.Name).Int("signatures", total).Msg("all signatures resolved")
	return
}

// report prints one row per signature of img's module. Ambiguous patterns
// are flagged: at runtime only the first match is used.
func report(out io.Writer, c *engineapi.Catalog, img *memory.Image) (missing, total int) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer func() { _ = w.Flush() }()
	_, _ = fmt.Fprintln(w, "INTERFACE\tMETHOD\tRVA\tADDRESS\tMATCHES")
	for _, s := range c.Signatures {
		if !strings.EqualFold(c.ModuleOf(s), img.Name) {
			continue
		}
		total++
		f, err := engineapi.Resolve(img, s, native.Shape{})
		if err != nil {
			missing++
			logger.Warn().Err(err).Str("pattern", s.Pattern.String()).Msg("unresolved")
			_, _ = fmt.Fprintf(w, "%s\t%s\t-\t-\t0\n", s.Interface, s.Method)
			continue
		}
		n := s.Pattern.Count(img.Data)
		if n > 1 {
			logger.Warn().Str("method", s.Method).Int("matches", n).Msg("ambiguous pattern")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%d\n", s.Interface, s.Method, f.Addr-img.Base, f.Addr, n)
	}
	return
}

func find(ctx *cli.Context) (err error) {
	if ctx.NArg() == 0 {
		return fmt.Errorf("missing files")
	}
	var p pattern.Pattern
	if p, err = pattern.Parse(ctx.String("pattern")); err != nil {
		return
	}
	around := max(ctx.Int("context"), 0)
	for _, path := range ctx.Args().Slice() {
		var img *memory.Image
		if img, err = memory.LoadFile(path, ""); err != nil {
			return
		}
		offsets := p.FindAll(img.Data)
		_, _ = fmt.Fprintf(ctx.App.Writer, "%s: %d matches of %s\n", img.Range, len(offsets), p)
		for _, off := range offsets {
			from, to := max(off-around, 0), min(off+p.Len()+around, len(img.Data))
			_, _ = fmt.Fprintf(ctx.App.Writer, "%#x (+%#x)\n%s", img.Base+uintptr(off), off, hex.Dump(img.Data[from:to]))
		}
	}
	return
}

func dumpCatalog(ctx *cli.Context) (err error) {
	var c *engineapi.Catalog
	if c, err = loadCatalog(ctx); err != nil {
		return
	}
	if ctx.Bool("dump") {
		spew.Fdump(ctx.App.Writer, c)
		return
	}
	return c.WriteYAML(ctx.App.Writer)
}

func procs(ctx *cli.Context) (err error) {
	var ps []*process.Process
	if ps, err = process.ProcessesWithContext(ctx.Context); err != nil {
		return
	}
	filter := strings.ToLower(ctx.String("name"))
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PID\tNAME\tEXE")
	for _, p := range ps {
		name, e := p.NameWithContext(ctx.Context)
		if e != nil {
			logger.Debug().Int32("pid", p.Pid).Err(e).Msg("skip process")
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		exe, _ := p.ExeWithContext(ctx.Context)
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", p.Pid, name, exe)
	}
	return w.Flush()
}
