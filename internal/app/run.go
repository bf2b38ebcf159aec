package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/report"
	"github.com/vk/socgen/internal/source"
	"github.com/vk/socgen/internal/topology"
	"github.com/zclconf/go-cty/cty"
)

// AddrMapPackage is the shared address-map file every generation emits.
const AddrMapPackage = "soc_addr_map_pkg.sv"

// Run elaborates the top subsystem and either lists the files generation
// would produce or builds every subsystem and writes the report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	top := a.config.Top
	if top == "" {
		var err error
		if top, err = a.library.DefaultTop(); err != nil {
			return err
		}
	}
	overrides, err := a.overrides(ctx)
	if err != nil {
		return err
	}

	root, err := a.library.Elaborate(ctx, top, top, overrides)
	if err != nil {
		return fmt.Errorf("failed to elaborate %q: %w", top, err)
	}
	if !source.BoolProperty(root, "subsystem") {
		return fmt.Errorf("top %q is not a subsystem", top)
	}

	nodes := topology.EnumerateSubsystems(root)
	files := OutputFiles(nodes, a.config.OutDir)
	if a.config.ListFiles {
		for _, f := range files {
			if _, err := fmt.Fprintln(a.outW, f); err != nil {
				return err
			}
		}
		a.logger.Debug("File listing written.", "files", len(files))
		return nil
	}

	builder := topology.NewBuilder(a.library, a.registry)
	subsystems := make([]*topology.Subsystem, 0, len(nodes))
	for _, n := range nodes {
		s, err := builder.BuildSubsystem(ctx, n)
		if err != nil {
			return fmt.Errorf("failed to build subsystem %s: %w", n.Path(), err)
		}
		subsystems = append(subsystems, s)
	}
	a.logger.Info("Topology built.", "top", top, "subsystems", len(subsystems))

	rep, err := report.Build(top, subsystems)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	rep.Files = files
	return a.writeReport(rep)
}

// overrides evaluates the -param values as HCL expressions.
func (a *App) overrides(ctx context.Context) (map[string]cty.Value, error) {
	if len(a.config.Params) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(a.config.Params))
	for name := range a.config.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]cty.Value, len(names))
	for _, name := range names {
		v, err := a.library.EvaluateExpression(ctx, a.config.Params[name])
		if err != nil {
			return nil, fmt.Errorf("invalid value for parameter %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func (a *App) writeReport(rep *report.Report) error {
	encode := func(w io.Writer) error { return rep.Encode(w, a.config.Format) }
	if a.config.OutputPath == "" {
		if err := encode(a.outW); err != nil {
			return err
		}
	} else {
		f, err := os.Create(a.config.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		if err := encodeAndClose(f, encode); err != nil {
			return err
		}
	}
	a.logger.Debug("Report written.", "format", a.config.Format, "path", a.config.OutputPath)
	return nil
}

// encodeAndClose writes through encode and closes wc, reporting the close
// error when the encoding itself succeeded.
func encodeAndClose(wc io.WriteCloser, encode func(io.Writer) error) error {
	if err := encode(wc); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// OutputFiles lists the files a generation run produces: the address-map
// package first, then one file per subsystem definition in enumeration
// order.
func OutputFiles(subsystems []source.Node, outDir string) []string {
	files := []string{filepath.Join(outDir, AddrMapPackage)}
	seen := make(map[string]bool)
	for _, n := range subsystems {
		if seen[n.TypeName()] {
			continue
		}
		seen[n.TypeName()] = true
		files = append(files, filepath.Join(outDir, n.TypeName()+".sv"))
	}
	return files
}
