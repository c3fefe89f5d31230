package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/uni-bremen-agst/LSP2GXL/internal/config"
	"github.com/uni-bremen-agst/LSP2GXL/internal/gxl"
	"github.com/uni-bremen-agst/LSP2GXL/internal/importer"
	"github.com/uni-bremen-agst/LSP2GXL/internal/perf"
	"github.com/uni-bremen-agst/LSP2GXL/internal/serverregistry"
	"github.com/uni-bremen-agst/LSP2GXL/internal/tracelog"
)

var (
	buildServerName      string
	buildOut             string
	buildOverwrite       bool
	buildIncludes        []string
	buildExcludes        []string
	buildTimeoutSeconds  int
	buildEdges           []string
	buildNodes           []string
	buildDiagnostics     []string
	buildAvoidSelfRefs   bool
	buildAvoidParentRefs bool
	buildJobs            int
	buildUnoptimized     bool
	buildPerfCSV         string
	buildIOLogDir        string
)

var buildCmd = &cobra.Command{
	Use:   "build <root>",
	Short: "Import a project's LSP cross-references into a GXL graph",
	Long: `Build drives the configured LSP server over a project root and
reifies its document symbols and cross-references as a single
hierarchical graph, optionally writing it out as GXL.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildServerName, "lsp-server", "", "registered LSP server to drive (required)")
	buildCmd.Flags().StringVar(&buildOut, "out", "", "GXL output path (graph is discarded if empty)")
	buildCmd.Flags().BoolVar(&buildOverwrite, "overwrite", false, "allow --out to overwrite an existing file")
	buildCmd.Flags().StringSliceVar(&buildIncludes, "include", nil, "source directories to include (default: project root)")
	buildCmd.Flags().StringSliceVar(&buildExcludes, "exclude", nil, "paths to exclude, as a plain prefix or a $-terminated regex")
	buildCmd.Flags().IntVar(&buildTimeoutSeconds, "timeout", 10, "per-request LSP timeout, in seconds")
	buildCmd.Flags().StringSliceVar(&buildEdges, "edges", nil, "enabled edge kinds (default: all); one of Definition,Declaration,TypeDefinition,Implementation,Reference,Call,Extend")
	buildCmd.Flags().StringSliceVar(&buildNodes, "nodes", nil, "enabled node kinds (default: all); e.g. file,class,method,function")
	buildCmd.Flags().StringSliceVar(&buildDiagnostics, "diagnostics", nil, "enabled diagnostic severities (default: all); one of error,warning,information,hint")
	buildCmd.Flags().BoolVar(&buildAvoidSelfRefs, "avoid-self-refs", true, "drop edges whose source and target are the same node")
	buildCmd.Flags().BoolVar(&buildAvoidParentRefs, "avoid-parent-refs", false, "drop edges whose target is the source's parent")
	buildCmd.Flags().IntVar(&buildJobs, "jobs", 0, "parallel edge-phase task count (0 = system-chosen default)")
	buildCmd.Flags().BoolVar(&buildUnoptimized, "unoptimized", false, "use a linear scan instead of the interval index for target resolution")
	buildCmd.Flags().StringVar(&buildPerfCSV, "perf-csv", "", "append per-phase timings to this CSV path")
	buildCmd.Flags().StringVar(&buildIOLogDir, "lsp-io-log-dir", "", "directory to tee raw LSP stdin/stdout bytes into (for debugging)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	printBanner(out)
	fmt.Fprintln(out)

	root := args[0]
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("project root %q: %w", root, err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	if buildServerName == "" {
		return fmt.Errorf("--lsp-server is required")
	}
	registry := serverregistry.Default()
	if server, ok := registry.ByName(buildServerName); ok {
		if override, ok := cfg.LSP[server.Name]; ok {
			if override.Command != "" {
				server.Command = override.Command
			}
			if len(override.Args) > 0 {
				server.Args = override.Args
			}
			registry.Set(server)
		}
	}

	if !cmd.Flags().Changed("timeout") {
		buildTimeoutSeconds = cfg.Import.TimeoutSeconds
	}
	if !cmd.Flags().Changed("jobs") {
		buildJobs = cfg.Import.Jobs
	}
	if !cmd.Flags().Changed("avoid-self-refs") {
		buildAvoidSelfRefs = cfg.Import.AvoidSelfRefs
	}
	if !cmd.Flags().Changed("avoid-parent-refs") {
		buildAvoidParentRefs = cfg.Import.AvoidParentRefs
	}

	if buildOut != "" && !buildOverwrite {
		if _, err := os.Stat(buildOut); err == nil {
			return fmt.Errorf("output file %q already exists (pass --overwrite)", buildOut)
		}
	}

	edgeKinds, err := parseEdgeKinds(buildEdges)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("edges") && !cfg.Import.Edges {
		edgeKinds = disableAllEdgeKinds()
	}
	nodeKinds := parseNodeKinds(buildNodes)
	if !cmd.Flags().Changed("nodes") && !cfg.Import.Nodes {
		nodeKinds = disableAllNodeKinds()
	}
	diagSeverities, err := parseDiagnosticSeverities(buildDiagnostics)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("diagnostics") && !cfg.Import.Diagnostics {
		diagSeverities = disableAllDiagnosticSeverities()
	}

	roots := buildIncludes
	if len(roots) == 0 {
		roots = []string{root}
	}

	opts := importer.Options{
		Roots:                       roots,
		Excludes:                    buildExcludes,
		ServerName:                  buildServerName,
		Registry:                    registry,
		Timeout:                     time.Duration(buildTimeoutSeconds) * time.Second,
		Jobs:                        buildJobs,
		Unoptimized:                 buildUnoptimized,
		IOLogDir:                    buildIOLogDir,
		EnabledNodeKinds:            nodeKinds,
		EnabledEdgeKinds:            edgeKinds,
		EnabledDiagnosticSeverities: diagSeverities,
		AvoidSelfRefs:               buildAvoidSelfRefs,
		AvoidParentRefs:             buildAvoidParentRefs,
	}

	var rec *perf.Recorder
	if buildPerfCSV != "" {
		rec, err = perf.Open(buildPerfCSV)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	sink := tracelog.New(out)

	fmt.Fprintf(out, "%s %s with %s\n", Bold("Importing"), Keyword(root), Keyword(buildServerName))

	imp := importer.New(opts, sink, rec)
	g, err := imp.Run(context.Background())
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	fmt.Fprintf(out, "%s %s nodes, %s edges\n", Success("Done:"), Info(g.NodeCount()), Info(g.EdgeCount()))

	if buildOut != "" {
		f, err := os.Create(buildOut)
		if err != nil {
			return fmt.Errorf("build: creating %s: %w", buildOut, err)
		}
		defer f.Close()

		w := gxl.New(g.Name())
		if err := w.Write(g, f); err != nil {
			return fmt.Errorf("build: writing %s: %w", buildOut, err)
		}
		fmt.Fprintf(out, "%s %s\n", Success("Wrote"), Path(buildOut))
	}

	if sink.SawError() {
		return fmt.Errorf("build: completed with errors")
	}
	return nil
}

func parseEdgeKinds(names []string) (map[importer.EdgeKind]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	all := map[string]importer.EdgeKind{
		"definition":     importer.EdgeDefinition,
		"declaration":    importer.EdgeDeclaration,
		"typedefinition": importer.EdgeTypeDefinition,
		"implementation": importer.EdgeImplementation,
		"reference":      importer.EdgeReference,
		"call":           importer.EdgeCall,
		"extend":         importer.EdgeExtend,
	}
	enabled := make(map[importer.EdgeKind]bool, len(all))
	for _, k := range all {
		enabled[k] = false
	}
	for _, name := range names {
		k, ok := all[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("--edges: unknown edge kind %q", name)
		}
		enabled[k] = true
	}
	return enabled, nil
}

// disableAllEdgeKinds returns a map disabling every edge kind, used when
// config.Import.Edges is false and --edges was not passed explicitly.
func disableAllEdgeKinds() map[importer.EdgeKind]bool {
	return map[importer.EdgeKind]bool{
		importer.EdgeDefinition:     false,
		importer.EdgeDeclaration:    false,
		importer.EdgeTypeDefinition: false,
		importer.EdgeImplementation: false,
		importer.EdgeReference:      false,
		importer.EdgeCall:           false,
		importer.EdgeExtend:         false,
	}
}

// disableAllNodeKinds returns a map disabling every node kind, used when
// config.Import.Nodes is false and --nodes was not passed explicitly.
func disableAllNodeKinds() map[string]bool {
	known := []string{"file", "module", "class", "method", "field", "constructor", "enum", "interface", "function", "variable", "constant", "enum_member", "type_parameter", "unknown"}
	enabled := make(map[string]bool, len(known))
	for _, k := range known {
		enabled[k] = false
	}
	return enabled
}

// disableAllDiagnosticSeverities returns a map disabling every severity,
// used when config.Import.Diagnostics is false and --diagnostics was not
// passed explicitly.
func disableAllDiagnosticSeverities() map[int]bool {
	return map[int]bool{1: false, 2: false, 3: false, 4: false}
}

func parseNodeKinds(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	known := []string{"file", "module", "class", "method", "field", "constructor", "enum", "interface", "function", "variable", "constant", "enum_member", "type_parameter", "unknown"}
	enabled := make(map[string]bool, len(known))
	for _, k := range known {
		enabled[k] = false
	}
	for _, name := range names {
		enabled[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return enabled
}

func parseDiagnosticSeverities(names []string) (map[int]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	all := map[string]int{
		"error":       1,
		"warning":     2,
		"information": 3,
		"hint":        4,
	}
	enabled := make(map[int]bool, len(all))
	for _, v := range all {
		enabled[v] = false
	}
	for _, name := range names {
		v, ok := all[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("--diagnostics: unknown severity %q", name)
		}
		enabled[v] = true
	}
	return enabled, nil
}
