package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/subconv/internal/bootstrap"
	"github.com/creamcroissant/subconv/internal/config"
	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/protocol"
	"github.com/creamcroissant/subconv/internal/source"
)

type convertFlags struct {
	output   string
	report   string
	profile  bool
	template string
	parallel int
}

func init() {
	var flags convertFlags
	convertCmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert share links read from files or stdin",
		Long: `Read share links (one per line) from the given files, or from stdin when
no file or "-" is given, and write the Clash document to --output.

Supported schemes: ` + supportedSchemes() + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}
	convertCmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the document to this file instead of stdout")
	convertCmd.Flags().StringVar(&flags.report, "report", "", "print per-line outcomes to stderr (text or json)")
	convertCmd.Flags().BoolVar(&flags.profile, "profile", false, "render a complete profile with proxy groups and rules")
	convertCmd.Flags().StringVar(&flags.template, "template", "", "base template for --profile")
	convertCmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 0, "parse lines concurrently with this many workers")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string, flags convertFlags) error {
	switch flags.report {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown report format %q", flags.report)
	}

	local := oneShotConfig(cfg)
	if flags.parallel > 0 {
		local.Convert.Parallelism = flags.parallel
	}
	if flags.template != "" {
		local.Convert.TemplatePath = flags.template
	}
	infra, err := bootstrap.BuildInfrastructure(local, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	text, err := source.ReadInputs(ctx, args, cmd.InOrStdin(), source.DefaultRetryConfig())
	if err != nil {
		return err
	}
	result, err := infra.Conversion.Convert(ctx, text)
	if err != nil {
		return err
	}
	report := result.Report

	if err := writeReport(cmd.ErrOrStderr(), flags.report, report); err != nil {
		return err
	}
	if status := report.Status(); status != convert.StatusOK {
		return &statusError{status: status}
	}

	doc := report.Document
	if flags.profile {
		if doc, err = infra.Conversion.RenderProfile(report); err != nil {
			return err
		}
	}
	return writeDocument(flags.output, cmd.OutOrStdout(), doc)
}

// supportedSchemes lists the link schemes the converter accepts, in match
// order.
func supportedSchemes() string {
	types := protocol.DefaultRegistry().Types()
	schemes := make([]string, 0, len(types))
	for _, t := range types {
		schemes = append(schemes, t.String()+"://")
	}
	return strings.Join(schemes, ", ")
}

// oneShotConfig copies cfg for a single CLI run, which has no use for the
// report cache or a metrics registry.
func oneShotConfig(base *config.Config) *config.Config {
	local := config.Config{}
	if base != nil {
		local = *base
	}
	local.Cache.Enabled = false
	local.Metrics.Enabled = false
	return &local
}

func writeDocument(path string, stdout io.Writer, doc string) error {
	if path == "" || path == source.StdinName {
		_, err := io.WriteString(stdout, doc)
		return err
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type outcomeLine struct {
	Line   int    `json:"line"`
	OK     bool   `json:"ok"`
	Type   string `json:"type,omitempty"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func writeReport(w io.Writer, format string, report *convert.Report) error {
	if format == "" {
		return nil
	}
	lines := make([]outcomeLine, 0, len(report.Outcomes))
	for i, o := range report.Outcomes {
		line := outcomeLine{Line: i + 1, OK: o.Success(), Reason: o.Reason()}
		if o.Proxy != nil {
			line.Type = string(o.Proxy.Type)
			line.Name = o.Proxy.Name
		}
		lines = append(lines, line)
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Status    string        `json:"status"`
			Succeeded int           `json:"succeeded"`
			Failed    int           `json:"failed"`
			Outcomes  []outcomeLine `json:"outcomes"`
		}{report.Status().String(), report.Succeeded(), report.Failed(), lines})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tRESULT\tTYPE\tDETAIL")
	for _, l := range lines {
		if l.OK {
			fmt.Fprintf(tw, "%d\tok\t%s\t%s\n", l.Line, l.Type, l.Name)
			continue
		}
		fmt.Fprintf(tw, "%d\tfailed\t-\t%s\n", l.Line, strings.ReplaceAll(l.Reason, "\n", " "))
	}
	fmt.Fprintf(tw, "\n%d succeeded, %d failed\n", report.Succeeded(), report.Failed())
	return tw.Flush()
}
