package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/bytedance/sonic"

	"github.com/zephyrtronium/rootfind/methods"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// writeReport writes a run report with its trace.
func writeReport(w io.Writer, rep *methods.Report) error {
	if rootFlags.format == formatJSON {
		return writeJSON(w, rep)
	}
	fmt.Fprintf(w, "%s: %s\n", rep.Method, rep.Status)
	if rep.F != "" {
		fmt.Fprintf(w, "f = %s\n", rep.F)
	}
	if rep.G != "" {
		fmt.Fprintf(w, "g = %s\n", rep.G)
	}
	if rep.Derivative != "" {
		fmt.Fprintf(w, "f' = %s\n", rep.Derivative)
	}
	if rep.Second != "" {
		fmt.Fprintf(w, "f'' = %s\n", rep.Second)
	}
	if len(rep.Rows) != 0 {
		fmt.Fprintln(w)
		tw := table(w)
		for i, c := range rep.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
		for _, row := range rep.Rows {
			for i, v := range row {
				if i > 0 {
					fmt.Fprint(tw, "\t")
				}
				fmt.Fprint(tw, num(v))
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if rep.Status.OK() {
		tw := table(w)
		fmt.Fprintf(tw, "root\t%s\n", num(rep.Root))
		if rep.Value != nil {
			fmt.Fprintf(tw, "f(root)\t%s\n", num(*rep.Value))
		}
		fmt.Fprintf(tw, "iterations\t%d\n", rep.Iterations)
		fmt.Fprintf(tw, "error\t%s\n", num(rep.Error))
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if rep.Message != "" {
		fmt.Fprintln(w, rep.Message)
	}
	return nil
}

// writeSummary writes one line per report.
func writeSummary(w io.Writer, reps []*methods.Report) error {
	if rootFlags.format == formatJSON {
		return writeJSON(w, reps)
	}
	tw := table(w)
	fmt.Fprintln(tw, "run\tid\tmethod\tstatus\troot\titerations\terror\tmessage")
	for i, rep := range reps {
		root, e := "-", "-"
		if rep.Status.OK() {
			root, e = num(rep.Root), num(rep.Error)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n", i+1, rep.ID, rep.Method, rep.Status, root, rep.Iterations, e, rep.Message)
	}
	return tw.Flush()
}
