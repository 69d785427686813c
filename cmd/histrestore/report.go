package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"histrestore/internal/hr"
	"histrestore/internal/output"
)

const timeLayout = time.DateTime

func printHeader(w io.Writer, historyDir, restorePath, outputDir string, window hr.Window) {
	fmt.Fprintln(w, "Cursor History Restore")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "History directory: %s\n", historyDir)
	fmt.Fprintf(w, "Restore path: %s\n", restorePath)
	fmt.Fprintf(w, "Output directory: %s\n", outputDir)
	fmt.Fprintf(w, "Time range: %s to %s\n", window.Start.Format(timeLayout), window.End.Format(timeLayout))
	fmt.Fprintln(w)
}

// printReport writes the scan and restore summary of a run. Per-file failures
// are reported but do not fail the command.
func printReport(w io.Writer, report *hr.RunReport, showTree bool) {
	scan := report.Scan
	for _, m := range scan.Matches {
		fmt.Fprintf(w, "Found: %s (from %s)\n", m.RelativePath, m.Timestamp().Format(timeLayout))
	}
	fmt.Fprintf(w, "\nProcessed %d folders, found %d matching files\n", scan.FolderCount, len(scan.Matches))
	if scan.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d unreadable records (see log)\n", scan.Skipped)
	}

	if len(scan.Matches) == 0 {
		fmt.Fprintln(w, "No files found matching the criteria.")
		return
	}

	if report.Run.DryRun {
		fmt.Fprintln(w, "\nDry run: no files were written.")
		if showTree {
			tree := output.NewRestoreTree(report.Run.Output)
			for _, m := range scan.Matches {
				tree.InsertPath(m.RelativePath, output.PrefixPlanned)
			}
			fmt.Fprint(w, "\n"+tree.Render())
		}
		return
	}

	fmt.Fprintf(w, "\nRestoring files to: %s\n", report.Run.Output)
	for _, o := range report.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "Error restoring %s: %v\n", o.Match.RelativePath, o.Err)
			continue
		}
		fmt.Fprintf(w, "Restored: %s\n", o.Match.RelativePath)
	}
	fmt.Fprintf(w, "\nSuccessfully restored %d files\n", report.Run.Restored)

	if showTree {
		tree := output.NewRestoreTree(report.Run.Output)
		for _, o := range report.Outcomes {
			prefix := output.PrefixRestored
			if o.Err != nil {
				prefix = output.PrefixFailed
			}
			tree.InsertPath(o.Match.RelativePath, prefix)
		}
		fmt.Fprint(w, "\n"+tree.Render())
	}

	fmt.Fprintln(w, "\nRestore complete!")
}

func printRuns(w io.Writer, runs []*hr.RestoreRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No restore runs recorded.")
		return
	}

	for _, r := range runs {
		duration := ""
		if !r.FinishedAt.IsZero() {
			duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
		}
		mode := ""
		if r.DryRun {
			mode = "  [dry-run]"
		}
		fmt.Fprintf(w, "%s  %s  %-8s  %d/%d  %s -> %s  %s%s\n",
			r.ID,
			r.StartedAt.Local().Format(timeLayout),
			r.Status,
			r.Restored,
			r.Matched,
			r.RestorePath,
			r.Output,
			duration,
			mode,
		)
	}
}

func printRunFiles(w io.Writer, files []*hr.RestoredFile) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files recorded for this run.")
		return
	}

	for _, f := range files {
		status := "ok"
		if f.Error != "" {
			status = "error: " + f.Error
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			f.SnapshotAt.Local().Format(timeLayout),
			f.RelativePath,
			f.Location,
			status,
		)
	}
}
