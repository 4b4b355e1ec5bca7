package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TsubasaBE/go-xlsx"
	"github.com/TsubasaBE/go-xlsx/csvio"
	"github.com/TsubasaBE/go-xlsx/ssd"
	"github.com/TsubasaBE/go-xlsx/workbook"
	"github.com/TsubasaBE/go-xlsx/worksheet"
)

// app holds the state shared by all subcommands.
type app struct {
	verbose bool
	log     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}
	root := &cobra.Command{
		Use:           "xlsx",
		Short:         "Read and edit .xlsx workbooks",
		Version:       xlsx.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.log.SetOutput(cmd.ErrOrStderr())
			a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		a.sheetsCmd(),
		a.dumpCmd(),
		a.namesCmd(),
		a.setCmd(),
		a.csvToXLSXCmd(),
		a.xlsxToCSVCmd(),
		a.ssdCmd(),
	)
	return root
}

func (a *app) open(path string, sheets ...string) (*workbook.Workbook, error) {
	wb, err := xlsx.Open(path, xlsx.ReadOptions{Sheets: sheets, Logger: a.log})
	if err != nil {
		return nil, err
	}
	return wb, nil
}

func (a *app) write(cmd *cobra.Command, wb *workbook.Workbook, path string) error {
	rep, err := xlsx.Write(wb, path, xlsx.WriteOptions{Logger: a.log})
	if err != nil {
		return err
	}
	for _, w := range rep.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", rep.Path, rep.Mode)
	return nil
}

func (a *app) sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets FILE",
		Short: "List sheet names and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := a.open(args[0])
			if err != nil {
				return err
			}
			for _, name := range wb.SheetNames() {
				ws, _ := wb.Worksheet(name)
				rows, cols := ws.Size()
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%dx%d\n", name, rows, cols)
			}
			return nil
		},
	}
}

func (a *app) dumpCmd() *cobra.Command {
	var sheet string
	var comma string
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print a sheet as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var only []string
			if sheet != "" {
				only = []string{sheet}
			}
			wb, err := a.open(args[0], only...)
			if err != nil {
				return err
			}
			names := wb.SheetNames()
			if len(names) == 0 {
				return nil
			}
			ws, err := wb.Worksheet(names[0])
			if err != nil {
				return err
			}
			opts, err := csvOptions(comma, "")
			if err != nil {
				return err
			}
			return csvio.Write(cmd.OutOrStdout(), ws, opts)
		},
	}
	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "Sheet to print (default: first sheet)")
	cmd.Flags().StringVar(&comma, "comma", ",", "Field separator")
	return cmd
}

func (a *app) namesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names FILE",
		Short: "List named ranges and their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := a.open(args[0])
			if err != nil {
				return err
			}
			for _, nr := range wb.NamedRanges() {
				var rows []string
				for _, row := range wb.NamedRangeValues(nr.Name) {
					rows = append(rows, joinValues(row))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s!%s\t%s\n", nr.Name, nr.Sheet, nr.Ref, strings.Join(rows, "; "))
			}
			return nil
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE SHEET CELL VALUE",
		Short: "Set one cell, creating the file or sheet when missing",
		Long: `Set one cell.  VALUE is typed the way CSV fields are: numbers,
TRUE/FALSE and "=formula" are recognised, anything else is text.  An empty
VALUE clears the cell.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, sheet, cell, raw := args[0], args[1], args[2], args[3]
			wb, err := a.open(path)
			switch {
			case errors.Is(err, xlsx.ErrFileNotFound):
				wb = workbook.New()
			case err != nil:
				return err
			}
			ws, err := wb.Worksheet(sheet)
			if err != nil {
				ws = wb.AddWorksheet(sheet, nil)
			}
			var v worksheet.Value
			if raw != "" {
				v = csvio.Infer(raw)
			}
			if err := ws.SetAddress(cell, v); err != nil {
				return err
			}
			return a.write(cmd, wb, path)
		},
	}
}

func (a *app) csvToXLSXCmd() *cobra.Command {
	var sheet, comma string
	cmd := &cobra.Command{
		Use:   "csv2xlsx IN.csv OUT.xlsx",
		Short: "Import a CSV file as a sheet",
		Long: `Import a CSV file as a sheet.  When OUT.xlsx exists the sheet is added
to it (replacing a sheet of the same name) and the other sheets are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := csvOptions(comma, sheet)
			if err != nil {
				return err
			}
			imported, err := csvio.ReadFile(args[0], opts)
			if err != nil {
				return err
			}
			wb := imported
			if _, err := os.Stat(args[1]); err == nil {
				if wb, err = a.open(args[1]); err != nil {
					return err
				}
				name := imported.SheetNames()[0]
				ws, _ := imported.Worksheet(name)
				wb.AddWorksheet(name, ws)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return a.write(cmd, wb, args[1])
		},
	}
	cmd.Flags().StringVarP(&sheet, "sheet", "s", csvio.DefaultSheetName, "Sheet name for the imported data")
	cmd.Flags().StringVar(&comma, "comma", ",", "Field separator")
	return cmd
}

func (a *app) xlsxToCSVCmd() *cobra.Command {
	var sheet, comma string
	cmd := &cobra.Command{
		Use:   "xlsx2csv IN.xlsx OUT.csv",
		Short: "Export a sheet to CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := a.open(args[0])
			if err != nil {
				return err
			}
			opts, err := csvOptions(comma, "")
			if err != nil {
				return err
			}
			return csvio.WriteFile(wb, sheet, args[1], opts)
		},
	}
	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "Sheet to export (default: first sheet)")
	cmd.Flags().StringVar(&comma, "comma", ",", "Field separator")
	return cmd
}

func (a *app) ssdCmd() *cobra.Command {
	var keyRows, keyCols string
	cmd := &cobra.Command{
		Use:   "ssd FILE SHEET",
		Short: "Print the KEYROWS/KEYCOLS tables of a sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := a.open(args[0], args[1])
			if err != nil {
				return err
			}
			ws, err := wb.Worksheet(args[1])
			if err != nil {
				return err
			}
			tables, err := ssd.Scan(ws, ssd.Options{KeyRows: keyRows, KeyCols: keyCols})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, t := range tables {
				fmt.Fprintf(out, "table %d\n", i+1)
				fmt.Fprintf(out, "\t%s\n", joinValues(t.KeyCols))
				for j, row := range t.Data {
					fmt.Fprintf(out, "%s\t%s\n", t.KeyRows[j], joinValues(row))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&keyRows, "keyrows", ssd.DefaultKeyRows, "Row-key flag text")
	cmd.Flags().StringVar(&keyCols, "keycols", ssd.DefaultKeyCols, "Column-key flag text")
	return cmd
}

func csvOptions(comma, sheet string) (csvio.Options, error) {
	r := []rune(comma)
	if len(r) != 1 {
		return csvio.Options{}, fmt.Errorf("--comma must be a single character, got %q", comma)
	}
	return csvio.Options{Comma: r[0], SheetName: sheet}, nil
}

func joinValues(vals []worksheet.Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\t")
}
