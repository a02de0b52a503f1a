package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/adnsv/go-wbk/wbk"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("Generation failed", "error", err)
		os.Exit(1)
	}
}

func run(output io.Writer, args []string) error {
	flags := flag.NewFlagSet("wbkgen", flag.ContinueOnError)
	flags.SetOutput(output)

	configFile := flags.String("config", "./wbkgen.yaml", "Path to the workbook layout file")
	outFile := flags.String("out", "", "Output .xlsx path (overrides the layout's output field)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	// Initialize structured logger
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	slog.Info("Loading workbook layout", "file", *configFile)
	cfg, err := LoadWorkbookConfig(*configFile)
	if err != nil {
		return err
	}

	path := cfg.Output
	if *outFile != "" {
		path = *outFile
	}

	wb := wbk.NewWorkbook()
	wb.AppName = cfg.AppName

	for i := range cfg.Sheets {
		sc := &cfg.Sheets[i]
		sh, err := wb.AddSheet(sc.Name)
		if err != nil {
			return fmt.Errorf("sheet %q: %w", sc.Name, err)
		}
		if err := populateSheet(sh, sc); err != nil {
			return fmt.Errorf("sheet %q: %w", sc.Name, err)
		}
		slog.Info("Prepared sheet", "name", sc.Name, "cells", len(sc.Cells))
	}

	if err := wb.Publish(path); err != nil {
		return fmt.Errorf("publish %s: %w", path, err)
	}
	slog.Info("Successfully generated", "file", path, "sheets", len(cfg.Sheets))

	return nil
}

func populateSheet(sh *wbk.Sheet, sc *SheetConfig) error {
	for i := range sc.Cells {
		if err := addCell(sh, &sc.Cells[i]); err != nil {
			return err
		}
	}
	for _, col := range sc.Columns {
		if err := sh.SetColumnWidthAt(col.Column, col.Width); err != nil {
			return fmt.Errorf("column %q: %w", col.Column, err)
		}
	}
	for _, row := range sc.Rows {
		if err := sh.SetRowHeight(row.Row, row.Height); err != nil {
			return fmt.Errorf("row %d: %w", row.Row, err)
		}
	}
	return nil
}

func addCell(sh *wbk.Sheet, cc *CellConfig) error {
	var style []wbk.Style
	if cc.Style != nil {
		st, err := cc.Style.resolve()
		if err != nil {
			return fmt.Errorf("cell %s: %w", cc.Ref, err)
		}
		style = []wbk.Style{st}
	}

	var err error
	switch {
	case cc.Number != nil:
		if cc.To != "" {
			err = sh.AddMergedNumberCellAt(cc.Ref, cc.To, *cc.Number, style...)
		} else {
			err = sh.AddNumberCellAt(cc.Ref, *cc.Number, style...)
		}
	case cc.Formula != "":
		if cc.To != "" {
			err = sh.AddMergedFormulaCellAt(cc.Ref, cc.To, cc.Formula, style...)
		} else {
			err = sh.AddFormulaCellAt(cc.Ref, cc.Formula, style...)
		}
	default:
		if cc.To != "" {
			err = sh.AddMergedStringCellAt(cc.Ref, cc.To, cc.String, style...)
		} else {
			err = sh.AddStringCellAt(cc.Ref, cc.String, style...)
		}
	}
	if err != nil {
		return fmt.Errorf("cell %s: %w", cc.Ref, err)
	}
	return nil
}
