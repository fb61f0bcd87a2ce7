package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/internal/history"
)

// HistoryCmd is the root command for recorded rounds.
type HistoryCmd struct {
	Show    HistoryShowCmd    `cmd:"" help:"List recorded rounds"`
	Summary HistorySummaryCmd `cmd:"" help:"Per-player totals over recorded rounds"`
}

// HistoryShowCmd prints rounds from a history file.
type HistoryShowCmd struct {
	File string `arg:"" name:"file" type:"existingfile" help:"Path to a history TOML file"`
	Last int    `help:"Only show the last N rounds (0 = all)"`
}

func (cmd HistoryShowCmd) Run() error {
	records, err := loadHistory(cmd.File)
	if err != nil {
		return err
	}
	if cmd.Last > 0 && cmd.Last < len(records) {
		records = records[len(records)-cmd.Last:]
	}
	return printRounds(os.Stdout, records)
}

// HistorySummaryCmd prints per-player totals.
type HistorySummaryCmd struct {
	File string `arg:"" name:"file" type:"existingfile" help:"Path to a history TOML file"`
}

func (cmd HistorySummaryCmd) Run() error {
	records, err := loadHistory(cmd.File)
	if err != nil {
		return err
	}
	return printSummary(os.Stdout, records)
}

func loadHistory(path string) ([]history.Record, error) {
	records, err := history.Load(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no rounds found in %s", path)
	}
	return records, nil
}
