package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/256dpi/kernel"
)

var retention int

func init() {
	runCmd.Flags().IntVar(&retention, "retention", 0, "The amount of receipts to retain, zero keeps all")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario and print the receipts and final state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.OutOrStdout(), args[0])
	},
}

func run(out io.Writer, path string) error {
	// get logger
	log, err := logger()
	if err != nil {
		return err
	}

	// load scenario
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	scenario, err := kernel.LoadScenario(data)
	if err != nil {
		return err
	}
	blocks, err := scenario.Build()
	if err != nil {
		return err
	}

	// open db
	db, err := kernel.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// create journal
	journal, err := kernel.CreateJournal(db, kernel.JournalConfig{
		Prefix: "receipts",
		Cache:  100,
	})
	if err != nil {
		return err
	}

	// create positions
	positions, err := kernel.CreatePositions(db, "positions")
	if err != nil {
		return err
	}

	// prepare runtime
	runtime := kernel.NewRuntime(kernel.RuntimeConfig{
		Journal: journal,
		Logger:  &log,
	})
	scenario.Seed(runtime)

	// create reader
	receipts := make(chan kernel.Receipt, 10)
	readerErrors := make(chan error, 1)
	reader := kernel.NewReader(journal, kernel.ReaderConfig{
		Start:     1,
		Receipts:  receipts,
		Errors:    readerErrors,
		Batch:     10,
		Positions: positions,
		Name:      "printer",
	})
	defer reader.Close()

	// create cleaner
	if retention > 0 {
		cleaner := kernel.NewCleaner(journal, kernel.CleanerConfig{
			Retention: retention,
			Interval:  100 * time.Millisecond,
			Readers:   []*kernel.Reader{reader},
			Positions: []*kernel.Positions{positions},
			Errors: func(err error) {
				log.Error().Err(err).Msg("cleaning failed")
			},
		})
		defer cleaner.Close()
	}

	// create executor
	executor := kernel.NewExecutor(runtime, kernel.ExecutorConfig{
		Backlog: len(blocks),
		Logger:  &log,
	})
	defer executor.Close()

	// submit blocks
	var wg sync.WaitGroup
	var committed int
	for _, block := range blocks {
		wg.Add(1)
		ok := executor.Submit(block, func(_ kernel.Receipt, err error) {
			if err == nil {
				committed++
			}
			wg.Done()
		})
		if !ok {
			wg.Done()
		}
	}

	// await acks
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// print receipts
	var printed int
	for done != nil || printed < committed {
		select {
		case receipt := <-receipts:
			printReceipt(out, receipt)
			printed++
		case err := <-readerErrors:
			return errors.Wrap(err, "reader")
		case <-done:
			done = nil
		}
	}

	// print state
	executor.View(func(r *kernel.Runtime) {
		fmt.Fprintln(out, r.String())
	})

	log.Info().
		Int("blocks", len(blocks)).
		Int("committed", committed).
		Int("journal", journal.Length()).
		Msg("scenario finished")

	return nil
}

func printReceipt(out io.Writer, receipt kernel.Receipt) {
	fmt.Fprintf(out, "block %d: %d extrinsics, %d failed\n", receipt.Block, len(receipt.Outcomes), receipt.Failures())
	for _, outcome := range receipt.Outcomes {
		status := "ok"
		if outcome.Failed() {
			status = outcome.Error
		}
		fmt.Fprintf(out, "  #%d %s %s/%s: %s\n", outcome.Index, outcome.Caller, outcome.Module, outcome.Call, status)
	}
}
