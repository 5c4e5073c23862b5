package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andreyvit/docdb"
	"github.com/andreyvit/docdb/docpath"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func (a *app) benchCmd() *cobra.Command {
	var (
		count   int
		workers int
		keep    bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Insert documents concurrently, query them back and print metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				count = a.cfg.Bench.Count
			}
			if workers <= 0 {
				workers = a.cfg.Bench.Workers
			}
			return a.bench(cmd.OutOrStdout(), count, workers, keep)
		},
	}
	f := cmd.Flags()
	f.IntVar(&count, "count", 0, "documents to insert (default from config)")
	f.IntVar(&workers, "workers", 0, "concurrent writers (default from config)")
	f.BoolVar(&keep, "keep", false, "keep the inserted documents")
	return cmd
}

func (a *app) bench(w io.Writer, count, workers int, keep bool) error {
	folder, err := docpath.Root().Append("bench", uuid.NewString())
	if err != nil {
		return err
	}

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v any) {
		a.logger.Error("bench: writer panic", "panic", v)
	}))
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		mu   sync.Mutex
		errs *multierror.Error
		wg   sync.WaitGroup
	)
	fail := func(err error) {
		mu.Lock()
		errs = multierror.Append(errs, err)
		mu.Unlock()
	}

	start := time.Now()
	for i := range count {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			doc := docdb.Document{
				"i":    docdb.Int(int64(i)),
				"even": docdb.Bool(i%2 == 0),
				"tag":  docdb.String(fmt.Sprintf("t%d", i%10)),
			}
			if _, err := a.db.InsertDocument(folder, doc); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
		}
	}
	wg.Wait()
	writeDur := time.Since(start)
	fmt.Fprintf(w, "inserted %d documents with %d writers in %v (%.0f/s)\n", count, workers, writeDur.Round(time.Millisecond), float64(count)/writeDur.Seconds())

	start = time.Now()
	docs, err := a.db.Query(folder, []docdb.Clause{
		docdb.IsEqualTo("even", true),
		docdb.IsAnyOf("tag", "t0", "t2", "t4"),
	}, docdb.QueryOptions{}.Unbounded())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "query matched %d documents in %v\n", len(docs), time.Since(start).Round(time.Millisecond))

	if !keep {
		if err := a.db.DeleteItem(folder); err != nil {
			fail(err)
		}
	}

	if err := printCounters(w, a.registry); err != nil {
		return err
	}
	return errs.ErrorOrNil()
}

func printCounters(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}
