package main

import (
	"fmt"
	"io"

	"github.com/andreyvit/docdb"
	"github.com/andreyvit/docdb/docpath"
	"github.com/spf13/cobra"
)

func (a *app) queryCmd() *cobra.Command {
	var (
		wheres    []string
		limit     int
		unlimited bool
		columns   []string
		eager     bool
		stream    bool
		batch     int
	)
	cmd := &cobra.Command{
		Use:   "query <folder>",
		Short: "Print documents under a folder matching all --where clauses",
		Example: `  docdb query /users --where "age >= 18" --where "role in [admin,editor]"
  docdb query /users --where "email exists" --columns name,email --unlimited`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := docpath.Parse(args[0])
			if err != nil {
				return err
			}
			var clauses []docdb.Clause
			for _, w := range wheres {
				c, err := parseWhere(w)
				if err != nil {
					return err
				}
				clauses = append(clauses, c)
			}
			opt := docdb.QueryOptions{Limit: limit, Columns: columns}
			if unlimited {
				opt = opt.Unbounded()
			}

			w := cmd.OutOrStdout()
			switch {
			case eager && stream:
				return fmt.Errorf("--eager and --stream are mutually exclusive")
			case eager:
				docs, err := a.db.Query(folder, clauses, opt)
				if err != nil {
					return err
				}
				for _, doc := range docs {
					if err := printDocument(w, doc); err != nil {
						return err
					}
				}
				return nil
			case stream:
				st, err := a.db.QueryStream(folder, clauses, opt)
				if err != nil {
					return err
				}
				ps := &printSubscriber{w: w, batch: docdb.Demand(max(batch, 1))}
				st.Subscribe(ps)
				return ps.err
			default:
				it, err := a.db.QueryIterator(folder, clauses, opt)
				if err != nil {
					return err
				}
				defer it.Close()
				for doc := range it.All() {
					if err := printDocument(w, doc); err != nil {
						return err
					}
				}
				st := it.Stats()
				a.logger.Info("query done", "scanned", st.Scanned, "skipped", st.Skipped, "matched", st.Matched)
				return nil
			}
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&wheres, "where", "w", nil, `clause "key op [value]"; ops: exists !exists null !null nullish == != < <= > >= in nin`)
	f.IntVarP(&limit, "limit", "n", 0, fmt.Sprintf("maximum number of results (default %d)", docdb.DefaultLimit))
	f.BoolVar(&unlimited, "unlimited", false, "return all matching documents")
	f.StringSliceVarP(&columns, "columns", "c", nil, "only print these fields")
	f.BoolVar(&eager, "eager", false, "collect all results before printing")
	f.BoolVar(&stream, "stream", false, "deliver results through a demand-driven stream")
	f.IntVar(&batch, "batch", 16, "documents requested at a time with --stream")
	return cmd
}

// printSubscriber requests documents in batches, asking for the next batch
// once the previous one has been printed.
type printSubscriber struct {
	w       io.Writer
	batch   docdb.Demand
	pending docdb.Demand
	sub     docdb.Subscription
	err     error
}

func (ps *printSubscriber) OnSubscribe(sub docdb.Subscription) {
	ps.sub = sub
	ps.pending = ps.batch
	sub.Request(ps.batch)
}

func (ps *printSubscriber) OnNext(doc docdb.Document) docdb.Demand {
	if err := printDocument(ps.w, doc); err != nil {
		ps.err = err
		ps.sub.Cancel()
		return 0
	}
	ps.pending--
	if ps.pending == 0 {
		ps.pending = ps.batch
		return ps.batch
	}
	return 0
}

func (ps *printSubscriber) OnComplete() {}
