package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/andreyvit/docdb"
	"github.com/andreyvit/docdb/docpath"
	"github.com/spf13/cobra"
)

func parseDocument(s string) (docdb.Document, error) {
	var doc docdb.Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return doc, nil
}

func printDocument(w io.Writer, doc docdb.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", raw)
	return err
}

func (a *app) putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <path> <json>",
		Short: "Store a document, replacing any existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := docpath.Parse(args[0])
			if err != nil {
				return err
			}
			doc, err := parseDocument(args[1])
			if err != nil {
				return err
			}
			return a.db.AddDocument(p, doc)
		},
	}
}

func (a *app) insertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert <folder> <json>",
		Short: "Store a document under a generated name and print its path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := docpath.Parse(args[0])
			if err != nil {
				return err
			}
			doc, err := parseDocument(args[1])
			if err != nil {
				return err
			}
			p, err := a.db.InsertDocument(folder, doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := docpath.Parse(args[0])
			if err != nil {
				return err
			}
			doc, err := a.db.Document(p)
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("%s: %w", p, docdb.ErrDocumentNotFound)
			}
			return printDocument(cmd.OutOrStdout(), doc)
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <path> <json>",
		Short: "Merge fields into a document and print the result",
		Long:  "Merge fields into a document and print the result. Fields set to null are kept as null.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := docpath.Parse(args[0])
			if err != nil {
				return err
			}
			update, err := parseDocument(args[1])
			if err != nil {
				return err
			}
			doc, err := a.db.UpdateDocument(p, update)
			if err != nil {
				return err
			}
			return printDocument(cmd.OutOrStdout(), doc)
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	var folders bool
	cmd := &cobra.Command{
		Use:   "ls [folder]",
		Short: "List document paths recursively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := docpath.Root()
			if len(args) > 0 {
				var err error
				if folder, err = docpath.Parse(args[0]); err != nil {
					return err
				}
			}
			paths, err := a.db.DocumentPaths(folder, folders)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range paths {
				if folders && a.db.IsFolder(p) {
					fmt.Fprintf(w, "%s/\n", p)
				} else {
					fmt.Fprintln(w, p)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&folders, "folders", false, "include folders")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a document, or a folder with --recursive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := docpath.Parse(args[0])
			if err != nil {
				return err
			}
			if recursive {
				return a.db.DeleteItem(p)
			}
			err = a.db.DeleteDocument(p)
			if errors.Is(err, docdb.ErrIsFolder) {
				return fmt.Errorf("%w (use --recursive)", err)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "delete folders with everything inside")
	return cmd
}

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump [folder]",
		Short: "Print every folder and document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := docpath.Root()
			if len(args) > 0 {
				var err error
				if folder, err = docpath.Parse(args[0]); err != nil {
					return err
				}
			}
			return a.db.Dump(cmd.OutOrStdout(), folder, docdb.DumpAll)
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [folder]",
		Short: "Count documents, folders and bytes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := docpath.Root()
			if len(args) > 0 {
				var err error
				if folder, err = docpath.Parse(args[0]); err != nil {
					return err
				}
			}
			s, err := a.db.FolderStats(folder)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "documents:   %d\n", s.Documents)
			fmt.Fprintf(w, "folders:     %d\n", s.Folders)
			fmt.Fprintf(w, "bytes:       %d\n", s.Bytes)
			fmt.Fprintf(w, "undecodable: %d\n", s.Undecodable)
			return nil
		},
	}
}
