package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"zplpress/internal/format"
)

func openRepository() (*format.Repository, error) {
	return format.Open(dbPath)
}

func formatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "Manage stored label formats",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "formats.db", "format database path")

	save := &cobra.Command{
		Use:   "save <name> <label.yaml>",
		Short: "Build a label definition as a ^DF format and store it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := buildFormatDocument(args[0], args[1])
			if err != nil {
				return err
			}
			r, err := openRepository()
			if err != nil {
				return err
			}
			defer r.Close()
			return r.Transact(func(tx *sql.Tx) error {
				return r.Save(tx, spec)
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepository()
			if err != nil {
				return err
			}
			defer r.Close()
			formats, err := r.List()
			if err != nil {
				return err
			}
			for _, f := range formats {
				fmt.Printf("%-16s %s  %d bytes\n", f.Name, f.CreatedAt.Format("2006-01-02 15:04"), len(f.ZPL))
			}
			return nil
		},
	}

	push := &cobra.Command{
		Use:   "push <name>",
		Short: "Send a stored format to the printer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepository()
			if err != nil {
				return err
			}
			defer r.Close()
			f, err := r.Get(args[0])
			if err != nil {
				return err
			}
			if f == nil {
				return fmt.Errorf("no stored format named %q", args[0])
			}
			conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()
			return conn.Send(f.ZPL)
		},
	}

	remove := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepository()
			if err != nil {
				return err
			}
			defer r.Close()
			return r.Delete(args[0])
		},
	}

	cmd.AddCommand(save, list, push, remove)
	return cmd
}

// buildFormatDocument builds the label with SaveFormat applied under the
// stored name so the document both defines and names the format.
func buildFormatDocument(name, path string) (*format.Format, error) {
	spec, _, err := buildDocument(path)
	if err != nil {
		return nil, err
	}
	spec.Format = name
	label, err := spec.Build()
	if err != nil {
		return nil, err
	}
	return &format.Format{Name: name, ZPL: label.Document()}, nil
}
