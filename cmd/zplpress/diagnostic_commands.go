package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"zplpress/internal/printer"
)

func withDiagnostics(run func(*printer.Diagnostics) error) error {
	conn, err := connect()
	if err != nil {
		return err
	}
	defer conn.Close()
	return run(printer.NewDiagnostics(conn))
}

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show printer model, firmware and resolution (~HI)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDiagnostics(func(d *printer.Diagnostics) error {
				ident, err := d.Identification(true)
				if err != nil {
					return err
				}
				fmt.Println("Model:           ", ident.Model)
				fmt.Println("Firmware:        ", ident.FirmwareVersion)
				fmt.Println("Resolution:      ", ident.DotsPerMM, "dpmm")
				fmt.Println("Memory:          ", ident.Memory)
				return nil
			})
		},
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show printer status (~HS)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDiagnostics(func(d *printer.Diagnostics) error {
				s, err := d.Status(true)
				if err != nil {
					return err
				}
				fmt.Println("Paper out:        ", s.PaperOut)
				fmt.Println("Paused:           ", s.Pause)
				fmt.Println("Head up:          ", s.HeadUp)
				fmt.Println("Ribbon out:       ", s.RibbonOut)
				fmt.Println("Label length:     ", s.LabelLength, "dots")
				fmt.Println("Labels remaining: ", s.LabelsRemaining)
				fmt.Println("Formats buffered: ", s.FormatsInBuffer)
				fmt.Println("Print mode:       ", s.PrintMode)
				return nil
			})
		},
	}
}

func configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Dump printer configuration (^XA^HH^XZ)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDiagnostics(func(d *printer.Diagnostics) error {
				cfg, err := d.Configuration(true)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(cfg))
				for name := range cfg {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Printf("%-32s %s\n", name, cfg[name])
				}
				return nil
			})
		},
	}
}

func errorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "errors",
		Short: "Show active printer errors and warnings (~HQES)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDiagnostics(func(d *printer.Diagnostics) error {
				health, err := d.Health(true)
				if err != nil {
					return err
				}
				if len(health.Errors) == 0 && len(health.Warnings) == 0 {
					fmt.Println("No errors or warnings")
					return nil
				}
				for _, e := range health.Errors {
					fmt.Println("Error:  ", e)
				}
				for _, w := range health.Warnings {
					fmt.Println("Warning:", w)
				}
				return nil
			})
		},
	}
}
