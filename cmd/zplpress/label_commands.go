package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"zplpress/internal/config"
	"zplpress/internal/preview"
	"zplpress/internal/printer"
)

func buildDocument(path string) (*config.LabelSpec, string, error) {
	spec, err := config.LoadLabel(path)
	if err != nil {
		return nil, "", err
	}
	label, err := spec.Build()
	if err != nil {
		return nil, "", err
	}
	if !label.Balanced() {
		return nil, "", fmt.Errorf("label has unbalanced origin blocks")
	}
	return spec, label.Document(), nil
}

func connect() (printer.Connection, error) {
	if printerPath == "" {
		return nil, fmt.Errorf("no printer definition given, use --printer")
	}
	spec, err := config.LoadPrinter(printerPath)
	if err != nil {
		return nil, err
	}
	return spec.Connect()
}

func renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <label.yaml>",
		Short: "Build a label definition and write the ZPL document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, document, err := buildDocument(args[0])
			if err != nil {
				return err
			}
			if outputPath == "" {
				fmt.Println(document)
				return nil
			}
			return os.WriteFile(outputPath, []byte(document), 0o644)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the document to a file instead of stdout")
	return cmd
}

func sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send <label.yaml>",
		Short: "Build a label definition and send it to the printer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, document, err := buildDocument(args[0])
			if err != nil {
				return err
			}
			conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := conn.Send(document); err != nil {
				return err
			}
			slog.Info("Sent document", "size", len(document))
			return nil
		},
	}
}

func previewCommand() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "preview <label.yaml>",
		Short: "Render a label definition to a PNG via Labelary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, document, err := buildDocument(args[0])
			if err != nil {
				return err
			}
			png, err := preview.NewClient().Render(document, int(spec.DPMM), spec.Width, spec.Height, index)
			if err != nil {
				return err
			}
			out := outputPath
			if out == "" {
				out = "label.png"
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return err
			}
			slog.Info("Wrote preview", "file", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output PNG path (default label.png)")
	cmd.Flags().IntVar(&index, "index", 0, "label index to render")
	return cmd
}
