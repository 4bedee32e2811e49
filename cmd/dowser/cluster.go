package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dowser "github.com/dowser/dowser-go"
	"github.com/dowser/dowser-go/cluster"
)

func newClusterCommand() *cobra.Command {
	var (
		file       string
		selector   string
		split      float64
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster a page's selector matches by tree distance",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			doc, err := parseFile(file)
			if err != nil {
				return err
			}
			els, err := doc.QuerySelectorAll(selector)
			if err != nil {
				return err
			}
			opts, err := distanceOptions(configPath)
			if err != nil {
				return err
			}
			log.Debug("clustering",
				zap.Int("elements", len(els)),
				zap.Float64("splittingDistance", split))

			groups := cluster.Elements(els, split, opts...)
			for i, g := range groups {
				fmt.Printf("cluster %d (%d elements):\n", i+1, len(g))
				for _, el := range g {
					fmt.Printf("  %s\n", describe(el))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "HTML file to inspect (required)")
	cmd.Flags().StringVarP(&selector, "selector", "s", "", "selector of the elements to cluster (required)")
	cmd.Flags().Float64Var(&split, "split", 10, "splitting distance: clusters farther apart stay separate")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML cost config (defaults built in)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("selector")
	return cmd
}

func describe(el dowser.Element) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(el.TagName())
	if id, ok := el.Attr("id"); ok {
		fmt.Fprintf(&b, " id=%q", id)
	}
	if class, ok := el.Attr("class"); ok {
		fmt.Fprintf(&b, " class=%q", class)
	}
	b.WriteByte('>')
	if text := strings.TrimSpace(el.TextContent()); text != "" {
		if len(text) > 40 {
			text = text[:40] + "…"
		}
		b.WriteString(" ")
		b.WriteString(text)
	}
	return b.String()
}
