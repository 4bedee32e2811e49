package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dowser "github.com/dowser/dowser-go"
	"github.com/dowser/dowser-go/cluster"
	"github.com/dowser/dowser-go/dom"
	"github.com/dowser/dowser-go/optimize"
)

func newDistanceCommand() *cobra.Command {
	var (
		file       string
		from, to   string
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "distance",
		Short: "Compute the tree distance between two selector matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseFile(file)
			if err != nil {
				return err
			}
			a, err := firstMatch(doc, from)
			if err != nil {
				return err
			}
			b, err := firstMatch(doc, to)
			if err != nil {
				return err
			}

			opts, err := distanceOptions(configPath)
			if err != nil {
				return err
			}
			d := cluster.Distance(a, b, opts...)
			if d == cluster.MaxDistance {
				fmt.Println("distance: MAX (one element contains the other)")
				return nil
			}
			fmt.Printf("distance: %g\n", d)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "HTML file to inspect (required)")
	cmd.Flags().StringVar(&from, "from", "", "selector of the first element (required)")
	cmd.Flags().StringVar(&to, "to", "", "selector of the second element (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML cost config (defaults built in)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func parseFile(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Parse(f)
}

func firstMatch(doc *dom.Document, selector string) (dowser.Element, error) {
	els, err := doc.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return els[0], nil
}

func distanceOptions(configPath string) ([]cluster.DistanceOption, error) {
	if configPath == "" {
		return nil, nil
	}
	cfg, err := optimize.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return []cluster.DistanceOption{cluster.WithCosts(cfg.Costs)}, nil
}
