package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	dowser "github.com/dowser/dowser-go"
	"github.com/dowser/dowser-go/cluster"
	"github.com/dowser/dowser-go/dom"
	"github.com/dowser/dowser-go/optimize"
)

// sample is one labeled page: the elements matching selector should fall
// into expectedClusters groups at the given splitting distance.
type sample struct {
	elements          []dowser.Element
	splittingDistance float64
	expectedClusters  int
}

func newTuneCommand() *cobra.Command {
	var (
		samplesPath string
		configPath  string
		outPath     string
		seed        int64
	)
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Anneal distance coefficients against a labeled sample corpus",
		Long: `Reads a JSON corpus of shape
  {"samples": [{"html": "...", "selector": "a", "splittingDistance": 10, "expectedClusters": 2}, ...]}
and searches for distance coefficients under which clustering reproduces the
expected group counts. The result is written as a YAML config usable by the
distance and cluster commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg := optimize.DefaultConfig()
			if configPath != "" {
				if cfg, err = optimize.LoadConfig(configPath); err != nil {
					return err
				}
			}

			samples, err := loadSamples(samplesPath)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("no samples in %s", samplesPath)
			}

			rng := rand.New(rand.NewSource(seed))
			problem := &costsProblem{initial: cfg.Costs, samples: samples, rng: rng}
			annealer := optimize.New[cluster.Costs](problem,
				optimize.WithParameters(cfg.Annealer),
				optimize.WithLogger(log),
				optimize.WithRand(rng),
			)
			best, bestCost := annealer.Run()
			log.Info("tuning finished",
				zap.Float64("cost", bestCost),
				zap.Any("costs", best))

			cfg.Costs = best
			if outPath == "" {
				fmt.Printf("best cost %g: %+v\n", bestCost, best)
				return nil
			}
			return optimize.SaveConfig(outPath, cfg)
		},
	}
	cmd.Flags().StringVarP(&samplesPath, "samples", "f", "", "JSON sample corpus (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "starting YAML config (defaults built in)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "where to write the tuned YAML config")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible runs")
	_ = cmd.MarkFlagRequired("samples")
	return cmd
}

func loadSamples(path string) ([]sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}

	var samples []sample
	var firstErr error
	gjson.GetBytes(data, "samples").ForEach(func(_, item gjson.Result) bool {
		doc, err := dom.ParseString(item.Get("html").String())
		if err != nil {
			firstErr = err
			return false
		}
		els, err := doc.QuerySelectorAll(item.Get("selector").String())
		if err != nil {
			firstErr = err
			return false
		}
		split := item.Get("splittingDistance").Float()
		if split == 0 {
			split = 10
		}
		samples = append(samples, sample{
			elements:          els,
			splittingDistance: split,
			expectedClusters:  int(item.Get("expectedClusters").Int()),
		})
		return true
	})
	return samples, firstErr
}

// costsProblem searches the four distance coefficients. Cost is the total
// disparity between produced and expected cluster counts across the corpus,
// with a small magnitude penalty to keep coefficients from wandering.
type costsProblem struct {
	initial cluster.Costs
	samples []sample
	rng     *rand.Rand
}

func (p *costsProblem) InitialSolution() cluster.Costs { return p.initial }

func (p *costsProblem) RandomTransition(c cluster.Costs) cluster.Costs {
	coeffs := []*float64{&c.DifferentDepth, &c.DifferentTag, &c.SameTag, &c.Stride}
	target := coeffs[p.rng.Intn(len(coeffs))]
	*target += p.rng.Float64() - 0.5
	if *target < 0 {
		*target = 0
	}
	return c
}

func (p *costsProblem) SolutionCost(c cluster.Costs) float64 {
	cost := 0.0
	for _, s := range p.samples {
		groups := cluster.Elements(s.elements, s.splittingDistance, cluster.WithCosts(c))
		cost += math.Abs(float64(len(groups) - s.expectedClusters))
	}
	return cost + 0.001*(c.DifferentDepth+c.DifferentTag+c.SameTag+c.Stride)
}
