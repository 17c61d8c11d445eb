package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bioforge/genosim/internal/archive"
	"github.com/bioforge/genosim/internal/fasta"
	"github.com/bioforge/genosim/internal/genome"
	"github.com/bioforge/genosim/internal/mutate"
	"github.com/bioforge/genosim/internal/rates"
	"github.com/bioforge/genosim/internal/vcfout"
)

func newSimulateCmd() *cobra.Command {
	var (
		refPath     string
		nVars       int
		simTime     float64
		piStr       string
		alpha1      float64
		alpha2      float64
		beta        float64
		xi          float64
		psi         float64
		insRatesStr string
		delRatesStr string
		gammaPath   string
		outPrefix   string
		vcfPath     string
		archivePath string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Evolve variant genomes from a reference",
		Long: `Evolve haploid variant genomes from a reference by sampling
substitution, insertion, and deletion events from a TN93 substitution
model with indels and optional site-rate heterogeneity.`,
		Example: `  genosim simulate --ref ref.fa --n-vars 5 --time 0.1 -o vars
  genosim simulate --ref ref.fa --n-vars 3 --time 0.05 --xi 0.1 --psi 1.5 \
      --ins-rates 4,2,1 --del-rates 4,2,1 --vcf vars.vcf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			pi, err := parsePi(piStr)
			if err != nil {
				return err
			}
			insRates, err := parseFloats(insRatesStr)
			if err != nil {
				return err
			}
			delRates, err := parseFloats(delRatesStr)
			if err != nil {
				return err
			}

			model, err := rates.NewModel(rates.TN93(pi, alpha1, alpha2, beta),
				pi, xi, psi, insRates, delRates)
			if err != nil {
				return err
			}

			ref, err := fasta.ReadFile(refPath)
			if err != nil {
				return err
			}
			logger.Info("reference loaded",
				zap.Int("chromosomes", ref.Size()),
				zap.Int("total_size", ref.TotalSize))

			gammas, err := loadGammas(gammaPath, ref)
			if err != nil {
				return err
			}

			seed, err := resolveSeed(cmd)
			if err != nil {
				return err
			}
			workers := intFlagOrConfig(cmd, "workers", "workers")
			opts := mutate.EvolveOpts{
				Time:         simTime,
				ChunkSize:    intFlagOrConfig(cmd, "chunk-size", "chunk_size"),
				PollInterval: intFlagOrConfig(cmd, "cancel-poll-interval", "cancel_poll_interval"),
			}

			token := &mutate.CancelToken{}
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				<-sigCh
				logger.Warn("interrupt received, cancelling")
				token.Cancel()
			}()

			vs := genome.NewVarSet(ref, nVars)
			logger.Info("evolving variants",
				zap.Int("variants", nVars),
				zap.Float64("time", simTime),
				zap.Uint64("seed", seed),
				zap.Int("workers", workers))
			if err := mutate.EvolveSet(vs, model, gammas, seed, workers, opts, token, logger); err != nil {
				return err
			}

			for _, vg := range vs.Variants {
				path := fmt.Sprintf("%s_%s.fa", outPrefix, vg.Name)
				if err := fasta.WriteVariant(path, vg); err != nil {
					return err
				}
			}
			if vcfPath != "" {
				if err := vcfout.WriteFile(vcfPath, vs); err != nil {
					return err
				}
				logger.Info("VCF written", zap.String("path", vcfPath))
			}
			if archivePath != "" {
				store, err := archive.Open(archivePath)
				if err != nil {
					return err
				}
				defer store.Close()
				for _, vg := range vs.Variants {
					if err := store.AppendVariant(vg); err != nil {
						return err
					}
				}
				n, err := store.Count("")
				if err != nil {
					return err
				}
				logger.Info("mutations archived",
					zap.Int("count", n),
					zap.String("path", archivePath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&refPath, "ref", "", "Reference genome FASTA (required)")
	cmd.MarkFlagRequired("ref")
	cmd.Flags().IntVar(&nVars, "n-vars", 1, "Number of variant genomes to evolve")
	cmd.Flags().Float64Var(&simTime, "time", 0.1, "Branch length to simulate over")
	cmd.Flags().StringVar(&piStr, "pi", "0.25,0.25,0.25,0.25", "Equilibrium base frequencies for T,C,A,G")
	cmd.Flags().Float64Var(&alpha1, "alpha1", 1, "TN93 pyrimidine transition rate (T<->C)")
	cmd.Flags().Float64Var(&alpha2, "alpha2", 1, "TN93 purine transition rate (A<->G)")
	cmd.Flags().Float64Var(&beta, "beta", 1, "TN93 transversion rate")
	cmd.Flags().Float64Var(&xi, "xi", 0, "Total indel rate per base per unit time")
	cmd.Flags().Float64Var(&psi, "psi", 1, "Insertion/deletion rate ratio")
	cmd.Flags().StringVar(&insRatesStr, "ins-rates", "", "Relative insertion rates by length (comma-separated)")
	cmd.Flags().StringVar(&delRatesStr, "del-rates", "", "Relative deletion rates by length (comma-separated)")
	cmd.Flags().StringVar(&gammaPath, "gamma-mat", "", "Site-rate multiplier file: 'end gamma' rows, applied per chromosome")
	cmd.Flags().StringVarP(&outPrefix, "out", "o", "variants", "Output FASTA path prefix")
	cmd.Flags().StringVar(&vcfPath, "vcf", "", "Also write mutations as VCF to this path")
	cmd.Flags().StringVar(&archivePath, "archive", "", "Also archive mutations to this DuckDB file")
	cmd.Flags().Uint64("seed", 0, "Master seed (default: OS entropy)")
	cmd.Flags().Int("workers", 1, "Parallel worker count")
	cmd.Flags().Int("chunk-size", 0, "Location-sampling window (0 = whole chromosome)")
	cmd.Flags().Int("cancel-poll-interval", 1024, "Events between cancellation polls")

	return cmd
}

// loadGammas reads a two-column "end gamma" file and applies it to every
// chromosome, clamping the final run to each chromosome's length. An
// empty path yields flat rates.
func loadGammas(path string, ref *genome.RefGenome) ([]*rates.SequenceGammas, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gamma matrix: %w", err)
	}
	defer f.Close()

	var rows [][2]float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("gamma matrix row %q: want 2 columns", line)
		}
		end, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("gamma matrix end %q: %w", fields[0], err)
		}
		g, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("gamma matrix value %q: %w", fields[1], err)
		}
		rows = append(rows, [2]float64{end, g})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan gamma matrix: %w", err)
	}

	out := make([]*rates.SequenceGammas, ref.Size())
	for i := range ref.Chroms {
		size := ref.Chroms[i].Size()
		perChrom := make([][2]float64, 0, len(rows))
		for _, row := range rows {
			perChrom = append(perChrom, row)
			if int(row[0]) >= size-1 {
				break
			}
		}
		// The last run must reach the end of this chromosome.
		if len(perChrom) > 0 && int(perChrom[len(perChrom)-1][0]) < size-1 {
			perChrom[len(perChrom)-1][0] = float64(size - 1)
		}
		g, err := rates.NewSequenceGammas(perChrom, size)
		if err != nil {
			return nil, fmt.Errorf("chromosome %s: %w", ref.Chroms[i].Name, err)
		}
		out[i] = g
	}
	return out, nil
}
