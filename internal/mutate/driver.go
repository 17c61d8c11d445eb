package mutate

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/bioforge/genosim/internal/genome"
	"github.com/bioforge/genosim/internal/rates"
	"github.com/bioforge/genosim/internal/rng"
)

// ErrCancelled is returned when the cancellation token was observed set.
var ErrCancelled = errors.New("cancelled")

// DefaultPollInterval is how many events may pass between cancellation
// polls when the caller doesn't configure one.
const DefaultPollInterval = 1024

// CancelToken is a monotone boolean shared by all workers. Once set it
// stays set; workers finish the current event and return at the next
// poll point.
type CancelToken struct {
	flag atomic.Bool
}

// Cancel sets the token.
func (t *CancelToken) Cancel() { t.flag.Store(true) }

// Cancelled reports whether the token has been set.
func (t *CancelToken) Cancelled() bool { return t.flag.Load() }

// EvolveOpts configures the per-chromosome event loop.
type EvolveOpts struct {
	// Time is the branch length to simulate over.
	Time float64
	// ChunkSize restricts location sampling to a random window; zero
	// means the whole chromosome.
	ChunkSize int
	// PollInterval is the number of events between cancellation polls;
	// zero means DefaultPollInterval.
	PollInterval int
}

// Evolve runs the Gillespie-style event loop on one variant chromosome:
// exponential waiting times against the chromosome's total mutation
// rate, events applied until the time budget is spent. Returns the
// number of events applied.
func Evolve(vc *genome.VarChrom, m *rates.Model, g *rates.SequenceGammas,
	eng *rng.Engine, opts EvolveOpts, token *CancelToken) (int, error) {

	mu, err := NewMutator(vc, m, g, opts.ChunkSize)
	if err != nil {
		return 0, err
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	total := mu.Location().TotalRateAll()
	elapsed := 0.0
	events := 0
	for vc.Size() > 0 && total > 0 {
		elapsed += eng.Exponential(total)
		if elapsed > opts.Time {
			break
		}
		total += mu.Mutate(eng)
		events++
		if events%poll == 0 {
			if token != nil && token.Cancelled() {
				return events, ErrCancelled
			}
			// Drift in the incrementally-tracked total accumulates over
			// many indels; resync at poll points.
			total = mu.Location().TotalRateAll()
		}
	}
	return events, nil
}

// EvolveSet evolves every variant genome of a set independently over a
// worker pool. Variants are partitioned statically: worker w owns
// variants w, w+workers, w+2*workers, ... and each worker draws from its
// own seed-vector stream, so results are reproducible for fixed
// (inputs, seed, workers). Gammas are per reference chromosome; a nil
// slice (or nil entry) means no site heterogeneity.
func EvolveSet(vs *genome.VarSet, m *rates.Model, gammas []*rates.SequenceGammas,
	masterSeed uint64, workers int, opts EvolveOpts, token *CancelToken,
	logger *zap.Logger) error {

	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	seeds := rng.SeedSet(masterSeed, workers)

	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			eng, err := rng.NewEngine(seeds[w])
			if err != nil {
				errs[w] = err
				return
			}
			for i := w; i < vs.Size(); i += workers {
				vg := vs.Variants[i]
				events := 0
				for c, vc := range vg.Chroms {
					if token != nil && token.Cancelled() {
						errs[w] = ErrCancelled
						return
					}
					var g *rates.SequenceGammas
					if c < len(gammas) {
						g = gammas[c]
					}
					n, err := Evolve(vc, m, g, eng, opts, token)
					events += n
					if err != nil {
						errs[w] = fmt.Errorf("evolve %s/%s: %w", vg.Name, vc.Name, err)
						return
					}
				}
				logger.Debug("variant evolved",
					zap.String("variant", vg.Name),
					zap.Int("events", events))
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
