package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"github.com/utopialog/internal/metrics"
	"github.com/utopialog/internal/service"
)

type seedOptions struct {
	Days  int
	Seed  int64
	Force bool
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with demo records",
		Long: `Generate plausible daily records for the days before today, ending yesterday.
Days that already have a record are left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&opts.Days, "days", 30, "number of days to generate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite days that already have a record")
	return cmd
}

func runSeed(rootOpts *RootOptions, opts *seedOptions, out io.Writer) error {
	if opts.Days <= 0 {
		return fmt.Errorf("--days must be positive, got %d", opts.Days)
	}

	log, err := rootOpts.logger()
	if err != nil {
		return err
	}
	a, err := openApp(rootOpts, log)
	if err != nil {
		return err
	}
	defer a.Close()

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	generated := GenerateRecords(a.set.Dashboard.Today(), opts.Days, rand.New(rand.NewSource(seed)))

	records := generated[:0]
	for _, rec := range generated {
		if !opts.Force {
			_, err := a.set.Records.Get(rec.Date.Format(metrics.DateLayout))
			if err == nil {
				continue
			}
			if !errors.Is(err, service.ErrRecordNotFound) {
				return err
			}
		}
		records = append(records, rec)
	}

	n, err := a.set.Records.UpsertAll(records)
	if err != nil {
		return err
	}

	if rootOpts.Format == "json" {
		return writeJSON(out, map[string]int{"written": n, "skipped": len(generated) - n})
	}
	_, err = fmt.Fprintf(out, "✓ Seeded %d day(s), skipped %d\n", n, len(generated)-n)
	return err
}

// GenerateRecords returns days records ending the day before today, oldest
// first. Roughly one day in seven is a slump with little output.
func GenerateRecords(today time.Time, days int, rnd *rand.Rand) []metrics.Record {
	start := metrics.Day(today).AddDate(0, 0, -days)
	records := make([]metrics.Record, 0, days)
	for i := 0; i < days; i++ {
		rec := metrics.Record{
			Date:       start.AddDate(0, 0, i),
			Mood:       1 + rnd.Intn(5),
			Confidence: 1 + rnd.Intn(5),
			Aggression: 1 + rnd.Intn(5),
			SleepHours: halfHours(5 + rnd.Float64()*3.5),
			Calories:   1800 + rnd.Intn(1200),
		}
		if rnd.Intn(7) == 0 {
			rec.DeepWorkHours = halfHours(rnd.Float64() * 2)
			rec.ColdCalls = rnd.Intn(5)
			rec.Notes = "slump"
		} else {
			rec.DeepWorkHours = halfHours(2 + rnd.Float64()*5)
			rec.ColdCalls = 5 + rnd.Intn(40)
			rec.WorkoutDone = rnd.Intn(10) < 6
			rec.ReadingPages = rnd.Intn(40)
			if rnd.Intn(4) == 0 {
				rec.MoneyIn = float64(500 * (1 + rnd.Intn(10)))
			}
		}
		records = append(records, rec)
	}
	return records
}

func halfHours(h float64) float64 {
	return math.Round(h*2) / 2
}
