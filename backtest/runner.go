package backtest

import (
	"sync"

	"github.com/mariod-cerebras/financial-theory-tester/app/models"
	"github.com/mariod-cerebras/financial-theory-tester/strategy"
)

// Job pairs one candle frame with one compiled rule
type Job struct {
	Frame *models.CandleFrame
	Rule  *strategy.Rule
}

// Outcome is the result slot of one job
type Outcome struct {
	Result *Result
	Err    error
}

// RunAll evaluates independent (series, rule) jobs across a bounded worker
// pool. Every run owns a fresh portfolio, so workers share nothing; each
// outcome lands in its own slot of the returned slice, in job order.
func RunAll(jobs []Job, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	outcomes := make([]Outcome, len(jobs))
	queue := make(chan int)

	wg := new(sync.WaitGroup)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				result, err := Simulate(jobs[i].Frame, jobs[i].Rule)
				outcomes[i] = Outcome{Result: result, Err: err}
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)
	wg.Wait()

	return outcomes
}
