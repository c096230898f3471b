package services

import (
	"time"

	"orderflow/internal/core/domain/model/order"
)

const dayLayout = "2006-01-02"

// Statistics is an operational snapshot of one tenant's orders.
// Durations are in seconds.
type Statistics struct {
	TotalOrders        int                `json:"total_orders"`
	StatusCount        map[string]int     `json:"status_count"`
	OrdersByCook       map[string]int     `json:"orders_by_cook"`
	OrdersByDispatcher map[string]int     `json:"orders_by_dispatcher"`
	OrdersByDriver     map[string]int     `json:"orders_by_driver"`
	OrdersByClient     map[string]int     `json:"orders_by_client"`
	OrdersPerDay       map[string]int     `json:"orders_per_day"`
	AvgStageDurations  map[string]float64 `json:"avg_stage_durations_seconds"`
	AvgTotalDuration   *float64           `json:"avg_total_duration_seconds"`
}

// StageKey names the duration bucket between two adjacent pipeline statuses.
func StageKey(from, to order.Status) string {
	return from.String() + " -> " + to.String()
}

type runningMean struct {
	sum   float64
	count int
}

func (m *runningMean) add(v float64) {
	m.sum += v
	m.count++
}

// StatisticsAggregator folds orders one at a time, so a full tenant scan can be
// streamed through it without buffering. An aggregator is single-use and not safe
// for concurrent Add calls.
type StatisticsAggregator struct {
	stats  Statistics
	stages map[string]*runningMean
	total  runningMean
}

// NewStatisticsAggregator returns an empty aggregator.
func NewStatisticsAggregator() *StatisticsAggregator {
	return &StatisticsAggregator{
		stats: Statistics{
			StatusCount:        make(map[string]int),
			OrdersByCook:       make(map[string]int),
			OrdersByDispatcher: make(map[string]int),
			OrdersByDriver:     make(map[string]int),
			OrdersByClient:     make(map[string]int),
			OrdersPerDay:       make(map[string]int),
			AvgStageDurations:  make(map[string]float64),
		},
		stages: make(map[string]*runningMean),
	}
}

// Add folds one order into the running totals.
//
// Stage durations use the history timestamps of both adjacent statuses. A history
// entry without a usable timestamp is ignored, and negative deltas are dropped
// rather than reported. If a status occurs more than once the latest entry wins.
func (a *StatisticsAggregator) Add(o *order.Order) {
	a.stats.TotalOrders++
	a.stats.StatusCount[o.Status().String()]++
	a.stats.OrdersByClient[o.Client().UserID()]++

	if cook := o.Cook(); cook != nil {
		a.stats.OrdersByCook[cook.UserID()]++
	}
	if dispatcher := o.Dispatcher(); dispatcher != nil {
		a.stats.OrdersByDispatcher[dispatcher.UserID()]++
	}
	if driver := o.Driver(); driver != nil {
		a.stats.OrdersByDriver[driver.UserID()]++
	}

	createdAt := o.CreatedAt()
	if !createdAt.IsZero() {
		a.stats.OrdersPerDay[createdAt.UTC().Format(dayLayout)]++
	}

	reached := make(map[order.Status]time.Time, len(o.History()))
	for _, h := range o.History() {
		if h.At().IsZero() {
			continue
		}
		reached[h.Status()] = h.At()
	}

	pipeline := order.Pipeline()
	for i := 1; i < len(pipeline); i++ {
		from, to := pipeline[i-1], pipeline[i]
		start, okFrom := reached[from]
		end, okTo := reached[to]
		if !okFrom || !okTo {
			continue
		}
		if delta := end.Sub(start).Seconds(); delta >= 0 {
			key := StageKey(from, to)
			if a.stages[key] == nil {
				a.stages[key] = &runningMean{}
			}
			a.stages[key].add(delta)
		}
	}

	if completedAt, ok := reached[order.Complete]; ok && !createdAt.IsZero() {
		if delta := completedAt.Sub(createdAt).Seconds(); delta >= 0 {
			a.total.add(delta)
		}
	}
}

// Result returns the snapshot of everything added so far.
func (a *StatisticsAggregator) Result() Statistics {
	for key, mean := range a.stages {
		a.stats.AvgStageDurations[key] = mean.sum / float64(mean.count)
	}
	if a.total.count > 0 {
		avg := a.total.sum / float64(a.total.count)
		a.stats.AvgTotalDuration = &avg
	}
	return a.stats
}
