package solver

import (
	"log"
	"math"
	"time"
)

// HistoricSolution is a best-so-far snapshot kept by the search history.
type HistoricSolution struct {
	Routes [][]int `json:"routes"`
	Cost   float64 `json:"cost"`
}

// HistoryEntry timestamps a best solution relative to the run start.
type HistoryEntry struct {
	Solution  HistoricSolution `json:"solution"`
	Timestamp time.Duration    `json:"timestamp"`
}

// HistoryMessage is a timestamped progress message ("New best: …",
// "Resetting", …).
type HistoryMessage struct {
	Timestamp time.Duration `json:"timestamp"`
	Message   string        `json:"message"`
}

// SearchHistory records the improving solutions and the notable events of
// one run. The global best cost lives here so every phase (genetic cycle,
// ruin-and-recreate, elite education) shares a single notion of "best".
type SearchHistory struct {
	entries  []HistoryEntry
	messages []HistoryMessage

	BestCost  float64
	startTime time.Time
}

// NewSearchHistory starts an empty history anchored at startTime.
func NewSearchHistory(startTime time.Time) *SearchHistory {
	return &SearchHistory{
		BestCost:  math.Inf(1),
		startTime: startTime,
	}
}

// Add records ind as the new global best. Only the latest entry keeps its
// routes; earlier entries are reduced to their cost to bound memory.
func (h *SearchHistory) Add(ind *Individual) {
	h.BestCost = ind.PenalizedCost()
	timestamp := time.Since(h.startTime)

	routes := make([][]int, 0, ind.NumNonemptyRoutes())
	for _, route := range ind.Phenotype {
		if len(route) > 0 {
			routes = append(routes, append([]int(nil), route...))
		}
	}

	if last := len(h.entries) - 1; last >= 0 {
		h.entries[last].Solution.Routes = nil
	}
	h.entries = append(h.entries, HistoryEntry{
		Solution:  HistoricSolution{Routes: routes, Cost: h.BestCost},
		Timestamp: timestamp,
	})
}

// AddMessage records and logs a progress message.
func (h *SearchHistory) AddMessage(message string) {
	entry := HistoryMessage{Timestamp: time.Since(h.startTime), Message: message}
	log.Printf("Time: %v, %s", entry.Timestamp, entry.Message)
	h.messages = append(h.messages, entry)
}

// Entries returns all recorded best-solution snapshots.
func (h *SearchHistory) Entries() []HistoryEntry { return h.entries }

// LastEntry returns the most recent snapshot, or nil when none exists.
func (h *SearchHistory) LastEntry() *HistoryEntry {
	if len(h.entries) == 0 {
		return nil
	}

	return &h.entries[len(h.entries)-1]
}

// Messages returns all recorded progress messages.
func (h *SearchHistory) Messages() []HistoryMessage { return h.messages }
