package genetic

import (
	"sort"

	"github.com/martsime/hybridcvrp/solver"
)

// feasibilityWindow is the number of recent insertions the penalty
// controller observes.
const feasibilityWindow = 100

// diversityEntry is one cached broken-pairs distance from an individual
// to a sibling, keyed by the sibling's number.
type diversityEntry struct {
	distance int64
	toNumber uint64
}

// SubPopulation is one of the two individual pools (feasible or
// infeasible). Individuals stay sorted ascending by penalized cost;
// pairwise broken-pairs distances are cached per individual in
// ascending order so clone detection and diversity averages are O(1)
// and O(N^C) respectively.
type SubPopulation struct {
	individuals []*solver.Individual

	diversity map[uint64][]diversityEntry

	maxIndividuals int
}

// NewSubPopulation sizes the pool for μ + λ members.
func NewSubPopulation(ctx *solver.Context) *SubPopulation {
	maxIndividuals := ctx.Config.MinPopulationSize + ctx.Config.PopulationLambda

	return &SubPopulation{
		individuals:    make([]*solver.Individual, 0, maxIndividuals),
		diversity:      make(map[uint64][]diversityEntry, maxIndividuals),
		maxIndividuals: maxIndividuals,
	}
}

// Size returns the number of individuals in the pool.
func (sp *SubPopulation) Size() int { return len(sp.individuals) }

// Individuals exposes the cost-sorted members (read-only by convention).
func (sp *SubPopulation) Individuals() []*solver.Individual { return sp.individuals }

// Add inserts the individual at its cost rank, refreshes the diversity
// caches and the biased fitness, drops it again right away when it is a
// clone of an existing member, and runs survivor selection once the pool
// reaches μ + λ.
func (sp *SubPopulation) Add(ctx *solver.Context, ind *solver.Individual) {
	insertIndex := sort.Search(len(sp.individuals), func(i int) bool {
		return sp.individuals[i].PenalizedCost() > ind.PenalizedCost()
	})

	sp.individuals = append(sp.individuals, nil)
	copy(sp.individuals[insertIndex+1:], sp.individuals[insertIndex:])
	sp.individuals[insertIndex] = ind

	sp.updateDiversity(insertIndex)

	if len(sp.individuals) > 1 && sp.isClone(ind) {
		sp.remove(ctx, insertIndex)
	} else {
		sp.updateFitness(ctx)
	}

	if len(sp.individuals) >= sp.maxIndividuals {
		for len(sp.individuals) > ctx.Config.MinPopulationSize {
			sp.naturalSelection(ctx)
		}
	}
}

// IndexOf returns the cost-rank index of the exact individual (pointer
// identity), or -1 when it is not in the pool.
func (sp *SubPopulation) IndexOf(ind *solver.Individual) int {
	for index, member := range sp.individuals {
		if member == ind {
			return index
		}
	}

	return -1
}

// RemoveIndividual drops the exact individual from the pool, reporting
// whether it was present.
func (sp *SubPopulation) RemoveIndividual(ctx *solver.Context, ind *solver.Individual) bool {
	index := sp.IndexOf(ind)
	if index < 0 {
		return false
	}
	sp.remove(ctx, index)

	return true
}

// Best returns the lowest-cost member, or nil for an empty pool.
func (sp *SubPopulation) Best() *solver.Individual {
	if len(sp.individuals) == 0 {
		return nil
	}

	return sp.individuals[0]
}

// BestCost returns the lowest penalized cost, or 0 for an empty pool.
func (sp *SubPopulation) BestCost() float64 {
	if best := sp.Best(); best != nil {
		return best.PenalizedCost()
	}

	return 0
}

// AverageCost averages the penalized cost over the μ best members.
func (sp *SubPopulation) AverageCost(ctx *solver.Context) float64 {
	size := len(sp.individuals)
	if size > ctx.Config.MinPopulationSize {
		size = ctx.Config.MinPopulationSize
	}
	if size == 0 {
		return -1
	}
	total := 0.0
	for _, ind := range sp.individuals[:size] {
		total += ind.PenalizedCost()
	}

	return total / float64(size)
}

// Diversity averages every member's mean broken-pairs distance to its
// closest siblings, over the μ best members. The caller normalizes by
// the customer count for display.
func (sp *SubPopulation) Diversity(ctx *solver.Context) float64 {
	size := len(sp.individuals)
	if size > ctx.Config.MinPopulationSize {
		size = ctx.Config.MinPopulationSize
	}
	if size == 0 {
		return -1
	}
	total := 0.0
	for _, ind := range sp.individuals[:size] {
		total += sp.averageBrokenPairs(ind, size)
	}

	return total / float64(size)
}

// Reevaluate refreshes every member's evaluation under the current
// penalty and restores the cost ordering. Used after penalty updates;
// diversity caches are unaffected because routes did not change.
func (sp *SubPopulation) Reevaluate(ctx *solver.Context) {
	for _, ind := range sp.individuals {
		ind.Evaluate(ctx)
	}
	sort.SliceStable(sp.individuals, func(i, j int) bool {
		return sp.individuals[i].PenalizedCost() < sp.individuals[j].PenalizedCost()
	})
}

// remove drops the individual at index and erases its diversity caches.
func (sp *SubPopulation) remove(ctx *solver.Context, index int) {
	ind := sp.individuals[index]
	sp.individuals = append(sp.individuals[:index], sp.individuals[index+1:]...)

	delete(sp.diversity, ind.Number)
	for key, entries := range sp.diversity {
		for i := range entries {
			if entries[i].toNumber == ind.Number {
				sp.diversity[key] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
	}

	sp.updateFitness(ctx)
}

// naturalSelection removes the member with the worst biased fitness,
// preferring clones over unique individuals. The incumbent best (index
// 0) is never removed.
func (sp *SubPopulation) naturalSelection(ctx *solver.Context) {
	worstIndex := 1
	worstIsClone := false
	worstFitness := -1.0

	for index := 1; index < len(sp.individuals); index++ {
		isClone := sp.isClone(sp.individuals[index])

		update := isClone && !worstIsClone
		update = update ||
			(worstIsClone == isClone && sp.individuals[index].Fitness >= worstFitness)

		if update {
			worstIndex = index
			worstIsClone = isClone
			worstFitness = sp.individuals[index].Fitness
		}
	}

	sp.remove(ctx, worstIndex)
}

// isClone reports whether the individual's closest sibling shares its
// exact route structure (broken-pairs distance zero).
func (sp *SubPopulation) isClone(ind *solver.Individual) bool {
	entries := sp.diversity[ind.Number]
	if len(entries) == 0 {
		return false
	}

	return entries[0].distance == 0
}

// updateDiversity computes the broken-pairs distance between the new
// member and every sibling, caching it on both sides.
func (sp *SubPopulation) updateDiversity(index int) {
	ind := sp.individuals[index]
	for otherIndex, other := range sp.individuals {
		if otherIndex == index {
			continue
		}
		distance := other.BrokenPairsDistance(ind)
		sp.addDiversity(other.Number, diversityEntry{distance: distance, toNumber: ind.Number})
		sp.addDiversity(ind.Number, diversityEntry{distance: distance, toNumber: other.Number})
	}
}

// addDiversity inserts the entry into the sibling list sorted ascending
// by distance (stable after equal distances).
func (sp *SubPopulation) addDiversity(key uint64, entry diversityEntry) {
	entries := sp.diversity[key]
	insertIndex := sort.Search(len(entries), func(i int) bool {
		return entries[i].distance > entry.distance
	})
	entries = append(entries, diversityEntry{})
	copy(entries[insertIndex+1:], entries[insertIndex:])
	entries[insertIndex] = entry
	sp.diversity[key] = entries
}

// averageBrokenPairs averages the distance to the num closest siblings.
func (sp *SubPopulation) averageBrokenPairs(ind *solver.Individual, num int) float64 {
	numToCheck := len(sp.individuals) - 1
	if num < numToCheck {
		numToCheck = num
	}
	if numToCheck <= 0 {
		return 0
	}
	entries := sp.diversity[ind.Number]
	if len(entries) < numToCheck {
		return 0
	}
	var total int64
	for i := 0; i < numToCheck; i++ {
		total += entries[i].distance
	}

	return float64(total) / float64(numToCheck)
}

// updateFitness recomputes the biased fitness of every member:
// bf = costRank + (1 − nElites/|P|) · diversityRank, both ranks
// normalized to [0,1]; pools no larger than the elite count rank by
// cost alone.
func (sp *SubPopulation) updateFitness(ctx *solver.Context) {
	size := len(sp.individuals)
	if size == 0 {
		return
	}
	if size == 1 {
		sp.individuals[0].Fitness = 0
		return
	}

	numClosest := ctx.Config.NumDiversityClosest

	type divRank struct {
		value float64
		index int
	}
	ranks := make([]divRank, size)
	for index, ind := range sp.individuals {
		ranks[index] = divRank{value: sp.averageBrokenPairs(ind, numClosest), index: index}
	}
	// Descending diversity: the most diverse individual ranks first.
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].value > ranks[j].value })

	numElites := ctx.Config.NumElites
	populationFactor := float64(size - 1)
	eliteFactor := 1.0 - float64(numElites)/float64(size)

	for diversityIndex, r := range ranks {
		diversityRank := float64(diversityIndex) / populationFactor
		fitnessRank := float64(r.index) / populationFactor

		if size <= numElites {
			sp.individuals[r.index].Fitness = fitnessRank
		} else {
			sp.individuals[r.index].Fitness = fitnessRank + eliteFactor*diversityRank
		}
	}
}

// Population is the pair of subpopulations plus the sliding feasibility
// window the penalty controller reads.
type Population struct {
	totalIndividuals uint64

	Feasible   *SubPopulation
	Infeasible *SubPopulation

	feasibleHistory []bool
}

// NewPopulation builds two empty pools and a window primed feasible.
func NewPopulation(ctx *solver.Context) *Population {
	history := make([]bool, feasibilityWindow)
	for i := range history {
		history[i] = true
	}

	return &Population{
		Feasible:        NewSubPopulation(ctx),
		Infeasible:      NewSubPopulation(ctx),
		feasibleHistory: history,
	}
}

// Size returns the combined pool size.
func (p *Population) Size() int { return p.Feasible.Size() + p.Infeasible.Size() }

// TotalIndividuals returns how many individuals were ever inserted.
func (p *Population) TotalIndividuals() uint64 { return p.totalIndividuals }

// Add routes the individual to the pool matching its feasibility. When
// updateHistory is set the insertion also feeds the feasibility window.
func (p *Population) Add(ctx *solver.Context, ind *solver.Individual, updateHistory bool) {
	ind.Number = p.totalIndividuals
	if updateHistory {
		p.feasibleHistory = append(p.feasibleHistory[1:], ind.IsFeasible())
	}
	if ind.IsFeasible() {
		p.Feasible.Add(ctx, ind)
	} else {
		p.Infeasible.Add(ctx, ind)
	}
	p.totalIndividuals++
}

// HistoryFraction returns the feasible share of the sliding window.
func (p *Population) HistoryFraction() float64 {
	count := 0
	for _, feasible := range p.feasibleHistory {
		if feasible {
			count++
		}
	}

	return float64(count) / float64(len(p.feasibleHistory))
}

// GetParent runs one binary (or k-ary) tournament over the union of
// both pools and returns the member with the best biased fitness.
func (p *Population) GetParent(ctx *solver.Context) *solver.Individual {
	return p.tournament(ctx, ctx.Config.TournamentSize)
}

func (p *Population) tournament(ctx *solver.Context, contestants int) *solver.Individual {
	var winner *solver.Individual
	for c := 0; c < contestants; c++ {
		index := ctx.Rand.Intn(p.Size())

		var candidate *solver.Individual
		if index < p.Feasible.Size() {
			candidate = p.Feasible.Individuals()[index]
		} else {
			candidate = p.Infeasible.Individuals()[index-p.Feasible.Size()]
		}

		if winner == nil || candidate.Fitness < winner.Fitness {
			winner = candidate
		}
	}

	return winner
}
