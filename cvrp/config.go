package cvrp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config enumerates every knob of the solver. Zero configuration is never
// required: DefaultConfig returns values tuned for the benchmark sets, a
// YAML file patches those, and CLI flags override the file.
//
// All durations are whole seconds; all probabilities live in [0,1].
type Config struct {
	// General
	InstancePath                    string `yaml:"instance_path"`
	SolutionPath                    string `yaml:"solution_path"`
	TimeLimit                       int    `yaml:"time_limit"`
	MaxIterationsWithoutImprovement int    `yaml:"max_iterations_without_improvement"`
	MaxIterations                   int    `yaml:"max_iterations"`
	NumVehicles                     int    `yaml:"num_vehicles"`
	RunID                           string `yaml:"run_id"`
	LogInterval                     int    `yaml:"log_interval"`

	// Randomization
	Deterministic bool  `yaml:"deterministic"`
	Seed          int64 `yaml:"seed"`

	// Distances
	PrecomputeDistanceSizeLimit int  `yaml:"precompute_distance_size_limit"`
	RoundDistances              bool `yaml:"round_distances"`

	// Genetic algorithm
	MinPopulationSize           int     `yaml:"min_population_size"`
	InitialIndividuals          int     `yaml:"initial_individuals"`
	PopulationLambda            int     `yaml:"population_lambda"`
	NumElites                   int     `yaml:"num_elites"`
	NumDiversityClosest         int     `yaml:"num_diversity_closest"`
	FeasibilityProportionTarget float64 `yaml:"feasibility_proportion_target"`
	TournamentSize              int     `yaml:"tournament_size"`
	RepairProbability           float64 `yaml:"repair_probability"`

	// Split
	SplitCapacityFactor float64 `yaml:"split_capacity_factor"`
	LinearSplit         bool    `yaml:"linear_split"`

	// Local search
	LocalSearchGranularity int  `yaml:"local_search_granularity"`
	LSEnabled              bool `yaml:"ls_enabled"`

	// Local search moves
	RelocateSingle        bool `yaml:"relocate_single"`
	RelocateDouble        bool `yaml:"relocate_double"`
	RelocateDoubleReverse bool `yaml:"relocate_double_reverse"`
	SwapOneWithOne        bool `yaml:"swap_one_with_one"`
	SwapTwoWithOne        bool `yaml:"swap_two_with_one"`
	SwapTwoWithTwo        bool `yaml:"swap_two_with_two"`
	TwoOptIntraReverse    bool `yaml:"two_opt_intra_reverse"`
	TwoOptInterReverse    bool `yaml:"two_opt_inter_reverse"`
	TwoOptInter           bool `yaml:"two_opt_inter"`
	SwapStar              bool `yaml:"swap_star"`

	// Penalties. PenaltyCapacity is the live capacity-violation penalty;
	// the controller multiplies or divides it toward the feasibility
	// target and clamps it to [PenaltyMin, PenaltyMax].
	PenaltyCapacity       float64 `yaml:"penalty_capacity"`
	PenaltyUpdateInterval int     `yaml:"penalty_update_interval"`
	PenaltyIncMultiplier  float64 `yaml:"penalty_inc_multiplier"`
	PenaltyDecMultiplier  float64 `yaml:"penalty_dec_multiplier"`
	PenaltyMin            float64 `yaml:"penalty_min"`
	PenaltyMax            float64 `yaml:"penalty_max"`

	// Ruin and recreate
	RRMutation             bool    `yaml:"rr_mutation"`
	RRProbability          float64 `yaml:"rr_probability"`
	AverageRuinCardinality int     `yaml:"average_ruin_cardinality"`
	MaxRuinStringLength    int     `yaml:"max_ruin_string_length"`
	RuinAlpha              float64 `yaml:"ruin_alpha"`
	BlinkProbability       float64 `yaml:"blink_probability"`
	RRStartTemp            float64 `yaml:"rr_start_temp"`
	RRFinalTemp            float64 `yaml:"rr_final_temp"`
	RRGamma                float64 `yaml:"rr_gamma"`

	// Elite education
	EliteEducation                 bool    `yaml:"elite_education"`
	EliteEducationProblemSizeLimit int     `yaml:"elite_education_problem_size_limit"`
	EliteEducationGamma            float64 `yaml:"elite_education_gamma"`
	EliteEducationStartTemp        float64 `yaml:"elite_education_start_temp"`
	EliteEducationFinalTemp        float64 `yaml:"elite_education_final_temp"`
	EliteEducationTimeBased        bool    `yaml:"elite_education_time_based"`
	EliteEducationTimeFraction     float64 `yaml:"elite_education_time_fraction"`
}

// DefaultConfig returns the baseline parameter set.
func DefaultConfig() Config {
	return Config{
		// General
		TimeLimit:                       60,
		MaxIterationsWithoutImprovement: 20_000,
		MaxIterations:                   0,
		NumVehicles:                     0, // derived at problem load
		LogInterval:                     100,

		// Randomization
		Deterministic: false,
		Seed:          1,

		// Distances
		PrecomputeDistanceSizeLimit: 10_000,
		RoundDistances:              false,

		// Genetic algorithm
		MinPopulationSize:           25,
		InitialIndividuals:          100,
		PopulationLambda:            40,
		NumElites:                   4,
		NumDiversityClosest:         5,
		FeasibilityProportionTarget: 0.2,
		TournamentSize:              2,
		RepairProbability:           0.5,

		// Split
		SplitCapacityFactor: 1.5,
		LinearSplit:         true,

		// Local search
		LocalSearchGranularity: 20,
		LSEnabled:              true,

		RelocateSingle:        true,
		RelocateDouble:        true,
		RelocateDoubleReverse: true,
		SwapOneWithOne:        true,
		SwapTwoWithOne:        true,
		SwapTwoWithTwo:        true,
		TwoOptIntraReverse:    true,
		TwoOptInterReverse:    true,
		TwoOptInter:           true,
		SwapStar:              true,

		// Penalties
		PenaltyCapacity:       100.0,
		PenaltyUpdateInterval: 100,
		PenaltyIncMultiplier:  1.2,
		PenaltyDecMultiplier:  0.85,
		PenaltyMin:            0.0001,
		PenaltyMax:            10_000_000.0,

		// Ruin and recreate
		RRMutation:             true,
		RRProbability:          1.0,
		AverageRuinCardinality: 10,
		MaxRuinStringLength:    10,
		RuinAlpha:              0.01,
		BlinkProbability:       0.01,
		RRStartTemp:            10.0,
		RRFinalTemp:            1.0,
		RRGamma:                1.0,

		// Elite education
		EliteEducation:                 true,
		EliteEducationProblemSizeLimit: 1,
		EliteEducationGamma:            10_000,
		EliteEducationStartTemp:        50.0,
		EliteEducationFinalTemp:        1.0,
		EliteEducationTimeBased:        false,
		EliteEducationTimeFraction:     0.1,
	}
}

// LoadConfigFile reads a YAML file and patches the defaults with it:
// keys absent from the file keep their default value.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.PatchFromFile(path); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// PatchFromFile overlays the YAML file at path onto the receiver.
func (c *Config) PatchFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cvrp: reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("cvrp: parsing config %s: %w", path, err)
	}

	return nil
}

// Validate checks numeric ranges before a run starts. It returns the
// first violated sentinel; a valid config returns nil.
func (c *Config) Validate() error {
	if c.TimeLimit <= 0 {
		return ErrBadTimeLimit
	}
	if c.MinPopulationSize <= 0 || c.PopulationLambda <= 0 || c.InitialIndividuals <= 0 ||
		c.NumElites < 0 || c.NumDiversityClosest <= 0 || c.TournamentSize <= 0 {
		return ErrBadPopulation
	}
	if c.LocalSearchGranularity <= 0 {
		return ErrBadGranularity
	}
	if c.FeasibilityProportionTarget <= 0 || c.FeasibilityProportionTarget >= 1 {
		return ErrBadProportion
	}
	if c.RRStartTemp <= 0 || c.RRFinalTemp <= 0 ||
		c.EliteEducationStartTemp <= 0 || c.EliteEducationFinalTemp <= 0 {
		return ErrBadTemperature
	}
	if c.AverageRuinCardinality <= 0 || c.MaxRuinStringLength <= 0 {
		return ErrBadRuinParams
	}
	if bad(c.RepairProbability) || bad(c.RRProbability) ||
		bad(c.BlinkProbability) || bad(c.RuinAlpha) ||
		bad(c.EliteEducationTimeFraction) {
		return ErrBadProbability
	}

	return nil
}

func bad(p float64) bool { return p < 0 || p > 1 }
