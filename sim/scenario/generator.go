package scenario

import (
	"math"
	"math/rand"
	"sort"
)

// ProcessSpec is the fully sampled description of one process. The simulator
// turns each spec into a live Process when its arrival event fires.
type ProcessSpec struct {
	ID               int       `yaml:"id"`
	Arrival          float64   `yaml:"arrival"`
	Priority         int       `yaml:"priority"`
	CPUBursts        []float64 `yaml:"cpu_bursts"`
	IOBursts         []float64 `yaml:"io_bursts,omitempty"` // len(CPUBursts)-1 entries, possibly zero
	Device           int       `yaml:"device,omitempty"`    // 1-based device id; 0 when the process does no I/O
	TerminationDelay float64   `yaml:"termination_delay,omitempty"`
}

// TotalCPU returns the sum of the CPU bursts.
func (p ProcessSpec) TotalCPU() float64 {
	var total float64
	for _, b := range p.CPUBursts {
		total += b
	}
	return total
}

// Generate produces the process population for one run. Deterministic scenarios
// ignore rng. For probabilistic scenarios every draw is taken from rng in a fixed
// order, so the same seed always yields the same population.
// Specs are returned sorted by arrival time, then id.
func (s *Scenario) Generate(rng *rand.Rand) ([]ProcessSpec, error) {
	var specs []ProcessSpec
	var err error
	switch s.Model {
	case ModelDeterministic:
		specs = s.generateDeterministic()
	case ModelProbabilistic:
		specs, err = s.generateProbabilistic(rng)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &ConfigError{Reason: "unknown scenario model " + string(s.Model)}
	}
	sort.SliceStable(specs, func(i, j int) bool {
		if specs[i].Arrival != specs[j].Arrival {
			return specs[i].Arrival < specs[j].Arrival
		}
		return specs[i].ID < specs[j].ID
	})
	return specs, nil
}

func (s *Scenario) generateDeterministic() []ProcessSpec {
	specs := make([]ProcessSpec, 0, len(s.Processes))
	for _, p := range s.Processes {
		specs = append(specs, ProcessSpec{
			ID:        p.ID,
			Arrival:   p.Arrival,
			Priority:  p.Priority,
			CPUBursts: []float64{p.Burst},
		})
	}
	return specs
}

type samplers struct {
	arrival, priority, termination, ioCount, ioDuration, cpuDuration Sampler
}

func (s *Scenario) samplers() (*samplers, error) {
	var out samplers
	var err error
	if out.arrival, err = NewExponentialSampler(s.MeanInterarrival); err != nil {
		return nil, &ConfigError{Reason: "P CH: " + err.Error()}
	}
	build := []struct {
		key string
		t   Triangle
		dst *Sampler
	}{
		{"PR", s.Priority, &out.priority},
		{"EN", s.Termination, &out.termination},
		{"NI", s.IOCount, &out.ioCount},
		{"DI", s.IODuration, &out.ioDuration},
		{"DC", s.CPUDuration, &out.cpuDuration},
	}
	for _, b := range build {
		if *b.dst, err = NewTriangularSampler(b.t); err != nil {
			return nil, &ConfigError{Reason: "P " + b.key + ": " + err.Error()}
		}
	}
	return &out, nil
}

func (s *Scenario) generateProbabilistic(rng *rand.Rand) ([]ProcessSpec, error) {
	smp, err := s.samplers()
	if err != nil {
		return nil, err
	}
	var specs []ProcessSpec
	clock := 0.0
	for id := 1; ; id++ {
		clock += smp.arrival.Sample(rng)
		if clock > s.Horizon {
			break
		}
		spec := ProcessSpec{
			ID:       id,
			Arrival:  clock,
			Priority: int(math.Round(smp.priority.Sample(rng))),
		}
		nIO := 0
		if s.NumDevices > 0 {
			nIO = int(math.Round(smp.ioCount.Sample(rng)))
			spec.Device = 1 + rng.Intn(s.NumDevices)
		}
		spec.CPUBursts = make([]float64, nIO+1)
		for i := range spec.CPUBursts {
			spec.CPUBursts[i] = smp.cpuDuration.Sample(rng)
		}
		for i := 0; i < nIO; i++ {
			spec.IOBursts = append(spec.IOBursts, smp.ioDuration.Sample(rng))
		}
		if nIO == 0 {
			spec.Device = 0
		}
		if s.TerminationEnabled() {
			spec.TerminationDelay = smp.termination.Sample(rng)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
