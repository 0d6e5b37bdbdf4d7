// Package nsga2 implements the NSGA-II multi-objective evolutionary optimizer:
// fast non-dominated sorting, crowding-distance ranking, binary tournament
// selection, simulated binary crossover, bounded mutation and elitist
// environmental selection.
//
// All objectives are minimized. The Engine treats the fitness function as an
// opaque, concurrency-safe Evaluator; independent genomes of one generation
// are evaluated in parallel while every random draw of the genetic operators
// comes from a single caller-supplied stream, so a run is reproducible for a
// given seed regardless of the worker count.
package nsga2
