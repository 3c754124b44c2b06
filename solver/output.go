package solver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SysInfo records the machine a solution was produced on, so result
// files from benchmark sweeps stay comparable.
type SysInfo struct {
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	RAM      string `json:"ram"`
}

// CollectSysInfo snapshots platform, CPU model and total RAM. Failures
// leave fields empty; missing system info never fails a run.
func CollectSysInfo() SysInfo {
	var info SysInfo
	if hostStat, err := host.Info(); err == nil {
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}

	return info
}

// Solution is the serialized outcome of a run: the best feasible routes
// (instance node ids), the total distance, timing and provenance.
type Solution struct {
	RunID    string  `json:"run_id"`
	Instance string  `json:"instance"`
	Cost     float64 `json:"cost"`
	Routes   [][]int `json:"routes"`
	Time     string  `json:"time"`
	System   SysInfo `json:"system"`
	Comment  string  `json:"comment,omitempty"`
}

// BuildSolution converts the best individual into its serialized form.
// Routes carry instance node ids, not internal indices, and empty route
// slots are dropped.
func BuildSolution(ctx *Context, best *Individual) Solution {
	runID := ctx.Config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	routes := make([][]int, 0, best.NumNonemptyRoutes())
	for _, route := range best.Phenotype {
		if len(route) == 0 {
			continue
		}
		ids := make([]int, len(route))
		for i, node := range route {
			ids[i] = ctx.Problem.Node(node).ID
		}
		routes = append(routes, ids)
	}

	return Solution{
		RunID:    runID,
		Instance: ctx.Config.InstancePath,
		Cost:     best.Evaluation.Distance,
		Routes:   routes,
		Time:     ctx.Elapsed().String(),
		System:   CollectSysInfo(),
	}
}

// WriteSolutionFile writes the solution as indented JSON.
func WriteSolutionFile(path string, sol Solution) error {
	raw, err := json.MarshalIndent(sol, "", "\t")
	if err != nil {
		return fmt.Errorf("solver: marshaling solution: %w", err)
	}
	if err = os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("solver: writing solution %s: %w", path, err)
	}

	return nil
}

// PrintSolution emits the classic CVRP text form:
//
//	Route #1: 5 3 7
//	...
//	Cost 27591
func PrintSolution(w io.Writer, sol Solution) {
	for i, route := range sol.Routes {
		fmt.Fprintf(w, "Route #%d:", i+1)
		for _, id := range route {
			fmt.Fprintf(w, " %d", id)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Cost %g\n", sol.Cost)
}
