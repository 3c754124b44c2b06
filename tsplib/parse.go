package tsplib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/martsime/hybridcvrp/cvrp"
)

// Sentinel errors of the instance parser.
var (
	// ErrMissingDimension indicates the DIMENSION header is absent.
	ErrMissingDimension = errors.New("tsplib: missing DIMENSION")
	// ErrMissingCapacity indicates the CAPACITY header is absent.
	ErrMissingCapacity = errors.New("tsplib: missing CAPACITY")
	// ErrMissingSection indicates a required data section is absent or short.
	ErrMissingSection = errors.New("tsplib: missing or truncated section")
	// ErrBadValue indicates an unparsable numeric field.
	ErrBadValue = errors.New("tsplib: invalid numeric value")
)

// NodeData is one parsed node line: coordinates plus demand, keyed by
// the instance's node id (1-based in the classic benchmark files).
type NodeData struct {
	ID     int
	Demand int64
	X      float64
	Y      float64
}

// Instance is a parsed instance file before problem construction.
type Instance struct {
	Name      string
	Dimension int
	Capacity  int64
	Nodes     []NodeData
}

// ParseFile reads and parses the instance at path.
func ParseFile(path string) (*Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tsplib: opening %s: %w", path, err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads one instance from r.
//
// The parser is line oriented and permissive about separators: every
// line is split on spaces, tabs and colons, empty fields dropped. Header
// keys are matched on the first field; sections run for exactly
// DIMENSION lines.
func Parse(r io.Reader) (*Instance, error) {
	var lines [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := splitFields(scanner.Text())
		if len(fields) > 0 {
			lines = append(lines, fields)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tsplib: reading instance: %w", err)
	}

	inst := &Instance{}

	for _, fields := range lines {
		switch fields[0] {
		case "NAME":
			if len(fields) > 1 {
				inst.Name = fields[1]
			}
		case "DIMENSION":
			value, err := intField(fields)
			if err != nil {
				return nil, err
			}
			inst.Dimension = value
		case "CAPACITY":
			value, err := intField(fields)
			if err != nil {
				return nil, err
			}
			inst.Capacity = int64(value)
		}
	}
	if inst.Dimension <= 0 {
		return nil, ErrMissingDimension
	}
	if inst.Capacity <= 0 {
		return nil, ErrMissingCapacity
	}

	coords, err := section(lines, "NODE_COORD_SECTION", inst.Dimension, 3)
	if err != nil {
		return nil, err
	}
	demands, err := section(lines, "DEMAND_SECTION", inst.Dimension, 2)
	if err != nil {
		return nil, err
	}

	demandByID := make(map[int]int64, inst.Dimension)
	for _, fields := range demands {
		id, err1 := strconv.Atoi(fields[0])
		demand, err2 := strconv.ParseInt(fields[1], 10, 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: demand line %v", ErrBadValue, fields)
		}
		demandByID[id] = demand
	}

	inst.Nodes = make([]NodeData, 0, inst.Dimension)
	for _, fields := range coords {
		id, err1 := strconv.Atoi(fields[0])
		x, err2 := strconv.ParseFloat(fields[1], 64)
		y, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%w: coordinate line %v", ErrBadValue, fields)
		}
		demand, ok := demandByID[id]
		if !ok {
			return nil, fmt.Errorf("%w: no demand for node %d", ErrMissingSection, id)
		}
		inst.Nodes = append(inst.Nodes, NodeData{ID: id, Demand: demand, X: x, Y: y})
	}

	return inst, nil
}

// Builder loads the instance into a problem builder ready for Build.
func (inst *Instance) Builder() *cvrp.ProblemBuilder {
	builder := cvrp.NewProblemBuilder()
	for _, node := range inst.Nodes {
		builder.AddNode(node.ID, node.Demand, node.X, node.Y)
	}
	builder.AddCapacity(inst.Capacity)

	return builder
}

// splitFields splits on the separators the benchmark files mix freely.
func splitFields(line string) []string {
	raw := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ':'
	})
	out := raw[:0]
	for _, f := range raw {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}

// section locates the named section and returns its count data lines,
// each with at least width fields.
func section(lines [][]string, name string, count, width int) ([][]string, error) {
	start := -1
	for index, fields := range lines {
		if fields[0] == name {
			start = index + 1
			break
		}
	}
	if start < 0 || start+count > len(lines) {
		return nil, fmt.Errorf("%w: %s", ErrMissingSection, name)
	}
	out := lines[start : start+count]
	for _, fields := range out {
		if len(fields) < width {
			return nil, fmt.Errorf("%w: %s line %v", ErrMissingSection, name, fields)
		}
	}

	return out, nil
}

func intField(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: %v", ErrBadValue, fields)
	}
	value, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadValue, fields)
	}

	return value, nil
}
