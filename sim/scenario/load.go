package scenario

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
)

// Load downloads and parses a scenario from any URL afs understands
// (plain paths, file://, mem://, cloud storage).
func Load(ctx context.Context, URL string) (*Scenario, error) {
	fs := afs.New()
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check scenario %s: %w", URL, err)
	}
	if !exists {
		return nil, &ConfigError{Reason: fmt.Sprintf("scenario %s not found", URL)}
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", URL, err)
	}
	sc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sc.Name = strings.TrimSuffix(path.Base(URL), path.Ext(URL))
	return sc, nil
}

// Parse reads the line-oriented scenario format. Lines starting with '#'
// and blank lines are skipped; every other line must be a well-formed record.
func Parse(r io.Reader) (*Scenario, error) {
	sc := &Scenario{NumCPUs: 1}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		p := &lineParser{line: lineNo, text: text, tokens: strings.Fields(text)}
		if err := p.apply(sc); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan scenario: %w", err)
	}
	if sc.Model == "" {
		return nil, &ConfigError{Reason: "no process records found"}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if sc.Model == ModelProbabilistic && sc.NumDevices == 0 && sc.IOCount.Max > 0 {
		logrus.Warnf("scenario has I/O bursts (P NI) but no devices (D QT); I/O is disabled")
	}
	return sc, nil
}

type lineParser struct {
	line   int
	text   string
	tokens []string
}

func (p *lineParser) errorf(format string, args ...any) error {
	return &ConfigError{Line: p.line, Text: p.text, Reason: fmt.Sprintf(format, args...)}
}

func (p *lineParser) expect(n int) error {
	if len(p.tokens) != n {
		return p.errorf("expected %d tokens, got %d", n, len(p.tokens))
	}
	return nil
}

func (p *lineParser) floatAt(i int) (float64, error) {
	v, err := strconv.ParseFloat(p.tokens[i], 64)
	if err != nil {
		return 0, p.errorf("token %d (%s) is not a number", i+1, p.tokens[i])
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, p.errorf("token %d (%s) must be finite", i+1, p.tokens[i])
	}
	return v, nil
}

func (p *lineParser) intAt(i int) (int, error) {
	v, err := strconv.Atoi(p.tokens[i])
	if err != nil {
		return 0, p.errorf("token %d (%s) is not an integer", i+1, p.tokens[i])
	}
	return v, nil
}

func (p *lineParser) triangle() (Triangle, error) {
	if err := p.expect(5); err != nil {
		return Triangle{}, err
	}
	var vals [3]float64
	for i := range vals {
		v, err := p.floatAt(i + 2)
		if err != nil {
			return Triangle{}, err
		}
		vals[i] = v
	}
	// file order is min, mode, max
	return Triangle{Min: vals[0], Mode: vals[1], Max: vals[2]}, nil
}

func (p *lineParser) setModel(sc *Scenario, m Model) error {
	if sc.Model != "" && sc.Model != m {
		return p.errorf("%s record in a %s scenario", m, sc.Model)
	}
	sc.Model = m
	return nil
}

func (p *lineParser) apply(sc *Scenario) error {
	if len(p.tokens) < 2 {
		return p.errorf("record too short")
	}
	switch p.tokens[0] {
	case "S":
		if err := p.expect(3); err != nil {
			return err
		}
		if p.tokens[1] != "TS" {
			return p.errorf("unknown S field %q", p.tokens[1])
		}
		v, err := p.floatAt(2)
		if err != nil {
			return err
		}
		sc.Horizon = v
		return p.setModel(sc, ModelProbabilistic)
	case "C", "D":
		if err := p.expect(3); err != nil {
			return err
		}
		if p.tokens[1] != "QT" {
			return p.errorf("unknown %s field %q", p.tokens[0], p.tokens[1])
		}
		n, err := p.intAt(2)
		if err != nil {
			return err
		}
		if p.tokens[0] == "C" {
			sc.NumCPUs = n
		} else {
			sc.NumDevices = n
		}
		return nil
	case "P":
		return p.applyProcess(sc)
	default:
		return p.errorf("unknown record type %q", p.tokens[0])
	}
}

func (p *lineParser) applyProcess(sc *Scenario) error {
	var dst *Triangle
	switch p.tokens[1] {
	case "CH":
		if err := p.expect(3); err != nil {
			return err
		}
		v, err := p.floatAt(2)
		if err != nil {
			return err
		}
		sc.MeanInterarrival = v
		return p.setModel(sc, ModelProbabilistic)
	case "PR":
		dst = &sc.Priority
	case "EN":
		dst = &sc.Termination
	case "NI":
		dst = &sc.IOCount
	case "DI":
		dst = &sc.IODuration
	case "DC":
		dst = &sc.CPUDuration
	default:
		return p.applyRecord(sc)
	}
	t, err := p.triangle()
	if err != nil {
		return err
	}
	*dst = t
	return p.setModel(sc, ModelProbabilistic)
}

// applyRecord handles "P <id> <arrival> <burst> <priority>".
func (p *lineParser) applyRecord(sc *Scenario) error {
	if err := p.expect(5); err != nil {
		return err
	}
	id, err := p.intAt(1)
	if err != nil {
		return err
	}
	arrival, err := p.floatAt(2)
	if err != nil {
		return err
	}
	burst, err := p.floatAt(3)
	if err != nil {
		return err
	}
	priority, err := p.intAt(4)
	if err != nil {
		return err
	}
	if arrival < 0 {
		return p.errorf("arrival %v must be non-negative", arrival)
	}
	if burst <= 0 {
		return p.errorf("burst %v must be positive", burst)
	}
	if err := p.setModel(sc, ModelDeterministic); err != nil {
		return err
	}
	sc.Processes = append(sc.Processes, ProcessRecord{ID: id, Arrival: arrival, Burst: burst, Priority: priority})
	return nil
}
