package render

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/plotforge/barchart/pkg/chart"
)

// taggedOp is the wire shape of one instruction: the op name plus its
// arguments. Ops without arguments (save, restore) omit the args field.
type taggedOp struct {
	Op   string `json:"op"`
	Args any    `json:"args,omitempty"`
}

type jsonPlan struct {
	Surface chart.Rect `json:"surface"`
	Ops     []taggedOp `json:"ops"`
}

// RenderJSON exports the plan as a pretty-printed JSON document: the
// surface dimensions plus the instruction sequence as tagged op objects.
//
// This is the host interchange format. An external renderer (a browser
// canvas, another process) executes the ops in order against its own
// surface; everything it needs is in the document, so no callback into
// this engine is required at draw time.
func RenderJSON(p *chart.Plan) ([]byte, error) {
	out := jsonPlan{
		Surface: p.Surface,
		Ops:     make([]taggedOp, len(p.Ops)),
	}
	for i, op := range p.Ops {
		t := taggedOp{Op: op.Kind()}
		switch op.(type) {
		case chart.Save, chart.Restore:
			// No arguments.
		default:
			t.Args = op
		}
		out.Ops[i] = t
	}
	return json.MarshalIndent(out, "", "  ")
}

// rawPlan mirrors jsonPlan with the op arguments left undecoded.
type rawPlan struct {
	Surface chart.Rect  `json:"surface"`
	Ops     []rawTagged `json:"ops"`
}

type rawTagged struct {
	Op   string          `json:"op"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ParsePlan decodes a document produced by RenderJSON back into a Plan.
// Round-tripping a plan through RenderJSON and ParsePlan yields an
// equivalent instruction sequence; the cache layer relies on this.
func ParsePlan(data []byte) (*chart.Plan, error) {
	var raw rawPlan
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	p := &chart.Plan{
		Surface: raw.Surface,
		Ops:     make([]chart.Op, len(raw.Ops)),
	}
	for i, t := range raw.Ops {
		op, err := decodeOp(t)
		if err != nil {
			return nil, err
		}
		p.Ops[i] = op
	}
	return p, nil
}

// emptyOps constructs a zero value for each op kind; decodeOp fills it from
// the raw args.
var emptyOps = map[string]func() chart.Op{
	chart.ClearRect{}.Kind():      func() chart.Op { return &chart.ClearRect{} },
	chart.FillRect{}.Kind():       func() chart.Op { return &chart.FillRect{} },
	chart.StrokeRect{}.Kind():     func() chart.Op { return &chart.StrokeRect{} },
	chart.StrokePath{}.Kind():     func() chart.Op { return &chart.StrokePath{} },
	chart.SetFillColor{}.Kind():   func() chart.Op { return &chart.SetFillColor{} },
	chart.SetStrokeColor{}.Kind(): func() chart.Op { return &chart.SetStrokeColor{} },
	chart.SetLineWidth{}.Kind():   func() chart.Op { return &chart.SetLineWidth{} },
	chart.SetFont{}.Kind():        func() chart.Op { return &chart.SetFont{} },
	chart.FillText{}.Kind():       func() chart.Op { return &chart.FillText{} },
	chart.Save{}.Kind():           func() chart.Op { return &chart.Save{} },
	chart.Restore{}.Kind():        func() chart.Op { return &chart.Restore{} },
	chart.Translate{}.Kind():      func() chart.Op { return &chart.Translate{} },
	chart.Rotate{}.Kind():         func() chart.Op { return &chart.Rotate{} },
}

func decodeOp(t rawTagged) (chart.Op, error) {
	mk, ok := emptyOps[t.Op]
	if !ok {
		return nil, fmt.Errorf("unknown op %q", t.Op)
	}
	op := mk()
	if len(t.Args) > 0 {
		if err := json.Unmarshal(t.Args, op); err != nil {
			return nil, fmt.Errorf("decode %s args: %w", t.Op, err)
		}
	}
	// Ops travel by value through plans; strip the pointer the decoder
	// needed.
	return reflect.ValueOf(op).Elem().Interface().(chart.Op), nil
}
