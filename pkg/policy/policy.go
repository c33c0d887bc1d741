// Package policy evaluates user supplied Rego rules against records before they
// are written. Rules live in package "record" and add messages to the "deny"
// set:
//
//	package record
//
//	deny contains "study_time over 8 hours needs a category" if {
//		input.record.study_time > 480
//		input.record.category == ""
//	}
package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/topdown/print"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

const denyQuery = "data.record.deny"

// Action is the write operation being checked
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Input is the document passed to the rules as `input`
type Input struct {
	Action Action        `json:"action"`
	Record *model.Record `json:"record"`
}

// DeniedError is returned when one or more deny rules match
type DeniedError struct {
	Reasons []string
}

func (e *DeniedError) Error() string {
	return "denied by policy: " + strings.Join(e.Reasons, "; ")
}

// Engine holds the prepared deny query. A nil Engine or one loaded from an
// empty directory allows everything.
type Engine struct {
	deny *rego.PreparedEvalQuery
}

// Load reads every *.rego file in dir and prepares the deny query
func Load(ctx context.Context, dir string) (*Engine, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files", goerr.V("dir", dir))
	}
	if len(files) == 0 {
		return &Engine{}, nil
	}

	sources := make(map[string]string, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", file))
		}
		sources[file] = string(data)
	}

	return New(ctx, sources)
}

// New prepares the deny query from in-memory modules keyed by file name
func New(ctx context.Context, sources map[string]string) (*Engine, error) {
	if len(sources) == 0 {
		return &Engine{}, nil
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	options := make([]func(*rego.Rego), 0, len(sources)+2)
	options = append(options, rego.Query(denyQuery), rego.EnablePrintStatements(true))
	for _, name := range names {
		options = append(options, rego.Module(name, sources[name]))
	}

	prepared, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare policy query", goerr.V("query", denyQuery))
	}

	return &Engine{deny: &prepared}, nil
}

// Enabled returns true if any rule is loaded
func (e *Engine) Enabled() bool {
	return e != nil && e.deny != nil
}

// Check evaluates the deny rules and returns *DeniedError when any match
func (e *Engine) Check(ctx context.Context, input Input) error {
	if !e.Enabled() {
		return nil
	}

	rs, err := e.deny.Eval(ctx,
		rego.EvalInput(input),
		rego.EvalPrintHook(&printHook{ctx: ctx}),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to evaluate policy", goerr.V("action", input.Action))
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil
	}

	values, ok := rs[0].Expressions[0].Value.([]any)
	if !ok {
		return goerr.New("invalid policy result: deny is not a set",
			goerr.V("value", rs[0].Expressions[0].Value))
	}
	if len(values) == 0 {
		return nil
	}

	reasons := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			reasons = append(reasons, s)
		} else {
			reasons = append(reasons, fmt.Sprint(v))
		}
	}
	sort.Strings(reasons)

	return &DeniedError{Reasons: reasons}
}

// printHook forwards Rego print() output to the context logger
type printHook struct {
	ctx context.Context
}

func (h *printHook) Print(pctx print.Context, message string) error {
	logging.From(h.ctx).Debug("rego print", "message", message, "location", pctx.Location)
	return nil
}
