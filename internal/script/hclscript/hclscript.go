// Package hclscript hosts test modules written in HCL.
//
// A module is a file holding any number of test blocks, optionally preceded
// by a locals block:
//
//	locals {
//	  greeting = "hello"
//	}
//
//	test "TestGreeting" {
//	  upper_case = assert(upper(local.greeting) == "HELLO", "upper-cases")
//	  length     = assert(strlen(local.greeting) == 5)
//	}
//
// A test runs by evaluating its attributes in source order. Check functions
// registered with the runtime are callable from expressions; evaluation
// errors are reported as failing checks.
package hclscript

import (
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/AndreyAkinshin/skyunit/internal/errors"
	"github.com/AndreyAkinshin/skyunit/internal/script"
)

// Extension is the artifact extension of HCL test modules.
const Extension = ".hcl"

var moduleSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "locals"},
		{Type: "test", LabelNames: []string{"name"}},
	},
}

// Options configures a Runtime.
type Options struct {
	FS        billy.Filesystem
	Dir       string // Directory holding the modules
	Extension string // Defaults to Extension
	Logger    zerolog.Logger
}

// Runtime is a script.Runtime over HCL files.
type Runtime struct {
	fs     billy.Filesystem
	dir    string
	ext    string
	logger zerolog.Logger

	mu      sync.Mutex
	parser  *hclparse.Parser
	modules map[string]*module
	checks  map[string]script.CheckFunc
}

type module struct {
	locals []hcl.Body
	tests  []test
}

type test struct {
	name string
	body hcl.Body
}

// New creates a runtime reading modules from opts.FS.
func New(opts Options) *Runtime {
	ext := opts.Extension
	if ext == "" {
		ext = Extension
	}
	return &Runtime{
		fs:      opts.FS,
		dir:     opts.Dir,
		ext:     ext,
		logger:  opts.Logger,
		parser:  hclparse.NewParser(),
		modules: make(map[string]*module),
		checks:  make(map[string]script.CheckFunc),
	}
}

// Register implements script.Runtime.
func (r *Runtime) Register(name string, fn script.CheckFunc) error {
	if fn == nil {
		return errors.Newf("register %s: nil function", name)
	}
	if !hclIdentifier(name) {
		return errors.Newf("register %s: not a valid function name", name)
	}
	r.mu.Lock()
	r.checks[name] = fn
	r.mu.Unlock()
	return nil
}

// Functions implements script.Runtime. The module is parsed on first use.
func (r *Runtime) Functions(name string) ([]string, error) {
	mod, err := r.load(name)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(mod.tests))
	for _, t := range mod.tests {
		names = append(names, t.name)
	}
	return names, nil
}

// Dispatch implements script.Runtime. The test is evaluated on its own
// goroutine and onComplete is called when it is done.
func (r *Runtime) Dispatch(name, function string, onComplete func()) error {
	mod, err := r.load(name)
	if err != nil {
		return err
	}
	var body hcl.Body
	for _, t := range mod.tests {
		if t.name == function {
			body = t.body
			break
		}
	}
	if body == nil {
		return errors.FunctionError(name, function, "test not found")
	}

	r.mu.Lock()
	checks := make(map[string]script.CheckFunc, len(r.checks))
	for k, v := range r.checks {
		checks[k] = v
	}
	r.mu.Unlock()

	go func() {
		defer onComplete()
		r.run(name, function, mod, body, checks)
	}()
	return nil
}

func (r *Runtime) run(name, function string, mod *module, body hcl.Body, checks map[string]script.CheckFunc) {
	report := checks[script.CheckFunctionName]
	if report == nil {
		report = func(result bool, _ string) bool { return result }
	}
	fail := func(diags hcl.Diagnostics) {
		for _, d := range diags.Errs() {
			report(false, d.Error())
		}
	}

	ctx := newEvalContext(name, function, checks)
	locals := map[string]cty.Value{}
	for _, lb := range mod.locals {
		attrs, diags := lb.JustAttributes()
		if diags.HasErrors() {
			fail(diags)
			return
		}
		for _, attr := range sortedAttributes(attrs) {
			ctx.Variables["local"] = cty.ObjectVal(locals)
			v, diags := attr.Expr.Value(ctx)
			if diags.HasErrors() {
				fail(diags)
				return
			}
			locals[attr.Name] = v
		}
	}
	ctx.Variables["local"] = cty.ObjectVal(locals)

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		fail(diags)
		return
	}
	for _, attr := range sortedAttributes(attrs) {
		r.logger.Debug().Str("module", name).Str("function", function).Str("step", attr.Name).Msg("evaluating")
		if _, diags := attr.Expr.Value(ctx); diags.HasErrors() {
			fail(diags)
		}
	}
}

// load returns the parsed module, reading it on first use.
func (r *Runtime) load(name string) (*module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mod, ok := r.modules[name]; ok {
		return mod, nil
	}

	filename, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	src, err := util.ReadFile(r.fs, filename)
	if err != nil {
		return nil, errors.Newf("read %s: %v", filename, err)
	}
	file, diags := r.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Newf("parse %s: %s", filename, diags.Error())
	}
	content, diags := file.Body.Content(moduleSchema)
	if diags.HasErrors() {
		return nil, errors.Newf("decode %s: %s", filename, diags.Error())
	}

	mod := &module{}
	seen := map[string]bool{}
	for _, block := range content.Blocks {
		switch block.Type {
		case "locals":
			mod.locals = append(mod.locals, block.Body)
		case "test":
			testName := block.Labels[0]
			if seen[testName] {
				return nil, errors.Newf("%s: duplicate test %q", filename, testName)
			}
			seen[testName] = true
			mod.tests = append(mod.tests, test{name: testName, body: block.Body})
		}
	}
	r.modules[name] = mod
	r.logger.Debug().Str("module", name).Str("file", filename).Int("tests", len(mod.tests)).Msg("module loaded")
	return mod, nil
}

// resolve finds the file of a module, matching its name case-insensitively.
func (r *Runtime) resolve(name string) (string, error) {
	want := name + r.ext
	exact := path.Join(r.dir, want)
	if _, err := r.fs.Stat(exact); err == nil {
		return exact, nil
	}
	infos, err := r.fs.ReadDir(r.dir)
	if err != nil {
		return "", errors.Newf("list %s: %v", r.dir, err)
	}
	for _, info := range infos {
		if !info.IsDir() && strings.EqualFold(info.Name(), want) {
			return path.Join(r.dir, info.Name()), nil
		}
	}
	return "", errors.NotFound("module", name)
}

func sortedAttributes(attrs hcl.Attributes) []*hcl.Attribute {
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Byte < out[j].Range.Start.Byte
	})
	return out
}

func newEvalContext(module, test string, checks map[string]script.CheckFunc) *hcl.EvalContext {
	funcs := standardFunctions()
	for name, fn := range checks {
		funcs[name] = checkFunction(fn)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"module": cty.StringVal(module),
			"test":   cty.StringVal(test),
		},
		Functions: funcs,
	}
}

// checkFunction exposes a check as name(result, [message...]).
func checkFunction(fn script.CheckFunc) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "result", Type: cty.Bool},
		},
		VarParam: &function.Parameter{Name: "message", Type: cty.String},
		Type:     function.StaticReturnType(cty.Bool),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			parts := make([]string, 0, len(args)-1)
			for _, a := range args[1:] {
				parts = append(parts, a.AsString())
			}
			return cty.BoolVal(fn(args[0].True(), strings.Join(parts, " "))), nil
		},
	})
}

func hclIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c == '-' || c >= '0' && c <= '9'):
		default:
			return false
		}
	}
	return true
}
