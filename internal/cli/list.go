package cli

import (
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/skyunit/internal/discovery"
	"github.com/AndreyAkinshin/skyunit/internal/errors"
)

// cmdList prints the discovered modules and their test functions without
// dispatching anything.
func cmdList(a *arguments, e *env) int {
	cfg, code := loadConfig(a, e)
	if cfg == nil {
		return code
	}
	logger, closeLog, err := newLogger(cfg, e)
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		return errors.ExitEnvironmentError
	}
	defer closeLog()

	fs, location := scriptsLocation(cfg.Scripts.Dir)
	pattern := discovery.Pattern(location, cfg.Scripts.Suffix, cfg.Scripts.Extension)
	modules, err := discovery.Discover(discovery.NewFSRepository(fs), location, cfg.Scripts.Suffix, cfg.Scripts.Extension)
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	title := cases.Title(language.English)
	e.out.Println("%s (%s runtime)", discovery.Report(len(modules), pattern), title.String(cfg.Scripts.Runtime))

	rt := newRuntime(cfg, fs, location, logger.Level(zerolog.WarnLevel))
	failed := false
	total := 0
	rows := make([][]string, 0, len(modules))
	for _, m := range modules {
		e.out.Section(m)
		functions, err := rt.Functions(m)
		if err != nil {
			e.out.Warning("%s: %v", m, err)
			failed = true
			rows = append(rows, []string{m, "error"})
			continue
		}
		rows = append(rows, []string{m, strconv.Itoa(len(functions))})
		if len(functions) == 0 {
			e.out.Info("  (no test functions)")
			continue
		}
		total += len(functions)
		e.out.List(functions)
	}

	if len(modules) == 0 {
		return errors.ExitSuccess
	}
	e.out.Println("")
	e.out.Table([]string{"Module", "Functions"}, rows)
	e.out.Println("")
	if failed {
		e.out.Println("%d test functions in %d modules", total, len(modules))
		return errors.ExitRuntimeError
	}
	e.out.Success("%d test functions in %d modules", total, len(modules))
	return errors.ExitSuccess
}
