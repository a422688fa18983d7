// Command streamctl runs declarative stream plans.
//
//	streamctl -config cmd/streamctl/config.yml -run odd-squares,chars
//	streamctl -plan plans.yml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/streamkit/bootstrap"
	"github.com/kbukum/streamkit/config"
	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/plan"
	"github.com/kbukum/streamkit/version"
)

const serviceName = "streamctl"

// Config is the streamctl configuration file.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Plans                []plan.Spec `yaml:"plans" mapstructure:"plans"`
}

type flags struct {
	configFile string
	planFile   string
	run        string
	summary    bool
	version    bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "config file (default: search ./cmd/streamctl/config.yml, ./config.yml)")
	fs.StringVar(&f.planFile, "plan", "", "plan file; its plans replace those in the config")
	fs.StringVar(&f.run, "run", "", "comma-separated plan names to run (default: all)")
	fs.BoolVar(&f.summary, "summary", false, "print a run summary to stderr")
	fs.BoolVar(&f.version, "version", false, "print version information and exit")
	return f, fs.Parse(args)
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if f.version {
		_ = yaml.NewEncoder(os.Stdout).Encode(version.Get())
		return
	}
	if err := run(context.Background(), f, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "streamctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, stdout, stderr io.Writer) error {
	opts := []config.LoaderOption{config.WithEnvPrefix("STREAMCTL")}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	cfg, err := config.Load[Config](serviceName, opts...)
	if err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}
	if f.planFile != "" {
		specs, err := plan.LoadFile(f.planFile)
		if err != nil {
			return err
		}
		cfg.Plans = specs
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	app.Logger.Debug("build info", version.Get().Fields())

	err = app.RunTask(ctx, func(ctx context.Context) error {
		return runPlans(ctx, app, selectPlans(cfg.Plans, f.run), stdout)
	})
	if f.summary {
		app.DisplaySummary(stderr)
	}
	return err
}

// selectPlans keeps the named plans, in the order given. Unknown names are
// kept as empty specs so the build reports them as rejected.
func selectPlans(specs []plan.Spec, names string) []plan.Spec {
	if strings.TrimSpace(names) == "" {
		return specs
	}
	byName := make(map[string]plan.Spec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	var out []plan.Spec
	for _, n := range strings.Split(names, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		s, ok := byName[n]
		if !ok {
			s = plan.Spec{Name: n}
		}
		out = append(out, s)
	}
	return out
}

// runPlans builds and runs each plan independently and prints the results
// as a YAML list. A rejected or failed plan is reported in place and does
// not stop the others.
func runPlans(ctx context.Context, app *bootstrap.App[*Config], specs []plan.Spec, w io.Writer) error {
	reg := plan.Builtins()
	buildOpts := []plan.Option{
		plan.WithLogger(logger.Get(logger.ComponentPlan)),
		plan.WithMetrics(app.Metrics),
		plan.WithStreamOptions(app.StreamOptions()...),
	}

	outputs := make([]map[string]any, 0, len(specs))
	var failed int
	for _, spec := range specs {
		out, status := runOne(ctx, spec, reg, buildOpts)
		app.Summary.TrackPlan(status)
		if status.Status != bootstrap.StatusOK {
			failed++
		}
		outputs = append(outputs, out)
		if ctx.Err() != nil {
			break
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(outputs); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d plans did not complete", failed, len(specs))
	}
	return nil
}

func runOne(ctx context.Context, spec plan.Spec, reg *plan.Registry, opts []plan.Option) (map[string]any, bootstrap.PlanStatus) {
	status := bootstrap.PlanStatus{Name: spec.Name, Terminal: spec.Terminal.Op}

	p, err := plan.Build(spec, reg, opts...)
	if err != nil {
		status.Status, status.Detail = bootstrap.StatusRejected, err.Error()
		return failure(spec.Name, err), status
	}

	start := time.Now()
	res, err := p.Run(ctx)
	status.Duration = time.Since(start)
	if err != nil {
		status.Status, status.Detail = bootstrap.StatusFailed, err.Error()
		return failure(spec.Name, err), status
	}
	status.Status = bootstrap.StatusOK
	return res.Output(), status
}

func failure(name string, err error) map[string]any {
	out := map[string]any{"plan": name, "error": err.Error()}
	if appErr, ok := errors.AsAppError(err); ok {
		out["code"] = string(appErr.Code)
	}
	return out
}
