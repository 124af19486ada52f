/*
 * Copyright 2025 BranchFleet Networks, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cli implements the netrefresh command set: site refresh,
// template migration, staging management and network listing.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"

	"github.com/branchfleet/netrefresh/pkg/classify"
	"github.com/branchfleet/netrefresh/pkg/config"
	"github.com/branchfleet/netrefresh/pkg/dashboard"
	"github.com/branchfleet/netrefresh/pkg/logger"
	"github.com/branchfleet/netrefresh/pkg/models"
	"github.com/branchfleet/netrefresh/pkg/report"
	"github.com/branchfleet/netrefresh/pkg/staging"
	"github.com/branchfleet/netrefresh/pkg/switchmap"
	"github.com/branchfleet/netrefresh/pkg/version"
	"github.com/branchfleet/netrefresh/pkg/workflow"
)

const defaultConfigFile = "netrefresh.json"

// AppConfig is the top-level configuration file layout. Every section is
// optional except the dashboard connection, which may also come from the
// environment when no config file exists.
type AppConfig struct {
	Dashboard *dashboard.Config `json:"dashboard"`
	Classify  *classify.Config  `json:"classify,omitempty"`
	Switchmap *switchmap.Config `json:"switchmap,omitempty"`
	Staging   *staging.Config   `json:"staging,omitempty"`
	Workflow  *workflow.Config  `json:"workflow,omitempty"`
	Logging   *logger.Config    `json:"logging,omitempty"`

	// PlansDir is where `refresh -site <name>` looks for <name>.json
	// when no -plan flag is given.
	PlansDir string `json:"plans_dir,omitempty"`
}

// Validate implements config.Validator. Dashboard endpoint and org fall
// back to NETREFRESH_ENDPOINT and NETREFRESH_ORG_ID.
func (c *AppConfig) Validate() error {
	if c.Dashboard == nil {
		c.Dashboard = &dashboard.Config{}
	}

	if c.Dashboard.Endpoint == "" {
		c.Dashboard.Endpoint = os.Getenv("NETREFRESH_ENDPOINT")
	}

	if c.Dashboard.OrgID == "" {
		c.Dashboard.OrgID = os.Getenv("NETREFRESH_ORG_ID")
	}

	return c.Dashboard.Validate()
}

// LoadAppConfig reads the configuration from the given path, or builds
// one from the environment when the file does not exist.
func LoadAppConfig(ctx context.Context, path string, log logger.Logger) (*AppConfig, error) {
	cfg := &AppConfig{}

	if path == "" {
		path = defaultConfigFile
	}

	_, statErr := os.Stat(path)
	fromEnv := strings.EqualFold(os.Getenv("CONFIG_SOURCE"), "env")

	if statErr == nil || fromEnv {
		if err := config.NewConfig(log).LoadAndValidate(ctx, path, cfg); err != nil {
			return nil, err
		}

		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseArgs turns os.Args[1:] into a CmdConfig.
func ParseArgs(args []string) (*CmdConfig, error) {
	if len(args) == 0 {
		return &CmdConfig{Command: "help"}, nil
	}

	cmd := &CmdConfig{Command: args[0]}

	switch args[0] {
	case "refresh":
		fs := newFlagSet("refresh", cmd)
		fs.StringVar(&cmd.Site, "site", "", "site network name")
		fs.StringVar(&cmd.PlanFile, "plan", "", "refresh plan JSON file")
		fs.StringVar(&cmd.OutputDir, "out", ".", "directory for the summary file")

		if err := fs.Parse(args[1:]); err != nil {
			return nil, err
		}

		if cmd.PlanFile == "" && cmd.Site == "" {
			return nil, errPlanFileRequired
		}
	case "migrate":
		fs := newFlagSet("migrate", cmd)
		fs.StringVar(&cmd.Site, "site", "", "site network name")
		fs.StringVar(&cmd.Template, "template", "", "template ID or name")
		fs.StringVar(&cmd.OutputDir, "out", ".", "directory for the summary file")

		if err := fs.Parse(args[1:]); err != nil {
			return nil, err
		}

		if cmd.Site == "" {
			return nil, errSiteRequired
		}

		if cmd.Template == "" {
			return nil, errTemplateRequired
		}
	case "staging":
		if len(args) < 2 {
			return nil, errStagingActionNeeded
		}

		if err := parseStagingArgs(cmd, args[1], args[2:]); err != nil {
			return nil, err
		}
	case "networks":
		fs := newFlagSet("networks", cmd)
		fs.StringVar(&cmd.Search, "search", "", "filter networks by substring")

		if err := fs.Parse(args[1:]); err != nil {
			return nil, err
		}
	case "version":
	case "help", "-h", "--help":
		cmd.Command = "help"
	default:
		return nil, fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}

	return cmd, nil
}

func parseStagingArgs(cmd *CmdConfig, action string, args []string) error {
	cmd.StagingAction = action

	fs := newFlagSet("staging "+action, cmd)

	var serials string

	switch action {
	case "capacity", "clear":
	case "add":
		fs.StringVar(&serials, "serials", "", "comma-separated serials to stage")
		fs.BoolVar(&cmd.Copy, "copy", false, "copy removal commands to the clipboard")
	case "remove":
		fs.StringVar(&cmd.Network, "network", "", "staging network name or ID")
		fs.StringVar(&serials, "serials", "", "comma-separated serials to remove")
	default:
		return fmt.Errorf("%w: %s", errUnknownStagingAction, action)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Serials = splitSerials(serials)

	if action == "add" && len(cmd.Serials) == 0 {
		return errSerialsRequired
	}

	if action == "remove" {
		if cmd.Network == "" {
			return errNetworkRequired
		}

		if len(cmd.Serials) == 0 {
			return errSerialsRequired
		}
	}

	return nil
}

func newFlagSet(name string, cmd *CmdConfig) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cmd.ConfigFile, "config", "", "configuration file")
	fs.BoolVar(&cmd.Yes, "yes", false, "answer yes to every prompt")
	fs.BoolVar(&cmd.Debug, "debug", false, "enable debug logging")

	return fs
}

// splitSerials normalizes a comma-separated serial list.
func splitSerials(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	serials := make([]string, 0, len(parts))

	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			serials = append(serials, s)
		}
	}

	return serials
}

// confirmer is the prompt gate shared by every destructive command.
type confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// App carries the wired dependencies for one command invocation.
type App struct {
	cfg     *AppConfig
	plane   dashboard.ControlPlane
	confirm confirmer
	settler workflow.Settler
	metrics workflow.Metrics
	logger  logger.Logger
	out     io.Writer
	styles  *Styles
}

// NewApp loads configuration, builds the control-plane client and wires
// the command dependencies.
func NewApp(ctx context.Context, cmd *CmdConfig, out io.Writer) (*App, error) {
	logCfg := logger.DefaultConfig()
	if cmd.Debug {
		logCfg.Debug = true
	}

	log, err := logger.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadAppConfig(ctx, cmd.ConfigFile, log)
	if err != nil {
		return nil, err
	}

	if cfg.Logging != nil && !cmd.Debug {
		if log, err = logger.NewLogger(cfg.Logging); err != nil {
			return nil, err
		}
	}

	apiKey := os.Getenv(cfg.Dashboard.APIKeyEnv)

	client, err := dashboard.NewClient(cfg.Dashboard, apiKey, log)
	if err != nil {
		return nil, err
	}

	metrics := workflow.NewInMemoryMetrics(log)
	client.HTTPClient = workflow.NewMetricsHTTPClient(client.HTTPClient, metrics)

	var confirm confirmer = NewPromptConfirmer()
	if cmd.Yes {
		confirm = autoConfirmer{}
	}

	return &App{
		cfg:     cfg,
		plane:   client,
		confirm: confirm,
		metrics: metrics,
		logger:  log,
		out:     out,
		styles:  newStyles(),
	}, nil
}

// Execute parses the arguments and runs the selected command.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	cmd, err := ParseArgs(args)
	if err != nil {
		return err
	}

	switch cmd.Command {
	case "help":
		PrintUsage(out)
		return nil
	case "version":
		fmt.Fprintf(out, "netrefresh %s\n", version.GetFullVersion())
		return nil
	}

	app, err := NewApp(ctx, cmd, out)
	if err != nil {
		return err
	}

	return app.Run(ctx, cmd)
}

// Run dispatches a parsed command.
func (a *App) Run(ctx context.Context, cmd *CmdConfig) error {
	switch cmd.Command {
	case "refresh":
		return a.runRefresh(ctx, cmd)
	case "migrate":
		return a.runMigrate(ctx, cmd)
	case "staging":
		return a.runStaging(ctx, cmd)
	case "networks":
		return a.runNetworks(ctx, cmd)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd.Command)
	}
}

func (a *App) runRefresh(ctx context.Context, cmd *CmdConfig) error {
	planFile := cmd.PlanFile
	if planFile == "" {
		planFile = filepath.Join(a.cfg.PlansDir, cmd.Site+".json")
	}

	plan, err := readPlan(planFile)
	if err != nil {
		return err
	}

	siteName := cmd.Site
	if siteName == "" {
		siteName = plan.Site
	}

	site, err := a.plane.NetworkByName(ctx, siteName)
	if err != nil {
		return fmt.Errorf("resolve site %q: %w", siteName, err)
	}

	fmt.Fprintln(a.out, a.styles.Title.Render(fmt.Sprintf("Refresh %s (%s)", site.Name, site.ID)))
	a.describePlan(plan)

	ok, err := a.confirm.Confirm(ctx, fmt.Sprintf("Run the refresh against %q?", site.Name))
	if err != nil {
		return err
	}

	if !ok {
		fmt.Fprintln(a.out, a.styles.Warning.Render("Refresh aborted."))
		return nil
	}

	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	result, runErr := engine.RunRefresh(ctx, site, plan)
	if result != nil {
		a.writeSummary(report.FromResult(report.KindRefresh, result), cmd.OutputDir)
	}

	a.logMetrics()

	return runErr
}

func (a *App) runMigrate(ctx context.Context, cmd *CmdConfig) error {
	site, err := a.plane.NetworkByName(ctx, cmd.Site)
	if err != nil {
		return fmt.Errorf("resolve site %q: %w", cmd.Site, err)
	}

	templateID, err := a.resolveTemplate(ctx, cmd.Template)
	if err != nil {
		return err
	}

	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	result, runErr := engine.RunTemplateMigration(ctx, site, templateID)
	if errors.Is(runErr, workflow.ErrDeclined) {
		fmt.Fprintln(a.out, a.styles.Warning.Render("Migration aborted."))
		return nil
	}

	if result != nil {
		a.writeSummary(report.FromResult(report.KindMigration, result), cmd.OutputDir)
	}

	a.logMetrics()

	return runErr
}

func (a *App) runStaging(ctx context.Context, cmd *CmdConfig) error {
	manager, err := staging.NewManager(a.cfg.Staging, a.plane, a.confirm, a.logger)
	if err != nil {
		return err
	}

	switch cmd.StagingAction {
	case "capacity":
		statuses, err := manager.Capacity(ctx)
		if err != nil {
			return err
		}

		fmt.Fprint(a.out, a.styles.renderCapacity(statuses))

		return nil
	case "add":
		result, err := manager.Distribute(ctx, cmd.Serials)
		if result != nil {
			fmt.Fprint(a.out, a.styles.renderDistribution(result))

			if cmd.Copy && len(result.RemovalCommands) > 0 {
				a.copyToClipboard(result.RemovalCommands)
			}
		}

		if errors.Is(err, staging.ErrDeclined) {
			fmt.Fprintln(a.out, a.styles.Warning.Render("Staging aborted."))
			return nil
		}

		return err
	case "remove":
		result, err := manager.Remove(ctx, cmd.Network, cmd.Serials)
		if result != nil {
			a.printRemoval(result)
		}

		return err
	case "clear":
		result, err := manager.Clear(ctx)
		if errors.Is(err, staging.ErrDeclined) {
			fmt.Fprintln(a.out, a.styles.Warning.Render("Clear aborted."))
			return nil
		}

		if result != nil {
			fmt.Fprintf(a.out, "Removed %d staged devices (%d failed).\n", result.Removed, result.Failed)
		}

		return err
	default:
		return fmt.Errorf("%w: %s", errUnknownStagingAction, cmd.StagingAction)
	}
}

func (a *App) runNetworks(ctx context.Context, cmd *CmdConfig) error {
	networks, err := a.plane.Networks(ctx)
	if err != nil {
		return err
	}

	search := strings.ToLower(cmd.Search)

	matched := make([]models.Network, 0, len(networks))

	for _, n := range networks {
		if search == "" || strings.Contains(strings.ToLower(n.Name), search) {
			matched = append(matched, n)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	tw := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tTEMPLATE")

	for _, n := range matched {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.Name, n.ID, n.TemplateID)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, a.styles.Muted.Render(fmt.Sprintf("%d networks", len(matched))))

	return nil
}

func (a *App) newEngine() (*workflow.Engine, error) {
	return workflow.NewEngine(
		a.cfg.Workflow,
		a.plane,
		classify.New(a.cfg.Classify, a.logger),
		switchmap.NewMapper(a.cfg.Switchmap),
		a.settler,
		a.confirm,
		a.metrics,
		a.logger,
	)
}

// describePlan prints the plan's intent before the confirm gate.
func (a *App) describePlan(plan *models.RefreshPlan) {
	if len(plan.Add) > 0 {
		serials := make([]string, 0, len(plan.Add))
		for _, d := range plan.Add {
			serials = append(serials, d.Serial)
		}

		fmt.Fprintf(a.out, "  add: %s\n", strings.Join(serials, ", "))
	}

	if len(plan.SwitchNames) > 0 {
		roles := make([]string, 0, len(plan.SwitchNames))
		for role := range plan.SwitchNames {
			roles = append(roles, role)
		}

		sort.Strings(roles)

		pairs := make([]string, 0, len(roles))
		for _, role := range roles {
			pairs = append(pairs, fmt.Sprintf("%s=%s", role, plan.SwitchNames[role]))
		}

		fmt.Fprintf(a.out, "  switches: %s\n", strings.Join(pairs, ", "))
	}

	if plan.SensorName != "" {
		fmt.Fprintf(a.out, "  sensor: %s\n", plan.SensorName)
	}

	if len(plan.AccessPoints) > 0 {
		fmt.Fprintf(a.out, "  access points: %d\n", len(plan.AccessPoints))
	}

	if plan.Address != "" {
		fmt.Fprintf(a.out, "  address: %s\n", plan.Address)
	}
}

// logMetrics reports aggregate control-plane call counts after a run.
// Visible with -debug.
func (a *App) logMetrics() {
	snapshot := a.metrics.GetMetrics()

	api, ok := snapshot["api"].(map[string]interface{})
	if !ok {
		return
	}

	total := sumCounts(api["calls"])
	failed := sumCounts(api["failures"])

	a.logger.Debug().
		Int("api_calls", total).
		Int("api_failures", failed).
		Msg("Run totals")
}

func sumCounts(value interface{}) int {
	counts, ok := value.(map[string]int)
	if !ok {
		return 0
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return total
}

func (a *App) writeSummary(summary *report.Summary, dir string) {
	fmt.Fprintln(a.out, summary.Render())

	if path, err := report.NewWriter(dir, a.logger).Write(summary); err == nil {
		fmt.Fprintln(a.out, a.styles.Muted.Render("Summary written to "+path))
	}
}

// resolveTemplate accepts a template ID or name and returns the ID.
func (a *App) resolveTemplate(ctx context.Context, ref string) (string, error) {
	templates, err := a.plane.Templates(ctx)
	if err != nil {
		return "", err
	}

	for _, t := range templates {
		if t.ID == ref {
			return t.ID, nil
		}
	}

	for _, t := range templates {
		if strings.EqualFold(t.Name, ref) {
			return t.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %s", errTemplateNotFound, ref)
}

func (a *App) copyToClipboard(lines []string) {
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		fmt.Fprintln(a.out, a.styles.Warning.Render("Could not copy removal commands to the clipboard"))
		return
	}

	fmt.Fprintln(a.out, a.styles.Success.Render("Removal commands copied to the clipboard"))
}

func (a *App) printRemoval(result *staging.RemovalResult) {
	if len(result.Removed) > 0 {
		fmt.Fprintln(a.out, a.styles.Success.Render("Removed: "+strings.Join(result.Removed, ", ")))
	}

	if len(result.Failed) > 0 {
		fmt.Fprintln(a.out, a.styles.Error.Render("Failed: "+strings.Join(result.Failed, ", ")))
	}
}

// readPlan loads and validates a refresh plan file.
func readPlan(path string) (*models.RefreshPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errPlanReadFailed, err)
	}

	plan := &models.RefreshPlan{}
	if err := json.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("%w: %s", errPlanParseFailed, err)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}
