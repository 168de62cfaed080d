package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/workflow"
)

const (
	PromptShowCV          = "Show customized CV"
	PromptReportByCompany = "Report by company"
	PromptPackagesToFile  = "Dump packages to file"
	PromptExit            = "Exit"
	PromptBack            = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowCV, PromptReportByCompany, PromptPackagesToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate job postings for a search URL and tailor the CV to the best matches",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("url", "u", "", "job search URL used to generate postings")
	runCmd.Flags().StringP("cv", "c", "", "path to the CV text file, '-' reads stdin")
	runCmd.Flags().BoolP("non-interactive", "y", false, "print the packages and exit without prompting")

	viper.BindPFlag("search-url", runCmd.Flags().Lookup("url"))
	viper.BindPFlag("cv-file", runCmd.Flags().Lookup("cv"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync(lg)

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	lg.Info("starting the cv-tailor", zap.String("version", version))

	if strings.TrimSpace(config.SearchURL) == "" {
		lg.Fatal("search url is required", zap.String("hint", "pass --url or set search-url in the config"))
	}

	cv, err := readCV(config.CVFile, cmd.InOrStdin())
	if err != nil {
		lg.Fatal("reading the cv", zap.Error(err), zap.String("hint", "pass --cv with a path to a text file"))
	}

	controller, err := newController(ctx, config, lg)
	if err != nil {
		lg.Fatal("building the workflow", zap.Error(err))
	}

	cancel := controller.Subscribe(progressLogger(lg))
	defer cancel()

	state, err := controller.Start(ctx, config.SearchURL, cv)
	if err != nil {
		lg.Fatal("starting the workflow", zap.Error(err))
	}

	if state.Status == workflow.StatusError {
		lg.Fatal("workflow failed", zap.String("error", state.Error), zap.String(logger.FieldRunID, state.RunID))
	}

	packages := state.Packages
	for _, pkg := range packages.Items {
		lg.Info("application package ready",
			zap.String("job_title", pkg.Job.Title),
			zap.String("company", pkg.Job.Company),
			zap.String("location", pkg.Job.Location),
			zap.Int("match_score", pkg.Analysis.MatchScore),
			zap.String("summary", pkg.Analysis.MatchSummary),
		)
	}
	lg.Info("workflow finished", zap.Int("count", packages.Len()))

	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			lg.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, cmd.OutOrStdout(), lg, packages, selectPackage); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			lg.Fatal("exiting", zap.Error(err))
		}
	}
}

// progressLogger logs each distinct progress message once.
func progressLogger(log *zap.Logger) workflow.Observer {
	last := ""
	return func(state workflow.State) {
		if state.Status != workflow.StatusProcessing || state.Message == "" || state.Message == last {
			return
		}
		last = state.Message
		log.Info(state.Message, zap.String(logger.FieldRunID, state.RunID))
	}
}

// chooser picks one package title; it returns PromptBack when nothing was chosen.
type chooser func(titles []string) (string, error)

func handleAction(action string, out io.Writer, log *zap.Logger, packages *jobs.Packages, choose chooser) error {
	switch action {
	case PromptShowCV:
		titles := make([]string, 0, packages.Len())
		for _, pkg := range packages.Items {
			titles = append(titles, pkg.Job.Title)
		}

		title, err := choose(titles)
		if err != nil {
			return err
		}
		if title == PromptBack {
			return nil
		}

		pkg := packages.FindByTitle(title)
		if pkg == nil {
			return fmt.Errorf("there is no package for %q", title)
		}

		fmt.Fprintf(out, "%s / %s\n\n%s\n", pkg.Job.Title, pkg.Job.Company, pkg.Analysis.CustomizedCV)
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(packages.ReportByCompany(), "", "  ")
		log.Info(string(pretty), zap.Int("packages count", packages.Len()))
		return nil
	case PromptPackagesToFile:
		filename, err := packages.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump packages to file: %w", err)
		}
		log.Info("dumping packages to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		log.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func selectPackage(titles []string) (string, error) {
	packagePrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: append(append([]string{}, titles...), PromptBack),
	}

	_, selected, err := packagePrompt.Run()
	return selected, err
}

// readCV loads the CV from path, or from stdin when path is "-".
func readCV(path string, stdin io.Reader) (string, error) {
	path = strings.TrimSpace(path)

	var (
		data []byte
		err  error
	)

	switch path {
	case "":
		return "", errors.New("cv file is not configured")
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading cv from %q: %w", path, err)
	}

	cv := strings.TrimSpace(string(data))
	if cv == "" {
		return "", fmt.Errorf("cv from %q is empty", path)
	}

	return cv, nil
}
