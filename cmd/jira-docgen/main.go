package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"jira-docgen/internal/common"
	"jira-docgen/internal/services"
)

const appName = "jira-docgen"

func main() {
	var (
		project        = flag.String("project", "", "Jira project key (required for a run)")
		report         = flag.String("report", "docs", "Report kind: 'docs' or 'faq'")
		configPath     = flag.String("config", "", "Path to configuration file")
		model          = flag.String("model", "", "Override the gateway model name")
		gatewayURL     = flag.String("gateway-url", "", "Override the gateway endpoint URL")
		mode           = flag.String("mode", "dev", "Environment mode: 'dev', 'development', 'prod', or 'production'")
		quiet          = flag.Bool("quiet", false, "Suppress banner output")
		version        = flag.Bool("version", false, "Show version information")
		help           = flag.Bool("help", false, "Show help message")
		validateConfig = flag.Bool("validate", false, "Validate configuration file and exit")
		stats          = flag.Bool("stats", false, "Show archived run statistics and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s (build: %s)\n", appName, common.GetVersion(), common.GetBuild())
		os.Exit(0)
	}

	if *help {
		showHelp()
		os.Exit(0)
	}

	environment := parseMode(*mode)

	// Load configuration with priority: defaults -> TOML -> env -> flags
	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.Collector.Environment = environment
	if *model != "" {
		cfg.Gateway.Model = *model
	}
	if *gatewayURL != "" {
		cfg.Gateway.URL = *gatewayURL
	}

	if *validateConfig {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	reportKind, err := parseReport(*report)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *project == "" {
		fmt.Fprintln(os.Stderr, "Missing required -project flag")
		os.Exit(1)
	}

	if err := common.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := common.GetLogger()

	logger.Info().
		Str("version", common.GetVersion()).
		Str("build", common.GetBuild()).
		Str("environment", environment).
		Str("project", *project).
		Str("report", reportKind).
		Msg("Starting jira-docgen")

	if !*quiet {
		common.PrintBanner(appName, environment, reportKind, common.GetLogFilePath())
	}

	storage, err := services.NewStorage(&cfg.Storage)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize storage")
		os.Exit(1)
	}
	defer storage.Close()

	if *stats {
		line, err := services.FormatStats(storage, *project)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read archive")
			os.Exit(1)
		}
		fmt.Println(line)
		os.Exit(0)
	}

	if err := cfg.ValidateJiraAccess(); err != nil {
		logger.Error().Err(err).Msg("Jira access is not configured")
		os.Exit(1)
	}

	gateway, err := services.NewGateway(&cfg.Gateway)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize gateway")
		os.Exit(1)
	}

	pipeline := services.NewPipeline(
		services.NewJiraClient(&cfg.Jira),
		gateway,
		services.NewRenderer(&cfg.Output),
		storage,
		services.NewLogProgress(),
		cfg.Jira.PageSize,
	)

	var result *services.RunResult
	switch reportKind {
	case "faq":
		result, err = pipeline.RunSolutionFAQ(*project)
	default:
		result, err = pipeline.RunDocumentation(*project)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Run failed, no document produced")
		common.PrintError(fmt.Sprintf("Run failed: %v", err))
		os.Exit(1)
	}

	if result.OutputPath == "" {
		common.PrintWarning("No solutions found in any ticket. No documentation generated.")
	} else {
		common.PrintSuccess(fmt.Sprintf("Report saved to %s", result.OutputPath))
	}

	if !*quiet {
		common.PrintShutdownBanner(appName)
	}
}

func parseMode(mode string) string {
	mode = strings.ToLower(mode)
	switch mode {
	case "prod", "production":
		return "production"
	case "dev", "development":
		return "development"
	default:
		return "development"
	}
}

func parseReport(report string) (string, error) {
	switch strings.ToLower(report) {
	case "docs", "doc", "documentation":
		return "docs", nil
	case "faq", "solutions":
		return "faq", nil
	default:
		return "", fmt.Errorf("unknown report kind %q (expected 'docs' or 'faq')", report)
	}
}

func showHelp() {
	fmt.Printf("%s v%s - Ticket Analysis and Documentation Generator\n\n", appName, common.GetVersion())
	fmt.Println("Usage:")
	fmt.Printf("  %s -project KEY [flags]\n\n", os.Args[0])
	fmt.Println("Flags:")
	fmt.Println("  -project string     Jira project key (required)")
	fmt.Println("  -report string      Report kind: 'docs' or 'faq' (default \"docs\")")
	fmt.Println("  -config string      Configuration file path")
	fmt.Println("  -model string       Override the gateway model name")
	fmt.Println("  -gateway-url string Override the gateway endpoint URL")
	fmt.Println("  -mode string        Environment mode: 'dev' or 'prod' (default \"dev\")")
	fmt.Println("  -quiet              Suppress banner output")
	fmt.Println("  -version            Show version information")
	fmt.Println("  -validate           Validate configuration file and exit")
	fmt.Println("  -stats              Show archived run statistics and exit")
	fmt.Println("  -help               Show help message")
	fmt.Println("\nExamples:")
	fmt.Printf("  %s -project PROJ                     # Documentation report for PROJ\n", os.Args[0])
	fmt.Printf("  %s -project PROJ -report faq         # Solution FAQ for PROJ\n", os.Args[0])
	fmt.Printf("  %s -project PROJ -model mistral      # Use a different local model\n", os.Args[0])
	fmt.Println("\nNote: Jira credentials come from config or JIRA_URL, JIRA_EMAIL, JIRA_API_TOKEN.")
}
