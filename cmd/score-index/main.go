package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/handiism/scorebook/internal/config"
	"github.com/handiism/scorebook/internal/pipeline"
	"github.com/handiism/scorebook/internal/progress"
)

func main() {
	// Command line flags
	var (
		inputFlag       = flag.String("input", "", "Archive directory (overrides config)")
		outputFlag      = flag.String("output", "", "Output directory (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file")
		envFlag         = flag.String("env", "", "Path to a .env file (default .env when present)")
		sinkFlag        = flag.String("sink", "", "Where to publish: local or s3")
		untaggedFlag    = flag.Bool("untagged", false, "Songs sit at the archive root, without tag folders")
		continueFlag    = flag.Bool("continue-on-error", false, "Warn and skip unreadable directories instead of aborting")
		mergeFlag       = flag.Bool("merge-parts", false, "Merge files of the same part and instrument into one part")
		previewsFlag    = flag.Bool("previews", false, "Create JPEG previews of raster parts")
		stampFlag       = flag.Bool("stamp-audio", false, "Rewrite ID3 tags of mp3 parts with song metadata")
		concurrencyFlag = flag.Int("concurrency", 0, "Files published in parallel (overrides config)")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Index the archive without publishing")
		dumpFlag        = flag.Bool("dump", false, "Dump the indexed model after the run")
	)

	flag.Parse()

	if *inputFlag == "" && flag.NArg() > 0 {
		*inputFlag = flag.Arg(0)
	}
	if *outputFlag == "" && flag.NArg() > 1 {
		*outputFlag = flag.Arg(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *envFlag != "" {
		settings.LoadEnv(*envFlag)
	} else {
		settings.LoadEnv()
	}

	// Apply flags
	if *inputFlag != "" {
		settings.InputPath = *inputFlag
	}
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}
	if *sinkFlag != "" {
		settings.Sink = *sinkFlag
	}
	if *untaggedFlag {
		settings.Untagged = true
	}
	if *continueFlag {
		settings.ContinueOnError = true
	}
	if *mergeFlag {
		settings.MergeParts = true
	}
	if *previewsFlag {
		settings.CreatePreviews = true
	}
	if *stampFlag {
		settings.StampAudio = true
	}
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentFiles = *concurrencyFlag
	}

	if *inputFlag == "" && *configFlag == "" && os.Getenv("SCOREBOOK_INPUT") == "" {
		fmt.Println("Scorebook - Index and publish a sheet-music archive")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  score-index -input <dir> -output <dir> [options]")
		fmt.Println("  score-index <input> <output> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: score-index-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager, err := pipeline.NewManager(settings, func(event progress.Event) {
		if event.Level.Verbose() && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case progress.LevelError:
			prefix = "❌ "
		case progress.LevelWarning:
			prefix = "⚠️  "
		case progress.LevelSuccess:
			prefix = "✅ "
		case progress.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🎼 Scorebook")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Index(ctx); err != nil {
		exit(ctx, "indexing", err)
	}

	if *dryRunFlag {
		stats := manager.Results().Stats()
		fmt.Printf("\n[Dry run - not publishing] %d files in %d parts\n", stats.Files, stats.Parts)
		dump(*dumpFlag, manager)
		return
	}

	fmt.Println("\n📤 Publishing...")
	fmt.Println()

	summary, err := manager.Finish(ctx)
	if err != nil {
		exit(ctx, "publishing", err)
	}

	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! %d songs, %d arrangements, %d parts\n",
		summary.Stats.Songs, summary.Stats.Arrangements, summary.Stats.Parts)
	fmt.Printf("   %d files (%.2f MB) published to %s in %s\n",
		summary.Report.Files, float64(summary.Report.Bytes)/1024/1024, summary.Location, summary.Duration.Round(time.Millisecond))
	if summary.Report.Previews > 0 {
		fmt.Printf("   %d previews\n", summary.Report.Previews)
	}
	if summary.Stats.Warnings > 0 {
		fmt.Printf("   %d warnings, see warnings.json\n", summary.Stats.Warnings)
	}
	dump(*dumpFlag, manager)
}

func exit(ctx context.Context, stage string, err error) {
	if ctx.Err() != nil {
		fmt.Println("\nRun cancelled.")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error during %s: %v\n", stage, err)
	os.Exit(1)
}

func dump(enabled bool, manager *pipeline.Manager) {
	if !enabled {
		return
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	fmt.Println()
	cfg.Dump(manager.Results().Songs)
}
