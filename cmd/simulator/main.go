// Package main is a headless balance simulator. It runs the game engine on
// a synthetic clock, plays a simple greedy strategy, and prints where the
// economy ends up. Useful for tuning content packs without a frontend.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/JaySchenk/idleAiGame-sub000/internal/config"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/narrative"
	"github.com/JaySchenk/idleAiGame-sub000/internal/engine"
	"github.com/JaySchenk/idleAiGame-sub000/internal/events"
	"github.com/JaySchenk/idleAiGame-sub000/internal/platform/logger"
)

var (
	packPath      string
	ticks         int
	clicksPerTick int
	autoPrestige  bool
	quiet         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simulator",
		Short: "Headless idle game balance simulator",
		Long: `Runs the game engine on a synthetic clock with a greedy player:
click every tick, buy every affordable upgrade, then every affordable
generator, and optionally prestige the moment the threshold is reached.`,
		Run: runSimulation,
	}

	rootCmd.Flags().StringVarP(&packPath, "pack", "p", "", "Path to a YAML content pack (built-in pack when empty)")
	rootCmd.Flags().IntVarP(&ticks, "ticks", "t", 3600, "Number of ticks to simulate")
	rootCmd.Flags().IntVarP(&clicksPerTick, "clicks", "c", 1, "Manual clicks per tick")
	rootCmd.Flags().BoolVar(&autoPrestige, "auto-prestige", false, "Prestige as soon as the threshold is reached")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	if !quiet {
		titleColor.Println("\n╭───────────────────────────╮")
		titleColor.Println("│  Idle Game Simulator      │")
		titleColor.Println("╰───────────────────────────╯")
		fmt.Println()
	}

	var pack *config.ContentPack
	if packPath != "" {
		loaded, err := config.Load(packPath)
		if err != nil {
			color.Red("Error loading content pack: %v", err)
			os.Exit(1)
		}
		pack = loaded
		if !quiet {
			infoColor.Printf("Loaded content pack from %s\n\n", packPath)
		}
	} else {
		pack = config.Default()
	}

	interval := time.Duration(pack.Balance.TickIntervalMs) * time.Millisecond
	simTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := func() time.Time { return simTime }

	appLogger := logger.NewLogger()
	eventLog := events.NewEventLog(nil)
	eng := engine.NewEngineWithClock(pack, eventLog, appLogger, now)

	var narrativeOrder []string
	eng.OnNarrative(func(ev *narrative.Event) {
		narrativeOrder = append(narrativeOrder, ev.ID)
	})

	eng.Start()

	for i := 0; i < ticks; i++ {
		simTime = simTime.Add(interval)
		eng.Tick()

		for c := 0; c < clicksPerTick; c++ {
			eng.Click()
		}

		// Greedy spending: upgrades first, they compound.
		view := eng.View()
		for _, u := range view.Upgrades {
			if !u.Purchased && u.Unlocked && u.Affordable {
				eng.BuyUpgrade(u.ID)
			}
		}
		for _, g := range view.Generators {
			if g.Unlocked && g.Affordable {
				eng.BuyGenerator(g.ID)
			}
		}

		if autoPrestige && eng.CanPrestige() {
			eng.Prestige()
		}
	}

	printReport(eng, narrativeOrder, eventLog)
}

func printReport(eng *engine.Engine, narrativeOrder []string, eventLog *events.EventLog) {
	successColor := color.New(color.FgGreen, color.Bold)
	view := eng.View()

	successColor.Printf("\nSimulation finished: tick %d, prestige level %d (x%.4f)\n\n",
		view.Tick, view.Prestige.Level, view.Prestige.Multiplier)

	resourceTable := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Amount", "Lifetime", "Per Second"}),
	)
	for _, r := range view.Resources {
		_ = resourceTable.Append([]string{
			r.Name,
			fmt.Sprintf("%.2f", r.Amount),
			fmt.Sprintf("%.2f", r.Lifetime),
			fmt.Sprintf("%.3f", r.PerSecond),
		})
	}
	_ = resourceTable.Render()
	fmt.Println()

	generatorTable := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Generator", "Owned", "Rate", "Next Cost"}),
	)
	for _, g := range view.Generators {
		costs := make([]string, 0, len(g.Cost))
		for _, c := range g.Cost {
			costs = append(costs, fmt.Sprintf("%.0f %s", c.Amount, c.Resource))
		}
		_ = generatorTable.Append([]string{
			g.Name,
			fmt.Sprintf("%d", g.Owned),
			fmt.Sprintf("%.3f", g.ProductionRate),
			strings.Join(costs, ", "),
		})
	}
	_ = generatorTable.Render()

	if len(narrativeOrder) > 0 {
		fmt.Printf("\nNarratives fired (%d): %s\n", len(narrativeOrder), strings.Join(narrativeOrder, " -> "))
	}
	fmt.Printf("Events logged: %d\n", eventLog.Len())
}
