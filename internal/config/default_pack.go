package config

import (
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/condition"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/generator"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/narrative"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/resource"
	"github.com/JaySchenk/idleAiGame-sub000/internal/domain/upgrade"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// Default returns the built-in content pack: the automated ad-farm world.
// The server and simulator run this when no pack file is supplied; tests
// lean on its reference numbers (basicAdBotFarm at cost 10 / growth 1.15,
// prestige base 1.25 over a 1000 * 10^level threshold).
func Default() *ContentPack {
	pack := &ContentPack{
		Balance: BalanceConfig{
			TickIntervalMs:          100,
			PrimaryResource:         "hcu",
			ClickPower:              1,
			PrestigeBase:            1.25,
			PrestigeThresholdBase:   1000,
			PrestigeThresholdGrowth: 10,
		},
		Task: TaskConfig{
			Name:       "Compliance Audit",
			DurationMs: 30000,
			Rewards:    []resource.Stack{{Resource: "hcu", Amount: 25}},
		},
		Resources: []*resource.Resource{
			{ID: "hcu", Name: "Harvested Content Units"},
			{ID: "compute", Name: "Compute Cycles"},
			{
				ID:          "trust",
				Name:        "Public Trust",
				Amount:      100,
				MaxCapacity: floatPtr(100),
				DecayRate:   0.0001,
				Depletable:  true,
			},
		},
		Generators: []*generator.Generator{
			{
				ID:             "basicAdBotFarm",
				Name:           "Basic Ad-Bot Farm",
				Category:       "content",
				BaseProduction: 1,
				Outputs:        []resource.Stack{{Resource: "hcu", Amount: 1}},
				BaseCost:       []resource.Stack{{Resource: "hcu", Amount: 10}},
				GrowthRate:     1.15,
			},
			{
				ID:             "clickbaitStudio",
				Name:           "Clickbait Studio",
				Category:       "content",
				BaseProduction: 8,
				Outputs:        []resource.Stack{{Resource: "hcu", Amount: 8}},
				BaseCost:       []resource.Stack{{Resource: "hcu", Amount: 100}},
				GrowthRate:     1.15,
				Conditions: []condition.Condition{
					{Type: condition.TypeResource, Target: "hcu", MinAmount: floatPtr(50)},
				},
			},
			{
				ID:             "serverCluster",
				Name:           "Server Cluster",
				Category:       "infrastructure",
				BaseProduction: 2,
				Outputs:        []resource.Stack{{Resource: "compute", Amount: 2}},
				BaseCost:       []resource.Stack{{Resource: "hcu", Amount: 500}},
				GrowthRate:     1.2,
				Conditions: []condition.Condition{
					{Type: condition.TypeGenerator, Target: "basicAdBotFarm", MinOwned: intPtr(5)},
				},
			},
			{
				ID:             "deepfakePipeline",
				Name:           "Deepfake Pipeline",
				Category:       "content",
				BaseProduction: 50,
				Inputs:         []resource.Stack{{Resource: "compute", Amount: 1}},
				Outputs:        []resource.Stack{{Resource: "hcu", Amount: 50}},
				BaseCost:       []resource.Stack{{Resource: "hcu", Amount: 2000}},
				GrowthRate:     1.25,
				Conditions: []condition.Condition{
					{Type: condition.TypeGenerator, Target: "serverCluster", MinOwned: intPtr(1)},
				},
			},
		},
		Upgrades: []*upgrade.Upgrade{
			{
				ID:          "ergonomicClickers",
				Name:        "Ergonomic Clickers",
				Description: "Doubles manual harvesting output.",
				Category:    "manual",
				Costs:       []resource.Stack{{Resource: "hcu", Amount: 50}},
				Effects:     []upgrade.Effect{{Kind: upgrade.EffectClick, Value: 2}},
			},
			{
				ID:          "optimizedAlgorithms",
				Name:        "Optimized Algorithms",
				Description: "Ad-bot farms produce twice as much content.",
				Category:    "content",
				Costs:       []resource.Stack{{Resource: "hcu", Amount: 200}},
				Effects: []upgrade.Effect{
					{Kind: upgrade.EffectGeneratorProduction, Target: "basicAdBotFarm", Value: 2},
				},
				Conditions: []condition.Condition{
					{Type: condition.TypeGenerator, Target: "basicAdBotFarm", MinOwned: intPtr(5)},
				},
			},
			{
				ID:          "syntheticAudience",
				Name:        "Synthetic Audience",
				Description: "All content output is amplified by fabricated engagement.",
				Category:    "content",
				Costs:       []resource.Stack{{Resource: "hcu", Amount: 1000}},
				Effects: []upgrade.Effect{
					{Kind: upgrade.EffectGlobalResource, Target: "hcu", Value: 1.5},
				},
				Conditions: []condition.Condition{
					{Type: condition.TypeUpgrade, Target: "optimizedAlgorithms"},
				},
			},
			{
				ID:          "trustDampeners",
				Name:        "Trust Dampeners",
				Description: "Slows the erosion of public trust.",
				Category:    "infrastructure",
				Costs:       []resource.Stack{{Resource: "hcu", Amount: 500}},
				Effects: []upgrade.Effect{
					{Kind: upgrade.EffectDecayRate, Target: "trust", Value: 0.5},
				},
			},
			{
				ID:          "trustReservoirs",
				Name:        "Trust Reservoirs",
				Description: "Raises the ceiling on public trust.",
				Category:    "infrastructure",
				Costs:       []resource.Stack{{Resource: "hcu", Amount: 300}},
				Effects: []upgrade.Effect{
					{Kind: upgrade.EffectResourceCapacity, Target: "trust", Value: 50},
				},
			},
			{
				ID:          "humanOversight",
				Name:        "Human Oversight Board",
				Description: "Keeps people in the loop. Closes the automation branch.",
				Category:    "doctrine",
				Costs:       []resource.Stack{{Resource: "hcu", Amount: 750}},
				Effects: []upgrade.Effect{
					{Kind: upgrade.EffectDecayRate, Target: "trust", Value: 0.25},
				},
				Conditions: []condition.Condition{
					{Type: condition.TypeNotUpgrade, Target: "fullAutomation"},
				},
			},
			{
				ID:          "fullAutomation",
				Name:        "Full Automation Doctrine",
				Description: "Removes people from the loop. Closes the oversight branch.",
				Category:    "doctrine",
				Costs:       []resource.Stack{{Resource: "hcu", Amount: 750}},
				Effects: []upgrade.Effect{
					{Kind: upgrade.EffectGlobalResource, Target: "hcu", Value: 2},
				},
				Conditions: []condition.Condition{
					{Type: condition.TypeNotUpgrade, Target: "humanOversight"},
				},
			},
		},
		Narratives: []*narrative.Event{
			{
				ID:       "feedGoesLive",
				Title:    "The Feed Goes Live",
				Content:  "Somewhere in a windowless building, the first feed begins to scroll.",
				Priority: 1000,
			},
			{
				ID:       "firstFarm",
				Title:    "First Farm Online",
				Content:  "A rack of phones lights up. None of them belong to anyone.",
				Priority: 500,
				Conditions: []condition.Condition{
					{Type: condition.TypeGenerator, Target: "basicAdBotFarm", MinOwned: intPtr(1)},
				},
			},
			{
				ID:       "contentFlood",
				Title:    "The Flood",
				Content:  "A thousand units of content per hour. Nobody reads it. Everybody sees it.",
				Priority: 400,
				Conditions: []condition.Condition{
					{Type: condition.TypeResource, Target: "hcu", MinAmount: floatPtr(1000)},
				},
				Effects: []resource.Stack{{Resource: "trust", Amount: -10}},
			},
			{
				ID:       "trustCollapse",
				Title:    "Nobody Believes Anything",
				Content:  "The last fact-checking site shuts down, citing exhaustion.",
				Priority: 900,
				Conditions: []condition.Condition{
					{Type: condition.TypeResource, Target: "trust", MaxAmount: floatPtr(20), Operator: condition.OpLTE},
				},
			},
			{
				ID:       "firstPrestige",
				Title:    "The Pivot",
				Content:  "The board approves a total restructure. The feed never stops scrolling.",
				Priority: 800,
				Conditions: []condition.Condition{
					{Type: condition.TypePrestige, MinLevel: 1},
				},
			},
		},
	}

	pack.applyDefaults()
	return pack
}
