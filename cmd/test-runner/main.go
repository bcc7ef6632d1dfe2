// Package main - test_runner.go
// Executable to run the end-to-end scenario harnesses.
package main

import (
	"fmt"
	"os"

	"github.com/JaySchenk/idleAiGame-sub000/test"
)

func main() {
	fmt.Println("IDLE GAME - SCENARIO TEST SUITE")
	fmt.Println("================================================")

	fmt.Println("\nRunning: Golden Path...")
	goldenPath := test.NewGoldenPathTest()
	goldenPath.RunTest()

	// Summary
	results := goldenPath.GetResults()
	passed := 0
	failed := 0

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("  [%s] %s: expected %s, got %s\n", status, r.ScenarioName, r.Expected, r.Actual)
	}

	fmt.Println("\n" + string(repeatChar('=', 60)))
	fmt.Println("TEST SUMMARY")
	fmt.Println(string(repeatChar('=', 60)))
	fmt.Printf("   Passed: %d\n", passed)
	fmt.Printf("   Failed: %d\n", failed)

	if failed > 0 {
		fmt.Println("\nBalance needs recalibration")
		os.Exit(1)
	}
	fmt.Println("\nAll scenarios passed")
	os.Exit(0)
}

func repeatChar(c byte, count int) []byte {
	result := make([]byte, count)
	for i := 0; i < count; i++ {
		result[i] = c
	}
	return result
}
