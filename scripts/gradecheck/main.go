// Command gradecheck recomputes stored grade percentages from raw points
// and reports rows that have drifted, typically after a manual DB edit or
// an interrupted curve run. Exits non-zero when any drift is found so it
// can gate deploys.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/classtrack/gradebook-api/internal/gradebook"
	"github.com/classtrack/gradebook-api/internal/models"
	"github.com/classtrack/gradebook-api/internal/repository"
	"github.com/classtrack/gradebook-api/pkg/config"
	"github.com/classtrack/gradebook-api/pkg/database"
)

type drift struct {
	Grade    models.Grade
	Expected float64
}

func main() {
	var (
		classIDs  string
		tolerance float64
		fix       bool
		timeout   time.Duration
	)

	flag.StringVar(&classIDs, "classes", "", "Comma-separated class IDs to check (required)")
	flag.Float64Var(&tolerance, "tolerance", 0.01, "Maximum allowed percentage drift")
	flag.BoolVar(&fix, "fix", false, "Rewrite drifted rows with the recomputed percentage")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall run timeout")
	flag.Parse()

	classes := splitIDs(classIDs)
	if len(classes) == 0 {
		log.Fatal("at least one class ID is required (-classes)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	grades := repository.NewGradeRepository(db)
	var (
		checked int
		drifts  []drift
	)

	for _, classID := range classes {
		rows, err := grades.List(ctx, models.GradeFilter{ClassID: classID})
		if err != nil {
			log.Fatalf("failed to list grades for %s: %v", classID, err)
		}
		for _, g := range rows {
			checked++
			if g.MaxPoints <= 0 {
				continue
			}
			expected := gradebook.ClampPercentage(g.Points / g.MaxPoints * 100)
			if math.Abs(expected-g.Percentage) > tolerance {
				drifts = append(drifts, drift{Grade: g, Expected: expected})
			}
		}
	}

	printReport(checked, drifts, tolerance)

	if fix && len(drifts) > 0 {
		repaired := make([]models.Grade, 0, len(drifts))
		for _, d := range drifts {
			g := d.Grade
			g.Percentage = d.Expected
			repaired = append(repaired, g)
		}
		if err := grades.BulkUpdatePoints(ctx, repaired); err != nil {
			log.Fatalf("failed to repair drifted rows: %v", err)
		}
		fmt.Printf("Repaired %d rows\n", len(repaired))
		return
	}

	if len(drifts) > 0 {
		os.Exit(1)
	}
}

func splitIDs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printReport(checked int, drifts []drift, tolerance float64) {
	fmt.Println("Grade Percentage Check")
	fmt.Println("======================")
	for _, d := range drifts {
		fmt.Printf("[DRIFT] grade %s (student %s, assignment %s)\n", d.Grade.ID, d.Grade.StudentID, d.Grade.AssignmentID)
		fmt.Printf("  Stored: %.4f | Expected: %.4f | Points: %.2f/%.2f\n", d.Grade.Percentage, d.Expected, d.Grade.Points, d.Grade.MaxPoints)
	}
	fmt.Printf("Checked %d grades, %d drifted (tolerance %.4f)\n", checked, len(drifts), tolerance)
}
