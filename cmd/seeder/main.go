package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/poiesic/coursegrid"
	"github.com/poiesic/coursegrid/core"
	"github.com/poiesic/coursegrid/departments"
)

var (
	sectionCount = flag.Int("sections", 2000, "number of lecture sections to generate")
	seed         = flag.Uint64("seed", 1, "random seed")
	outFile      = flag.String("out", "catalog.json", "catalog file to write")
	dbPath       = flag.String("db", "", "import the generated catalog into this database")
)

var titleWords = []string{
	"Introduction to", "Topics in", "Foundations of", "Advanced", "Seminar in",
	"Methods of", "History of", "Theory of", "Applied", "Principles of",
}

var subjects = []string{
	"Data Structures", "Calculus", "Ethics", "Microeconomics", "Organic Chemistry",
	"Linear Algebra", "World Literature", "Cognitive Science", "Statistics",
	"Public Policy", "Film Studies", "Machine Learning", "Urban Ecology",
}

var professors = []string{
	"A. Rivera", "B. Chen", "C. Okafor", "D. Novak", "E. Haddad",
	"F. Lindqvist", "G. Tanaka", "H. Moreau", "I. Kowalski", "J. Mensah",
}

var hubUnits = []string{"QR1", "QR2", "SI1", "SI2", "CT", "WIN", "OSC", "IIC", "PLM", "AEX"}

// slots are the standard meeting blocks a generated section picks from.
var slots = []core.Meeting{
	{Days: "MWF", StartTime: "8:00", EndTime: "8:50"},
	{Days: "MWF", StartTime: "10:10", EndTime: "11:00"},
	{Days: "MWF", StartTime: "1:25 PM", EndTime: "2:15 PM"},
	{Days: "TuTh", StartTime: "9:30", EndTime: "10:45"},
	{Days: "TuTh", StartTime: "12:30 PM", EndTime: "1:45 PM"},
	{Days: "TuTh", StartTime: "1430", EndTime: "1545"},
	{Days: "We", StartTime: "18:30", EndTime: "21:15"},
}

var terms = []string{"Fall 2025", "Spring 2026", "Term 2265"}

func pick[T any](r *rand.Rand, values []T) T {
	return values[r.IntN(len(values))]
}

// generate yields n lecture sections, each followed by zero to two
// discussion sections sharing its letter prefix.
func generate(r *rand.Rand, n int) iter.Seq[core.Section] {
	codes := departments.Codes()
	return func(yield func(core.Section) bool) {
		for i := range n {
			dept := pick(r, codes)
			number := 100 + r.IntN(500)
			term := pick(r, terms)
			code := fmt.Sprintf("CAS %s %d", dept, number)
			letter := string(rune('A' + i%4))
			capacity := 20 + r.IntN(180)

			lecture := core.Section{
				ID:              fmt.Sprintf("CAS-%s-%d-%s1-%s-%d", dept, number, letter, strings.ReplaceAll(term, " ", ""), i),
				Code:            code,
				Title:           pick(r, titleWords) + " " + pick(r, subjects),
				Description:     "Generated section for " + departments.Name(dept) + ".",
				Section:         letter + "1",
				Professor:       pick(r, professors),
				Term:            term,
				Credits:         pick(r, []int{0, 2, 4, 4, 4}),
				HubUnits:        []string{pick(r, hubUnits)},
				Department:      dept,
				College:         "CAS",
				Schedule:        []core.Meeting{pick(r, slots)},
				Status:          pick(r, []string{"Open", "Open", "Closed", "Waitlist"}),
				EnrollmentCap:   capacity,
				EnrollmentTotal: r.IntN(capacity + 1),
				SectionType:     "Lecture",
				ClassNumber:     10000 + i,
			}
			if !yield(lecture) {
				return
			}

			for d := range r.IntN(3) {
				discussion := lecture
				discussion.ID = fmt.Sprintf("%s-%s%d", lecture.ID, letter, d+2)
				discussion.Section = fmt.Sprintf("%s%d", letter, d+2)
				discussion.SectionType = "Discussion"
				discussion.Credits = 0
				discussion.Schedule = []core.Meeting{pick(r, slots)}
				if !yield(discussion) {
					return
				}
			}
		}
	}
}

// writeCatalog streams sections as a JSON array.
func writeCatalog(w io.Writer, sections iter.Seq[core.Section]) (int, error) {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return 0, err
	}
	count := 0
	for s := range sections {
		if count > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return count, err
			}
		}
		b, err := json.Marshal(s)
		if err != nil {
			return count, err
		}
		if _, err := w.Write(b); err != nil {
			return count, err
		}
		count++
	}
	_, err := io.WriteString(w, "\n]\n")
	return count, err
}

func main() {
	flag.Parse()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	f, err := os.Create(*outFile)
	if err != nil {
		panic(err)
	}

	r := rand.New(rand.NewPCG(*seed, *seed))
	count, err := writeCatalog(f, generate(r, *sectionCount))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		panic(err)
	}
	slog.Info("catalog written", "file", *outFile, "sections", count)

	if *dbPath == "" {
		return
	}

	db, err := coursegrid.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	importer, err := db.NewImporter()
	if err != nil {
		panic(err)
	}
	defer importer.Release()

	if _, err := importer.Import(context.Background(), *outFile); err != nil {
		panic(err)
	}
}
