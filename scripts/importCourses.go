// Command importCourses loads a course catalogue from CSV.
//
// Columns: ownerEmail, educator, title, category, price, description, sections.
// sections holds "title::description" pairs separated by "|".
//
//	go run ./scripts CourseCatalog.csv
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/services"
)

type courseRow struct {
	OwnerEmail string
	Input      services.CreateCourseInput
}

func main() {
	cfg := config.LoadConfig()
	log, err := logger.New("development")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	path := "CourseCatalog.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// Open CSV file
	file, err := os.Open(path)
	if err != nil {
		log.Fatal("Failed to open CSV file", "path", path, "error", err)
	}
	defer file.Close()

	rows, skipped, err := readCourses(file)
	if err != nil {
		log.Fatal("Failed to read CSV", "error", err)
	}
	log.Info("Total rows to import", "rows", len(rows), "skipped", skipped)

	store, err := database.ConnectDb(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer store.Close()

	ctx := context.Background()
	courses := services.NewCourseService(store, log)

	inserted := 0
	for i, row := range rows {
		owner, err := store.GetUserByEmail(ctx, services.NormalizeEmail(row.OwnerEmail))
		if err != nil || owner == nil {
			log.Warn("owner not found, skipping row", "row", i+2, "ownerEmail", row.OwnerEmail, "error", err)
			skipped++
			continue
		}
		row.Input.OwnerID = owner.ID
		if _, err := courses.Create(ctx, row.Input); err != nil {
			log.Error("Error inserting course", "row", i+2, "title", row.Input.Title, "error", err)
			skipped++
			continue
		}
		inserted++
	}

	log.Info("=== Import Complete ===", "inserted", inserted, "skipped", skipped)
}

// readCourses parses the catalogue. Rows missing a title or an owner, and rows
// with a section lacking its title or description, are counted as skipped
// rather than failing the import.
func readCourses(r io.Reader) ([]courseRow, int, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) < 2 {
		return nil, 0, fmt.Errorf("CSV file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}

	var rows []courseRow
	skipped := 0
	for _, record := range records[1:] {
		row := courseRow{
			OwnerEmail: getField(record, headerIndex, "ownerEmail"),
			Input: services.CreateCourseInput{
				Educator:    getField(record, headerIndex, "educator"),
				Title:       getField(record, headerIndex, "title"),
				Category:    getField(record, headerIndex, "category"),
				Price:       getField(record, headerIndex, "price"),
				Description: getField(record, headerIndex, "description"),
			},
		}
		if row.OwnerEmail == "" || row.Input.Title == "" {
			skipped++
			continue
		}
		row.Input.SectionTitles, row.Input.SectionDescriptions = parseSections(getField(record, headerIndex, "sections"))
		if !sectionsComplete(row.Input.SectionTitles, row.Input.SectionDescriptions) {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// parseSections splits "t1::d1|t2::d2". A pair without "::" yields an empty
// description, which sectionsComplete rejects.
func parseSections(s string) (titles, descriptions []string) {
	titles, descriptions = []string{}, []string{}
	if s == "" {
		return titles, descriptions
	}
	for _, pair := range strings.Split(s, "|") {
		title, desc, _ := strings.Cut(pair, "::")
		titles = append(titles, strings.TrimSpace(title))
		descriptions = append(descriptions, strings.TrimSpace(desc))
	}
	return titles, descriptions
}

func sectionsComplete(titles, descriptions []string) bool {
	for i := range titles {
		if titles[i] == "" || descriptions[i] == "" {
			return false
		}
	}
	return true
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
