package main

import (
	"encoding/json"
	"log"
	"os"

	"gallery/internal/database"
)

// Repairs legacy image rows whose tags column holds double-encoded JSON
// (a JSON string containing a JSON array) left behind by old clients.
// Rows that cannot be repaired are reset to an empty tag list.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	rows, err := db.Raw("SELECT id, tags FROM images").Rows()
	if err != nil {
		log.Fatalf("fetch images failed: %v", err)
	}
	defer rows.Close()

	var total, fixed int
	for rows.Next() {
		var id int64
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			log.Fatalf("scan failed: %v", err)
		}
		total++

		var tags []string
		if json.Unmarshal(raw, &tags) == nil {
			continue // already well-formed
		}

		repaired := []string{}
		var inner string
		if json.Unmarshal(raw, &inner) == nil {
			var innerTags []string
			if json.Unmarshal([]byte(inner), &innerTags) == nil && innerTags != nil {
				repaired = innerTags
			}
		}

		encoded, _ := json.Marshal(repaired)
		if err := db.Exec("UPDATE images SET tags = ? WHERE id = ?", string(encoded), id).Error; err != nil {
			log.Fatalf("update image %d failed: %v", id, err)
		}
		log.Printf("fixed image %d: %s -> %s", id, raw, encoded)
		fixed++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("iterate images failed: %v", err)
	}

	log.Printf("tag fix completed: scanned=%d fixed=%d", total, fixed)
}
