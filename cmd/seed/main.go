// Seeds the profile database from a directory of ARGO CSV files, optionally
// computing an embedding per profile for semantic matching.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"floatchat-backend/cmd"
	"floatchat-backend/internal/config"
	"floatchat-backend/internal/database"
	"floatchat-backend/internal/geo"
	"floatchat-backend/internal/ingest"
	"floatchat-backend/internal/match"
	"floatchat-backend/internal/utils"

	"github.com/schollz/progressbar/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const insertBatchSize = 500

func main() {
	var dataDir string
	var withEmbeddings bool

	flag.StringVar(&dataDir, "dir", "", "directory containing profile CSV files")
	flag.BoolVar(&withEmbeddings, "embed", false, "compute an embedding per profile (requires OPENAI_API_KEY)")
	cmd.LoadEnvFile()

	if dataDir == "" {
		log.Fatalf("missing required -dir flag")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if withEmbeddings && cfg.OpenAIAPIKey == "" {
		log.Fatalf("-embed requires OPENAI_API_KEY to be set")
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	expert, err := geo.NewExpert()
	if err != nil {
		log.Fatalf("failed to load geographic knowledge: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		log.Fatalf("error listing csv files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no csv files found in %s", dataDir)
	}

	ctx := context.Background()
	total := 0

	bar := progressbar.Default(int64(len(files)), "loading profiles")
	for _, file := range files {
		count, err := loadFile(ctx, db, expert, file)
		if err != nil {
			log.Fatalf("error loading %s: %v", file, err)
		}
		total += count
		bar.Add(1) //nolint:errcheck
	}

	log.Printf("loaded %d profiles from %d files", total, len(files))

	if withEmbeddings {
		if err := embedProfiles(ctx, db, cfg, cfg.WorkerConcurrency); err != nil {
			log.Fatalf("error computing embeddings: %v", err)
		}
	}
}

func loadFile(ctx context.Context, db *gorm.DB, expert *geo.Expert, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	profiles, err := ingest.ParseProfilesCSV(file)
	if err != nil {
		return 0, err
	}

	for i := range profiles {
		profiles[i].Region = expert.RegionForCoordinates(profiles[i].Latitude, profiles[i].Longitude)
	}

	if len(profiles) == 0 {
		return 0, nil
	}

	if err := db.WithContext(ctx).CreateInBatches(profiles, insertBatchSize).Error; err != nil {
		return 0, err
	}

	return len(profiles), nil
}

// profileText is the description fed to the embedding model. Region ids are
// spelled out so the text matches how users phrase their queries.
func profileText(profile database.Profile) string {
	region := strings.ReplaceAll(profile.Region, "_", " ")
	if region == "" {
		region = "open ocean"
	}
	return fmt.Sprintf(
		"ARGO float %s measured temperature %.2f°C and salinity %.2f PSU at %.1fm depth in the %s on %s",
		profile.FloatId, profile.Temperature, profile.Salinity, profile.Depth,
		region, profile.MeasuredAt.Format("2006-01-02"),
	)
}

func embedProfiles(ctx context.Context, db *gorm.DB, cfg *config.Config, concurrency int) error {
	var profiles []database.Profile
	if err := db.WithContext(ctx).
		Joins("LEFT JOIN profile_embeddings ON profile_embeddings.prof_id = profiles.prof_id").
		Where("profile_embeddings.prof_id IS NULL").
		Find(&profiles).Error; err != nil {
		return fmt.Errorf("error finding profiles without embeddings: %w", err)
	}

	if len(profiles) == 0 {
		log.Println("all profiles already have embeddings")
		return nil
	}

	embedder := match.NewOpenAIEmbedder(cfg.EmbeddingModel)

	queue := make(chan database.Profile, len(profiles))
	for _, profile := range profiles {
		queue <- profile
	}
	close(queue)

	completed := make(chan utils.CompletedTask[database.ProfileEmbedding], len(profiles))
	utils.RunInPool(func(profile database.Profile) (database.ProfileEmbedding, error) {
		vector, err := embedder.Embed(ctx, profileText(profile))
		if err != nil {
			return database.ProfileEmbedding{}, err
		}
		data, err := json.Marshal(vector)
		if err != nil {
			return database.ProfileEmbedding{}, err
		}
		return database.ProfileEmbedding{ProfId: profile.ProfId, Vector: datatypes.JSON(data)}, nil
	}, queue, completed, concurrency)

	bar := progressbar.Default(int64(len(profiles)), "computing embeddings")

	var failures int
	for task := range completed {
		bar.Add(1) //nolint:errcheck
		if task.Error != nil {
			failures++
			log.Printf("embedding failed: %v", task.Error)
			continue
		}
		if err := db.WithContext(ctx).Create(&task.Result).Error; err != nil {
			return fmt.Errorf("error storing embedding: %w", err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d embeddings failed", failures, len(profiles))
	}

	log.Printf("computed %d embeddings", len(profiles))
	return nil
}
