package agents

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"floatchat-backend/internal/database"
	"floatchat-backend/internal/geo"
	"floatchat-backend/internal/match"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxProfilesPerQuery = 1000

// DataAgent answers measurement questions by querying stored ARGO profiles.
// When a matcher is configured it narrows the query to semantically relevant
// profiles first.
type DataAgent struct {
	db      *gorm.DB
	matcher match.Matcher
	expert  *geo.Expert

	regionPattern *regexp.Regexp
}

func NewDataAgent(db *gorm.DB, matcher match.Matcher, expert *geo.Expert) *DataAgent {
	return &DataAgent{
		db:            db,
		matcher:       matcher,
		expert:        expert,
		regionPattern: buildRegionPattern(expert.KnownRegions()),
	}
}

func buildRegionPattern(regions []string) *regexp.Regexp {
	parts := make([]string, 0, 2*len(regions))
	for _, region := range regions {
		parts = append(parts, regexp.QuoteMeta(strings.ReplaceAll(region, "_", " ")))
	}
	for _, region := range regions {
		parts = append(parts, regexp.QuoteMeta(region))
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
}

func (a *DataAgent) Name() string {
	return DataAgentName
}

// ExtractRegion returns the normalized region id mentioned in the task, or
// "" when none is.
func (a *DataAgent) ExtractRegion(task string) string {
	m := a.regionPattern.FindString(task)
	if m == "" {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(m), " ", "_")
}

func (a *DataAgent) relevantProfileIds(ctx context.Context, task string) []uuid.UUID {
	if a.matcher == nil {
		return nil
	}

	matches, err := a.matcher.MatchProfiles(ctx, task, match.DefaultThreshold, match.DefaultCount)
	if err != nil {
		slog.Error("semantic profile search failed, falling back to full query", "error", err)
		return nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		id, err := uuid.Parse(m.ProfId)
		if err != nil {
			slog.Warn("match service returned invalid profile id", "prof_id", m.ProfId)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (a *DataAgent) queryProfiles(ctx context.Context, task string) ([]database.Profile, string, error) {
	relevantIds := a.relevantProfileIds(ctx, task)
	region := a.ExtractRegion(task)

	query := a.db.WithContext(ctx).Model(&database.Profile{})
	if len(relevantIds) > 0 {
		query = query.Where("prof_id IN ?", relevantIds)
	}
	if region != "" {
		query = query.Where("region = ?", region)
	}

	var profiles []database.Profile
	if err := query.Order("measured_at DESC").Limit(maxProfilesPerQuery).Find(&profiles).Error; err != nil {
		return nil, region, fmt.Errorf("error querying profiles: %w", err)
	}

	return profiles, region, nil
}

func (a *DataAgent) Execute(ctx context.Context, task string, state *State) (string, error) {
	slog.Info("data agent received task", "task", task)

	profiles, region, err := a.queryProfiles(ctx, task)
	if err != nil {
		return "", err
	}

	if state.ReturnProfiles {
		state.Profiles = profiles
		return "Data collected successfully.", nil
	}

	return generateInsights(profiles, region), nil
}

type statSummary struct {
	mean, min, max float64
}

func summarize(profiles []database.Profile, value func(*database.Profile) float64) statSummary {
	s := statSummary{min: value(&profiles[0]), max: value(&profiles[0])}
	var sum float64
	for i := range profiles {
		v := value(&profiles[i])
		sum += v
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.mean = sum / float64(len(profiles))
	return s
}

func generateInsights(profiles []database.Profile, region string) string {
	if len(profiles) == 0 {
		return "I couldn't find any data matching your query."
	}

	regionInfo := "**across all regions**"
	if region != "" {
		regionInfo = fmt.Sprintf("from the **%s**", titleCase(region))
	}

	temp := summarize(profiles, func(p *database.Profile) float64 { return p.Temperature })
	salinity := summarize(profiles, func(p *database.Profile) float64 { return p.Salinity })

	lines := []string{
		fmt.Sprintf("Found %d data points %s matching your criteria.\n", len(profiles), regionInfo),
		fmt.Sprintf("**Temperature Insights:**\n- Average: %.2f°C, Range: %.2f°C to %.2f°C", temp.mean, temp.min, temp.max),
		fmt.Sprintf("**Salinity Insights:**\n- Average: %.2f PSU, Range: %.2f PSU to %.2f PSU", salinity.mean, salinity.min, salinity.max),
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
