// Package geo holds the static oceanographic knowledge base used to answer
// descriptive questions about regions and topics, and to tag profile
// positions with a region.
package geo

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed knowledge.yaml
var knowledgeYAML []byte

type Region struct {
	Id                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	KeyFeatures        []string `yaml:"key_features"`
	Bathymetry         string   `yaml:"bathymetry"`
	MajorCurrents      []string `yaml:"major_currents"`
	EconomicImportance string   `yaml:"economic_importance"`
	LatRange           []float64 `yaml:"lat_range"`
	LonRange           []float64 `yaml:"lon_range"`
}

type Topic struct {
	Id          string            `yaml:"id"`
	Description string            `yaml:"description"`
	Subtopics   map[string]string `yaml:"subtopics"`
	Notes       []string          `yaml:"notes"`
}

type Expert struct {
	regions map[string]Region
	topics  map[string]Topic

	regionOrder []string
	topicOrder  []string
}

func NewExpert() (*Expert, error) {
	raw := struct {
		Regions []Region `yaml:"regions"`
		Topics  []Topic  `yaml:"topics"`
	}{}

	if err := yaml.Unmarshal(knowledgeYAML, &raw); err != nil {
		return nil, fmt.Errorf("error parsing knowledge base: %w", err)
	}

	expert := &Expert{
		regions: make(map[string]Region, len(raw.Regions)),
		topics:  make(map[string]Topic, len(raw.Topics)),
	}
	for _, region := range raw.Regions {
		expert.regions[region.Id] = region
		expert.regionOrder = append(expert.regionOrder, region.Id)
	}
	for _, topic := range raw.Topics {
		expert.topics[topic.Id] = topic
		expert.topicOrder = append(expert.topicOrder, topic.Id)
	}

	return expert, nil
}

func (e *Expert) KnownRegions() []string {
	return append([]string(nil), e.regionOrder...)
}

func (e *Expert) KnownTopics() []string {
	return append([]string(nil), e.topicOrder...)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Info formats the knowledge for a region, optionally narrowed to a topic and
// subtopic. Unknown keys produce a listing of what is available instead of an
// error, since the output goes straight back to the user.
func (e *Expert) Info(region, topic, subTopic string) string {
	regionData, ok := e.regions[region]
	if !ok {
		return fmt.Sprintf("I don't have information about the region '%s'. Available regions: %s", region, strings.Join(e.KnownRegions(), ", "))
	}

	if topic == "" {
		info := []string{
			fmt.Sprintf("**%s**", regionData.Name),
			"\n" + regionData.Description + "\n",
			"**Key Features:**",
		}
		for _, feature := range regionData.KeyFeatures {
			info = append(info, "- "+feature)
		}
		info = append(info,
			"\n**Bathymetry:** "+regionData.Bathymetry,
			"\n**Major Currents:** "+strings.Join(regionData.MajorCurrents, ", "),
			"\n**Economic Importance:** "+regionData.EconomicImportance,
		)
		return strings.Join(info, "\n")
	}

	topicData, ok := e.topics[topic]
	if !ok {
		return fmt.Sprintf("I don't have specific information about '%s' for %s. Available topics: %s", topic, regionData.Name, strings.Join(e.KnownTopics(), ", "))
	}

	response := []string{
		fmt.Sprintf("**%s in %s**", titleCase(topic), regionData.Name),
		"\n" + topicData.Description + "\n",
	}

	if subTopic != "" {
		subTopic = strings.ReplaceAll(subTopic, " ", "_")
		if desc, ok := topicData.Subtopics[subTopic]; ok {
			response = append(response, fmt.Sprintf("**%s:** %s", titleCase(subTopic), desc))
		} else {
			response = append(response, fmt.Sprintf("Available subtopics for %s: %s", topic, strings.Join(subtopicKeys(topicData), ", ")))
		}
	} else if len(topicData.Subtopics) > 0 {
		response = append(response, "**Subtopics:**")
		for _, sub := range subtopicKeys(topicData) {
			response = append(response, fmt.Sprintf("- **%s:** %s", titleCase(sub), topicData.Subtopics[sub]))
		}
	}

	if topic == "monsoon" && (region == "arabian_sea" || region == "bay_of_bengal") {
		response = append(response,
			fmt.Sprintf("\nIn the %s, monsoons significantly influence:", regionData.Name),
			"- Current patterns and directions",
			"- Sea surface temperatures",
			"- Fishing seasons and marine productivity",
			"- Coastal weather and precipitation",
		)
	}

	return strings.Join(response, "\n")
}

func subtopicKeys(topic Topic) []string {
	keys := make([]string, 0, len(topic.Subtopics))
	for key := range topic.Subtopics {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (e *Expert) ListRegions() string {
	lines := []string{"**Available Ocean Regions:**\n"}
	for _, id := range e.regionOrder {
		region := e.regions[id]
		lines = append(lines, fmt.Sprintf("- **%s** - %s", region.Name, region.Description))
	}
	return strings.Join(lines, "\n")
}

func (e *Expert) ListTopics(region string) string {
	var lines []string
	if regionData, ok := e.regions[region]; ok {
		lines = append(lines, fmt.Sprintf("**Available topics for %s:**\n", regionData.Name))
	} else {
		lines = append(lines, "**Available Topics:**\n")
	}

	for _, id := range e.topicOrder {
		lines = append(lines, fmt.Sprintf("- **%s** - %s", titleCase(id), e.topics[id].Description))
	}
	lines = append(lines, "\nYou can combine any topic with a region for specific information!")
	return strings.Join(lines, "\n")
}

func (e *Expert) AnswerGeneralQuestion(topic string) string {
	topicData, ok := e.topics[topic]
	if !ok {
		return fmt.Sprintf("I don't have information about '%s'. Available topics: %s", topic, strings.Join(e.KnownTopics(), ", "))
	}

	response := []string{
		fmt.Sprintf("**%s - General Information**", titleCase(topic)),
		"\n" + topicData.Description + "\n",
	}

	if len(topicData.Subtopics) > 0 {
		response = append(response, "**Key Aspects:**")
		for _, sub := range subtopicKeys(topicData) {
			response = append(response, fmt.Sprintf("- **%s:** %s", titleCase(sub), topicData.Subtopics[sub]))
		}
	}

	if len(topicData.Notes) > 0 {
		response = append(response, "\n**Why it matters:**")
		for _, note := range topicData.Notes {
			response = append(response, "- "+note)
		}
	}

	return strings.Join(response, "\n")
}

// RegionForCoordinates returns the id of the first region whose bounding box
// contains the point, or "" if none does. Negative longitudes are normalized
// to 0-360 so Pacific boxes that cross the antimeridian still match.
func (e *Expert) RegionForCoordinates(latitude, longitude float64) string {
	if longitude < 0 {
		longitude += 360
	}

	for _, id := range e.regionOrder {
		region := e.regions[id]
		if len(region.LatRange) != 2 || len(region.LonRange) != 2 {
			continue
		}
		if latitude >= region.LatRange[0] && latitude <= region.LatRange[1] &&
			longitude >= region.LonRange[0] && longitude <= region.LonRange[1] {
			return id
		}
	}
	return ""
}
