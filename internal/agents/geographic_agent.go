package agents

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"floatchat-backend/internal/geo"
)

var subTopicKeywords = []string{
	"southwest", "northeast", "pre-monsoon", "post-monsoon",
	"pre_monsoon", "post_monsoon",
}

// GeographicAgent extracts region/topic entities from natural language and
// routes them to the knowledge base.
type GeographicAgent struct {
	expert *geo.Expert

	regionPattern   *regexp.Regexp
	topicPattern    *regexp.Regexp
	subTopicPattern *regexp.Regexp
}

func NewGeographicAgent(expert *geo.Expert) *GeographicAgent {
	topics := expert.KnownTopics()
	escapedTopics := make([]string, len(topics))
	for i, topic := range topics {
		escapedTopics[i] = regexp.QuoteMeta(topic)
	}

	escapedSubTopics := make([]string, len(subTopicKeywords))
	for i, keyword := range subTopicKeywords {
		escapedSubTopics[i] = regexp.QuoteMeta(keyword)
	}

	return &GeographicAgent{
		expert:          expert,
		regionPattern:   buildRegionPattern(expert.KnownRegions()),
		topicPattern:    regexp.MustCompile(`(?i)\b(` + strings.Join(escapedTopics, "|") + `)\b`),
		subTopicPattern: regexp.MustCompile(`(?i)\b(` + strings.Join(escapedSubTopics, "|") + `)\b`),
	}
}

func (a *GeographicAgent) Name() string {
	return GeographicAgentName
}

func normalizeEntity(entity string) string {
	entity = strings.ToLower(entity)
	entity = strings.ReplaceAll(entity, "-", "_")
	return strings.ReplaceAll(entity, " ", "_")
}

func (a *GeographicAgent) Execute(ctx context.Context, task string, state *State) (string, error) {
	slog.Info("geographic agent received task", "task", task)

	var region, topic, subTopic string
	if m := a.regionPattern.FindString(task); m != "" {
		region = normalizeEntity(m)
	}
	if m := a.topicPattern.FindString(task); m != "" {
		topic = strings.ToLower(m)
	}
	if m := a.subTopicPattern.FindString(task); m != "" {
		subTopic = normalizeEntity(m)
	}

	switch {
	case region != "" && topic != "":
		return a.expert.Info(region, topic, subTopic), nil
	case region != "":
		return a.expert.ListTopics(region), nil
	case topic != "":
		return a.expert.AnswerGeneralQuestion(topic), nil
	default:
		return "I can provide information about various oceanographic regions and topics. " + a.expert.ListRegions(), nil
	}
}
