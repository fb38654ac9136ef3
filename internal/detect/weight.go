package detect

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spigell/skillquiz/internal/skills"
	"github.com/spigell/skillquiz/internal/textnorm"
)

const (
	baseSkillWeight     = 1.0
	titleBonus          = 1.0
	firstParagraphBonus = 0.5
	mentionBonus        = 0.2
	maxMentionBonus     = 0.6

	// DefaultTagMatchWeight and DefaultTagNoMatchWeight are the team defaults
	// for questions whose tags do or do not appear in the job text.
	DefaultTagMatchWeight   = 1.5
	DefaultTagNoMatchWeight = 1.0
)

// CalculateSkillWeight scores a skill by where and how often it is mentioned.
// A title mention adds 1.0; otherwise a mention in the first paragraph of the
// description adds 0.5. Every description mention adds 0.2, up to 0.6.
// The result is clamped to [skills.MinSkillWeight, skills.MaxSkillWeight].
func CalculateSkillWeight(normalizedSkill, title, description string) float64 {
	term := textnorm.Normalize(normalizedSkill)
	desc := textnorm.Normalize(description)

	weight := baseSkillWeight
	switch {
	case matches(term, textnorm.Normalize(title)):
		weight += titleBonus
	case matches(term, firstParagraph(desc)):
		weight += firstParagraphBonus
	}

	weight += math.Min(mentionBonus*float64(countMentions(term, desc)), maxMentionBonus)

	return clamp(weight, skills.MinSkillWeight, skills.MaxSkillWeight)
}

// firstParagraph returns the description up to the first blank line or
// sentence break, whichever comes first.
func firstParagraph(description string) string {
	end := len(description)
	for _, sep := range []string{"\n\n", ". "} {
		if idx := strings.Index(description, sep); idx >= 0 && idx < end {
			end = idx
		}
	}
	return description[:end]
}

// HasTagMatch reports whether any tag of the question appears in the job text.
func HasTagMatch(q skills.ChallengeQuestion, title, description string) bool {
	text := textnorm.Normalize(title + " " + description)
	for _, tag := range q.Tags {
		name := textnorm.Normalize(tag.Name)
		if name != "" && strings.Contains(text, name) {
			return true
		}
	}
	return false
}

// CalculateQuestionWeight returns tagMatchWeight when one of the question's
// tags appears in the job text and tagNoMatchWeight otherwise. Either may be 0
// to exclude the corresponding questions.
func CalculateQuestionWeight(q skills.ChallengeQuestion, title, description string, tagMatchWeight, tagNoMatchWeight float64) float64 {
	if HasTagMatch(q, title, description) {
		return tagMatchWeight
	}
	return tagNoMatchWeight
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
