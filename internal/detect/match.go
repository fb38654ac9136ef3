// Package detect finds the skills a job posting asks for and derives the
// weights used later for quiz assembly.
package detect

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spigell/skillquiz/internal/skills"
	"github.com/spigell/skillquiz/internal/textnorm"
)

// DetectedSkill is a skill found in a job posting with its relevance weight.
type DetectedSkill struct {
	Skill  skills.Skill
	Weight float64
	// Term is the normalized name or alias that matched.
	Term string
}

type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

type candidate struct {
	skill   skills.Skill
	name    string
	aliases []string
}

// DetectSkills returns every library skill present in the job title or
// description, sorted by weight descending.
//
// Longer names are tried first. A shorter skill whose name is part of a
// matched longer name (css in tailwind css) is dropped when all of its
// occurrences sit inside occurrences of the longer one.
func DetectSkills(title, description string, available []skills.Skill) []DetectedSkill {
	text := textnorm.Normalize(title + " " + description)

	candidates := make([]candidate, 0, len(available))
	for _, s := range available {
		name := textnorm.Normalize(s.Normalized)
		if name == "" {
			continue
		}
		aliases := make([]string, 0, len(s.Aliases))
		for _, a := range s.Aliases {
			if a = textnorm.Normalize(a); a != "" {
				aliases = append(aliases, a)
			}
		}
		candidates = append(candidates, candidate{skill: s, name: name, aliases: aliases})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(candidates[i].name), utf8.RuneCountInString(candidates[j].name)
		if li != lj {
			return li > lj
		}
		return candidates[i].name < candidates[j].name
	})

	matched := make(map[int]bool, len(candidates))
	excluded := make(map[int]bool)
	var detected []DetectedSkill

	for i, c := range candidates {
		if matched[i] || excluded[i] {
			continue
		}

		term := matchTerm(c, text)
		if term == "" {
			continue
		}
		matched[i] = true

		longer := findSpans(term, text)
		for j, other := range candidates {
			if j == i || matched[j] || excluded[j] {
				continue
			}
			if utf8.RuneCountInString(other.name) >= utf8.RuneCountInString(c.name) {
				continue
			}
			if !strings.Contains(c.name, other.name) {
				continue
			}
			if coveredBy(findSpans(other.name, text), longer) {
				excluded[j] = true
			}
		}

		detected = append(detected, DetectedSkill{
			Skill:  c.skill,
			Weight: CalculateSkillWeight(term, title, description),
			Term:   term,
		})
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Weight > detected[j].Weight
	})

	return detected
}

// matchTerm returns the skill name or the first alias found in text, or "".
func matchTerm(c candidate, text string) string {
	if matches(c.name, text) {
		return c.name
	}
	for _, a := range c.aliases {
		if matches(a, text) {
			return a
		}
	}
	return ""
}

// coveredBy reports whether every span in inner overlaps some span in outer.
// A term that does not occur at all is not covered.
func coveredBy(inner, outer []span) bool {
	if len(inner) == 0 {
		return false
	}
	for _, in := range inner {
		hit := false
		for _, out := range outer {
			if in.overlaps(out) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// matches applies the matching rule: single-character terms need word
// boundaries, anything longer is a plain substring test.
func matches(term, text string) bool {
	if term == "" {
		return false
	}
	if isSingleChar(term) {
		return boundaryPattern(term).MatchString(text)
	}
	return strings.Contains(text, term)
}

func findSpans(term, text string) []span {
	if term == "" {
		return nil
	}

	if isSingleChar(term) {
		locs := boundaryPattern(term).FindAllStringIndex(text, -1)
		spans := make([]span, 0, len(locs))
		for _, loc := range locs {
			spans = append(spans, span{start: loc[0], end: loc[1]})
		}
		return spans
	}

	var spans []span
	for offset := 0; offset <= len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			break
		}
		start := offset + idx
		spans = append(spans, span{start: start, end: start + len(term)})
		offset = start + len(term)
	}
	return spans
}

func countMentions(term, text string) int {
	if term == "" {
		return 0
	}
	if isSingleChar(term) {
		return len(boundaryPattern(term).FindAllStringIndex(text, -1))
	}
	return strings.Count(text, term)
}

func isSingleChar(term string) bool {
	return utf8.RuneCountInString(term) == 1
}

func boundaryPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
}
