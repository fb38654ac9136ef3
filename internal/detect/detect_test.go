package detect

import (
	"math"
	"sort"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/skillquiz/internal/skills"
	"github.com/spigell/skillquiz/internal/textnorm"
)

func skill(name string, aliases ...string) skills.Skill {
	normalized := make([]string, 0, len(aliases))
	for _, a := range aliases {
		normalized = append(normalized, textnorm.NormalizeName(a))
	}
	return skills.Skill{
		ID:         uuid.New(),
		Name:       name,
		Normalized: textnorm.NormalizeName(name),
		Aliases:    normalized,
	}
}

func names(detected []DetectedSkill) []string {
	out := make([]string, 0, len(detected))
	for _, d := range detected {
		out = append(out, d.Skill.Name)
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDetectSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		title       string
		description string
		skills      []skills.Skill
		expect      []string
	}{
		{
			name:        "basic detection",
			title:       "Senior React Developer",
			description: "Must know React and TypeScript",
			skills:      []skills.Skill{skill("React", "reactjs"), skill("TypeScript"), skill("Python")},
			expect:      []string{"React", "TypeScript"},
		},
		{
			name:        "nested skill suppressed",
			title:       "",
			description: "Experience with Tailwind CSS required",
			skills:      []skills.Skill{skill("CSS"), skill("Tailwind CSS")},
			expect:      []string{"Tailwind CSS"},
		},
		{
			name:        "nested skill with standalone mention",
			title:       "",
			description: "Experience with CSS and Tailwind CSS",
			skills:      []skills.Skill{skill("CSS"), skill("Tailwind CSS")},
			expect:      []string{"CSS", "Tailwind CSS"},
		},
		{
			name:        "react native hides react",
			title:       "React Native engineer",
			description: "Ship mobile apps with React Native.",
			skills:      []skills.Skill{skill("React"), skill("React Native")},
			expect:      []string{"React Native"},
		},
		{
			name:        "single char does not match inside words",
			title:       "Backend engineer",
			description: "React and Rust experience",
			skills:      []skills.Skill{skill("R")},
			expect:      []string{},
		},
		{
			name:        "single char with word boundary",
			title:       "Data analyst",
			description: "Experience with R and statistics",
			skills:      []skills.Skill{skill("R")},
			expect:      []string{"R"},
		},
		{
			name:        "alias match",
			title:       "Frontend developer",
			description: "We use ReactJS daily",
			skills:      []skills.Skill{skill("React", "reactjs")},
			expect:      []string{"React"},
		},
		{
			name:        "multi char matches as substring",
			title:       "",
			description: "typescript-heavy codebase",
			skills:      []skills.Skill{skill("TypeScript")},
			expect:      []string{"TypeScript"},
		},
		{
			name:        "empty description",
			title:       "Go developer",
			description: "",
			skills:      []skills.Skill{skill("Go"), skill("Python")},
			expect:      []string{"Go"},
		},
		{
			name:        "skill without normalized name never matches",
			title:       "anything",
			description: "anything at all",
			skills:      []skills.Skill{{ID: uuid.New(), Name: "Ghost"}},
			expect:      []string{},
		},
		{
			name:        "shorter skill absent by name is not suppressed",
			title:       "",
			description: "Tailwind and stylesheets",
			skills:      []skills.Skill{skill("Tailwind CSS", "tailwind"), skill("CSS", "stylesheets")},
			expect:      []string{"CSS", "Tailwind CSS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := names(DetectSkills(tt.title, tt.description, tt.skills))
			if !equalStrings(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestDetectSkillsIsStable(t *testing.T) {
	t.Parallel()

	library := []skills.Skill{skill("React", "reactjs"), skill("TypeScript"), skill("Python"), skill("CSS"), skill("Tailwind CSS")}
	first := names(DetectSkills("Senior React Developer", "Must know React, TypeScript and Tailwind CSS", library))

	for i := 0; i < 20; i++ {
		got := names(DetectSkills("Senior React Developer", "Must know React, TypeScript and Tailwind CSS", library))
		if !equalStrings(got, first) {
			t.Fatalf("run %d: expected %v, got %v", i, first, got)
		}
	}
}

func TestDetectSkillsSortedByWeight(t *testing.T) {
	t.Parallel()

	detected := DetectSkills(
		"Senior React Developer",
		"We build with TypeScript.\n\nReact, React, React everywhere",
		[]skills.Skill{skill("React"), skill("TypeScript")},
	)
	if len(detected) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(detected))
	}
	if detected[0].Skill.Name != "React" {
		t.Fatalf("expected React first, got %s", detected[0].Skill.Name)
	}
	if detected[0].Weight < detected[1].Weight {
		t.Fatalf("expected descending weights, got %v then %v", detected[0].Weight, detected[1].Weight)
	}
}

func TestCalculateSkillWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		skill       string
		title       string
		description string
		expect      float64
	}{
		{name: "not mentioned anywhere", skill: "go", title: "Engineer", description: "Python", expect: 1.0},
		{name: "title only", skill: "react", title: "React Developer", description: "", expect: 2.0},
		{name: "title and one mention", skill: "react", title: "React Developer", description: "React daily", expect: 2.2},
		{name: "first paragraph", skill: "go", title: "Engineer", description: "We write go.\n\nOther stuff", expect: 1.7},
		{name: "first sentence", skill: "go", title: "Engineer", description: "Go services. Python tools", expect: 1.7},
		{name: "later paragraph only", skill: "go", title: "Engineer", description: "Intro.\n\nWe write go", expect: 1.2},
		{name: "mention bonus capped", skill: "go", title: "Engineer", description: "Intro. go go go go go go", expect: 1.6},
		{name: "title wins over first paragraph", skill: "go", title: "Go Engineer", description: "go go go go", expect: 2.6},
		{name: "single char counts word matches", skill: "r", title: "Analyst", description: "Intro. R and r, not rust", expect: 1.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CalculateSkillWeight(tt.skill, tt.title, tt.description)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestCalculateSkillWeightBounds(t *testing.T) {
	t.Parallel()

	inputs := []struct{ skill, title, description string }{
		{"go", "", ""},
		{"go", "go go go", "go go go go go go go go go go"},
		{"x", "x", "x x x x x x x"},
		{"", "", ""},
		{"react", "React", "React.\n\nReact"},
	}

	for _, in := range inputs {
		w := CalculateSkillWeight(in.skill, in.title, in.description)
		if w < skills.MinSkillWeight || w > skills.MaxSkillWeight {
			t.Fatalf("weight %v out of bounds for %+v", w, in)
		}
		if matches(in.skill, in.title) && w < 2.0 {
			t.Fatalf("title match must yield at least 2.0, got %v for %+v", w, in)
		}
	}
}

func TestHasTagMatch(t *testing.T) {
	t.Parallel()

	q := skills.ChallengeQuestion{Tags: []skills.Tag{{Name: "Hooks"}, {Name: "State Management"}}}

	if !HasTagMatch(q, "React dev", "Deep knowledge of state management") {
		t.Fatalf("expected tag match on description")
	}
	if !HasTagMatch(q, "React HOOKS expert", "") {
		t.Fatalf("expected case-insensitive tag match on title")
	}
	if HasTagMatch(q, "React dev", "Redux") {
		t.Fatalf("did not expect a tag match")
	}
	if HasTagMatch(skills.ChallengeQuestion{}, "anything", "anything") {
		t.Fatalf("question without tags must not match")
	}
	if HasTagMatch(skills.ChallengeQuestion{Tags: []skills.Tag{{Name: "  "}}}, "anything", "") {
		t.Fatalf("blank tag must not match")
	}
}

func TestCalculateQuestionWeight(t *testing.T) {
	t.Parallel()

	tagged := skills.ChallengeQuestion{Tags: []skills.Tag{{Name: "hooks"}}}

	if w := CalculateQuestionWeight(tagged, "", "uses hooks", DefaultTagMatchWeight, DefaultTagNoMatchWeight); w != 1.5 {
		t.Fatalf("expected match weight, got %v", w)
	}
	if w := CalculateQuestionWeight(tagged, "", "uses classes", DefaultTagMatchWeight, DefaultTagNoMatchWeight); w != 1.0 {
		t.Fatalf("expected no-match weight, got %v", w)
	}
	if w := CalculateQuestionWeight(tagged, "", "uses classes", 2, 0); w != 0 {
		t.Fatalf("expected zero weight to exclude, got %v", w)
	}
}

func TestAutoDetect(t *testing.T) {
	t.Parallel()

	react := skill("React", "reactjs")
	python := skill("Python")

	hooks := skills.ChallengeQuestion{ID: uuid.New(), SkillID: react.ID, Tags: []skills.Tag{{Name: "hooks"}}}
	classes := skills.ChallengeQuestion{ID: uuid.New(), SkillID: react.ID, Tags: []skills.Tag{{Name: "class components"}}}
	pyQuestion := skills.ChallengeQuestion{ID: uuid.New(), SkillID: python.ID}

	result := AutoDetect(
		"Senior React Developer",
		"Hooks everywhere. React React React React",
		[]skills.Skill{react, python},
		map[uuid.UUID][]skills.ChallengeQuestion{
			react.ID:  {hooks, classes},
			python.ID: {pyQuestion},
		},
		1.333, 1.0,
	)

	if len(result.JobSkills) != 1 {
		t.Fatalf("expected 1 job skill, got %d", len(result.JobSkills))
	}

	js := result.JobSkills[0]
	if js.SkillID != react.ID || !js.Required || js.ManuallyAdded {
		t.Fatalf("unexpected job skill: %+v", js)
	}
	if js.Weight != 2.6 {
		t.Fatalf("expected rounded weight 2.6, got %v", js.Weight)
	}

	if len(result.QuestionWeights) != 2 {
		t.Fatalf("expected 2 question weights, got %d", len(result.QuestionWeights))
	}
	if w, _ := result.WeightOf(hooks.ID); w.Weight != 1.33 {
		t.Fatalf("expected rounded tag match weight 1.33, got %v", w.Weight)
	}
	if w, _ := result.WeightOf(classes.ID); w.Weight != 1.0 {
		t.Fatalf("expected no-match weight 1.0, got %v", w.Weight)
	}
	if _, ok := result.WeightOf(pyQuestion.ID); ok {
		t.Fatalf("questions of undetected skills must not be weighted")
	}
}

func TestAutoDetectNothingFound(t *testing.T) {
	t.Parallel()

	result := AutoDetect("Chef", "Cook pasta", []skills.Skill{skill("Go")}, nil, 1.5, 1.0)
	if !result.Empty() || len(result.QuestionWeights) != 0 {
		t.Fatalf("expected empty detection, got %+v", result)
	}
	if result.JobSkills == nil || result.QuestionWeights == nil {
		t.Fatalf("expected non-nil empty lists")
	}
}

func TestDetectorLogs(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	goSkill := skill("Go")
	lib := &skills.Library{
		Skills:    []skills.Skill{goSkill},
		Questions: map[uuid.UUID][]skills.ChallengeQuestion{goSkill.ID: {{ID: uuid.New()}}},
	}

	result := New(zap.New(core), DefaultTagMatchWeight, DefaultTagNoMatchWeight).Detect("Go developer", "", lib)
	if len(result.JobSkills) != 1 {
		t.Fatalf("expected go to be detected")
	}

	if n := observed.FilterMessage("skill detected").Len(); n != 1 {
		t.Fatalf("expected 1 skill log entry, got %d", n)
	}
	summary := observed.FilterMessage("skill detection completed").All()
	if len(summary) != 1 {
		t.Fatalf("expected summary log entry")
	}
	if summary[0].ContextMap()["detected_skills"] != int64(1) {
		t.Fatalf("unexpected summary fields: %v", summary[0].ContextMap())
	}
}

func TestDetectorManualJobSkill(t *testing.T) {
	t.Parallel()

	goSkill := skill("Go")
	tagged := skills.ChallengeQuestion{ID: uuid.New(), Tags: []skills.Tag{{Name: "goroutines"}}}
	plain := skills.ChallengeQuestion{ID: uuid.New()}

	js, weights := New(nil, 2, 0.5).ManualJobSkill("Backend", "goroutines and channels", goSkill, []skills.ChallengeQuestion{tagged, plain})
	if !js.ManuallyAdded || !js.Required || js.Weight != 1.0 {
		t.Fatalf("unexpected manual job skill: %+v", js)
	}
	if len(weights) != 2 || weights[0].Weight != 2 || weights[1].Weight != 0.5 {
		t.Fatalf("unexpected weights: %+v", weights)
	}
}
