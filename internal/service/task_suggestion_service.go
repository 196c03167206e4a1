package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

const suggestionCachePrefix = "suggestions:"

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SuggestionRequest is the context handed to the adapter.
type SuggestionRequest struct {
	Profile          models.StudentProfile
	AttendanceAlerts []string
	TargetPercent    float64
	DayName          string
	ClassCount       int
	SlotCount        int
}

// TaskSuggestionService turns student context into prioritised tasks.
type TaskSuggestionService struct {
	generator TextGenerator
	enabled   bool
	cache     *CacheService
	cacheTTL  time.Duration
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewTaskSuggestionService wires the adapter. enabled is false when no
// generator credential is configured; that selects the unconfigured fallback.
func NewTaskSuggestionService(generator TextGenerator, enabled bool, cache *CacheService, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *TaskSuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskSuggestionService{
		generator: generator,
		enabled:   enabled && generator != nil,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// Suggest never fails: generator problems degrade to static suggestions.
func (s *TaskSuggestionService) Suggest(ctx context.Context, req SuggestionRequest) []models.SuggestedTask {
	if req.SlotCount <= 0 {
		return []models.SuggestedTask{}
	}
	prompt := BuildSuggestionPrompt(req)
	tasks := ParseSuggestedTasks(s.generate(ctx, prompt))
	if len(tasks) > req.SlotCount {
		tasks = tasks[:req.SlotCount]
	}
	return tasks
}

func (s *TaskSuggestionService) generate(ctx context.Context, prompt string) string {
	if !s.enabled {
		s.metrics.RecordSuggestionFallback(FallbackUnconfigured)
		s.logger.Debug("text generator not configured, using static suggestions")
		return unconfiguredFallback(prompt)
	}

	key := suggestionCachePrefix + promptHash(prompt)
	text, hit, err := Remember(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (string, error) {
		text, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		return strings.NewReplacer("*", "", "#", "").Replace(text), nil
	})
	if err != nil {
		s.metrics.RecordSuggestionFallback(FallbackFailed)
		s.logger.Warn("text generation failed, using static suggestions", zap.Error(err))
		return failureFallback(prompt)
	}
	if hit {
		s.logger.Debug("suggestions served from cache", zap.String("key", key))
	}
	return text
}

// BuildSuggestionPrompt renders the advisor prompt.
func BuildSuggestionPrompt(req SuggestionRequest) string {
	target := req.TargetPercent
	if target <= 0 {
		target = defaultTargetPercent
	}
	attendanceContext := ""
	if len(req.AttendanceAlerts) > 0 {
		attendanceContext = fmt.Sprintf(" URGENT: Your attendance is below %g%% in: %s. You need to attend remaining classes and catch up on missed topics.",
			target, strings.Join(req.AttendanceAlerts, ", "))
	}
	return fmt.Sprintf("You are an AI academic advisor. Student profile: Goal='%s', Weak subjects='%s', Interests='%s'.%s "+
		"It's %s and they have %d classes today. "+
		"Suggest 3 specific, actionable tasks for free periods that align with their goals and address attendance issues. "+
		"Format as numbered list: 1. Task description. 2. Task description. 3. Task description.",
		req.Profile.CareerGoal, req.Profile.WeakSubjects, req.Profile.Interests, attendanceContext, req.DayName, req.ClassCount)
}

// ParseSuggestedTasks keeps lines that start with a digit and are longer than
// two characters, stripping a "N. " or "N) " numbering prefix. Indented lines
// do not qualify.
func ParseSuggestedTasks(text string) []models.SuggestedTask {
	tasks := []models.SuggestedTask{}
	for _, line := range strings.Split(text, "\n") {
		raw := strings.TrimRight(line, "\r")
		if len(raw) <= 2 || !unicode.IsDigit(rune(raw[0])) {
			continue
		}
		title := stripNumbering(raw)
		if title == "" {
			continue
		}
		priority := models.PriorityMedium
		if strings.Contains(strings.ToLower(raw), "attendance") {
			priority = models.PriorityHigh
		}
		tasks = append(tasks, models.SuggestedTask{Title: title, Priority: priority})
	}
	return tasks
}

func stripNumbering(raw string) string {
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i < len(raw) && (raw[i] == '.' || raw[i] == ')') {
		rest := raw[i+1:]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			return strings.TrimSpace(rest)
		}
	}
	return strings.TrimSpace(raw)
}

func unconfiguredFallback(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "weak") && strings.Contains(lower, "subjects"):
		return "1. Focus on reviewing your weakest subjects during free periods.\n2. Practice problem-solving in challenging topics."
	case strings.Contains(lower, "career"):
		return "1. Research industry trends related to your career goal.\n2. Build relevant skills through online courses."
	default:
		return "1. Review today's class notes and prepare for upcoming sessions.\n2. Work on assignments and projects."
	}
}

func failureFallback(prompt string) string {
	if strings.Contains(strings.ToLower(prompt), "attendance") {
		return "1. Attend all remaining classes to improve your percentage.\n2. Meet with your teacher to discuss missed topics."
	}
	return "1. Use this free time for focused study.\n2. Prepare for upcoming assessments."
}

func promptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
