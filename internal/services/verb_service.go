package services

import (
	"context"
	"math/rand"
	"time"

	"polingo/internal/errors"
	"polingo/internal/llm"
	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

// questionOptionCount is the number of choices in a conjugation question.
const questionOptionCount = 4

// VerbService handles verb vocabulary and conjugation practice
type VerbService interface {
	// Add resolves a verb through the language model and stores it with
	// its present-tense conjugations.
	Add(ctx context.Context, req models.VerbAddRequest) (*models.VerbAddResponse, error)
	// AddToSession puts an already stored verb into the practice pool.
	AddToSession(ctx context.Context, verbID int64) error
	SessionState(ctx context.Context) (*models.VerbSessionState, error)
	// NextQuestion picks a random session verb and pronoun and builds a
	// multiple-choice question around the conjugated form.
	NextQuestion(ctx context.Context) (*models.ConjugationQuestion, error)
	Validate(ctx context.Context, req models.ConjugationValidationRequest) (*models.ConjugationValidationResponse, error)
	Stats(ctx context.Context) (*models.VerbStats, error)
	SetEnabled(ctx context.Context, verbID int64, enabled bool) error
}

type verbService struct {
	verbs    repository.VerbRepository
	sessions repository.SessionRepository
	llm      llm.Provider
	now      func() time.Time
	rand     *rand.Rand
}

// NewVerbService creates a new VerbService. Adding verbs requires a
// language model provider; practice on stored verbs works without one.
func NewVerbService(verbs repository.VerbRepository, sessions repository.SessionRepository, provider llm.Provider) VerbService {
	return &verbService{
		verbs:    verbs,
		sessions: sessions,
		llm:      provider,
		now:      time.Now,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *verbService) Add(ctx context.Context, req models.VerbAddRequest) (*models.VerbAddResponse, error) {
	log := logger.FromContext(ctx)

	text := normalize(req.Text)
	if text == "" {
		return nil, errors.NewValidationError("text", "must not be empty")
	}
	if s.llm == nil {
		return nil, errors.NewBadRequestError("adding verbs requires a configured language model")
	}

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// A verb already stored under this exact infinitive skips the model.
	if existing, err := s.verbs.GetByInfinitive(ctx, text); err != nil {
		log.Error("failed to look up verb: %v", err)
		return nil, errors.NewInternalError(err)
	} else if existing != nil {
		return s.addExisting(ctx, session.ID, existing)
	}

	gen, err := s.llm.GenerateVerb(ctx, text, req.SourceLanguage)
	if err != nil {
		log.Error("failed to generate verb: %v", err)
		return nil, err
	}

	infinitive := normalize(gen.Infinitive)
	if existing, err := s.verbs.GetByInfinitive(ctx, infinitive); err != nil {
		log.Error("failed to re-check generated verb: %v", err)
		return nil, errors.NewInternalError(err)
	} else if existing != nil {
		return s.addExisting(ctx, session.ID, existing)
	}

	verb := models.Verb{
		Infinitive: infinitive,
		English:    gen.English,
		Ukrainian:  gen.Ukrainian,
		Enabled:    true,
	}
	conjugations := make([]models.ConjugationPair, 0, len(models.Pronouns))
	for _, p := range models.Pronouns {
		conjugations = append(conjugations, models.ConjugationPair{
			Pronoun:        p,
			ConjugatedForm: gen.Conjugations[string(p)],
		})
	}

	id, err := s.verbs.Insert(ctx, verb, conjugations)
	if err != nil {
		log.Error("failed to insert verb: %v", err)
		return nil, errors.NewInternalError(err)
	}
	verb.ID = id

	if err := s.sessions.AddVerb(ctx, session.ID, id); err != nil {
		log.Error("failed to add verb to session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("created verb: id=%d, infinitive=%q", id, verb.Infinitive)
	return &models.VerbAddResponse{
		Success: true,
		Verb: &models.VerbWithConjugations{
			ID:           verb.ID,
			Infinitive:   verb.Infinitive,
			English:      verb.English,
			Ukrainian:    verb.Ukrainian,
			Conjugations: conjugations,
			Enabled:      verb.Enabled,
		},
		Message: "verb added",
	}, nil
}

func (s *verbService) addExisting(ctx context.Context, sessionID int64, verb *models.Verb) (*models.VerbAddResponse, error) {
	log := logger.FromContext(ctx)

	ids, err := s.sessions.VerbIDs(ctx, sessionID)
	if err != nil {
		log.Error("failed to load session verbs: %v", err)
		return nil, errors.NewInternalError(err)
	}
	for _, id := range ids {
		if id == verb.ID {
			full, err := s.withConjugations(ctx, verb)
			if err != nil {
				return nil, err
			}
			return &models.VerbAddResponse{
				Verb:      full,
				Message:   "verb already in your practice list",
				Duplicate: true,
			}, nil
		}
	}

	if err := s.sessions.AddVerb(ctx, sessionID, verb.ID); err != nil {
		log.Error("failed to add verb to session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	full, err := s.withConjugations(ctx, verb)
	if err != nil {
		return nil, err
	}
	return &models.VerbAddResponse{
		Success: true,
		Verb:    full,
		Message: "verb added",
	}, nil
}

func (s *verbService) withConjugations(ctx context.Context, verb *models.Verb) (*models.VerbWithConjugations, error) {
	log := logger.FromContext(ctx)

	conjs, err := s.verbs.Conjugations(ctx, verb.ID)
	if err != nil {
		log.Error("failed to load conjugations: %v", err)
		return nil, errors.NewInternalError(err)
	}
	pairs := make([]models.ConjugationPair, 0, len(conjs))
	for _, c := range conjs {
		pairs = append(pairs, models.ConjugationPair{Pronoun: c.Pronoun, ConjugatedForm: c.ConjugatedForm})
	}

	correct, total, err := s.verbs.VerbCounts(ctx, verb.ID)
	if err != nil {
		log.Error("failed to load verb counts: %v", err)
		return nil, errors.NewInternalError(err)
	}

	full := &models.VerbWithConjugations{
		ID:              verb.ID,
		Infinitive:      verb.Infinitive,
		English:         verb.English,
		Ukrainian:       verb.Ukrainian,
		Conjugations:    pairs,
		TotalAttempts:   total,
		CorrectAttempts: correct,
		Enabled:         verb.Enabled,
	}
	if total > 0 {
		full.ErrorRate = round1(float64(total-correct) / float64(total) * 100)
	}
	return full, nil
}

func (s *verbService) AddToSession(ctx context.Context, verbID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("adding verb to session: verb_id=%d", verbID)

	verb, err := s.verbs.Get(ctx, verbID)
	if err != nil {
		log.Error("failed to get verb: %v", err)
		return errors.NewInternalError(err)
	}
	if verb == nil {
		return errors.NewNotFoundError("verb", verbID)
	}

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return errors.NewInternalError(err)
	}

	if err := s.sessions.AddVerb(ctx, session.ID, verbID); err != nil {
		log.Error("failed to add verb to session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *verbService) SessionState(ctx context.Context) (*models.VerbSessionState, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ids, err := s.sessions.VerbIDs(ctx, session.ID)
	if err != nil {
		log.Error("failed to load session verbs: %v", err)
		return nil, errors.NewInternalError(err)
	}

	state := &models.VerbSessionState{Verbs: make([]models.VerbWithConjugations, 0, len(ids))}
	for _, id := range ids {
		verb, err := s.verbs.Get(ctx, id)
		if err != nil {
			log.Error("failed to get verb %d: %v", id, err)
			return nil, errors.NewInternalError(err)
		}
		if verb == nil {
			continue
		}
		full, err := s.withConjugations(ctx, verb)
		if err != nil {
			return nil, err
		}
		state.Verbs = append(state.Verbs, *full)
	}
	return state, nil
}

func (s *verbService) NextQuestion(ctx context.Context) (*models.ConjugationQuestion, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.GetOrCreate(ctx)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	ids, err := s.sessions.VerbIDs(ctx, session.ID)
	if err != nil {
		log.Error("failed to load session verbs: %v", err)
		return nil, errors.NewInternalError(err)
	}

	candidates := make([]*models.Verb, 0, len(ids))
	for _, id := range ids {
		verb, err := s.verbs.Get(ctx, id)
		if err != nil {
			log.Error("failed to get verb %d: %v", id, err)
			return nil, errors.NewInternalError(err)
		}
		if verb != nil && verb.Enabled {
			candidates = append(candidates, verb)
		}
	}
	if len(candidates) == 0 {
		return nil, errors.NewNotFoundError("verb", "none available for practice")
	}

	verb := candidates[s.rand.Intn(len(candidates))]
	pronoun := models.Pronouns[s.rand.Intn(len(models.Pronouns))]

	conjs, err := s.verbs.Conjugations(ctx, verb.ID)
	if err != nil {
		log.Error("failed to load conjugations: %v", err)
		return nil, errors.NewInternalError(err)
	}

	var correct string
	wrong := make([]string, 0, len(conjs))
	for _, c := range conjs {
		if c.Pronoun == pronoun {
			correct = c.ConjugatedForm
		} else {
			wrong = append(wrong, c.ConjugatedForm)
		}
	}
	if correct == "" {
		return nil, errors.NewNotFoundError("conjugation", pronoun)
	}

	options := buildOptions(s.rand, correct, wrong)

	return &models.ConjugationQuestion{
		VerbID:        verb.ID,
		Infinitive:    verb.Infinitive,
		English:       verb.English,
		Ukrainian:     verb.Ukrainian,
		Pronoun:       pronoun,
		CorrectAnswer: correct,
		Options:       options,
	}, nil
}

// buildOptions assembles a shuffled choice list: the correct form plus
// three distinct wrong forms, padded with fabricated endings when the verb
// repeats forms across pronouns.
func buildOptions(rng *rand.Rand, correct string, wrong []string) []string {
	seen := map[string]bool{correct: true}
	options := []string{correct}

	rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	for _, w := range wrong {
		if len(options) == questionOptionCount {
			break
		}
		if w != "" && !seen[w] {
			seen[w] = true
			options = append(options, w)
		}
	}

	for _, suffix := range []string{"y", "a", "e", "o", "my"} {
		if len(options) == questionOptionCount {
			break
		}
		fake := correct + suffix
		if !seen[fake] {
			seen[fake] = true
			options = append(options, fake)
		}
	}

	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

func (s *verbService) Validate(ctx context.Context, req models.ConjugationValidationRequest) (*models.ConjugationValidationResponse, error) {
	log := logger.FromContext(ctx)
	log.Debug("validating conjugation: verb_id=%d, pronoun=%s", req.VerbID, req.Pronoun)

	if !req.Pronoun.Valid() {
		return nil, errors.NewValidationError("pronoun", "unknown pronoun group")
	}

	verb, err := s.verbs.Get(ctx, req.VerbID)
	if err != nil {
		log.Error("failed to get verb: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if verb == nil {
		return nil, errors.NewNotFoundError("verb", req.VerbID)
	}

	conj, err := s.verbs.Conjugation(ctx, req.VerbID, req.Pronoun)
	if err != nil {
		log.Error("failed to get conjugation: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if conj == nil {
		return nil, errors.NewNotFoundError("conjugation", req.Pronoun)
	}

	wasCorrect := normalize(req.Answer) != "" && normalize(req.Answer) == normalize(conj.ConjugatedForm)

	rec := models.VerbPracticeRecord{
		VerbID:       verb.ID,
		Pronoun:      req.Pronoun,
		WasCorrect:   wasCorrect,
		PracticeDate: s.now().Format(dateLayout),
	}
	if err := s.verbs.InsertPracticeRecord(ctx, rec); err != nil {
		log.Error("failed to record conjugation attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ConjugationValidationResponse{
		WasCorrect:    wasCorrect,
		CorrectAnswer: conj.ConjugatedForm,
		Stats:         *stats,
	}, nil
}

func (s *verbService) Stats(ctx context.Context) (*models.VerbStats, error) {
	log := logger.FromContext(ctx)

	today, yesterday := practiceDates(s.now())

	todayCorrect, todayTotal, err := s.verbs.DayCounts(ctx, today)
	if err != nil {
		log.Error("failed to get today's verb counts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	yCorrect, yTotal, err := s.verbs.DayCounts(ctx, yesterday)
	if err != nil {
		log.Error("failed to get yesterday's verb counts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	overallCorrect, overallTotal, err := s.verbs.OverallCounts(ctx)
	if err != nil {
		log.Error("failed to get overall verb counts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	available, err := s.verbs.Count(ctx)
	if err != nil {
		log.Error("failed to count verbs: %v", err)
		return nil, errors.NewInternalError(err)
	}

	todayPct := percentage(todayCorrect, todayTotal)
	return &models.VerbStats{
		TodayPercentage:   todayPct,
		Trend:             round1(todayPct - percentage(yCorrect, yTotal)),
		OverallPercentage: percentage(overallCorrect, overallTotal),
		AvailableVerbs:    available,
	}, nil
}

func (s *verbService) SetEnabled(ctx context.Context, verbID int64, enabled bool) error {
	log := logger.FromContext(ctx)
	log.Debug("toggling verb: verb_id=%d, enabled=%t", verbID, enabled)

	verb, err := s.verbs.Get(ctx, verbID)
	if err != nil {
		log.Error("failed to get verb: %v", err)
		return errors.NewInternalError(err)
	}
	if verb == nil {
		return errors.NewNotFoundError("verb", verbID)
	}

	if err := s.verbs.SetEnabled(ctx, verbID, enabled); err != nil {
		log.Error("failed to toggle verb: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
