package trainer

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"polingo/internal/client"
	"polingo/internal/logger"
	"polingo/internal/models"
)

// Mode is the active practice mode.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModeAddVocabulary Mode = "add_vocabulary"
	ModeTranslate     Mode = "translate"
	ModeWrite         Mode = "write"
	ModePronounce     Mode = "pronounce"
	ModeConjugate     Mode = "conjugate"
)

// wordMode reports whether m practices against the shuffled word pool.
func (m Mode) wordMode() bool {
	return m == ModeTranslate || m == ModeWrite || m == ModePronounce
}

// Direction returns the validation direction for a word mode.
func (m Mode) Direction() models.Direction {
	switch m {
	case ModeWrite:
		return models.DirectionWriting
	case ModePronounce:
		return models.DirectionPronunciation
	default:
		return models.DirectionTranslation
	}
}

// Severity classifies a transient status message.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// Status is a transient, auto-expiring message for the view.
type Status struct {
	Severity Severity
	Message  string
}

// Feedback is the outcome of the most recent submit or skip on one
// feedback channel.
type Feedback struct {
	Mode          Mode
	Correct       bool
	CorrectAnswer string
	Alternatives  []string
	UserAnswer    string
	Skipped       bool
	// Diff is only populated for incorrect, non-skipped write-mode
	// answers; the view never renders a diff for skips.
	Diff []DiffChar
	// Pronunciation extras.
	Transcribed string
	Message     string
}

// feedbackChannel owns one feedback slot and its auto-hide timer. The
// generation counter makes cancel-then-reschedule atomic under the
// controller mutex: a stale timer firing after a newer answer finds the
// generation moved on and leaves the feedback alone.
type feedbackChannel struct {
	fb    *Feedback
	gen   uint64
	timer *time.Timer
}

func (ch *feedbackChannel) clear() {
	ch.gen++
	if ch.timer != nil {
		ch.timer.Stop()
		ch.timer = nil
	}
	ch.fb = nil
}

// Snapshot is a read-only copy of the controller state for the view.
type Snapshot struct {
	Mode        Mode
	LanguageSet models.LanguageSet
	Pool        []models.WordWithStats
	Cursor      int
	Current     *models.WordWithStats
	Answer      string
	Busy        bool
	Status      *Status

	WordFeedback          *Feedback
	PronunciationFeedback *Feedback
	ConjugationFeedback   *Feedback

	Question  *models.ConjugationQuestion
	Stats     models.Stats
	VerbStats models.VerbStats
}

const (
	msgEmptyAnswer = "Type an answer first"
	msgEmptyEntry  = "Enter a word first"
	msgRetry       = "Something went wrong, please try again"
)

// Controller drives the practice loop: pool navigation, answer grading
// round-trips, feedback lifecycle and statistics display. All state lives
// behind one mutex; network calls happen with the mutex released and their
// results are discarded when the mode epoch moved on in the meantime.
type Controller struct {
	mu  sync.Mutex
	api client.API
	log *logger.Logger
	rng *rand.Rand

	feedbackTTL time.Duration

	mode        Mode
	languageSet models.LanguageSet
	pool        []models.WordWithStats
	cursor      int
	answer      string
	busy        bool

	// epoch is bumped on every mode entry; in-flight responses carry the
	// epoch they were issued under and are dropped on mismatch.
	epoch uint64

	word feedbackChannel
	pron feedbackChannel
	conj feedbackChannel

	status      *Status
	statusGen   uint64
	statusTimer *time.Timer

	question  *models.ConjugationQuestion
	stats     models.Stats
	verbStats models.VerbStats

	onChange func()
}

// New creates a practice controller over the given backend client.
// feedbackTTL is how long feedback and status messages stay visible.
func New(api client.API, feedbackTTL time.Duration) *Controller {
	if feedbackTTL <= 0 {
		feedbackTTL = 6 * time.Second
	}
	return &Controller{
		api:         api,
		log:         logger.Default().WithPrefix("trainer"),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		feedbackTTL: feedbackTTL,
		mode:        ModeIdle,
		languageSet: models.LanguageSetEnglish,
	}
}

// SetOnChange registers a callback invoked after asynchronous state
// changes (timer expiry, late responses) so the view can re-render.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Bootstrap loads the session pool, language preference and statistics.
func (c *Controller) Bootstrap(ctx context.Context) error {
	state, err := c.api.GetSession(ctx)
	if err != nil {
		c.log.Error("failed to load session: %v", err)
		c.mu.Lock()
		c.setStatusLocked(SeverityError, msgRetry)
		c.mu.Unlock()
		c.notify()
		return err
	}

	stats, err := c.api.Stats(ctx)

	c.mu.Lock()
	c.languageSet = state.LanguageSet
	c.setPoolLocked(state.Words)
	if err == nil {
		c.stats = *stats
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

// Enter switches the active mode: cursor back to zero, answer and all
// transient feedback cleared, word pool reshuffled for word modes, a fresh
// question fetched for conjugation mode.
func (c *Controller) Enter(ctx context.Context, mode Mode) {
	c.mu.Lock()
	c.mode = mode
	c.cursor = 0
	c.answer = ""
	c.busy = false
	c.question = nil
	c.word.clear()
	c.pron.clear()
	c.conj.clear()
	c.clearStatusLocked()
	c.epoch++
	epoch := c.epoch
	if mode.wordMode() {
		shuffle(c.rng, c.pool)
	}
	c.mu.Unlock()
	c.notify()

	if mode == ModeConjugate {
		c.fetchQuestion(ctx, epoch)
	}
}

// SetPool replaces the practice pool, reshuffling it and clamping the
// cursor to the new length.
func (c *Controller) SetPool(words []models.WordWithStats) {
	c.mu.Lock()
	c.setPoolLocked(words)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) setPoolLocked(words []models.WordWithStats) {
	c.pool = make([]models.WordWithStats, len(words))
	copy(c.pool, words)
	shuffle(c.rng, c.pool)
	if len(c.pool) == 0 {
		c.cursor = 0
	} else {
		c.cursor %= len(c.pool)
	}
}

// SetAnswer stores the in-progress answer text.
func (c *Controller) SetAnswer(text string) {
	c.mu.Lock()
	c.answer = text
	c.mu.Unlock()
}

// currentLocked derives the current item; nil when the pool is empty.
func (c *Controller) currentLocked() *models.WordWithStats {
	if len(c.pool) == 0 {
		return nil
	}
	item := c.pool[c.cursor%len(c.pool)]
	return &item
}

// advanceLocked steps the cursor by one, modulo the pool length read at
// advancement time so a shrunken pool can never leave it out of range.
func (c *Controller) advanceLocked() {
	if len(c.pool) == 0 {
		c.cursor = 0
		return
	}
	c.cursor = (c.cursor + 1) % len(c.pool)
}

// SubmitAnswer grades the current item. An empty trimmed answer is
// rejected locally without a network call. Success and transport failure
// both advance the cursor and clear the input; statistics only move on
// success.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) {
	c.mu.Lock()
	trimmed := strings.TrimSpace(text)
	item := c.currentLocked()
	if trimmed == "" || item == nil {
		c.setStatusLocked(SeverityError, msgEmptyAnswer)
		c.mu.Unlock()
		return
	}
	if c.busy {
		c.mu.Unlock()
		return
	}
	c.busy = true
	epoch := c.epoch
	mode := c.mode
	req := models.PracticeValidationRequest{
		WordID:      item.ID,
		LanguageSet: c.languageSet,
		Direction:   mode.Direction(),
		Answer:      text,
	}
	c.mu.Unlock()

	resp, err := c.api.ValidatePractice(ctx, req)

	c.mu.Lock()
	c.busy = false
	if c.epoch != epoch {
		c.log.Debug("discarding answer response from a previous mode")
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.advanceLocked()
		c.answer = ""
		c.mu.Unlock()
		c.notify()
		return
	}

	fb := &Feedback{
		Mode:          mode,
		Correct:       resp.WasCorrect,
		CorrectAnswer: resp.CorrectAnswer,
		Alternatives:  resp.Alternatives,
		UserAnswer:    trimmed,
	}
	if mode == ModeWrite && !resp.WasCorrect {
		fb.Diff = DiffAnswer(trimmed, resp.CorrectAnswer)
	}
	c.word.fb = fb
	c.stats = resp.Stats
	c.advanceLocked()
	c.answer = ""
	c.scheduleHideLocked(&c.word)
	c.mu.Unlock()
	c.notify()
}

// Skip records the current item as skipped: an empty answer goes to the
// backend so it counts as incorrect, the feedback is marked skipped so no
// diff is rendered, and the cursor advances like a submit.
func (c *Controller) Skip(ctx context.Context) {
	c.mu.Lock()
	item := c.currentLocked()
	if item == nil {
		c.setStatusLocked(SeverityError, msgEmptyAnswer)
		c.mu.Unlock()
		return
	}
	if c.busy {
		c.mu.Unlock()
		return
	}
	c.busy = true
	epoch := c.epoch
	mode := c.mode
	req := models.PracticeValidationRequest{
		WordID:      item.ID,
		LanguageSet: c.languageSet,
		Direction:   mode.Direction(),
	}
	c.mu.Unlock()

	resp, err := c.api.SkipPractice(ctx, req)

	c.mu.Lock()
	c.busy = false
	if c.epoch != epoch {
		c.log.Debug("discarding skip response from a previous mode")
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.advanceLocked()
		c.answer = ""
		c.mu.Unlock()
		c.notify()
		return
	}

	fb := &Feedback{
		Mode:          mode,
		CorrectAnswer: resp.CorrectAnswer,
		Alternatives:  resp.Alternatives,
		Skipped:       true,
	}
	ch := &c.word
	if mode == ModePronounce {
		ch = &c.pron
	}
	ch.fb = fb
	c.stats = resp.Stats
	c.advanceLocked()
	c.answer = ""
	c.scheduleHideLocked(ch)
	c.mu.Unlock()
	c.notify()
}

// SubmitPronunciation sends a recorded attempt for the current item.
func (c *Controller) SubmitPronunciation(ctx context.Context, audio []byte, filename string) {
	c.mu.Lock()
	item := c.currentLocked()
	if len(audio) == 0 || item == nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.mu.Unlock()
		return
	}
	if c.busy {
		c.mu.Unlock()
		return
	}
	c.busy = true
	epoch := c.epoch
	wordID := item.ID
	c.mu.Unlock()

	resp, err := c.api.ValidatePronunciation(ctx, wordID, audio, filename)

	c.mu.Lock()
	c.busy = false
	if c.epoch != epoch {
		c.log.Debug("discarding pronunciation response from a previous mode")
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.advanceLocked()
		c.mu.Unlock()
		c.notify()
		return
	}

	c.pron.fb = &Feedback{
		Mode:          ModePronounce,
		Correct:       resp.WasCorrect,
		CorrectAnswer: resp.ExpectedWord,
		Transcribed:   resp.TranscribedText,
		Message:       resp.Feedback,
	}
	c.stats = resp.Stats
	c.advanceLocked()
	c.scheduleHideLocked(&c.pron)
	c.mu.Unlock()
	c.notify()
}

// AnswerConjugation grades a selected option and immediately fetches the
// next question; the feedback timer only controls display, never
// advancement.
func (c *Controller) AnswerConjugation(ctx context.Context, option string) {
	c.answerConjugation(ctx, option, false)
}

// SkipConjugation records the current question as skipped and fetches the
// next one.
func (c *Controller) SkipConjugation(ctx context.Context) {
	c.answerConjugation(ctx, "", true)
}

func (c *Controller) answerConjugation(ctx context.Context, option string, skipped bool) {
	c.mu.Lock()
	q := c.question
	if q == nil || c.busy {
		c.mu.Unlock()
		return
	}
	c.busy = true
	epoch := c.epoch
	req := models.ConjugationValidationRequest{
		VerbID:  q.VerbID,
		Pronoun: q.Pronoun,
		Answer:  option,
	}
	c.mu.Unlock()

	resp, err := c.api.ValidateConjugation(ctx, req)

	c.mu.Lock()
	c.busy = false
	if c.epoch != epoch || c.question != q {
		c.log.Debug("discarding conjugation response for an abandoned question")
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.mu.Unlock()
		c.notify()
		return
	}

	c.conj.fb = &Feedback{
		Mode:          ModeConjugate,
		Correct:       resp.WasCorrect,
		CorrectAnswer: resp.CorrectAnswer,
		UserAnswer:    option,
		Skipped:       skipped,
	}
	c.verbStats = resp.Stats
	c.scheduleHideLocked(&c.conj)
	c.mu.Unlock()
	c.notify()

	c.fetchQuestion(ctx, epoch)
}

// fetchQuestion loads the next conjugation question, discarding the
// result when the mode changed while the request was in flight.
func (c *Controller) fetchQuestion(ctx context.Context, epoch uint64) {
	q, err := c.api.VerbQuestion(ctx)

	c.mu.Lock()
	if c.epoch != epoch {
		c.log.Debug("discarding question fetched for a previous mode")
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.mu.Unlock()
		c.notify()
		return
	}
	c.question = q
	c.mu.Unlock()
	c.notify()
}

// AddVocabulary resolves a comma-separated entry list through the backend
// and reloads the session pool with whatever was added.
func (c *Controller) AddVocabulary(ctx context.Context, text string) {
	c.mu.Lock()
	if strings.TrimSpace(text) == "" {
		c.setStatusLocked(SeverityError, msgEmptyEntry)
		c.mu.Unlock()
		return
	}
	if c.busy {
		c.mu.Unlock()
		return
	}
	c.busy = true
	epoch := c.epoch
	c.mu.Unlock()

	resp, err := c.api.CheckWordsBulk(ctx, text)
	var state *models.SessionState
	if err == nil {
		state, err = c.api.GetSession(ctx)
	}

	c.mu.Lock()
	c.busy = false
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.mu.Unlock()
		c.notify()
		return
	}
	c.languageSet = state.LanguageSet
	c.setPoolLocked(state.Words)
	c.setStatusLocked(SeverityInfo, fmt.Sprintf("Added %d, skipped %d duplicates, %d failed",
		resp.AddedCount, resp.DuplicateCount, resp.FailedCount))
	c.mu.Unlock()
	c.notify()
}

// SetLanguage persists the language-set choice and reloads the pool.
func (c *Controller) SetLanguage(ctx context.Context, ls models.LanguageSet) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return
	}
	c.busy = true
	epoch := c.epoch
	c.mu.Unlock()

	state, err := c.api.UpdateLanguage(ctx, ls)

	c.mu.Lock()
	c.busy = false
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.setStatusLocked(SeverityError, msgRetry)
		c.mu.Unlock()
		c.notify()
		return
	}
	c.languageSet = state.LanguageSet
	c.setPoolLocked(state.Words)
	c.mu.Unlock()
	c.notify()
}

// scheduleHideLocked arms the channel's auto-hide timer, cancelling any
// pending one first so an older timer cannot clear newer feedback.
func (c *Controller) scheduleHideLocked(ch *feedbackChannel) {
	ch.gen++
	gen := ch.gen
	if ch.timer != nil {
		ch.timer.Stop()
	}
	ch.timer = time.AfterFunc(c.feedbackTTL, func() {
		c.mu.Lock()
		if ch.gen == gen {
			ch.fb = nil
		}
		c.mu.Unlock()
		c.notify()
	})
}

func (c *Controller) setStatusLocked(sev Severity, msg string) {
	c.status = &Status{Severity: sev, Message: msg}
	c.statusGen++
	gen := c.statusGen
	if c.statusTimer != nil {
		c.statusTimer.Stop()
	}
	c.statusTimer = time.AfterFunc(c.feedbackTTL, func() {
		c.mu.Lock()
		if c.statusGen == gen {
			c.status = nil
		}
		c.mu.Unlock()
		c.notify()
	})
}

func (c *Controller) clearStatusLocked() {
	c.statusGen++
	if c.statusTimer != nil {
		c.statusTimer.Stop()
		c.statusTimer = nil
	}
	c.status = nil
}

// Snapshot returns a copy of the visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	pool := make([]models.WordWithStats, len(c.pool))
	copy(pool, c.pool)

	snap := Snapshot{
		Mode:        c.mode,
		LanguageSet: c.languageSet,
		Pool:        pool,
		Cursor:      c.cursor,
		Current:     c.currentLocked(),
		Answer:      c.answer,
		Busy:        c.busy,
		Stats:       c.stats,
		VerbStats:   c.verbStats,
	}
	if c.status != nil {
		s := *c.status
		snap.Status = &s
	}
	if c.word.fb != nil {
		fb := *c.word.fb
		snap.WordFeedback = &fb
	}
	if c.pron.fb != nil {
		fb := *c.pron.fb
		snap.PronunciationFeedback = &fb
	}
	if c.conj.fb != nil {
		fb := *c.conj.fb
		snap.ConjugationFeedback = &fb
	}
	if c.question != nil {
		q := *c.question
		snap.Question = &q
	}
	return snap
}
