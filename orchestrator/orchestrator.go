// Package orchestrator wires speech recognition, retrieval, generation,
// qualification, and synthesis into a per-call conversation loop.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vaani-ai/vaani/faq"
	"github.com/vaani-ai/vaani/language"
	"github.com/vaani-ai/vaani/lead"
	"github.com/vaani-ai/vaani/llm"
	"github.com/vaani-ai/vaani/prompts"
	"github.com/vaani-ai/vaani/stt"
	"github.com/vaani-ai/vaani/tts"
	"github.com/vaani-ai/vaani/voicetext"
)

const (
	defaultIdleTTL       = 15 * time.Minute
	defaultRetrievalTopK = 3
	defaultRetrievalMin  = 0.5
)

// Campaign describes the outreach campaign a call belongs to.
type Campaign struct {
	ID          string
	Name        string
	Description string
	FAQs        []faq.FAQ
}

// CampaignProvider resolves campaign metadata by ID.
type CampaignProvider interface {
	Campaign(ctx context.Context, id string) (*Campaign, error)
}

// Turn is one assistant utterance, as text and optionally as audio.
type Turn struct {
	Text  string
	Audio []byte
}

// Summary is the outcome of a completed call.
type Summary struct {
	CallID        string
	CampaignID    string
	Phone         string
	Duration      time.Duration
	Language      language.Language
	Transcript    []string
	Qualification lead.Qualification
	Signals       []lead.Signal
}

// Orchestrator owns every live call session and drives each conversation
// turn through the pipeline.
type Orchestrator struct {
	detector  *language.Detector
	arbiter   *stt.Arbiter
	index     *faq.Index
	generator *llm.Generator
	qualifier *lead.Qualifier
	speaker   *tts.Router
	campaigns CampaignProvider

	retrievalTopK      int
	retrievalThreshold float64
	idleTTL            time.Duration
	onEvict            func(*Summary)
	log                zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	stopJanitor chan struct{}
	stopOnce    sync.Once
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCampaignProvider sets the campaign metadata source.
func WithCampaignProvider(p CampaignProvider) Option {
	return func(o *Orchestrator) { o.campaigns = p }
}

// WithIdleTTL sets how long a silent session survives before eviction.
func WithIdleTTL(d time.Duration) Option {
	return func(o *Orchestrator) { o.idleTTL = d }
}

// WithEvictionCallback receives the summary of every session the janitor
// reaps, so abandoned calls still get qualified.
func WithEvictionCallback(fn func(*Summary)) Option {
	return func(o *Orchestrator) { o.onEvict = fn }
}

// WithRetrieval tunes FAQ retrieval per turn.
func WithRetrieval(topK int, threshold float64) Option {
	return func(o *Orchestrator) {
		o.retrievalTopK = topK
		o.retrievalThreshold = threshold
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New builds an orchestrator over the conversation pipeline components.
func New(detector *language.Detector, arbiter *stt.Arbiter, index *faq.Index, generator *llm.Generator, qualifier *lead.Qualifier, speaker *tts.Router, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		detector:           detector,
		arbiter:            arbiter,
		index:              index,
		generator:          generator,
		qualifier:          qualifier,
		speaker:            speaker,
		retrievalTopK:      defaultRetrievalTopK,
		retrievalThreshold: defaultRetrievalMin,
		idleTTL:            defaultIdleTTL,
		log:                zerolog.Nop(),
		sessions:           make(map[string]*Session),
		stopJanitor:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	go o.janitor()
	return o
}

// Start registers a call and returns the spoken greeting. An empty callID
// gets a generated one; the returned Turn's session can be found under
// the ID recorded in sessions via ActiveCalls.
func (o *Orchestrator) Start(ctx context.Context, callID, campaignID, phone string) (*Turn, error) {
	if callID == "" {
		callID = uuid.NewString()
	}

	o.mu.Lock()
	if _, exists := o.sessions[callID]; exists {
		o.mu.Unlock()
		return nil, fmt.Errorf("orchestrator: call %s already started", callID)
	}
	sess := newSession(callID, campaignID, phone)
	o.sessions[callID] = sess
	o.mu.Unlock()

	campaign := o.campaign(ctx, campaignID)
	if campaign != nil && len(campaign.FAQs) > 0 && !o.index.IsLoaded(campaignID) {
		if err := o.index.Load(ctx, campaignID, campaign.FAQs); err != nil {
			o.log.Warn().Err(err).Str("campaign", campaignID).Msg("faq load failed")
		}
	}

	name := ""
	if campaign != nil {
		name = voicetext.PrepareName(campaign.Name)
	}
	greeting := prompts.Greeting(name, sess.Language())
	audio := o.speak(ctx, greeting, sess.Language())

	o.log.Info().Str("call", callID).Str("campaign", campaignID).Msg("call started")
	return &Turn{Text: greeting, Audio: audio}, nil
}

// ProcessText runs one text-only conversation turn. Unknown call IDs get a
// transient session so the text path works without telephony setup.
func (o *Orchestrator) ProcessText(ctx context.Context, callID, text string) string {
	sess := o.session(callID)
	if sess == nil {
		o.mu.Lock()
		// Recheck under the write lock; a racing first turn may have
		// created the session already, and replacing it would drop its
		// transcript.
		if existing, ok := o.sessions[callID]; ok {
			sess = existing
		} else {
			sess = newSession(callID, "", "")
			o.sessions[callID] = sess
		}
		o.mu.Unlock()
	}
	reply, _ := o.processTurn(ctx, sess, text)
	return reply
}

// ProcessAudio runs one spoken conversation turn. It returns nil when the
// call is unknown, and a retry prompt (spoken in the session's language)
// when any pipeline stage fails to produce a usable turn.
func (o *Orchestrator) ProcessAudio(ctx context.Context, callID string, audio []byte, filename string) *Turn {
	sess := o.session(callID)
	if sess == nil {
		return nil
	}
	sess.touch()

	text, err := o.arbiter.Transcribe(ctx, audio, filename, sess.Language())
	if err != nil {
		o.log.Error().Err(err).Str("call", callID).Msg("transcription failed")
		return o.retryTurn(ctx, sess)
	}
	if text == "" {
		return o.retryTurn(ctx, sess)
	}

	reply, lang := o.processTurn(ctx, sess, text)
	return &Turn{Text: reply, Audio: o.speak(ctx, reply, lang)}
}

// End closes a call and returns its summary. Ending an unknown or already
// ended call returns nil; double hangup events are routine in telephony.
func (o *Orchestrator) End(ctx context.Context, callID string) *Summary {
	o.mu.Lock()
	sess, ok := o.sessions[callID]
	if ok {
		delete(o.sessions, callID)
	}
	o.mu.Unlock()
	if !ok {
		return nil
	}
	summary := o.summarize(sess)
	o.log.Info().
		Str("call", callID).
		Str("tier", string(summary.Qualification.Tier)).
		Float64("score", summary.Qualification.Score).
		Msg("call ended")
	return summary
}

// ActiveCalls lists the IDs of sessions currently in memory, sorted.
func (o *Orchestrator) ActiveCalls() []string {
	o.mu.RLock()
	ids := make([]string, 0, len(o.sessions))
	for id := range o.sessions {
		ids = append(ids, id)
	}
	o.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Close stops the eviction janitor. Live sessions stay in memory and can
// still be ended explicitly.
func (o *Orchestrator) Close() {
	o.stopOnce.Do(func() { close(o.stopJanitor) })
}

// processTurn is the shared text pipeline: detect language, retrieve FAQ
// context, generate, record.
func (o *Orchestrator) processTurn(ctx context.Context, sess *Session, text string) (string, language.Language) {
	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	lang := o.detector.Detect(text)
	signals := o.qualifier.ExtractSignals(text)

	history, _, _, _ := sess.snapshot()

	faqContext := ""
	if sess.CampaignID != "" {
		results, err := o.index.Retrieve(ctx, sess.CampaignID, text, o.retrievalTopK, o.retrievalThreshold)
		if err != nil {
			o.log.Warn().Err(err).Str("call", sess.ID).Msg("faq retrieval failed")
		} else {
			faqContext = faq.FormatContext(results)
		}
	}

	campaign := o.campaign(ctx, sess.CampaignID)
	campaignContext := ""
	if campaign != nil {
		campaignContext = strings.TrimSpace(campaign.Name + ": " + campaign.Description)
	}

	reply := o.generator.Reply(ctx, llm.Input{
		Language:        lang,
		CampaignContext: campaignContext,
		FAQContext:      faqContext,
		History:         history,
		UserText:        text,
		FirstTurn:       len(history) == 0,
	})

	sess.recordTurn(text, reply, lang, signals)
	return reply, lang
}

func (o *Orchestrator) retryTurn(ctx context.Context, sess *Session) *Turn {
	lang := sess.Language()
	text := prompts.Retry(lang)
	return &Turn{Text: text, Audio: o.speak(ctx, text, lang)}
}

// speak synthesizes best-effort; a voice outage degrades the turn to text.
func (o *Orchestrator) speak(ctx context.Context, text string, lang language.Language) []byte {
	audio, err := o.speaker.Speak(ctx, text, lang)
	if err != nil {
		o.log.Error().Err(err).Str("language", string(lang)).Msg("synthesis failed")
		return nil
	}
	return audio.Data
}

func (o *Orchestrator) summarize(sess *Session) *Summary {
	sess.end()
	_, transcript, signals, lang := sess.snapshot()
	if lang == language.Unknown {
		lang = language.English
	}
	return &Summary{
		CallID:        sess.ID,
		CampaignID:    sess.CampaignID,
		Phone:         sess.Phone,
		Duration:      time.Since(sess.startedAt),
		Language:      lang,
		Transcript:    transcript,
		Qualification: o.qualifier.Qualify(transcript, signals),
		Signals:       signals,
	}
}

func (o *Orchestrator) session(callID string) *Session {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sessions[callID]
}

func (o *Orchestrator) campaign(ctx context.Context, id string) *Campaign {
	if o.campaigns == nil || id == "" {
		return nil
	}
	c, err := o.campaigns.Campaign(ctx, id)
	if err != nil {
		o.log.Warn().Err(err).Str("campaign", id).Msg("campaign lookup failed")
		return nil
	}
	return c
}

// janitor reaps sessions idle past the TTL; hung-up callers whose hangup
// event never arrived.
func (o *Orchestrator) janitor() {
	interval := o.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-o.stopJanitor:
			return
		case <-ticker.C:
			o.evictIdle()
		}
	}
}

func (o *Orchestrator) evictIdle() {
	cutoff := time.Now().Add(-o.idleTTL)
	var expired []*Session
	o.mu.Lock()
	for id, sess := range o.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(o.sessions, id)
		}
	}
	o.mu.Unlock()
	for _, sess := range expired {
		summary := o.summarize(sess)
		o.log.Info().Str("call", sess.ID).Msg("idle session evicted")
		if o.onEvict != nil {
			o.onEvict(summary)
		}
	}
}
