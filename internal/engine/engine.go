// ABOUTME: Turn scheduler and session engine: the single loop that drives the debate
// ABOUTME: Rotates topics, schedules AI turns, answers humans, streams word-by-word

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/2389/agora/internal/bus"
	"github.com/2389/agora/internal/catalog"
	"github.com/2389/agora/internal/config"
	"github.com/2389/agora/internal/content"
	"github.com/2389/agora/internal/session"
)

// historyTrim is the trailing history window kept across topic rotations:
// enough for continuity, small enough to stop context growth.
const historyTrim = 6

// humanMentionChance is the probability an auto turn briefly references a
// recent human message.
const humanMentionChance = 0.3

// Config holds the engine's timing and scheduling parameters.
type Config struct {
	AutoGap       time.Duration // gap between scheduled AI turns
	SettleMin     time.Duration // settle window bounds after a human message
	SettleMax     time.Duration
	HumanCooldown time.Duration // auto-turn pushback after a human response
	RetryBackoff  time.Duration // delay after a failed content turn

	MinTurnsPerTopic int // inclusive per-topic budget bounds
	MaxTurnsPerTopic int

	PollTimeout       time.Duration // inbound queue poll bound
	ShutdownThreshold time.Duration // remaining time below which no turn starts
	TopicLeadIn       time.Duration // pause before the first turn of a topic

	StreamBudget time.Duration // target duration for one streamed message
	MinWordDelay time.Duration // per-word delay clamp
	MaxWordDelay time.Duration
}

// FromSession derives an engine Config from session configuration,
// filling in the streaming and polling parameters that are not
// operator-tunable.
func FromSession(s config.SessionConfig) Config {
	return Config{
		AutoGap:           s.AutoGap,
		SettleMin:         s.SettleMin,
		SettleMax:         s.SettleMax,
		HumanCooldown:     s.HumanCooldown,
		RetryBackoff:      s.RetryBackoff,
		MinTurnsPerTopic:  s.MinTurnsPerTopic,
		MaxTurnsPerTopic:  s.MaxTurnsPerTopic,
		PollTimeout:       500 * time.Millisecond,
		ShutdownThreshold: 60 * time.Second,
		TopicLeadIn:       5 * time.Second,
		StreamBudget:      18 * time.Second,
		MinWordDelay:      60 * time.Millisecond,
		MaxWordDelay:      500 * time.Millisecond,
	}
}

// Engine is the session's single active scheduler. It is the sole consumer
// of the inbound queue, the sole writer of topics and AI messages, and the
// sole publisher of streaming events. Exactly one Run loop exists per
// session.
type Engine struct {
	cfg     Config
	state   *session.State
	bus     *bus.Bus
	queue   *session.Queue
	source  content.Source
	rotator *session.Rotator
	rng     *rand.Rand
	logger  *slog.Logger

	personas  [2]catalog.Persona
	histories [2][]content.Exchange

	turn        int // auto-turn alternation index
	onTopic     int // utterances produced under the current topic
	perTopic    int // randomized per-topic budget
	lastSpeaker int // index of the persona that streamed most recently, -1 before any
	nextAuto    time.Time
}

// Params bundles the engine's collaborators.
type Params struct {
	Config Config
	State  *session.State
	Bus    *bus.Bus
	Queue  *session.Queue
	Source content.Source
	Topics []string
	Rng    *rand.Rand
	Logger *slog.Logger
}

// New creates an engine. The rng is the session-scoped random source; all
// scheduling randomness flows through it so a seeded session replays
// deterministically.
func New(p Params) *Engine {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a, b := p.State.Personas()
	return &Engine{
		cfg:         p.Config,
		state:       p.State,
		bus:         p.Bus,
		queue:       p.Queue,
		source:      p.Source,
		rotator:     session.NewRotator(p.Topics, p.Rng),
		rng:         p.Rng,
		logger:      logger.With("component", "engine"),
		personas:    [2]catalog.Persona{a, b},
		lastSpeaker: -1,
	}
}

// Run drives the session until the uptime budget is nearly exhausted or
// ctx is cancelled. The shutdown check happens only at loop-iteration
// boundaries; an in-progress stream is never interrupted.
func (e *Engine) Run(ctx context.Context) {
	a, b := e.personas[0], e.personas[1]
	e.logger.Info("session starting",
		"persona_a", a.Name,
		"persona_b", b.Name,
		"max_uptime", e.state.MaxUptime())

	// The first topic rides along in init; newtopic events start with the
	// second rotation.
	first := e.state.RotateTopic(e.rotator.Pick())
	e.beginTopic()

	e.bus.Publish("init", map[string]any{
		"char_a":    a,
		"char_b":    b,
		"topic":     first.Text,
		"topic_num": first.Number,
		"boot":      e.state.Boot().Unix(),
		"max_up":    int(e.state.MaxUptime().Seconds()),
	})

	for {
		if ctx.Err() != nil {
			e.logger.Info("session cancelled")
			e.shutdown()
			return
		}
		if e.state.TimeLeft() <= e.cfg.ShutdownThreshold {
			e.logger.Info("uptime budget exhausted", "timeleft", e.state.TimeLeft())
			e.shutdown()
			return
		}

		if e.onTopic >= e.perTopic {
			e.rotateTopic()
			continue
		}

		if msg, ok := e.queue.Poll(e.cfg.PollTimeout); ok {
			e.respondToHuman(ctx, msg)
			continue
		}

		if time.Now().After(e.nextAuto) {
			e.autoTurn(ctx)
		}
	}
}

// rotateTopic advances to a fresh subject and announces it.
func (e *Engine) rotateTopic() {
	msg := e.state.RotateTopic(e.rotator.Pick())
	e.beginTopic()
	e.bus.Publish("newtopic", msg)

	e.logger.Info("topic rotated",
		"topic", msg.Text,
		"topic_num", msg.Number,
		"budget", e.perTopic)
}

// beginTopic resets per-topic bookkeeping: new randomized turn budget,
// histories trimmed for continuity, lead-in pause before the first turn.
func (e *Engine) beginTopic() {
	e.onTopic = 0
	e.perTopic = e.cfg.MinTurnsPerTopic +
		e.rng.Intn(e.cfg.MaxTurnsPerTopic-e.cfg.MinTurnsPerTopic+1)

	for i := range e.histories {
		if len(e.histories[i]) > historyTrim {
			e.histories[i] = e.histories[i][len(e.histories[i])-historyTrim:]
		}
	}

	e.nextAuto = time.Now().Add(e.cfg.TopicLeadIn)
}

// respondToHuman coalesces a burst of human messages into one addressed
// response: wait out the settle window, keep only the newest message, and
// have the persona that did not speak last answer it.
func (e *Engine) respondToHuman(ctx context.Context, first session.Message) {
	settle := e.cfg.SettleMin
	if spread := e.cfg.SettleMax - e.cfg.SettleMin; spread > 0 {
		settle += time.Duration(e.rng.Int63n(int64(spread)))
	}
	e.wait(ctx, settle)

	msg := e.queue.DrainNewest(first)

	idx := e.rng.Intn(2)
	if e.lastSpeaker >= 0 {
		idx = 1 - e.lastSpeaker
	}
	cur, other := e.personas[idx], e.personas[1-idx]

	topic, _ := e.state.Topic()
	system := humanSystemPrompt(cur, other, topic)
	instruction := humanInstruction(topic, e.state.Recent(8))

	e.announceTyping(cur)

	text, err := e.source.Generate(ctx, content.Request{
		System:      system,
		History:     e.histories[idx],
		Instruction: instruction,
	})
	if err != nil {
		e.abandonTurn(cur, err)
		return
	}

	e.logger.Info("responding to human",
		"speaker", cur.Name,
		"user", msg.UserName)

	e.stream(idx, text)
	e.onTopic++

	// Push the scheduled turn out so the human's exchange isn't buried.
	e.nextAuto = time.Now().Add(e.cfg.HumanCooldown)
}

// autoTurn produces one scheduled AI-to-AI utterance, alternating personas
// by turn index.
func (e *Engine) autoTurn(ctx context.Context) {
	idx := e.turn % 2
	cur, other := e.personas[idx], e.personas[1-idx]

	topic, _ := e.state.Topic()
	system := autoSystemPrompt(cur, other, topic, e.onTopic+1, e.state.UserCount() > 0)
	instruction := e.autoInstruction(topic, other)

	e.announceTyping(cur)

	text, err := e.source.Generate(ctx, content.Request{
		System:      system,
		History:     e.histories[idx],
		Instruction: instruction,
	})
	if err != nil {
		e.abandonTurn(cur, err)
		return
	}

	e.stream(idx, text)
	e.onTopic++
	e.turn++

	next := e.personas[e.turn%2]
	e.bus.Publish("waiting", map[string]any{
		"name":     next.Name,
		"avatar":   next.Avatar,
		"color":    next.Color,
		"gap":      int(e.cfg.AutoGap.Seconds()),
		"timeleft": int(e.state.TimeLeft().Seconds()),
	})
	e.nextAuto = time.Now().Add(e.cfg.AutoGap)
}

// autoInstruction builds the turn instruction: an opening for the first
// utterance of a topic, otherwise a random rhetorical directive against
// the opponent's latest utterance, occasionally nodding to a recent human.
func (e *Engine) autoInstruction(topic string, other catalog.Persona) string {
	if e.onTopic == 0 {
		return openingInstruction(topic)
	}

	last := ""
	recent := e.state.Recent(50)
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Kind == session.KindAI && recent[i].Speaker == other.Name {
			last = recent[i].Text
			break
		}
	}

	directive := directives[e.rng.Intn(len(directives))](other.Name, last)
	instruction := fmt.Sprintf("Topic: %q\n%s\nUnder 80 words.", topic, directive)

	if u := latestUserMessage(e.state.Recent(6)); u != nil && e.rng.Float64() < humanMentionChance {
		instruction += fmt.Sprintf("\n(A human named %s recently said: %q. You may briefly reference this.)",
			u.UserName, u.Text)
	}

	return instruction
}

// latestUserMessage returns the newest human message in the window, nil
// when there is none.
func latestUserMessage(msgs []session.Message) *session.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Kind == session.KindUser {
			return &msgs[i]
		}
	}
	return nil
}

// stream emits an utterance word by word, then finalizes it: append to the
// record, emit msgdone, and update both personas' histories with self/peer
// tagging. Never interrupted once started.
func (e *Engine) stream(idx int, text string) {
	cur := e.personas[idx]

	e.bus.Publish("msgstart", map[string]any{
		"speaker": cur.Name,
		"avatar":  cur.Avatar,
		"color":   cur.Color,
		"role":    cur.Role,
		"time":    time.Now().UTC().Format("15:04"),
	})

	words := strings.Fields(text)
	delay := wordDelay(len(words), e.cfg.StreamBudget, e.cfg.MinWordDelay, e.cfg.MaxWordDelay)
	for i, w := range words {
		e.bus.Publish("word", map[string]any{
			"w":  w,
			"i":  i,
			"of": len(words),
		})
		time.Sleep(delay)
	}

	msg := e.state.AppendAI(cur, text)
	e.bus.Publish("msgdone", map[string]any{
		"speaker": cur.Name,
		"text":    text,
		"time":    msg.Time,
	})

	e.histories[idx] = append(e.histories[idx], content.Exchange{Self: true, Text: text})
	e.histories[1-idx] = append(e.histories[1-idx], content.Exchange{Self: false, Text: text})
	e.lastSpeaker = idx

	e.logger.Debug("utterance streamed",
		"speaker", cur.Name,
		"words", len(words))
}

// announceTyping marks the speaker in state and tells viewers.
func (e *Engine) announceTyping(p catalog.Persona) {
	e.state.SetTyping(p.Name)
	e.bus.Publish("typing", map[string]any{
		"name":   p.Name,
		"avatar": p.Avatar,
		"color":  p.Color,
		"role":   p.Role,
	})
}

// abandonTurn gives up on the current turn after a content failure: no
// message, no counter advance. The loop retries after the backoff.
func (e *Engine) abandonTurn(p catalog.Persona, err error) {
	e.logger.Error("content turn failed",
		"speaker", p.Name,
		"error", err)
	e.state.ClearTyping()
	time.Sleep(e.cfg.RetryBackoff)
}

// shutdown emits the final summary event and ends the session.
func (e *Engine) shutdown() {
	_, topicNum := e.state.Topic()
	aiMsgs := e.state.CountKind(session.KindAI)
	userMsgs := e.state.CountKind(session.KindUser)
	users := e.state.UserCount()

	e.bus.Publish("shutdown", map[string]any{
		"total_msgs":   aiMsgs,
		"user_msgs":    userMsgs,
		"total_topics": topicNum,
		"users":        users,
	})

	e.logger.Info("session finished",
		"ai_messages", aiMsgs,
		"user_messages", userMsgs,
		"topics", topicNum,
		"users", users)
}

// wait sleeps for d but returns early when ctx is cancelled. Used for the
// settle window; streaming delays deliberately do not use it.
func (e *Engine) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
