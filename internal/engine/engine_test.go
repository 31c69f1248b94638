// ABOUTME: Tests for the session engine loop
// ABOUTME: Covers startup/shutdown events, streaming, alternation, rotation, human handling, retries

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/agora/internal/bus"
	"github.com/2389/agora/internal/catalog"
	"github.com/2389/agora/internal/config"
	"github.com/2389/agora/internal/content"
	"github.com/2389/agora/internal/session"
)

var testPersonas = [2]catalog.Persona{
	{ID: "aria", Name: "Aria", Avatar: "🌊", Color: "#4a9eff", Role: "The Dreamer"},
	{ID: "brick", Name: "Brick", Avatar: "🧱", Color: "#ff6b4a", Role: "The Pragmatist"},
}

// fastConfig keeps every timing parameter tiny so a full engine cycle
// finishes in milliseconds.
func fastConfig() Config {
	return Config{
		AutoGap:           time.Millisecond,
		SettleMin:         time.Millisecond,
		SettleMax:         2 * time.Millisecond,
		HumanCooldown:     time.Millisecond,
		RetryBackoff:      time.Millisecond,
		MinTurnsPerTopic:  2,
		MaxTurnsPerTopic:  3,
		PollTimeout:       time.Millisecond,
		ShutdownThreshold: 60 * time.Second,
		TopicLeadIn:       0,
		StreamBudget:      time.Millisecond,
		MinWordDelay:      0,
		MaxWordDelay:      time.Millisecond,
	}
}

type rig struct {
	eng    *Engine
	state  *session.State
	bus    *bus.Bus
	queue  *session.Queue
	lst    *bus.Listener
	cancel context.CancelFunc
	done   chan struct{}
}

func startEngine(t *testing.T, cfg Config, src content.Source, maxUptime time.Duration, topics []string) *rig {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := session.New(testPersonas[0], testPersonas[1], maxUptime)
	b := bus.New(logger)
	q := session.NewQueue()

	eng := New(Params{
		Config: cfg,
		State:  st,
		Bus:    b,
		Queue:  q,
		Source: src,
		Topics: topics,
		Rng:    rand.New(rand.NewSource(42)),
		Logger: logger,
	})

	lst := b.Subscribe()
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	r := &rig{eng: eng, state: st, bus: b, queue: q, lst: lst, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("engine did not stop after cancel")
		}
		b.Close()
	})
	return r
}

// collectUntil gathers every event until the named event has been seen
// count times, returning all of them in arrival order.
func collectUntil(t *testing.T, lst *bus.Listener, name string, count int) []bus.Event {
	t.Helper()
	var events []bus.Event
	seen := 0
	deadline := time.After(10 * time.Second)
	for seen < count {
		select {
		case ev := <-lst.Events():
			events = append(events, ev)
			if ev.Name == name {
				seen++
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %d %q events, got %d", count, name, seen)
		}
	}
	return events
}

func decode(t *testing.T, ev bus.Event) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(ev.Data, &m))
	return m
}

func filterEvents(events []bus.Event, name string) []bus.Event {
	var out []bus.Event
	for _, ev := range events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

func TestEngine_InitThenShutdownWhenBudgetSpent(t *testing.T) {
	// 30s remaining is already under the 60s threshold, so the engine
	// announces itself and immediately winds down without a single turn.
	src := content.NewScripted("never used")
	r := startEngine(t, fastConfig(), src, 30*time.Second, []string{"Is it art?"})

	events := collectUntil(t, r.lst, "shutdown", 1)
	require.Len(t, events, 2)
	assert.Equal(t, "init", events[0].Name)
	assert.Equal(t, "shutdown", events[1].Name)

	init := decode(t, events[0])
	assert.Equal(t, "Is it art?", init["topic"])
	assert.Equal(t, float64(1), init["topic_num"])
	assert.Equal(t, float64(30), init["max_up"])

	final := decode(t, events[1])
	assert.Equal(t, float64(0), final["total_msgs"])
	assert.Equal(t, float64(1), final["total_topics"])
	assert.Equal(t, 0, src.Calls())
}

func TestEngine_StreamedWordsReassembleExactly(t *testing.T) {
	src := content.NewScripted(
		"The tide does not ask permission to turn",
		"Tides are just physics wearing a costume",
	)
	r := startEngine(t, fastConfig(), src, time.Hour, []string{"On tides"})

	events := collectUntil(t, r.lst, "msgdone", 2)
	r.cancel()

	var words []string
	inMessage := false
	checked := 0
	for _, ev := range events {
		switch ev.Name {
		case "msgstart":
			inMessage = true
			words = words[:0]
		case "word":
			require.True(t, inMessage, "word event outside a message")
			w := decode(t, ev)
			words = append(words, w["w"].(string))
		case "msgdone":
			done := decode(t, ev)
			assert.Equal(t, done["text"], strings.Join(words, " "))
			inMessage = false
			checked++
		}
	}
	assert.Equal(t, 2, checked)
}

func TestEngine_WordEventsCarryPosition(t *testing.T) {
	src := content.NewScripted("one two three")
	r := startEngine(t, fastConfig(), src, time.Hour, []string{"Counting"})

	events := collectUntil(t, r.lst, "msgdone", 1)
	r.cancel()

	wordEvents := filterEvents(events, "word")
	require.Len(t, wordEvents, 3)
	for i, ev := range wordEvents {
		w := decode(t, ev)
		assert.Equal(t, float64(i), w["i"])
		assert.Equal(t, float64(3), w["of"])
	}
}

func TestEngine_ScheduledTurnsAlternatePersonas(t *testing.T) {
	src := content.NewScripted("a reply")
	cfg := fastConfig()
	cfg.MinTurnsPerTopic = 10
	cfg.MaxTurnsPerTopic = 10
	r := startEngine(t, cfg, src, time.Hour, []string{"Alternation"})

	events := collectUntil(t, r.lst, "msgdone", 4)
	r.cancel()

	var speakers []string
	for _, ev := range filterEvents(events, "msgstart") {
		speakers = append(speakers, decode(t, ev)["speaker"].(string))
	}
	require.Len(t, speakers, 4)
	assert.Equal(t, []string{"Aria", "Brick", "Aria", "Brick"}, speakers)
}

func TestEngine_TypingPrecedesEveryMessage(t *testing.T) {
	src := content.NewScripted("short reply")
	r := startEngine(t, fastConfig(), src, time.Hour, []string{"Typing"})

	events := collectUntil(t, r.lst, "msgdone", 2)
	r.cancel()

	expectTyping := true
	for _, ev := range events {
		switch ev.Name {
		case "typing":
			assert.True(t, expectTyping, "typing without a finished message in between")
			expectTyping = false
		case "msgdone":
			expectTyping = true
		}
	}
}

func TestEngine_RotatesAfterTopicBudget(t *testing.T) {
	src := content.NewScripted("a reply")
	cfg := fastConfig()
	cfg.MinTurnsPerTopic = 2
	cfg.MaxTurnsPerTopic = 2
	r := startEngine(t, cfg, src, time.Hour, []string{"First", "Second", "Third"})

	events := collectUntil(t, r.lst, "newtopic", 1)
	r.cancel()

	// Exactly the budgeted number of utterances before the rotation.
	assert.Len(t, filterEvents(events, "msgdone"), 2)

	nt := decode(t, events[len(events)-1])
	assert.Equal(t, float64(2), nt["number"])
	assert.NotEmpty(t, nt["text"])
}

func TestEngine_WaitingFollowsEachScheduledTurn(t *testing.T) {
	src := content.NewScripted("a reply")
	r := startEngine(t, fastConfig(), src, time.Hour, []string{"Waiting"})

	events := collectUntil(t, r.lst, "waiting", 1)
	r.cancel()

	w := decode(t, events[len(events)-1])
	// After Aria's first turn the next scheduled speaker is Brick.
	assert.Equal(t, "Brick", w["name"])
	assert.Contains(t, w, "timeleft")
	assert.Contains(t, w, "gap")
}

func TestEngine_HumanBurstGetsOneResponseFromOtherPersona(t *testing.T) {
	src := content.NewScripted("opening volley", "hello human")
	cfg := fastConfig()
	// One scheduled turn, then nothing: the only way a second message
	// appears is the human path.
	cfg.AutoGap = time.Hour
	cfg.HumanCooldown = time.Hour
	cfg.MinTurnsPerTopic = 10
	cfg.MaxTurnsPerTopic = 10
	// Wide settle window so both burst messages land before the drain.
	cfg.SettleMin = 100 * time.Millisecond
	cfg.SettleMax = 150 * time.Millisecond
	r := startEngine(t, cfg, src, time.Hour, []string{"Humans"})

	first := collectUntil(t, r.lst, "msgdone", 1)
	assert.Equal(t, "Aria", decode(t, filterEvents(first, "msgstart")[0])["speaker"])

	user, _, err := r.state.Join("casey")
	require.NoError(t, err)

	// Two messages in one settle window coalesce into a single response.
	m1, err := r.state.UserMessage(user.ID, "first thought")
	require.NoError(t, err)
	m2, err := r.state.UserMessage(user.ID, "actually, scratch that")
	require.NoError(t, err)
	require.True(t, r.queue.Enqueue(m1))
	require.True(t, r.queue.Enqueue(m2))

	second := collectUntil(t, r.lst, "msgdone", 1)
	r.cancel()

	// Aria spoke last, so Brick answers.
	assert.Equal(t, "Brick", decode(t, filterEvents(second, "msgstart")[0])["speaker"])
	assert.Contains(t, src.LastRequest().Instruction, "actually, scratch that")
	assert.Equal(t, 2, src.Calls())

	// No further responses pending for the drained burst.
	assert.Equal(t, 0, r.queue.Len())
}

func TestEngine_FailedTurnRetriesSameSpeaker(t *testing.T) {
	src := content.NewScripted("eventually fine")
	src.FailAt = map[int]error{0: errors.New("model unavailable")}
	r := startEngine(t, fastConfig(), src, time.Hour, []string{"Failure"})

	events := collectUntil(t, r.lst, "msgdone", 1)
	r.cancel()

	// The failed attempt produced no message and did not advance the
	// alternation; the retry comes from the same persona.
	assert.Equal(t, "Aria", decode(t, filterEvents(events, "msgstart")[0])["speaker"])
	assert.Equal(t, "eventually fine", decode(t, filterEvents(events, "msgdone")[0])["text"])
	assert.GreaterOrEqual(t, src.Calls(), 2)
	assert.Equal(t, 1, r.state.CountKind(session.KindAI))
}

func TestEngine_ShutdownSummaryCountsActivity(t *testing.T) {
	src := content.NewScripted("a reply")
	cfg := fastConfig()
	r := startEngine(t, cfg, src, time.Hour, []string{"Summary"})

	collectUntil(t, r.lst, "msgdone", 2)
	r.cancel()

	events := collectUntil(t, r.lst, "shutdown", 1)
	final := decode(t, events[len(events)-1])
	assert.GreaterOrEqual(t, final["total_msgs"].(float64), float64(2))
	assert.Equal(t, float64(1), final["total_topics"])

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not exit after shutdown event")
	}
}

func TestFromSessionDefaults(t *testing.T) {
	sess := config.Default().Session
	cfg := FromSession(sess)

	assert.Equal(t, sess.AutoGap, cfg.AutoGap)
	assert.Equal(t, sess.HumanCooldown, cfg.HumanCooldown)
	assert.Equal(t, 60*time.Second, cfg.ShutdownThreshold)
	assert.Equal(t, 18*time.Second, cfg.StreamBudget)
	assert.Equal(t, 500*time.Millisecond, cfg.PollTimeout)
}
