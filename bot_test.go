package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b8394edf/calculator/arith"
	"github.com/b8394edf/calculator/engine"
	"github.com/b8394edf/calculator/keypad"
)

func pressPayloads(t *testing.T, s engine.State, payloads ...string) engine.State {
	t.Helper()

	for _, p := range payloads {
		next, err := advance(s, p)
		require.NoError(t, err, "payload %q", p)
		s = next
	}
	return s
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	s := pressPayloads(t, engine.New(), "5", "add", "3", "equals")
	require.Equal(t, "8", s.Display)

	s = pressPayloads(t, s, "clear")
	require.Equal(t, "0", s.Display)
}

func TestAdvanceUnknownPayload(t *testing.T) {
	t.Parallel()

	s := engine.New()
	next, err := advance(s, "modulo")
	require.ErrorIs(t, err, ErrUnknownButton)
	require.Equal(t, s, next)
}

func TestAdvanceDomainFault(t *testing.T) {
	t.Parallel()

	s := pressPayloads(t, engine.New(), "5", "divide", "0")
	next, err := advance(s, "equals")
	require.ErrorIs(t, err, arith.ErrDomain)
	require.True(t, next.Faulted())

	// Only clear revives the session.
	same, err := advance(next, "7")
	require.NoError(t, err)
	require.Equal(t, next, same)

	revived := pressPayloads(t, next, "clear")
	require.Equal(t, "0", revived.Display)
}

func TestViewChanged(t *testing.T) {
	t.Parallel()

	s := engine.New()

	// A zero on a fresh display flips only the entry flag; the message
	// stays as it was.
	same := pressPayloads(t, s, "0")
	require.NotEqual(t, s, same)
	require.False(t, viewChanged(s, same))

	require.True(t, viewChanged(s, pressPayloads(t, s, "7")))
	require.True(t, viewChanged(s, pressPayloads(t, s, "add")))
	require.True(t, viewChanged(s, pressPayloads(t, s, "mode")))
	require.True(t, viewChanged(s, pressPayloads(t, s, "trigUnit")))
}

func TestKeyboardForMirrorsLayout(t *testing.T) {
	t.Parallel()

	state := engine.New()
	markup := keyboardFor(state)
	layout := keypad.Layout(state)
	require.Len(t, markup.InlineKeyboard, len(layout))

	for i, row := range layout {
		require.Len(t, markup.InlineKeyboard[i], len(row))
		for j, button := range row {
			rendered := markup.InlineKeyboard[i][j]
			require.Equal(t, button.Label, rendered.Text)
			require.NotNil(t, rendered.CallbackData)
			require.Equal(t, button.Key.ID, *rendered.CallbackData)

			_, ok := keypad.Lookup(*rendered.CallbackData)
			require.True(t, ok, "payload %q", *rendered.CallbackData)
		}
	}
}

func TestKeyboardForHighlightsArmedOperator(t *testing.T) {
	t.Parallel()

	s := pressPayloads(t, engine.New(), "5", "multiply")

	var texts []string
	for _, row := range keyboardFor(s).InlineKeyboard {
		for _, b := range row {
			texts = append(texts, b.Text)
		}
	}
	require.Contains(t, texts, "[×]")
	require.NotContains(t, texts, "×")
}

func TestKeyboardForTracksMode(t *testing.T) {
	t.Parallel()

	scientific := keyboardFor(engine.New())

	basic := keyboardFor(pressPayloads(t, engine.New(), "mode"))
	require.Less(t, len(basic.InlineKeyboard), len(scientific.InlineKeyboard))
}

func TestSessionKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "10_20", sessionKey(10, 20))
	require.Equal(t, "-10_20", sessionKey(-10, 20))
	require.NotEqual(t, sessionKey(1, 2), sessionKey(2, 1))
}
