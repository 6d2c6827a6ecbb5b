// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/garcessebastian/camila-tui/internal/model"
	"github.com/garcessebastian/camila-tui/internal/util"
)

// =============================================================================
// STAGED REVEAL
// =============================================================================

// revealState tracks one reply being uncovered word by word.
type revealState struct {
	msg     *model.Message
	words   []string
	visible int
}

// startRevealLocked begins revealing msg. Caller holds e.mu.
func (e *Engine) startRevealLocked(msg *model.Message) {
	words := util.Words(msg.Content)
	if len(words) == 0 {
		msg.Revealing = false
		e.reveal = nil
		return
	}
	msg.Revealing = true
	e.reveal = &revealState{msg: msg, words: words}
}

// finishRevealLocked completes any running reveal instantly. It is safe
// to call with none running; completion happens exactly once per reply.
func (e *Engine) finishRevealLocked() {
	if e.reveal == nil {
		return
	}
	e.reveal.msg.Revealing = false
	e.reveal = nil
}

// RevealActive reports whether a reply is still being uncovered. The UI
// keeps its tick loop alive while this is true.
func (e *Engine) RevealActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reveal != nil
}

// AdvanceReveal uncovers the next batch of words and returns the
// currently visible text. done turns true on the step that finishes the
// reply, and stays true (with the full text) on any further call.
func (e *Engine) AdvanceReveal() (visible string, done bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reveal == nil {
		return "", true
	}

	e.reveal.visible += e.cfg.RevealWords
	if e.reveal.visible >= len(e.reveal.words) {
		text := e.reveal.msg.Content
		e.finishRevealLocked()
		return text, true
	}
	return util.JoinWords(e.reveal.words, e.reveal.visible), false
}

// SkipReveal finishes the running reveal immediately, showing the full
// reply. Used when the user presses a key to fast-forward or switches
// conversations.
func (e *Engine) SkipReveal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.finishRevealLocked()
}

// VisibleContent returns what the UI should render for a message right
// now: the partial prefix while it is revealing, the full text otherwise.
func (e *Engine) VisibleContent(msg *model.Message) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.reveal != nil && e.reveal.msg.ID == msg.ID {
		return util.JoinWords(e.reveal.words, e.reveal.visible)
	}
	return msg.Content
}
