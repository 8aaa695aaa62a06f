package dialog

import (
	"strings"

	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// IntentKind classifies one inbound message before any step sees it.
type IntentKind int

const (
	IntentText IntentKind = iota
	IntentBack
	IntentCancel
	IntentYes
	IntentNo
	IntentKeep
	IntentNone
)

func (k IntentKind) String() string {
	switch k {
	case IntentBack:
		return "back"
	case IntentCancel:
		return "cancel"
	case IntentYes:
		return "yes"
	case IntentNo:
		return "no"
	case IntentKeep:
		return "keep"
	case IntentNone:
		return "none"
	default:
		return "text"
	}
}

// Intent is a normalized inbound message. Text always carries the trimmed
// typed text (empty for button actions) so free-text steps can still use it.
type Intent struct {
	Kind IntentKind
	Text string
}

// Normalize folds the two input surfaces (typed words and inline actions)
// into one intent.
func Normalize(in domain.Inbound) Intent {
	switch in.Action {
	case render.ActionConfirm:
		return Intent{Kind: IntentYes}
	case render.ActionCancel:
		return Intent{Kind: IntentNo}
	}

	text := strings.TrimSpace(in.Text)
	lower := strings.ToLower(text)

	kind := IntentText
	switch {
	case text == render.CaptionBack || lower == render.TokenBack:
		kind = IntentBack
	case text == render.CaptionCancel || lower == render.TokenCancel:
		kind = IntentCancel
	case text == render.CaptionYes || lower == render.TokenYes:
		kind = IntentYes
	case text == render.CaptionNo || lower == render.TokenNo:
		kind = IntentNo
	case lower == render.TokenKeep:
		kind = IntentKeep
	case lower == render.TokenNone:
		kind = IntentNone
	}

	return Intent{Kind: kind, Text: text}
}
