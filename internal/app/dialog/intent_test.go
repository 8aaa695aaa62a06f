package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Inbound
		kind dialog.IntentKind
		text string
	}{
		{"plain text", domain.Inbound{Text: "  CS-101 "}, dialog.IntentText, "CS-101"},
		{"back token", domain.Inbound{Text: "BACK"}, dialog.IntentBack, "BACK"},
		{"back caption", domain.Inbound{Text: render.CaptionBack}, dialog.IntentBack, render.CaptionBack},
		{"cancel caption", domain.Inbound{Text: render.CaptionCancel}, dialog.IntentCancel, render.CaptionCancel},
		{"yes word", domain.Inbound{Text: "Yes"}, dialog.IntentYes, "Yes"},
		{"no caption", domain.Inbound{Text: render.CaptionNo}, dialog.IntentNo, render.CaptionNo},
		{"keep", domain.Inbound{Text: "keep"}, dialog.IntentKeep, "keep"},
		{"none", domain.Inbound{Text: "None"}, dialog.IntentNone, "None"},
		{"confirm action", domain.Inbound{Action: render.ActionConfirm}, dialog.IntentYes, ""},
		{"cancel action is a no", domain.Inbound{Action: render.ActionCancel}, dialog.IntentNo, ""},
		{"unknown action falls back to text", domain.Inbound{Action: "other", Text: "hi"}, dialog.IntentText, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dialog.Normalize(tt.in)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.text, got.Text)
		})
	}
}
