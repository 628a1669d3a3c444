package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/classreg/internal/model"
)

func TestIconFallsBackToBeaker(t *testing.T) {
	assert.Contains(t, string(Icon(model.IconMusicNote)), "icon-MusicNoteIcon")
	assert.Contains(t, string(Icon("RocketIcon")), "icon-BeakerIcon")
	assert.Contains(t, string(Icon("")), "icon-BeakerIcon")
}

func TestEveryIconHasPath(t *testing.T) {
	for _, icon := range model.Icons {
		assert.NotEmpty(t, iconPaths[icon], icon)
	}
}

func TestMarkdown(t *testing.T) {
	out := string(Markdown("Hand-building with **clay**."))
	assert.Contains(t, out, "<strong>clay</strong>")
}

func TestMarkdownEscapesRawHTML(t *testing.T) {
	out := string(Markdown(`<script>alert(1)</script>`))
	assert.NotContains(t, out, "<script>")
}
