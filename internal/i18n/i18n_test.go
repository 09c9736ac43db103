package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	b, err := Load("ar")
	require.NoError(t, err)

	en := b.For("en")
	assert.Equal(t, "en", en.Lang())
	assert.Equal(t, "Falcons: +400", en.T("score_award", "Falcons", 400))
	assert.Equal(t, "Time is up!", en.T("time_up"))
	assert.Equal(t, "missing_key", en.T("missing_key"))

	ar := b.For("ar")
	assert.Equal(t, "انتهت اللعبة", ar.T("game_over"))

	assert.Equal(t, "ar", b.For("fr").Lang())
}

func TestMatch(t *testing.T) {
	b, err := Load("ar")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", "ar"},
		{"en-US,en;q=0.9", "en"},
		{"ar-SA", "ar"},
		{"de-DE", "ar"},
		{"en", "en"},
		{";;;", "ar"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Match(tt.in))
		})
	}
}

func TestLoadUnknownFallback(t *testing.T) {
	_, err := Load("xx")
	assert.Error(t, err)
}
