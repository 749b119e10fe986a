package tts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeakable(t *testing.T) {
	assert.Equal(t, "Volume set to 50%", Speakable("🔊 Volume set to 50%"))
	assert.Equal(t, "Error: boom", Speakable("⚠ Error: boom"))
	assert.Equal(t, "File 'a.txt' created successfully.", Speakable("✅ File 'a.txt' created successfully."))
	assert.Equal(t, "", Speakable("⚠️ "))
}
