package command

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/deskpilot/internal/device"
)

func TestParseUnrecognized(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"UNKNOWN",
		"  UNKNOWN  ",
		"FLY to the moon",
		"VOLUME",
		"CREATE",
		"CREATE FILE",
		"CREATE DIRECTORY stuff",
		"DELETE folder",
		"NAVIGATE",
		"NAVIGATE home",
		"RENAME a.txt b.txt",
		"MOVE FROM a.txt",
	} {
		cmd, err := Parse(line)
		assert.NoError(t, err, line)
		assert.Nil(t, cmd, line)
	}
}

func TestParseFileOp(t *testing.T) {
	cmd, err := Parse("create file My   Documents/report.txt")
	require.NoError(t, err)
	assert.Equal(t, FileOp{Operation: OpCreate, Object: ObjectFile, Path: "My Documents/report.txt"}, cmd)

	cmd, err = Parse("DELETE FOLDER Projects")
	require.NoError(t, err)
	assert.Equal(t, FileOp{Operation: OpDelete, Object: ObjectFolder, Path: "Projects"}, cmd)
}

func TestParseTransfer(t *testing.T) {
	t.Run("operand casing survives", func(t *testing.T) {
		cmd, err := Parse("RENAME FILE from Old Notes.txt to New Notes.TXT")
		require.NoError(t, err)
		assert.Equal(t, Transfer{
			Operation:    OpRename,
			Source:       "Old Notes.txt",
			Dest:         "New Notes.TXT",
			MentionsFile: true,
		}, cmd)
	})

	t.Run("file wording needs the exact token", func(t *testing.T) {
		cmd, err := Parse("MOVE file FROM a.txt TO b/")
		require.NoError(t, err)
		tr := cmd.(Transfer)
		assert.False(t, tr.MentionsFile)
		assert.Equal(t, "Folder", tr.Noun())

		cmd, err = Parse("MOVE FROM FILE TO dir")
		require.NoError(t, err)
		assert.Equal(t, "File", cmd.(Transfer).Noun())
	})

	t.Run("reversed markers leave no source", func(t *testing.T) {
		cmd, err := Parse("MOVE TO x FROM y")
		require.NoError(t, err)
		assert.Equal(t, "", cmd.(Transfer).Source)
	})

	t.Run("non-ascii operands keep byte offsets", func(t *testing.T) {
		cmd, err := Parse("RENAME FROM straße.txt TO ǅemal.txt")
		require.NoError(t, err)
		tr := cmd.(Transfer)
		assert.Equal(t, "straße.txt", tr.Source)
		assert.Equal(t, "ǅemal.txt", tr.Dest)
	})
}

func TestParseNavigate(t *testing.T) {
	cmd, err := Parse("navigate to D:\\Work Files")
	require.NoError(t, err)
	assert.Equal(t, Navigate{Path: "D:\\Work Files"}, cmd)
}

func TestParseDevice(t *testing.T) {
	cmd, err := Parse("volume increase")
	require.NoError(t, err)
	assert.Equal(t, Device{Device: OpVolume, Action: device.ActionIncrease}, cmd)

	cmd, err = Parse("BRIGHTNESS SET 70")
	require.NoError(t, err)
	d := cmd.(Device)
	assert.Equal(t, OpBrightness, d.Op())
	require.NotNil(t, d.Level)
	assert.Equal(t, 70, *d.Level)

	_, err = Parse("VOLUME SET loud")
	var levelErr *LevelError
	require.ErrorAs(t, err, &levelErr)
	assert.Equal(t, "loud", levelErr.Token)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}
