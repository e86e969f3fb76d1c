package generate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReplyJSON(t *testing.T) {
	res := parseReply(`{"message": "added a paddle", "code": "<html>pong</html>"}`)
	require.Equal(t, "added a paddle", res.Content)
	require.Equal(t, "<html>pong</html>", res.GameCode)
}

func TestParseReplyJSONWithoutCode(t *testing.T) {
	res := parseReply(`{"message": "the ball speed is 5"}`)
	require.Equal(t, "the ball speed is 5", res.Content)
	require.Empty(t, res.GameCode)
}

func TestParseReplyFencedJSON(t *testing.T) {
	res := parseReply("```json\n{\"message\": \"done\", \"code\": \"<html>v1</html>\"}\n```")
	require.Equal(t, "done", res.Content)
	require.Equal(t, "<html>v1</html>", res.GameCode)
}

func TestParseReplyFallsBackToCodeFence(t *testing.T) {
	raw := "Here you go:\n```html\n<html>pong</html>\n```\nEnjoy!"
	res := parseReply(raw)
	require.Equal(t, "<html>pong</html>", res.GameCode)
	require.Contains(t, res.Content, "Here you go:")
	require.NotContains(t, res.Content, "<html>")
}

func TestParseReplyPlainText(t *testing.T) {
	res := parseReply("I can't make that game.")
	require.Equal(t, "I can't make that game.", res.Content)
	require.Empty(t, res.GameCode)
}
